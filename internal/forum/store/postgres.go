package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists the forum in Postgres. One store serves every
// entity because the write paths cross entity boundaries (thread creation
// moves the forum counter, votes move the thread tally).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by Postgres.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so lookups can run
// inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// resolveNickname returns the stored spelling of a nickname, or ErrNotFound.
func resolveNickname(ctx context.Context, q querier, nickname string) (string, error) {
	var canonical string
	err := q.QueryRow(ctx,
		`SELECT nickname FROM users WHERE LOWER(nickname) = LOWER($1)`, nickname).Scan(&canonical)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return canonical, err
}

// resolveThreadID maps a slug-or-id reference to the thread id, or ErrNotFound.
func resolveThreadID(ctx context.Context, q querier, ref string) (int64, error) {
	id, slug := ParseSlugOrID(ref)
	var row pgx.Row
	if slug == "" {
		row = q.QueryRow(ctx, `SELECT id FROM threads WHERE id = $1`, id)
	} else {
		row = q.QueryRow(ctx, `SELECT id FROM threads WHERE LOWER(slug) = LOWER($1)`, slug)
	}
	var tid int64
	err := row.Scan(&tid)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return tid, err
}
