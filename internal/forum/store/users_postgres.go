package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const userColumns = `nickname, fullname, about, email`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.Nickname, &u.Fullname, &u.About, &u.Email)
	return u, err
}

func (s *PostgresStore) CreateUser(ctx context.Context, u User) ([]User, error) {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (nickname, fullname, about, email) VALUES ($1, $2, $3, $4)`,
		u.Nickname, u.Fullname, u.About, u.Email)
	if err == nil {
		return []User{u}, nil
	}
	if !isUniqueViolation(err) {
		return nil, err
	}

	// Duplicate nickname or email: hand back every clashing row instead of
	// the raw constraint error.
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE LOWER(nickname) = LOWER($1) OR LOWER(email) = LOWER($2)
		 ORDER BY nickname`,
		u.Nickname, u.Email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clashing []User
	for rows.Next() {
		cu, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		clashing = append(clashing, cu)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return clashing, ErrConflict
}

func (s *PostgresStore) GetUser(ctx context.Context, nickname string) (User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(nickname) = LOWER($1)`, nickname))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *PostgresStore) UpdateUser(ctx context.Context, nickname string, upd UserUpdate) (User, error) {
	if upd.Fullname == nil && upd.About == nil && upd.Email == nil {
		return s.GetUser(ctx, nickname)
	}

	u, err := scanUser(s.pool.QueryRow(ctx,
		`UPDATE users
		 SET fullname = COALESCE($2, fullname),
		     about    = COALESCE($3, about),
		     email    = COALESCE($4, email)
		 WHERE LOWER(nickname) = LOWER($1)
		 RETURNING `+userColumns,
		nickname, upd.Fullname, upd.About, upd.Email))
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, pgx.ErrNoRows):
		return User{}, ErrNotFound
	case isUniqueViolation(err):
		return User{}, ErrConflict
	default:
		return User{}, err
	}
}

func (s *PostgresStore) ListForumUsers(ctx context.Context, forumSlug string, p ForumUsersParams) ([]User, error) {
	var (
		query string
		args  []any
	)
	op := ">"
	order := `ORDER BY u.nickname COLLATE "C"`
	if p.Desc {
		op = "<"
		order += " DESC"
	}

	contributes := `
		(EXISTS (SELECT 1 FROM threads t
		         WHERE LOWER(t.forum_slug) = LOWER($1) AND t.author = u.nickname)
		 OR EXISTS (SELECT 1 FROM posts po
		            WHERE LOWER(po.forum_slug) = LOWER($1) AND po.author = u.nickname))`

	if p.Since == "" {
		query = `SELECT u.nickname, u.fullname, u.about, u.email FROM users u
			 WHERE ` + contributes + ` ` + order + ` LIMIT $2`
		args = []any{forumSlug, p.Limit}
	} else {
		query = `SELECT u.nickname, u.fullname, u.about, u.email FROM users u
			 WHERE ` + contributes + ` AND u.nickname COLLATE "C" ` + op + ` $3 ` + order + ` LIMIT $2`
		args = []any{forumSlug, p.Limit, p.Since}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		// Zero rows is ambiguous: empty page or missing forum.
		var slug string
		err := s.pool.QueryRow(ctx,
			`SELECT slug FROM forums WHERE LOWER(slug) = LOWER($1)`, forumSlug).Scan(&slug)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
