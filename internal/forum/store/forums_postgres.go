package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// forumQuery reads a forum with its aggregated post count. The thread count
// is a stored counter; the post count is always computed on read.
const forumQuery = `
SELECT f.slug, f.title, f.owner, f.threads,
       (SELECT count(p.id)
        FROM posts p
        WHERE LOWER(p.forum_slug) = LOWER(f.slug)) AS posts
FROM forums f
WHERE LOWER(f.slug) = LOWER($1)`

func scanForum(row pgx.Row) (Forum, error) {
	var f Forum
	err := row.Scan(&f.Slug, &f.Title, &f.User, &f.Threads, &f.Posts)
	return f, err
}

func (s *PostgresStore) CreateForum(ctx context.Context, f Forum) (Forum, error) {
	creator, err := resolveNickname(ctx, s.pool, f.User)
	if err != nil {
		return Forum{}, err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO forums (slug, title, owner) VALUES ($1, $2, $3)`,
		f.Slug, f.Title, creator)
	if err == nil {
		f.User = creator
		f.Threads = 0
		f.Posts = 0
		return f, nil
	}
	if !isUniqueViolation(err) {
		return Forum{}, err
	}

	existing, err := scanForum(s.pool.QueryRow(ctx, forumQuery, f.Slug))
	if err != nil {
		return Forum{}, err
	}
	return existing, ErrConflict
}

func (s *PostgresStore) GetForum(ctx context.Context, slug string) (Forum, error) {
	f, err := scanForum(s.pool.QueryRow(ctx, forumQuery, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return Forum{}, ErrNotFound
	}
	return f, err
}

func (s *PostgresStore) ListForumThreads(ctx context.Context, slug string, p ForumThreadsParams) ([]Thread, error) {
	var (
		query string
		args  []any
	)
	if p.Since == nil {
		query = `SELECT ` + threadColumns + ` FROM threads
			 WHERE LOWER(forum_slug) = LOWER($1)
			 ORDER BY created ` + ascDesc(p.Desc) + `, id ` + ascDesc(p.Desc) + ` LIMIT $2`
		args = []any{slug, p.Limit}
	} else {
		op := ">="
		if p.Desc {
			op = "<="
		}
		query = `SELECT ` + threadColumns + ` FROM threads
			 WHERE LOWER(forum_slug) = LOWER($1) AND created ` + op + ` $3
			 ORDER BY created ` + ascDesc(p.Desc) + `, id ` + ascDesc(p.Desc) + ` LIMIT $2`
		args = []any{slug, p.Limit, *p.Since}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Thread{}
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		var existing string
		err := s.pool.QueryRow(ctx,
			`SELECT slug FROM forums WHERE LOWER(slug) = LOWER($1)`, slug).Scan(&existing)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func ascDesc(desc bool) string {
	if desc {
		return "DESC"
	}
	return "ASC"
}
