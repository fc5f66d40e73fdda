package store

import (
	"context"
	"strconv"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (s *PostgresStore) Status(ctx context.Context) (Status, error) {
	var st Status
	err := s.pool.QueryRow(ctx, `
		SELECT (SELECT count(*) FROM users),
		       (SELECT count(*) FROM forums),
		       (SELECT count(*) FROM threads),
		       (SELECT count(*) FROM posts)`).
		Scan(&st.User, &st.Forum, &st.Thread, &st.Post)
	return st, err
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`TRUNCATE users, forums, threads, posts, votes RESTART IDENTITY CASCADE`)
	return err
}
