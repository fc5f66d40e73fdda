package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

const threadColumns = `id, COALESCE(slug, ''), forum_slug, author, title, message, votes, created`

func scanThread(row pgx.Row) (Thread, error) {
	var t Thread
	err := row.Scan(&t.ID, &t.Slug, &t.Forum, &t.Author, &t.Title, &t.Message, &t.Votes, &t.Created)
	return t, err
}

func selectThreadByRef(ctx context.Context, q querier, ref string) (Thread, error) {
	id, slug := ParseSlugOrID(ref)
	var row pgx.Row
	if slug == "" {
		row = q.QueryRow(ctx, `SELECT `+threadColumns+` FROM threads WHERE id = $1`, id)
	} else {
		row = q.QueryRow(ctx, `SELECT `+threadColumns+` FROM threads WHERE LOWER(slug) = LOWER($1)`, slug)
	}
	t, err := scanThread(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Thread{}, ErrNotFound
	}
	return t, err
}

func (s *PostgresStore) CreateThread(ctx context.Context, forumSlug string, t Thread) (Thread, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Thread{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var canonicalForum string
	err = tx.QueryRow(ctx,
		`SELECT slug FROM forums WHERE LOWER(slug) = LOWER($1)`, forumSlug).Scan(&canonicalForum)
	if errors.Is(err, pgx.ErrNoRows) {
		return Thread{}, ErrNotFound
	}
	if err != nil {
		return Thread{}, err
	}

	author, err := resolveNickname(ctx, tx, t.Author)
	if err != nil {
		return Thread{}, err
	}

	var created *time.Time
	if !t.Created.IsZero() {
		created = &t.Created
	}
	inserted, err := scanThread(tx.QueryRow(ctx,
		`INSERT INTO threads (slug, forum_slug, author, title, message, created)
		 VALUES (NULLIF($1, ''), $2, $3, $4, $5, COALESCE($6, now()))
		 RETURNING `+threadColumns,
		t.Slug, canonicalForum, author, t.Title, t.Message, created))
	if err != nil {
		if isUniqueViolation(err) {
			// Duplicate thread slug: surface the existing thread instead of
			// the raw constraint error.
			existing, err := selectThreadByRef(ctx, s.pool, t.Slug)
			if err != nil {
				return Thread{}, err
			}
			return existing, ErrConflict
		}
		return Thread{}, err
	}

	// The insert and the counter move commit together or not at all.
	if _, err := tx.Exec(ctx,
		`UPDATE forums SET threads = threads + 1 WHERE slug = $1`, canonicalForum); err != nil {
		return Thread{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Thread{}, err
	}
	return inserted, nil
}

func (s *PostgresStore) GetThread(ctx context.Context, slugOrID string) (Thread, error) {
	return selectThreadByRef(ctx, s.pool, slugOrID)
}

func (s *PostgresStore) UpdateThread(ctx context.Context, slugOrID string, upd ThreadUpdate) (Thread, error) {
	id, slug := ParseSlugOrID(slugOrID)
	var row pgx.Row
	if slug == "" {
		row = s.pool.QueryRow(ctx,
			`UPDATE threads
			 SET title = COALESCE(NULLIF($2, ''), title),
			     message = COALESCE(NULLIF($3, ''), message)
			 WHERE id = $1 RETURNING `+threadColumns,
			id, upd.Title, upd.Message)
	} else {
		row = s.pool.QueryRow(ctx,
			`UPDATE threads
			 SET title = COALESCE(NULLIF($2, ''), title),
			     message = COALESCE(NULLIF($3, ''), message)
			 WHERE LOWER(slug) = LOWER($1) RETURNING `+threadColumns,
			slug, upd.Title, upd.Message)
	}
	t, err := scanThread(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Thread{}, ErrNotFound
	}
	return t, err
}

func (s *PostgresStore) Vote(ctx context.Context, slugOrID, nickname string, voice int) (Thread, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Thread{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	voter, err := resolveNickname(ctx, tx, nickname)
	if err != nil {
		return Thread{}, err
	}
	tid, err := resolveThreadID(ctx, tx, slugOrID)
	if err != nil {
		return Thread{}, err
	}

	var prev int
	err = tx.QueryRow(ctx,
		`SELECT voice FROM votes WHERE nickname = $1 AND thread_id = $2`,
		voter, tid).Scan(&prev)

	var delta int
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		delta = voice
		_, err = tx.Exec(ctx,
			`INSERT INTO votes (nickname, thread_id, voice) VALUES ($1, $2, $3)`,
			voter, tid, voice)
	case err != nil:
		return Thread{}, err
	case prev == voice:
		delta = 0
	default:
		// Flip: undo the old voice and apply the new one in one adjustment.
		delta = 2 * voice
		_, err = tx.Exec(ctx,
			`UPDATE votes SET voice = $1 WHERE nickname = $2 AND thread_id = $3`,
			voice, voter, tid)
	}
	if err != nil {
		return Thread{}, err
	}

	var t Thread
	if delta != 0 {
		t, err = scanThread(tx.QueryRow(ctx,
			`UPDATE threads SET votes = votes + $1 WHERE id = $2 RETURNING `+threadColumns,
			delta, tid))
	} else {
		t, err = scanThread(tx.QueryRow(ctx,
			`SELECT `+threadColumns+` FROM threads WHERE id = $1`, tid))
	}
	if err != nil {
		return Thread{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Thread{}, err
	}
	return t, nil
}
