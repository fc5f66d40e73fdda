package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

const postColumns = `id, COALESCE(parent_id, 0), author, message, is_edited, forum_slug, thread_id, created, path`

func scanPost(row pgx.Row) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Parent, &p.Author, &p.Message, &p.IsEdited,
		&p.Forum, &p.Thread, &p.Created, &p.Path)
	return p, err
}

func (s *PostgresStore) CreatePosts(ctx context.Context, threadSlugOrID string, drafts []PostDraft) ([]Post, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id, slug := ParseSlugOrID(threadSlugOrID)
	var row pgx.Row
	if slug == "" {
		row = tx.QueryRow(ctx, `SELECT id, forum_slug FROM threads WHERE id = $1`, id)
	} else {
		row = tx.QueryRow(ctx, `SELECT id, forum_slug FROM threads WHERE LOWER(slug) = LOWER($1)`, slug)
	}
	var (
		tid       int64
		forumSlug string
	)
	if err := row.Scan(&tid, &forumSlug); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(drafts) == 0 {
		return []Post{}, nil
	}

	authors, err := resolveAuthors(ctx, tx, drafts)
	if err != nil {
		return nil, err
	}
	parentPaths, err := resolveParents(ctx, tx, tid, drafts)
	if err != nil {
		return nil, err
	}

	// Ids come from the sequence up front so paths can be computed before
	// the rows exist: every path element must be a real identifier.
	ids, err := allocatePostIDs(ctx, tx, len(drafts))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	created := make([]Post, len(drafts))
	copyRows := make([][]any, len(drafts))
	for i, d := range drafts {
		p := Post{
			ID:      ids[i],
			Author:  authors[lower(d.Author)],
			Message: d.Message,
			Forum:   forumSlug,
			Thread:  tid,
			Created: now,
		}
		if d.Created != nil {
			p.Created = *d.Created
		}
		var parentID any
		if d.Parent != nil && *d.Parent != 0 {
			p.Parent = *d.Parent
			parentID = *d.Parent
		}
		p.Path = append(append([]int64{}, parentPaths[p.Parent]...), p.ID)

		copyRows[i] = []any{p.ID, p.Thread, p.Forum, p.Author, p.Message, false, parentID, p.Created, p.Path}
		created[i] = p
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"posts"},
		[]string{"id", "thread_id", "forum_slug", "author", "message", "is_edited", "parent_id", "created", "path"},
		pgx.CopyFromRows(copyRows))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// resolveAuthors maps every draft author to the stored nickname spelling.
// Any unknown author fails the whole batch with ErrNotFound.
func resolveAuthors(ctx context.Context, q querier, drafts []PostDraft) (map[string]string, error) {
	distinct := make([]string, 0, len(drafts))
	seen := make(map[string]struct{})
	for _, d := range drafts {
		l := lower(d.Author)
		if _, dup := seen[l]; !dup {
			seen[l] = struct{}{}
			distinct = append(distinct, l)
		}
	}

	rows, err := q.Query(ctx,
		`SELECT nickname FROM users WHERE LOWER(nickname) = ANY($1)`, distinct)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := make(map[string]string, len(distinct))
	for rows.Next() {
		var nickname string
		if err := rows.Scan(&nickname); err != nil {
			return nil, err
		}
		authors[lower(nickname)] = nickname
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(authors) != len(distinct) {
		return nil, ErrNotFound
	}
	return authors, nil
}

// resolveParents loads the paths of every declared parent. Parents must be
// pre-existing posts of the target thread; anything else fails the batch
// with ErrConflict before a single row is written.
func resolveParents(ctx context.Context, q querier, threadID int64, drafts []PostDraft) (map[int64][]int64, error) {
	distinct := make([]int64, 0, len(drafts))
	seen := make(map[int64]struct{})
	for _, d := range drafts {
		if d.Parent == nil || *d.Parent == 0 {
			continue
		}
		if _, dup := seen[*d.Parent]; !dup {
			seen[*d.Parent] = struct{}{}
			distinct = append(distinct, *d.Parent)
		}
	}

	paths := make(map[int64][]int64, len(distinct)+1)
	paths[0] = nil
	if len(distinct) == 0 {
		return paths, nil
	}

	rows, err := q.Query(ctx,
		`SELECT id, path FROM posts WHERE id = ANY($1) AND thread_id = $2`,
		distinct, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			path []int64
		)
		if err := rows.Scan(&id, &path); err != nil {
			return nil, err
		}
		paths[id] = path
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(paths) != len(distinct)+1 {
		return nil, ErrConflict
	}
	return paths, nil
}

func allocatePostIDs(ctx context.Context, q querier, n int) ([]int64, error) {
	rows, err := q.Query(ctx,
		`SELECT nextval(pg_get_serial_sequence('posts', 'id')) FROM generate_series(1, $1)`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0, n)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) ListPosts(ctx context.Context, threadSlugOrID string, p ListPostsParams) ([]Post, error) {
	tid, err := resolveThreadID(ctx, s.pool, threadSlugOrID)
	if err != nil {
		return nil, err
	}

	var (
		query string
		args  []any
	)
	switch p.Sort {
	case SortTree:
		if p.Since == 0 {
			query = `SELECT ` + postColumns + ` FROM posts WHERE thread_id = $1
				 ORDER BY path ` + ascDesc(p.Desc) + ` LIMIT $2`
			args = []any{tid, p.Limit}
		} else {
			op := ">"
			if p.Desc {
				op = "<"
			}
			query = `SELECT ` + postColumns + ` FROM posts
				 WHERE thread_id = $1 AND path ` + op + ` (SELECT path FROM posts WHERE id = $3)
				 ORDER BY path ` + ascDesc(p.Desc) + ` LIMIT $2`
			args = []any{tid, p.Limit, p.Since}
		}
	case SortParentTree:
		if p.Since == 0 {
			if p.Desc {
				query = `SELECT ` + postColumns + ` FROM posts
					 WHERE thread_id = $1 AND path[1] IN
					   (SELECT id FROM posts WHERE thread_id = $1 AND parent_id IS NULL
					    ORDER BY id DESC LIMIT $2)
					 ORDER BY path[1] DESC, path`
			} else {
				query = `SELECT ` + postColumns + ` FROM posts
					 WHERE thread_id = $1 AND path[1] IN
					   (SELECT id FROM posts WHERE thread_id = $1 AND parent_id IS NULL
					    ORDER BY id LIMIT $2)
					 ORDER BY path`
			}
			args = []any{tid, p.Limit}
		} else {
			if p.Desc {
				query = `SELECT ` + postColumns + ` FROM posts
					 WHERE thread_id = $1 AND path[1] IN
					   (SELECT id FROM posts WHERE thread_id = $1 AND parent_id IS NULL
					      AND id < (SELECT path[1] FROM posts WHERE id = $3)
					    ORDER BY id DESC LIMIT $2)
					 ORDER BY path[1] DESC, path`
			} else {
				query = `SELECT ` + postColumns + ` FROM posts
					 WHERE thread_id = $1 AND path[1] IN
					   (SELECT id FROM posts WHERE thread_id = $1 AND parent_id IS NULL
					      AND id > (SELECT path[1] FROM posts WHERE id = $3)
					    ORDER BY id LIMIT $2)
					 ORDER BY path`
			}
			args = []any{tid, p.Limit, p.Since}
		}
	default: // flat
		if p.Since == 0 {
			query = `SELECT ` + postColumns + ` FROM posts WHERE thread_id = $1
				 ORDER BY created ` + ascDesc(p.Desc) + `, id ` + ascDesc(p.Desc) + ` LIMIT $2`
			args = []any{tid, p.Limit}
		} else {
			// Once a cursor is in play the page boundary is id-only, so
			// timestamp ties cannot skip or repeat posts.
			op := ">"
			if p.Desc {
				op = "<"
			}
			query = `SELECT ` + postColumns + ` FROM posts
				 WHERE thread_id = $1 AND id ` + op + ` $3
				 ORDER BY created ` + ascDesc(p.Desc) + `, id ` + ascDesc(p.Desc) + ` LIMIT $2`
			args = []any{tid, p.Limit, p.Since}
		}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, post)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetPost(ctx context.Context, id int64, rel Related) (PostDetails, error) {
	post, err := scanPost(s.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return PostDetails{}, ErrNotFound
	}
	if err != nil {
		return PostDetails{}, err
	}
	details := PostDetails{Post: &post}

	if rel.User {
		author, err := s.GetUser(ctx, post.Author)
		if err != nil {
			return PostDetails{}, err
		}
		details.Author = &author
	}
	if rel.Thread {
		thread, err := selectThreadByRef(ctx, s.pool, formatID(post.Thread))
		if err != nil {
			return PostDetails{}, err
		}
		details.Thread = &thread
	}
	if rel.Forum {
		forum, err := s.GetForum(ctx, post.Forum)
		if err != nil {
			return PostDetails{}, err
		}
		details.Forum = &forum
	}
	return details, nil
}

func (s *PostgresStore) UpdatePost(ctx context.Context, id int64, message string) (Post, error) {
	if message == "" {
		// Explicit no-op: fetch without touching the edited flag.
		post, err := scanPost(s.pool.QueryRow(ctx,
			`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return post, err
	}

	post, err := scanPost(s.pool.QueryRow(ctx,
		`UPDATE posts
		 SET message = $1, is_edited = message <> $1
		 WHERE id = $2
		 RETURNING `+postColumns,
		message, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	return post, err
}
