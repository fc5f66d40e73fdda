package store

import (
	"context"
	"time"
)

// Forum aggregates threads. Threads is a stored counter maintained at thread
// creation; Posts is computed by aggregation on every read.
type Forum struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	User    string `json:"user"`
	Threads int    `json:"threads"`
	Posts   int64  `json:"posts"`
}

// ForumThreadsParams selects a page of a forum's threads ordered by creation
// time. Since is inclusive on the created timestamp.
type ForumThreadsParams struct {
	Limit int
	Since *time.Time
	Desc  bool
}

// ForumStore defines the contract for forum persistence.
type ForumStore interface {
	// CreateForum registers a forum. A duplicate slug returns the existing
	// forum together with ErrConflict; an unknown creator is ErrNotFound.
	CreateForum(ctx context.Context, f Forum) (Forum, error)
	GetForum(ctx context.Context, slug string) (Forum, error)
	ListForumThreads(ctx context.Context, slug string, p ForumThreadsParams) ([]Thread, error)
}
