package store

import (
	"context"
	"time"
)

// Sort modes for listing a thread's posts.
const (
	SortFlat       = "flat"
	SortTree       = "tree"
	SortParentTree = "parent_tree"
)

// Post is a single message in a thread's reply tree. Path is the materialized
// path: ancestor ids ending with the post's own id, assigned once at insert
// and never mutated. Parent is 0 for thread roots.
type Post struct {
	ID       int64     `json:"id"`
	Parent   int64     `json:"parent"`
	Author   string    `json:"author"`
	Message  string    `json:"message"`
	IsEdited bool      `json:"isEdited"`
	Forum    string    `json:"forum"`
	Thread   int64     `json:"thread"`
	Created  time.Time `json:"created"`
	Path     []int64   `json:"-"`
}

// PostDraft is one entry of a creation batch. Parent is nil for a root post;
// a nil Created defaults to the batch's shared insertion time so the batch's
// relative flat order stays reproducible.
type PostDraft struct {
	Author  string     `json:"author"`
	Message string     `json:"message"`
	Parent  *int64     `json:"parent"`
	Created *time.Time `json:"created"`
}

// ListPostsParams selects a page of a thread's posts. Since is a post id
// cursor (0 = none); its meaning depends on Sort: flat compares ids, tree
// compares the cursor post's path, parent_tree compares its root ancestor.
type ListPostsParams struct {
	Limit int
	Since int64
	Sort  string
	Desc  bool
}

// Related selects which entities to embed alongside a post.
type Related struct {
	User   bool
	Thread bool
	Forum  bool
}

// PostDetails is a post with its optionally embedded relations.
type PostDetails struct {
	Post   *Post   `json:"post"`
	Author *User   `json:"author,omitempty"`
	Thread *Thread `json:"thread,omitempty"`
	Forum  *Forum  `json:"forum,omitempty"`
}

// PostStore defines the contract for the hierarchical post engine.
type PostStore interface {
	// CreatePosts inserts the whole batch atomically. Ids are allocated at
	// insert time and paths derived from them; all drafts without an explicit
	// created time share one timestamp. An empty batch is a successful no-op.
	// Unknown thread or author is ErrNotFound; a parent that does not already
	// exist in the target thread is ErrConflict and nothing is written.
	CreatePosts(ctx context.Context, threadSlugOrID string, drafts []PostDraft) ([]Post, error)
	// ListPosts answers one page in the requested traversal order,
	// distinguishing an empty page (nil error) from a missing thread
	// (ErrNotFound).
	ListPosts(ctx context.Context, threadSlugOrID string, p ListPostsParams) ([]Post, error)
	GetPost(ctx context.Context, id int64, rel Related) (PostDetails, error)
	// UpdatePost rewrites the message; an empty message is a plain read.
	// IsEdited is recomputed as "new differs from immediately-prior value".
	UpdatePost(ctx context.Context, id int64, message string) (Post, error)
}
