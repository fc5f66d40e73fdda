package store

import (
	"context"
	"strconv"
	"time"
)

// Thread is a discussion inside a forum. Votes is a stored tally moved only
// by Vote transitions, never recomputed by aggregation.
type Thread struct {
	ID      int64     `json:"id"`
	Slug    string    `json:"slug,omitempty"`
	Forum   string    `json:"forum"`
	Author  string    `json:"author"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Votes   int       `json:"votes"`
	Created time.Time `json:"created"`
}

// ThreadUpdate is a partial update; empty fields stay untouched.
type ThreadUpdate struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ParseSlugOrID splits the dual thread reference: an all-digits reference is
// a numeric id, anything else is a slug.
func ParseSlugOrID(ref string) (id int64, slug string) {
	if n, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return n, ""
	}
	return 0, ref
}

// ThreadStore defines the contract for thread persistence and voting.
type ThreadStore interface {
	// CreateThread inserts a thread and increments the forum's thread count
	// in the same transaction. A duplicate thread slug returns the existing
	// thread with ErrConflict; unknown forum or author is ErrNotFound.
	CreateThread(ctx context.Context, forumSlug string, t Thread) (Thread, error)
	GetThread(ctx context.Context, slugOrID string) (Thread, error)
	UpdateThread(ctx context.Context, slugOrID string, upd ThreadUpdate) (Thread, error)
	// Vote applies one voter's voice (+1/-1) to the thread tally:
	// first vote inserts and moves the tally by voice, a repeat of the same
	// voice is a no-op, a flip moves the tally by 2*voice. The current
	// thread snapshot is returned in every case.
	Vote(ctx context.Context, slugOrID, nickname string, voice int) (Thread, error)
}
