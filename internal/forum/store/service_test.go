package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_StatusAndClear(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	st, err := s.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st != (Status{}) {
		t.Fatalf("expected zero status, got %+v", st)
	}

	seedForum(t, s)
	makePosts(t, s, "rum-thread", 2)

	st, err = s.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	want := Status{User: 1, Forum: 1, Thread: 1, Post: 2}
	if st != want {
		t.Fatalf("expected %+v, got %+v", want, st)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	st, _ = s.Status(ctx)
	if st != (Status{}) {
		t.Fatalf("expected zero status after clear, got %+v", st)
	}
	if _, err := s.GetUser(ctx, "jack.sparrow"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected users wiped, got %v", err)
	}

	// Ids restart from scratch after a clear.
	seedForum(t, s)
	ids := makePosts(t, s, "rum-thread", 1)
	if ids[0] != 1 {
		t.Fatalf("expected post ids to restart at 1, got %d", ids[0])
	}
}
