package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_CreateUser_Conflicts(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	users, err := s.CreateUser(ctx, User{Nickname: "Will.Turner", Email: "will@sea.org"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(users) != 1 || users[0].Nickname != "Will.Turner" {
		t.Fatalf("expected the created user back, got %+v", users)
	}

	// Nickname clash, matched case-insensitively.
	clash, err := s.CreateUser(ctx, User{Nickname: "will.turner", Email: "other@sea.org"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(clash) != 1 || clash[0].Email != "will@sea.org" {
		t.Fatalf("expected the stored user as payload, got %+v", clash)
	}

	// Email clash against a different nickname.
	clash, err = s.CreateUser(ctx, User{Nickname: "elizabeth", Email: "WILL@sea.org"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(clash) != 1 || clash[0].Nickname != "Will.Turner" {
		t.Fatalf("expected the email owner as payload, got %+v", clash)
	}

	// Both clash at once: both users come back.
	if _, err := s.CreateUser(ctx, User{Nickname: "elizabeth", Email: "liz@sea.org"}); err != nil {
		t.Fatalf("create second: %v", err)
	}
	clash, err = s.CreateUser(ctx, User{Nickname: "WILL.TURNER", Email: "LIZ@sea.org"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(clash) != 2 {
		t.Fatalf("expected both clashing users, got %+v", clash)
	}
}

func TestMemoryStore_GetUser_CasePreserved(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, User{Nickname: "Will.Turner", Email: "will@sea.org"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	u, err := s.GetUser(ctx, "WILL.turner")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Nickname != "Will.Turner" {
		t.Fatalf("lookup is case-insensitive but storage keeps case, got %q", u.Nickname)
	}
	if _, err := s.GetUser(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_UpdateUser(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, User{Nickname: "will", Fullname: "Will", Email: "will@sea.org"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateUser(ctx, User{Nickname: "liz", Email: "liz@sea.org"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	about := "blacksmith"
	u, err := s.UpdateUser(ctx, "WILL", UserUpdate{About: &about})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.About != "blacksmith" || u.Fullname != "Will" {
		t.Fatalf("partial update went wrong: %+v", u)
	}

	// Taking another user's email is a conflict.
	taken := "LIZ@sea.org"
	if _, err := s.UpdateUser(ctx, "will", UserUpdate{Email: &taken}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Re-submitting one's own email is fine.
	own := "will@sea.org"
	if _, err := s.UpdateUser(ctx, "will", UserUpdate{Email: &own}); err != nil {
		t.Fatalf("own email resubmit: %v", err)
	}

	// An all-nil update is a plain read.
	u, err = s.UpdateUser(ctx, "will", UserUpdate{})
	if err != nil {
		t.Fatalf("noop update: %v", err)
	}
	if u.About != "blacksmith" {
		t.Fatalf("noop update changed the user: %+v", u)
	}

	if _, err := s.UpdateUser(ctx, "nobody", UserUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ListForumUsers(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedForum(t, s)

	// A poster who never started a thread still counts as a contributor.
	if _, err := s.CreateUser(ctx, User{Nickname: "Barbossa", Email: "barbossa@sea.org"}); err != nil {
		t.Fatalf("create poster: %v", err)
	}
	if _, err := s.CreatePosts(ctx, "rum-thread", []PostDraft{{Author: "barbossa", Message: "arr"}}); err != nil {
		t.Fatalf("create post: %v", err)
	}
	// A registered user with no activity in the forum does not.
	if _, err := s.CreateUser(ctx, User{Nickname: "bystander", Email: "by@sea.org"}); err != nil {
		t.Fatalf("create bystander: %v", err)
	}

	users, err := s.ListForumUsers(ctx, "PIRATE-talk", ForumUsersParams{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Byte order puts "Barbossa" before "jack.sparrow".
	if len(users) != 2 || users[0].Nickname != "Barbossa" || users[1].Nickname != "jack.sparrow" {
		t.Fatalf("expected [Barbossa jack.sparrow], got %+v", users)
	}

	// The since cursor is exclusive.
	users, err = s.ListForumUsers(ctx, "pirate-talk", ForumUsersParams{Limit: 10, Since: "Barbossa"})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(users) != 1 || users[0].Nickname != "jack.sparrow" {
		t.Fatalf("expected [jack.sparrow], got %+v", users)
	}

	users, err = s.ListForumUsers(ctx, "pirate-talk", ForumUsersParams{Limit: 10, Desc: true})
	if err != nil {
		t.Fatalf("list desc: %v", err)
	}
	if len(users) != 2 || users[0].Nickname != "jack.sparrow" {
		t.Fatalf("expected jack.sparrow first descending, got %+v", users)
	}

	if _, err := s.ListForumUsers(ctx, "no-such-forum", ForumUsersParams{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
