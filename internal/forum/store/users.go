package store

import "context"

// User is a forum member. Nickname and email are unique case-insensitively;
// the stored spelling keeps its original case.
type User struct {
	Nickname string `json:"nickname"`
	Fullname string `json:"fullname"`
	About    string `json:"about"`
	Email    string `json:"email"`
}

// UserUpdate is a partial profile update; nil fields stay untouched.
type UserUpdate struct {
	Fullname *string `json:"fullname"`
	About    *string `json:"about"`
	Email    *string `json:"email"`
}

// ForumUsersParams selects a page of a forum's contributors. Since is an
// exclusive nickname cursor; ordering is raw byte order (collation "C").
type ForumUsersParams struct {
	Limit int
	Since string
	Desc  bool
}

// UserStore defines the contract for user persistence.
type UserStore interface {
	// CreateUser registers a user. On a nickname or email clash it returns
	// every clashing user together with ErrConflict; nothing is written.
	CreateUser(ctx context.Context, u User) ([]User, error)
	GetUser(ctx context.Context, nickname string) (User, error)
	// UpdateUser applies the non-nil fields. An all-nil update is a plain read.
	UpdateUser(ctx context.Context, nickname string, upd UserUpdate) (User, error)
	// ListForumUsers returns the authors of the forum's threads and posts.
	ListForumUsers(ctx context.Context, forumSlug string, p ForumUsersParams) ([]User, error)
}
