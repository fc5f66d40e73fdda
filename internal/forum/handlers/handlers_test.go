package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/forum-platform/internal/forum/store"
	"github.com/example/forum-platform/internal/platform/events"
)

var (
	nopLog   = zap.NewNop()
	noEvents = events.New(nil, zap.NewNop())
)

// setupReq builds a request with chi URL params attached.
func setupReq(method, url, body string, params map[string]string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// seededStore returns a store holding one user, one forum and one thread.
func seededStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, store.User{Nickname: "jack.sparrow", Fullname: "Jack Sparrow", Email: "jack@sea.org"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := s.CreateForum(ctx, store.Forum{Slug: "pirate-talk", Title: "Pirate Talk", User: "jack.sparrow"}); err != nil {
		t.Fatalf("seed forum: %v", err)
	}
	if _, err := s.CreateThread(ctx, "pirate-talk", store.Thread{
		Title: "Where is the rum", Author: "jack.sparrow", Message: "gone", Slug: "rum-thread",
	}); err != nil {
		t.Fatalf("seed thread: %v", err)
	}
	return s
}
