package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/forum-platform/internal/forum/store"
)

func TestCreateForum(t *testing.T) {
	s := seededStore(t)
	handler := CreateForum(s, nopLog)

	req := setupReq(http.MethodPost, "/api/forum/create",
		`{"slug":"sea-shanties","title":"Sea Shanties","user":"JACK.sparrow"}`, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var f store.Forum
	if err := json.NewDecoder(rr.Body).Decode(&f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f.User != "jack.sparrow" {
		t.Fatalf("owner must take the stored spelling, got %q", f.User)
	}
}

func TestCreateForum_Conflict(t *testing.T) {
	s := seededStore(t)
	handler := CreateForum(s, nopLog)

	req := setupReq(http.MethodPost, "/api/forum/create",
		`{"slug":"PIRATE-TALK","title":"Impostor","user":"jack.sparrow"}`, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
	var f store.Forum
	if err := json.NewDecoder(rr.Body).Decode(&f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// The existing forum is the payload, not the rejected one.
	if f.Title != "Pirate Talk" {
		t.Fatalf("expected the stored forum, got %+v", f)
	}
}

func TestCreateForum_UnknownOwner(t *testing.T) {
	handler := CreateForum(store.NewMemoryStore(), nopLog)

	req := setupReq(http.MethodPost, "/api/forum/create",
		`{"slug":"orphan","title":"x","user":"nobody"}`, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestGetForum(t *testing.T) {
	s := seededStore(t)
	handler := GetForum(s, nopLog)

	req := setupReq(http.MethodGet, "/api/forum/PIRATE-talk/details", "",
		map[string]string{"slug": "PIRATE-talk"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var f store.Forum
	if err := json.NewDecoder(rr.Body).Decode(&f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f.Slug != "pirate-talk" || f.Threads != 1 {
		t.Fatalf("unexpected forum: %+v", f)
	}
}

func TestListForumThreads_InvalidSince(t *testing.T) {
	s := seededStore(t)
	handler := ListForumThreads(s, nopLog)

	req := setupReq(http.MethodGet, "/api/forum/pirate-talk/threads?since=yesterday", "",
		map[string]string{"slug": "pirate-talk"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestListForumThreads(t *testing.T) {
	s := seededStore(t)
	handler := ListForumThreads(s, nopLog)

	req := setupReq(http.MethodGet, "/api/forum/pirate-talk/threads?limit=10", "",
		map[string]string{"slug": "pirate-talk"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var threads []store.Thread
	if err := json.NewDecoder(rr.Body).Decode(&threads); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(threads) != 1 || threads[0].Slug != "rum-thread" {
		t.Fatalf("unexpected threads: %+v", threads)
	}
}
