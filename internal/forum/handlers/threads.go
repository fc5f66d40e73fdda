package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/forum-platform/internal/forum/store"
	"github.com/example/forum-platform/internal/platform/api"
	"github.com/example/forum-platform/internal/platform/events"
)

type createThreadRequest struct {
	Title   string     `json:"title"`
	Author  string     `json:"author"`
	Message string     `json:"message"`
	Created *time.Time `json:"created"`
	Slug    string     `json:"slug"`
}

type voteRequest struct {
	Nickname string `json:"nickname"`
	Voice    int    `json:"voice"`
}

// CreateThread handles POST /api/forum/{slug}/create
func CreateThread(ts store.ThreadStore, ev *events.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forumSlug := strings.TrimSpace(chi.URLParam(r, "slug"))

		var req createThreadRequest
		if !decodeBody(w, r, &req) {
			return
		}

		t := store.Thread{
			Title:   req.Title,
			Author:  req.Author,
			Message: req.Message,
			Slug:    req.Slug,
		}
		if req.Created != nil {
			t.Created = *req.Created
		}

		created, err := ts.CreateThread(r.Context(), forumSlug, t)
		switch {
		case err == nil:
			ev.Publish(events.SubjectThreadCreated, "thread_created", created.Author, map[string]any{
				"thread_id": created.ID,
				"forum":     created.Forum,
			})
			api.WriteJSON(w, http.StatusCreated, created)
		case errors.Is(err, store.ErrConflict):
			api.WriteJSON(w, http.StatusConflict, created)
		default:
			writeStoreError(w, r, log, err, "can't find forum or author")
		}
	}
}

// GetThread handles GET /api/thread/{slugOrID}/details
func GetThread(ts store.ThreadStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := strings.TrimSpace(chi.URLParam(r, "slugOrID"))

		t, err := ts.GetThread(r.Context(), ref)
		if err != nil {
			writeStoreError(w, r, log, err, "can't find thread "+ref)
			return
		}
		api.WriteJSON(w, http.StatusOK, t)
	}
}

// UpdateThread handles POST /api/thread/{slugOrID}/details
func UpdateThread(ts store.ThreadStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := strings.TrimSpace(chi.URLParam(r, "slugOrID"))

		var upd store.ThreadUpdate
		if !decodeBody(w, r, &upd) {
			return
		}

		t, err := ts.UpdateThread(r.Context(), ref, upd)
		if err != nil {
			writeStoreError(w, r, log, err, "can't find thread "+ref)
			return
		}
		api.WriteJSON(w, http.StatusOK, t)
	}
}

// VoteThread handles POST /api/thread/{slugOrID}/vote
func VoteThread(ts store.ThreadStore, ev *events.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := strings.TrimSpace(chi.URLParam(r, "slugOrID"))

		var req voteRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Voice != 1 && req.Voice != -1 {
			api.BadRequest(w, "INVALID_VOICE", "voice must be 1 or -1", requestID(r), nil)
			return
		}

		t, err := ts.Vote(r.Context(), ref, req.Nickname, req.Voice)
		if err != nil {
			writeStoreError(w, r, log, err, "can't find thread or user")
			return
		}
		ev.Publish(events.SubjectVoteCast, "vote_cast", req.Nickname, map[string]any{
			"thread_id": t.ID,
			"voice":     req.Voice,
		})
		api.WriteJSON(w, http.StatusOK, t)
	}
}
