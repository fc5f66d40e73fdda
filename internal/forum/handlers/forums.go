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
)

type createForumRequest struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	User  string `json:"user"`
}

// CreateForum handles POST /api/forum/create
func CreateForum(fs store.ForumStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createForumRequest
		if !decodeBody(w, r, &req) {
			return
		}

		f, err := fs.CreateForum(r.Context(), store.Forum{
			Slug:  req.Slug,
			Title: req.Title,
			User:  req.User,
		})
		switch {
		case err == nil:
			api.WriteJSON(w, http.StatusCreated, f)
		case errors.Is(err, store.ErrConflict):
			api.WriteJSON(w, http.StatusConflict, f)
		default:
			writeStoreError(w, r, log, err, "can't find user "+req.User)
		}
	}
}

// GetForum handles GET /api/forum/{slug}/details
func GetForum(fs store.ForumStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))

		f, err := fs.GetForum(r.Context(), slug)
		if err != nil {
			writeStoreError(w, r, log, err, "can't find forum "+slug)
			return
		}
		api.WriteJSON(w, http.StatusOK, f)
	}
}

// ListForumThreads handles GET /api/forum/{slug}/threads
func ListForumThreads(fs store.ForumStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))

		params := store.ForumThreadsParams{
			Limit: queryInt(r, "limit", 100),
			Desc:  queryBool(r, "desc"),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
			since, err := time.Parse(time.RFC3339Nano, raw)
			if err != nil {
				api.BadRequest(w, "INVALID_SINCE", "since must be an RFC3339 timestamp", requestID(r), nil)
				return
			}
			params.Since = &since
		}

		threads, err := fs.ListForumThreads(r.Context(), slug, params)
		if err != nil {
			writeStoreError(w, r, log, err, "can't find forum "+slug)
			return
		}
		api.WriteJSON(w, http.StatusOK, threads)
	}
}
