package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/forum-platform/internal/forum/store"
	"github.com/example/forum-platform/internal/platform/api"
	"github.com/example/forum-platform/internal/platform/events"
)

type updatePostRequest struct {
	Message string `json:"message"`
}

// CreatePosts handles POST /api/thread/{slugOrID}/create
func CreatePosts(ps store.PostStore, ev *events.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := strings.TrimSpace(chi.URLParam(r, "slugOrID"))

		var drafts []store.PostDraft
		if !decodeBody(w, r, &drafts) {
			return
		}

		posts, err := ps.CreatePosts(r.Context(), ref, drafts)
		switch {
		case err == nil:
			for _, p := range posts {
				ev.Publish(events.SubjectPostCreated, "post_created", p.Author, map[string]any{
					"post_id":   p.ID,
					"thread_id": p.Thread,
					"forum":     p.Forum,
				})
			}
			api.WriteJSON(w, http.StatusCreated, posts)
		case errors.Is(err, store.ErrConflict):
			api.Conflict(w, "INVALID_PARENT", "parent post is not part of thread "+ref, requestID(r), nil)
		default:
			writeStoreError(w, r, log, err, "can't find thread or author")
		}
	}
}

// ListPosts handles GET /api/thread/{slugOrID}/posts
func ListPosts(ps store.PostStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := strings.TrimSpace(chi.URLParam(r, "slugOrID"))

		params := store.ListPostsParams{
			Limit: queryInt(r, "limit", 100),
			Desc:  queryBool(r, "desc"),
		}
		switch sort := strings.TrimSpace(r.URL.Query().Get("sort")); sort {
		case "", store.SortFlat:
			params.Sort = store.SortFlat
		case store.SortTree, store.SortParentTree:
			params.Sort = sort
		default:
			api.BadRequest(w, "INVALID_SORT", "sort must be flat, tree or parent_tree", requestID(r), nil)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
			since, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				api.BadRequest(w, "INVALID_SINCE", "since must be a post id", requestID(r), nil)
				return
			}
			params.Since = since
		}

		posts, err := ps.ListPosts(r.Context(), ref, params)
		if err != nil {
			writeStoreError(w, r, log, err, "can't find thread "+ref)
			return
		}
		api.WriteJSON(w, http.StatusOK, posts)
	}
}

// GetPost handles GET /api/post/{id}/details
func GetPost(ps store.PostStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
		if err != nil {
			api.BadRequest(w, "INVALID_ID", "post id must be numeric", requestID(r), nil)
			return
		}

		details, err := ps.GetPost(r.Context(), id, parseRelated(r.URL.Query().Get("related")))
		if err != nil {
			writeStoreError(w, r, log, err, "can't find post")
			return
		}
		api.WriteJSON(w, http.StatusOK, details)
	}
}

// UpdatePost handles POST /api/post/{id}/details
func UpdatePost(ps store.PostStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
		if err != nil {
			api.BadRequest(w, "INVALID_ID", "post id must be numeric", requestID(r), nil)
			return
		}

		var req updatePostRequest
		if !decodeBody(w, r, &req) {
			return
		}

		post, err := ps.UpdatePost(r.Context(), id, req.Message)
		if err != nil {
			writeStoreError(w, r, log, err, "can't find post")
			return
		}
		api.WriteJSON(w, http.StatusOK, post)
	}
}

// parseRelated turns the comma-separated "related" query parameter into the
// capability flags understood by the store.
func parseRelated(raw string) store.Related {
	var rel store.Related
	for _, part := range strings.Split(raw, ",") {
		switch strings.TrimSpace(part) {
		case "user":
			rel.User = true
		case "thread":
			rel.Thread = true
		case "forum":
			rel.Forum = true
		}
	}
	return rel
}
