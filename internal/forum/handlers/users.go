package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/forum-platform/internal/forum/store"
	"github.com/example/forum-platform/internal/platform/api"
)

type userProfileRequest struct {
	Fullname string `json:"fullname"`
	About    string `json:"about"`
	Email    string `json:"email"`
}

// CreateUser handles POST /api/user/{nickname}/create
func CreateUser(us store.UserStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nickname := strings.TrimSpace(chi.URLParam(r, "nickname"))

		var req userProfileRequest
		if !decodeBody(w, r, &req) {
			return
		}

		users, err := us.CreateUser(r.Context(), store.User{
			Nickname: nickname,
			Fullname: req.Fullname,
			About:    req.About,
			Email:    req.Email,
		})
		switch {
		case err == nil:
			api.WriteJSON(w, http.StatusCreated, users[0])
		case errors.Is(err, store.ErrConflict):
			// The clashing users are the payload, per the API contract.
			api.WriteJSON(w, http.StatusConflict, users)
		default:
			writeStoreError(w, r, log, err, "can't create user")
		}
	}
}

// GetUser handles GET /api/user/{nickname}/profile
func GetUser(us store.UserStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nickname := strings.TrimSpace(chi.URLParam(r, "nickname"))

		u, err := us.GetUser(r.Context(), nickname)
		if err != nil {
			writeStoreError(w, r, log, err, "can't find user "+nickname)
			return
		}
		api.WriteJSON(w, http.StatusOK, u)
	}
}

// UpdateUser handles POST /api/user/{nickname}/profile
func UpdateUser(us store.UserStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nickname := strings.TrimSpace(chi.URLParam(r, "nickname"))

		var upd store.UserUpdate
		if !decodeBody(w, r, &upd) {
			return
		}

		u, err := us.UpdateUser(r.Context(), nickname, upd)
		switch {
		case err == nil:
			api.WriteJSON(w, http.StatusOK, u)
		case errors.Is(err, store.ErrConflict):
			api.Conflict(w, "EMAIL_TAKEN", "email is already registered", requestID(r), nil)
		default:
			writeStoreError(w, r, log, err, "can't find user "+nickname)
		}
	}
}

// ListForumUsers handles GET /api/forum/{slug}/users
func ListForumUsers(us store.UserStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))

		users, err := us.ListForumUsers(r.Context(), slug, store.ForumUsersParams{
			Limit: queryInt(r, "limit", 100),
			Since: strings.TrimSpace(r.URL.Query().Get("since")),
			Desc:  queryBool(r, "desc"),
		})
		if err != nil {
			writeStoreError(w, r, log, err, "can't find forum "+slug)
			return
		}
		api.WriteJSON(w, http.StatusOK, users)
	}
}
