package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/alexieremia/burgersocial/internal/store"
)

// Users handles GET /api/users
func (h *Handlers) Users(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Users())
}

// User handles GET /api/users/{id}
func (h *Handlers) User(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.User(mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		h.writeError(w, r, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.writeJSON(w, http.StatusOK, u)
}

// UserReviews handles GET /api/users/{id}/reviews. Unknown users have no reviews.
func (h *Handlers) UserReviews(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.UserReviews(mux.Vars(r)["id"]))
}
