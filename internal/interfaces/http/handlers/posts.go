package handlers

import "net/http"

// Posts handles GET /api/posts
func (h *Handlers) Posts(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Posts())
}
