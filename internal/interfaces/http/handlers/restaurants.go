package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/alexieremia/burgersocial/internal/discovery"
	"github.com/alexieremia/burgersocial/internal/store"
)

// Restaurants handles GET /api/restaurants
func (h *Handlers) Restaurants(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Restaurants())
}

// Search handles GET /api/restaurants/search?q=&price=&minRating=&open=&sort=
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	f := discovery.FilterFromValues(r.URL.Query())
	results := discovery.Query(h.store.Restaurants(), f)
	h.metrics.ObserveResults("search", len(results))
	h.writeJSON(w, http.StatusOK, results)
}

// Restaurant handles GET /api/restaurants/{id}
func (h *Handlers) Restaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.store.Restaurant(mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		h.writeError(w, r, http.StatusNotFound, "Restaurant not found")
		return
	}
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.writeJSON(w, http.StatusOK, rest)
}

// RestaurantReviews handles GET /api/restaurants/{id}/reviews
func (h *Handlers) RestaurantReviews(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.RestaurantReviews(mux.Vars(r)["id"]))
}
