package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/alexieremia/burgersocial/internal/authoring"
	httpContracts "github.com/alexieremia/burgersocial/internal/http"
)

const maxDraftBytes = 64 << 10

// Reviews handles GET /api/reviews
func (h *Handlers) Reviews(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Reviews())
}

// CreateReview handles POST /api/reviews. The draft is validated and echoed back, never stored.
func (h *Handlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	var d authoring.Draft
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDraftBytes))
	if err := dec.Decode(&d); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	exists := func(id string) bool {
		_, err := h.store.Restaurant(id)
		return err == nil
	}
	if fe := authoring.Validate(d, exists); fe != nil {
		h.writeJSON(w, http.StatusUnprocessableEntity, httpContracts.ErrorResponse{
			Error:     "Validation failed",
			RequestID: RequestID(r.Context()),
			Fields:    fe,
		})
		return
	}

	log.Info().
		Str("request_id", RequestID(r.Context())).
		Str("restaurant_id", d.RestaurantID).
		Float64("score", d.Ratings.Average()).
		Msg("review draft accepted")
	h.writeJSON(w, http.StatusAccepted, httpContracts.ReviewAccepted{Status: "accepted", Review: d})
}
