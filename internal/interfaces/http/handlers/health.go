package handlers

import (
	"net/http"
	"runtime"
	"time"

	httpContracts "github.com/alexieremia/burgersocial/internal/http"
)

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	requests, live := h.metrics.Totals()

	response := httpContracts.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Version:   h.version,
		Dataset: httpContracts.DatasetInfo{
			Users:       len(h.store.Users()),
			Restaurants: len(h.store.Restaurants()),
			Reviews:     len(h.store.Reviews()),
			Posts:       len(h.store.Posts()),
		},
		System: httpContracts.SystemInfo{
			GoVersion:     runtime.Version(),
			NumGoroutines: runtime.NumGoroutine(),
			MemAlloc:      mem.Alloc,
		},
		RequestsServed: requests,
		LiveSessions:   live,
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.writeJSON(w, http.StatusOK, response)
}
