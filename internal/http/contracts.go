package http

import (
	"time"

	"github.com/alexieremia/burgersocial/internal/authoring"
	"github.com/alexieremia/burgersocial/internal/discovery"
	"github.com/alexieremia/burgersocial/internal/models"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status         string      `json:"status"`
	Timestamp      time.Time   `json:"timestamp"`
	Uptime         string      `json:"uptime"`
	Version        string      `json:"version"`
	Dataset        DatasetInfo `json:"dataset"`
	System         SystemInfo  `json:"system"`
	RequestsServed float64     `json:"requestsServed"`
	LiveSessions   float64     `json:"liveSessions"`
}

// DatasetInfo counts the records served
type DatasetInfo struct {
	Users       int `json:"users"`
	Restaurants int `json:"restaurants"`
	Reviews     int `json:"reviews"`
	Posts       int `json:"posts"`
}

// SystemInfo provides system-level information
type SystemInfo struct {
	GoVersion     string `json:"goVersion"`
	NumGoroutines int    `json:"numGoroutines"`
	MemAlloc      uint64 `json:"memAllocBytes"`
}

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error     string                `json:"error"`
	RequestID string                `json:"requestId,omitempty"`
	Fields    authoring.FieldErrors `json:"fields,omitempty"`
}

// ReviewAccepted is returned for a draft that passed validation. Nothing is stored.
type ReviewAccepted struct {
	Status string          `json:"status"`
	Review authoring.Draft `json:"review"`
}

// LiveResult is pushed on the live search socket after each debounced filter change
type LiveResult struct {
	Filter  discovery.Filter    `json:"filter"`
	Results []models.Restaurant `json:"results"`
	Count   int                 `json:"count"`
}

// LiveError is pushed on the live search socket when a message cannot be decoded
type LiveError struct {
	Error string `json:"error"`
}
