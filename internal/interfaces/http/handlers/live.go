package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/alexieremia/burgersocial/internal/debounce"
	"github.com/alexieremia/burgersocial/internal/discovery"
	httpContracts "github.com/alexieremia/burgersocial/internal/http"
	"github.com/alexieremia/burgersocial/internal/models"
)

const (
	liveReadLimit    = 16 << 10
	liveWriteTimeout = 5 * time.Second
)

// Live handles GET /api/restaurants/live. Each text message is a filter;
// results are pushed once the client has been quiet for the debounce interval.
func (h *Handlers) Live(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client
		log.Debug().Err(err).Str("request_id", RequestID(r.Context())).Msg("live upgrade failed")
		return
	}
	defer conn.Close()

	h.metrics.LiveSessions(1)
	defer h.metrics.LiveSessions(-1)

	s := &liveSession{
		conn:        conn,
		restaurants: h.store.Restaurants,
		metrics:     h.metrics,
		requestID:   RequestID(r.Context()),
	}
	s.run(h.liveDebounce)
}

type liveSession struct {
	conn        *websocket.Conn
	restaurants func() []models.Restaurant
	metrics     Metrics
	requestID   string

	mu     sync.Mutex
	latest discovery.Filter

	writeMu sync.Mutex
}

func (s *liveSession) run(interval time.Duration) {
	d := debounce.New(interval, s.push)
	defer d.Stop()

	s.conn.SetReadLimit(liveReadLimit)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("request_id", s.requestID).Msg("live session closed")
			}
			return
		}

		f := discovery.DefaultFilter()
		if err := json.Unmarshal(data, &f); err != nil {
			s.write(httpContracts.LiveError{Error: "Invalid filter"})
			continue
		}
		f.SortBy = discovery.ParseSortKey(string(f.SortBy))
		if f.PriceRange == nil {
			f.PriceRange = []string{}
		}

		s.mu.Lock()
		s.latest = f
		s.mu.Unlock()
		d.Trigger()
	}
}

// push answers the most recent filter
func (s *liveSession) push() {
	s.mu.Lock()
	f := s.latest
	s.mu.Unlock()

	results := discovery.Query(s.restaurants(), f)
	s.metrics.ObserveResults("live", len(results))
	s.write(httpContracts.LiveResult{Filter: f, Results: results, Count: len(results)})
}

func (s *liveSession) write(v any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	if err := s.conn.WriteJSON(v); err != nil {
		log.Debug().Err(err).Str("request_id", s.requestID).Msg("live write failed")
	}
}
