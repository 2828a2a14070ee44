package breakers

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	cb "github.com/sony/gobreaker"
)

// ErrOpen is returned by Execute while the breaker rejects calls.
var ErrOpen = errors.New("circuit open")

// Settings tune when a breaker trips and how long it stays open
type Settings struct {
	// ConsecutiveFailures trips the breaker outright
	ConsecutiveFailures uint32
	// FailureRatio trips the breaker once MinRequests have been seen in the interval
	FailureRatio float64
	MinRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
}

// DefaultSettings suit a local API that is either up or down
func DefaultSettings() Settings {
	return Settings{
		ConsecutiveFailures: 3,
		FailureRatio:        0.5,
		MinRequests:         10,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
	}
}

type Breaker struct{ cb *cb.CircuitBreaker }

func New(name string, s Settings) *Breaker {
	st := cb.Settings{Name: name, Interval: s.Interval, Timeout: s.Timeout, MaxRequests: 1}
	st.ReadyToTrip = func(counts cb.Counts) bool {
		if s.ConsecutiveFailures > 0 && counts.ConsecutiveFailures >= s.ConsecutiveFailures {
			return true
		}
		if s.FailureRatio <= 0 || counts.Requests < s.MinRequests {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureRatio
	}
	st.OnStateChange = func(name string, from, to cb.State) {
		log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
	}
	return &Breaker{cb: cb.NewCircuitBreaker(st)}
}

// Execute runs fn unless the breaker is open. Rejections are reported as ErrOpen.
func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	v, err := b.cb.Execute(fn)
	if errors.Is(err, cb.ErrOpenState) || errors.Is(err, cb.ErrTooManyRequests) {
		return nil, ErrOpen
	}
	return v, err
}

// State returns "closed", "half-open" or "open"
func (b *Breaker) State() string { return b.cb.State().String() }
