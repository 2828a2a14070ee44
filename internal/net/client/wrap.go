package client

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alexieremia/burgersocial/infra/breakers"
	"github.com/alexieremia/burgersocial/internal/data/cache"
	"github.com/alexieremia/burgersocial/internal/net/ratelimit"
)

// WrapperConfig configures the HTTP client wrapper. Every component is optional.
type WrapperConfig struct {
	Name        string
	RateLimiter *ratelimit.Limiter
	Breaker     *breakers.Breaker
	Cache       cache.Cache
	CacheTTL    time.Duration
	UserAgent   string
}

// Wrapper wraps an HTTP RoundTripper with rate limiting, circuit breaking and caching of GET bodies
type Wrapper struct {
	config    WrapperConfig
	transport http.RoundTripper
}

// NewWrapper creates a new HTTP client wrapper
func NewWrapper(config WrapperConfig, transport http.RoundTripper) *Wrapper {
	if transport == nil {
		transport = http.DefaultTransport
	}
	if config.UserAgent == "" {
		config.UserAgent = "burgersocial"
	}
	return &Wrapper{config: config, transport: transport}
}

// CacheHeader is set on responses served from the cache
const CacheHeader = "X-Cache"

// RoundTrip implements http.RoundTripper
func (w *Wrapper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", w.config.UserAgent)
	}

	cacheable := w.config.Cache != nil && req.Method == http.MethodGet
	key := w.cacheKey(req)
	if cacheable {
		data, found, err := w.config.Cache.Get(req.Context(), key)
		if err != nil {
			log.Debug().Err(err).Str("key", key).Msg("cache lookup failed")
		} else if found {
			return cachedResponse(req, data), nil
		}
	}

	if w.config.RateLimiter != nil {
		if err := w.config.RateLimiter.Wait(req.Context(), req.URL.Host); err != nil {
			return nil, &TransportError{Name: w.config.Name, Type: "rate_limit", Err: fmt.Errorf("rate limit wait failed: %w", err)}
		}
	}

	var response *http.Response
	execute := func() (any, error) {
		resp, err := w.transport.RoundTrip(req)
		if err != nil {
			return nil, &TransportError{Name: w.config.Name, Type: "transport", Err: err}
		}
		// 4xx is the caller's problem and must not trip the breaker
		if resp.StatusCode >= 500 {
			_ = drain(resp)
			return nil, &TransportError{Name: w.config.Name, Type: "http_error", StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP %d error", resp.StatusCode)}
		}
		response = resp
		return nil, nil
	}

	var err error
	if w.config.Breaker != nil {
		_, err = w.config.Breaker.Execute(execute)
		if err == breakers.ErrOpen {
			err = &TransportError{Name: w.config.Name, Type: "circuit", Err: err}
		}
	} else {
		_, err = execute()
	}
	if err != nil {
		return nil, err
	}

	if cacheable && response.StatusCode == http.StatusOK {
		w.cacheResponse(req, key, response)
	}
	return response, nil
}

func (w *Wrapper) cacheKey(req *http.Request) string {
	return fmt.Sprintf("%s:%s:%s", w.config.Name, req.Method, req.URL.String())
}

func cachedResponse(req *http.Request, data []byte) *http.Response {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set(CacheHeader, "HIT")
	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: int64(len(data)),
		Request:       req,
	}
}

// cacheResponse buffers the body, stores it and hands the caller a fresh reader over the same bytes.
func (w *Wrapper) cacheResponse(req *http.Request, key string, resp *http.Response) {
	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		// the caller will see the short body and fail to decode it
		return
	}
	if err := w.config.Cache.Set(req.Context(), key, data, w.config.CacheTTL); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache store failed")
	}
}

func drain(resp *http.Response) error {
	_, err := io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return err
}

// TransportError is a failure raised by the wrapper, with the stage that produced it
type TransportError struct {
	Name       string `json:"name"`
	Type       string `json:"type"` // "rate_limit", "circuit", "transport", "http_error"
	StatusCode int    `json:"status_code,omitempty"`
	Err        error  `json:"-"`
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s error (HTTP %d): %v", e.Name, e.Type, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s error: %v", e.Name, e.Type, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsCircuitOpen returns true if the breaker rejected the call
func (e *TransportError) IsCircuitOpen() bool {
	return e.Type == "circuit"
}

// IsRateLimited returns true if the error is due to rate limiting
func (e *TransportError) IsRateLimited() bool {
	return e.Type == "rate_limit"
}
