// Package client talks to the BurgerSocial API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexieremia/burgersocial/infra/breakers"
	"github.com/alexieremia/burgersocial/internal/authoring"
	"github.com/alexieremia/burgersocial/internal/data/cache"
	"github.com/alexieremia/burgersocial/internal/discovery"
	"github.com/alexieremia/burgersocial/internal/models"
	netclient "github.com/alexieremia/burgersocial/internal/net/client"
	"github.com/alexieremia/burgersocial/internal/net/ratelimit"
)

var (
	// ErrFetch covers every transport and status failure; the UI shows FetchMessage for it.
	ErrFetch = errors.New("fetch failed")
	// ErrNotFound is returned for 404 responses
	ErrNotFound = errors.New("not found")
	// ErrRateLimited marks a fetch failure caused by a rate limit on either side; it also matches ErrFetch.
	ErrRateLimited = errors.New("rate limited")
)

const (
	// FetchMessage is the user-facing text for ErrFetch
	FetchMessage = "Failed to fetch data"
	// RateLimitMessage is the user-facing text for ErrRateLimited
	RateLimitMessage = "Too many requests, try again in a moment"
)

// ValidationError carries the per-field messages of a rejected review draft
type ValidationError struct {
	Message string
	Fields  authoring.FieldErrors
}

func (e *ValidationError) Error() string { return e.Message + ": " + e.Fields.Error() }

// Options configure a Client
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Cache     cache.Cache
	CacheTTL  time.Duration
	Breaker   *breakers.Breaker
	RateLimit *ratelimit.Limiter
	Transport http.RoundTripper
	UserAgent string
}

// Client is a typed JSON client for the mock API
type Client struct {
	base *url.URL
	http *http.Client
}

// New builds a Client. The base URL must be absolute, e.g. http://localhost:3001.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", opts.BaseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	wrapped := netclient.NewWrapper(netclient.WrapperConfig{
		Name:        "api",
		RateLimiter: opts.RateLimit,
		Breaker:     opts.Breaker,
		Cache:       opts.Cache,
		CacheTTL:    opts.CacheTTL,
		UserAgent:   opts.UserAgent,
	}, opts.Transport)
	return &Client{base: base, http: &http.Client{Transport: wrapped, Timeout: opts.Timeout}}, nil
}

// BaseURL returns the API root
func (c *Client) BaseURL() string { return c.base.String() }

func (c *Client) Restaurants(ctx context.Context) ([]models.Restaurant, error) {
	return fetch[[]models.Restaurant](ctx, c, "/api/restaurants", nil)
}

func (c *Client) Restaurant(ctx context.Context, id string) (models.Restaurant, error) {
	return fetch[models.Restaurant](ctx, c, "/api/restaurants/"+url.PathEscape(id), nil)
}

func (c *Client) RestaurantReviews(ctx context.Context, id string) ([]models.Review, error) {
	return fetch[[]models.Review](ctx, c, "/api/restaurants/"+url.PathEscape(id)+"/reviews", nil)
}

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	return fetch[[]models.User](ctx, c, "/api/users", nil)
}

func (c *Client) User(ctx context.Context, id string) (models.User, error) {
	return fetch[models.User](ctx, c, "/api/users/"+url.PathEscape(id), nil)
}

func (c *Client) UserReviews(ctx context.Context, id string) ([]models.Review, error) {
	return fetch[[]models.Review](ctx, c, "/api/users/"+url.PathEscape(id)+"/reviews", nil)
}

func (c *Client) Reviews(ctx context.Context) ([]models.Review, error) {
	return fetch[[]models.Review](ctx, c, "/api/reviews", nil)
}

func (c *Client) Posts(ctx context.Context) ([]models.Post, error) {
	return fetch[[]models.Post](ctx, c, "/api/posts", nil)
}

// Search runs the discovery query on the server
func (c *Client) Search(ctx context.Context, f discovery.Filter) ([]models.Restaurant, error) {
	return fetch[[]models.Restaurant](ctx, c, "/api/restaurants/search", f.Values())
}

// SubmitReview posts a draft. A rejected draft yields a *ValidationError.
func (c *Client) SubmitReview(ctx context.Context, d authoring.Draft) (authoring.Draft, error) {
	body, err := json.Marshal(d)
	if err != nil {
		return authoring.Draft{}, fmt.Errorf("encode draft: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/reviews", nil), bytes.NewReader(body))
	if err != nil {
		return authoring.Draft{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return authoring.Draft{}, roundTripError("POST /api/reviews", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		var ve struct {
			Error  string                `json:"error"`
			Fields authoring.FieldErrors `json:"fields"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&ve); err != nil {
			return authoring.Draft{}, fmt.Errorf("%w: decode validation error: %v", ErrFetch, err)
		}
		return authoring.Draft{}, &ValidationError{Message: ve.Error, Fields: ve.Fields}
	}

	var accepted struct {
		Review authoring.Draft `json:"review"`
	}
	if err := decode(resp, &accepted); err != nil {
		return authoring.Draft{}, err
	}
	return accepted.Review, nil
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// fetch GETs path and decodes the JSON body into a T
func fetch[T any](ctx context.Context, c *Client, path string, q url.Values) (T, error) {
	var out T
	err := c.get(ctx, path, q, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, q), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return roundTripError("GET "+path, err)
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

// roundTripError wraps a failed request in ErrFetch, adding ErrRateLimited when
// the local limiter gave up waiting for a token.
func roundTripError(op string, err error) error {
	var te *netclient.TransportError
	if errors.As(err, &te) && te.IsRateLimited() {
		return fmt.Errorf("%w: %w: %s: %v", ErrRateLimited, ErrFetch, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrFetch, op, err)
}

func decode(resp *http.Response, out any) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", resp.Request.URL.Path, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %w: %s returned HTTP 429", ErrRateLimited, ErrFetch, resp.Request.URL.Path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s returned HTTP %d", ErrFetch, resp.Request.URL.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrFetch, resp.Request.URL.Path, err)
	}
	return nil
}
