package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexieremia/burgersocial/infra/breakers"
	"github.com/alexieremia/burgersocial/internal/authoring"
	"github.com/alexieremia/burgersocial/internal/data/cache"
	"github.com/alexieremia/burgersocial/internal/discovery"
	apihttp "github.com/alexieremia/burgersocial/internal/interfaces/http"
	"github.com/alexieremia/burgersocial/internal/models"
	"github.com/alexieremia/burgersocial/internal/net/ratelimit"
	"github.com/alexieremia/burgersocial/internal/store"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := store.FromFixtures()
	require.NoError(t, err)
	cfg := apihttp.DefaultServerConfig()
	cfg.RateLimit = 0
	ts := httptest.NewServer(apihttp.NewServer(cfg, s).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T, base string, opts Options) *Client {
	t.Helper()
	opts.BaseURL = base
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

func TestClientCollections(t *testing.T) {
	ts := newAPI(t)
	c := newClient(t, ts.URL, Options{})
	ctx := context.Background()

	users, err := c.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	restaurants, err := c.Restaurants(ctx)
	require.NoError(t, err)
	assert.Len(t, restaurants, 3)

	reviews, err := c.Reviews(ctx)
	require.NoError(t, err)
	assert.Len(t, reviews, 3)

	posts, err := c.Posts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 4)
	assert.True(t, posts[1].Liked)
}

func TestClientLookups(t *testing.T) {
	ts := newAPI(t)
	c := newClient(t, ts.URL+"/", Options{})
	ctx := context.Background()

	r, err := c.Restaurant(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Burger Van", r.Name)
	assert.Equal(t, "12:00 - 23:00", r.Hours.Thursday)

	rr, err := c.RestaurantReviews(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, rr, 2)

	u, err := c.User(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Alex Dumitru", u.Name)

	ur, err := c.UserReviews(ctx, "3")
	require.NoError(t, err)
	require.Len(t, ur, 1)
	assert.Equal(t, "Good value", ur[0].Title)

	_, err = c.Restaurant(ctx, "404")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrFetch)
}

func TestClientSearch(t *testing.T) {
	ts := newAPI(t)
	c := newClient(t, ts.URL, Options{})

	got, err := c.Search(context.Background(), discovery.Filter{SortBy: discovery.SortRating, OpenNow: true})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Burger Van", got[0].Name)
	assert.Equal(t, "Beef Brothers", got[1].Name)
}

func TestClientSubmitReview(t *testing.T) {
	ts := newAPI(t)
	c := newClient(t, ts.URL, Options{})
	ctx := context.Background()

	d := authoring.Draft{
		RestaurantID: "2",
		Title:        "Solid lunch",
		Content:      "Generous portions with crispy fries.",
		Ratings:      models.Ratings{Taste: 4, Texture: 4, Presentation: 3},
	}
	got, err := c.SubmitReview(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, d, got)

	d.Title = ""
	_, err = c.SubmitReview(ctx, d)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Title must be at least 5 characters", ve.Fields[authoring.FieldTitle])
}

func TestClientFetchErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users":
			w.WriteHeader(http.StatusInternalServerError)
		case "/api/posts":
			_, _ = w.Write([]byte("not json"))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer ts.Close()

	c := newClient(t, ts.URL, Options{})
	ctx := context.Background()

	_, err := c.Users(ctx)
	assert.ErrorIs(t, err, ErrFetch)
	_, err = c.Posts(ctx)
	assert.ErrorIs(t, err, ErrFetch)
	_, err = c.Reviews(ctx)
	assert.ErrorIs(t, err, ErrFetch)

	ts.Close()
	_, err = c.Restaurants(ctx)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestClientCachesResponses(t *testing.T) {
	s, err := store.FromFixtures()
	require.NoError(t, err)
	cfg := apihttp.DefaultServerConfig()
	cfg.RateLimit = 0
	api := apihttp.NewServer(cfg, s).Handler()

	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		api.ServeHTTP(w, r)
	}))
	defer ts.Close()

	c := newClient(t, ts.URL, Options{Cache: cache.NewMemory(0), CacheTTL: time.Minute})
	ctx := context.Background()

	_, err = c.Posts(ctx)
	require.NoError(t, err)
	posts, err := c.Posts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 4)
	assert.Equal(t, int32(1), hits.Load())

	_, err = c.User(ctx, "404")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.User(ctx, "404")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(3), hits.Load())
}

func TestClientBreakerFailsFast(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	b := breakers.New("api", breakers.Settings{ConsecutiveFailures: 1, Timeout: time.Hour})
	c := newClient(t, ts.URL, Options{Breaker: b})
	ctx := context.Background()

	_, err := c.Users(ctx)
	assert.ErrorIs(t, err, ErrFetch)
	_, err = c.Users(ctx)
	assert.ErrorIs(t, err, ErrFetch)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClientRateLimited(t *testing.T) {
	ts := newAPI(t)
	c := newClient(t, ts.URL, Options{RateLimit: ratelimit.NewLimiter(0.001, 1)})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := c.Users(ctx)
	require.NoError(t, err)

	// the next token is far beyond the deadline, so the limiter gives up at once
	_, err = c.Users(ctx)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestClientServerRateLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"Too many requests"}`))
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL, Options{}).Posts(context.Background())
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New(Options{BaseURL: "localhost:3001"})
	assert.Error(t, err)
	_, err = New(Options{BaseURL: "/api"})
	assert.Error(t, err)
}
