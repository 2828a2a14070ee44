package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexieremia/burgersocial/internal/client"
	"github.com/alexieremia/burgersocial/internal/config"
	httpapi "github.com/alexieremia/burgersocial/internal/interfaces/http"
	"github.com/alexieremia/burgersocial/internal/models"
	"github.com/alexieremia/burgersocial/internal/store"
)

// run executes the root command with a config file holding the defaults.
func run(t *testing.T, c *cli, args ...string) (string, error) {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.Save(cfg, path))

	var out bytes.Buffer
	c.out = &out
	c.logOut = io.Discard
	root := newRootCmd(c)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", path}, args...))
	err = root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, newCLI(), "version")
	require.NoError(t, err)
	assert.Equal(t, "BurgerSocial "+version+"\n", out)
}

func TestRootWithoutTTYPrintsHelp(t *testing.T) {
	c := newCLI()
	c.isTTY = func() bool { return false }
	c.browse = func(*cobra.Command, string, bool) error {
		t.Fatal("browse must not start without a terminal")
		return nil
	}

	out, err := run(t, c)
	require.NoError(t, err)
	assert.Contains(t, out, "burgersocial serve")
	assert.Contains(t, out, "Available Commands")
}

func TestRootWithTTYBrowsesConfiguredAPI(t *testing.T) {
	c := newCLI()
	c.isTTY = func() bool { return true }
	var gotAPI string
	c.browse = func(_ *cobra.Command, api string, offline bool) error {
		gotAPI = api
		assert.False(t, offline)
		return nil
	}

	_, err := run(t, c)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3001", gotAPI)
}

func TestBrowseFlags(t *testing.T) {
	c := newCLI()
	var gotAPI string
	var gotOffline bool
	c.browse = func(_ *cobra.Command, api string, offline bool) error {
		gotAPI, gotOffline = api, offline
		return nil
	}

	_, err := run(t, c, "browse", "--api", "http://example.test:9000", "--offline")
	require.NoError(t, err)
	assert.Equal(t, "http://example.test:9000", gotAPI)
	assert.True(t, gotOffline)
}

func TestQueryTable(t *testing.T) {
	out, err := run(t, newCLI(), "query", "--q", "wagyu")
	require.NoError(t, err)
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "The Patty Lab")
	assert.NotContains(t, out, "Burger Van")
}

func TestQueryEmpty(t *testing.T) {
	out, err := run(t, newCLI(), "query", "--q", "sushi")
	require.NoError(t, err)
	assert.Equal(t, "No restaurants found matching your criteria.\n", out)
}

func decodeNames(t *testing.T, out string) []string {
	t.Helper()
	var rs []models.Restaurant
	require.NoError(t, json.Unmarshal([]byte(out), &rs))
	names := make([]string, 0, len(rs))
	for _, r := range rs {
		names = append(names, r.Name)
	}
	return names
}

func TestQueryJSON(t *testing.T) {
	out, err := run(t, newCLI(), "query", "--open", "--sort", "rating", "--json")
	require.NoError(t, err)
	assert.Equal(t, []string{"Burger Van", "Beef Brothers"}, decodeNames(t, out))

	out, err = run(t, newCLI(), "query", "--price", "$,$$$", "--price", "$", "--json")
	require.NoError(t, err)
	assert.Equal(t, []string{"Beef Brothers", "The Patty Lab"}, decodeNames(t, out))
}

func TestQueryAgainstAPI(t *testing.T) {
	mem, err := store.FromFixtures()
	require.NoError(t, err)
	cfg := httpapi.DefaultServerConfig()
	cfg.RateLimit = 0
	srv := httptest.NewServer(httpapi.NewServer(cfg, mem).Handler())
	defer srv.Close()

	out, err := run(t, newCLI(), "query", "--sort", "reviews", "--json", "--api", srv.URL)
	require.NoError(t, err)

	want := make([]string, 0, 3)
	for _, r := range mem.Restaurants() {
		want = append(want, r.Name)
	}
	assert.ElementsMatch(t, want, decodeNames(t, out))
}

func TestAPIClientUsesConfiguredRateLimit(t *testing.T) {
	mem, err := store.FromFixtures()
	require.NoError(t, err)
	sc := httpapi.DefaultServerConfig()
	sc.RateLimit = 0
	srv := httptest.NewServer(httpapi.NewServer(sc, mem).Handler())
	defer srv.Close()

	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Client.RateLimit = 0.001
	cfg.Client.RateBurst = 1
	cl, closeCache, err := newAPIClient(context.Background(), cfg, srv.URL)
	require.NoError(t, err)
	defer closeCache()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = cl.Users(ctx)
	require.NoError(t, err)
	_, err = cl.Posts(ctx)
	assert.ErrorIs(t, err, client.ErrRateLimited)
}

func TestQueryRejectsBadFlags(t *testing.T) {
	_, err := run(t, newCLI(), "query", "--sort", "price")
	assert.ErrorContains(t, err, "unknown sort")

	_, err = run(t, newCLI(), "query", "--min-rating", "6")
	assert.ErrorContains(t, err, "--min-rating")
}

func TestServeRejectsBadPort(t *testing.T) {
	_, err := run(t, newCLI(), "serve", "--port", "70000")
	assert.ErrorContains(t, err, "invalid port")
}

func TestServerConfigFlagsOverrideConfig(t *testing.T) {
	c := newCLI()
	cfg, err := config.Default()
	require.NoError(t, err)
	c.cfg = cfg

	cmd := c.serveCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "4100"}))
	sc := c.serverConfig(cmd)

	assert.Equal(t, 4100, sc.Port)
	assert.Equal(t, cfg.Server.Host, sc.Host)
	assert.Equal(t, cfg.Server.RateLimit, sc.RateLimit)
	assert.Equal(t, version, sc.Version)
}

func TestFilterFromFlags(t *testing.T) {
	cmd := newCLI().queryCmd()
	require.NoError(t, cmd.Flags().Parse([]string{
		"--q", "bacon", "--price", "$$", "--price", "$$, $", "--min-rating", "4", "--open", "--sort", " Rating ",
	}))

	f, err := filterFromFlags(cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, "bacon", f.Query)
	assert.Equal(t, []string{"$$", "$"}, f.PriceRange)
	assert.Equal(t, 4.0, f.MinRating)
	assert.True(t, f.OpenNow)
	assert.Equal(t, "rating", string(f.SortBy))
}
