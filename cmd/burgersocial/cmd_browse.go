package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/alexieremia/burgersocial/infra/breakers"
	"github.com/alexieremia/burgersocial/internal/client"
	"github.com/alexieremia/burgersocial/internal/config"
	"github.com/alexieremia/burgersocial/internal/data/cache"
	applog "github.com/alexieremia/burgersocial/internal/log"
	"github.com/alexieremia/burgersocial/internal/net/ratelimit"
	"github.com/alexieremia/burgersocial/internal/store"
	"github.com/alexieremia/burgersocial/internal/tui"
)

func (c *cli) browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive client",
		Long:  "Browse the feed, explore restaurants and read reviews from the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _ := cmd.Flags().GetString("api")
			if !cmd.Flags().Changed("api") {
				api = c.cfg.Client.APIURL
			}
			offline, _ := cmd.Flags().GetBool("offline")
			return c.browse(cmd, api, offline)
		},
	}
	cmd.Flags().String("api", "", "API base URL (overrides client.api_url)")
	cmd.Flags().Bool("offline", false, "browse the built-in demo data without a server")
	return cmd
}

func (c *cli) runBrowse(cmd *cobra.Command, api string, offline bool) error {
	// the terminal belongs to the UI; logs go to a file
	logFile, closeLog := openBrowseLog()
	defer closeLog()
	if err := applog.Setup(c.cfg.Log.Level, "json", logFile); err != nil {
		return err
	}

	var src tui.DataSource
	if offline {
		mem, err := store.FromFixtures()
		if err != nil {
			return err
		}
		src = tui.Offline(mem)
	} else {
		cl, closeCache, err := newAPIClient(cmd.Context(), c.cfg, api)
		if err != nil {
			return err
		}
		defer closeCache()
		src = cl
	}

	log.Info().Str("api", api).Bool("offline", offline).Msg("Starting interactive client")
	return tui.Run(tui.RunOpts{
		Source:         src,
		SearchDebounce: c.cfg.Client.SearchDebounce,
	})
}

// openBrowseLog opens $XDG_STATE_HOME/burgersocial/browse.log, falling back to discarding logs.
func openBrowseLog() (io.Writer, func()) {
	path, err := xdg.StateFile("burgersocial/browse.log")
	if err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { _ = f.Close() }
}

// newAPIClient builds a client with the configured breaker, rate limit and response cache.
// Redis is used when cache.redis.addr is set; otherwise responses are cached in memory.
func newAPIClient(ctx context.Context, cfg *config.Config, api string) (*client.Client, func(), error) {
	var (
		respCache cache.Cache
		closer    = func() {}
	)
	if addr := cfg.Cache.Redis.Addr; addr != "" {
		r, err := cache.NewRedis(ctx, cache.RedisOptions{
			Addr:     addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("response cache: %w", err)
		}
		respCache = r
		closer = func() { _ = r.Close() }
	} else {
		respCache = cache.NewMemory(cfg.Cache.MaxEntries)
	}

	settings := breakers.DefaultSettings()
	settings.ConsecutiveFailures = cfg.Client.BreakerFailures
	if cfg.Client.BreakerTimeout > 0 {
		settings.Timeout = cfg.Client.BreakerTimeout
	}

	cl, err := client.New(client.Options{
		BaseURL:   api,
		Timeout:   cfg.Client.Timeout,
		Cache:     respCache,
		CacheTTL:  cfg.Client.CacheTTL,
		Breaker:   breakers.New("api", settings),
		RateLimit: ratelimit.NewLimiter(cfg.Client.RateLimit, cfg.Client.RateBurst),
		UserAgent: appName + "/" + version,
	})
	if err != nil {
		closer()
		return nil, nil, err
	}
	return cl, closer, nil
}
