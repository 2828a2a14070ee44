package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpapi "github.com/alexieremia/burgersocial/internal/interfaces/http"
	"github.com/alexieremia/burgersocial/internal/store"
)

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mock API server",
		Long:  "Serves the demo dataset on /api with /health, /metrics and the live search websocket",
		Args:  cobra.NoArgs,
		RunE:  c.runServe,
	}
	cmd.Flags().String("host", "", "listen host (overrides server.host)")
	cmd.Flags().Int("port", 0, "listen port (overrides server.port)")
	return cmd
}

func (c *cli) serverConfig(cmd *cobra.Command) httpapi.ServerConfig {
	sc := httpapi.DefaultServerConfig()
	s := c.cfg.Server
	sc.Host = s.Host
	sc.Port = s.Port
	sc.RateLimit = s.RateLimit
	sc.RateBurst = s.RateBurst
	sc.LiveDebounce = s.LiveDebounce
	sc.RequestTimeout = s.RequestTimeout
	sc.ShutdownTimeout = s.ShutdownTimeout
	sc.Version = version

	if cmd.Flags().Changed("host") {
		sc.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		sc.Port, _ = cmd.Flags().GetInt("port")
	}
	return sc
}

func (c *cli) runServe(cmd *cobra.Command, args []string) error {
	mem, err := store.FromFixtures()
	if err != nil {
		return err
	}
	counts := mem.Counts()
	log.Info().
		Int("users", counts.Users).
		Int("restaurants", counts.Restaurants).
		Int("reviews", counts.Reviews).
		Int("posts", counts.Posts).
		Msg("Loaded demo dataset")

	sc := c.serverConfig(cmd)
	if sc.Port < 1 || sc.Port > 65535 {
		return fmt.Errorf("invalid port: %d", sc.Port)
	}
	server := httpapi.NewServer(sc, mem)
	return server.Run(cmd.Context())
}
