package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexieremia/burgersocial/internal/config"
	applog "github.com/alexieremia/burgersocial/internal/log"
)

const appName = "BurgerSocial"

// overridden at build time with -ldflags "-X main.version=..."
var version = "v0.1.0"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(newCLI()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// cli carries state shared by every subcommand
type cli struct {
	configPath string
	cfg        *config.Config
	out        io.Writer
	logOut     io.Writer
	isTTY      func() bool
	// browse opens the interactive client; swapped out in tests
	browse func(cmd *cobra.Command, api string, offline bool) error
}

func newCLI() *cli {
	c := &cli{
		out:    os.Stdout,
		logOut: os.Stderr,
		isTTY:  func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
	c.browse = c.runBrowse
	return c
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:     "burgersocial",
		Short:   "Burger restaurant discovery: mock API server and terminal client",
		Version: version,
		Long: `BurgerSocial serves a demo burger community (users, restaurants, reviews, posts)
over a small JSON API and browses it from the terminal.

Run 'burgersocial' in a terminal to open the interactive client.
Use 'burgersocial serve' to start the API and 'burgersocial query' for one-shot searches.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
		RunE:              c.runDefaultEntry,
	}
	root.SetOut(c.out)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config file (default "+config.DefaultConfigPath()+")")

	root.AddCommand(c.serveCmd(), c.browseCmd(), c.queryCmd(), c.versionCmd())
	return root
}

func (c *cli) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return applog.Setup(cfg.Log.Level, cfg.Log.Format, c.logOut)
}

// runDefaultEntry opens the client on a terminal and prints help otherwise
func (c *cli) runDefaultEntry(cmd *cobra.Command, args []string) error {
	if !c.isTTY() {
		return cmd.Help()
	}
	return c.browse(cmd, c.cfg.Client.APIURL, false)
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, version)
		},
	}
}
