// Package main is the entry point for the litfind CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/csheth/litfind/internal/catalog"
	"github.com/csheth/litfind/internal/config"
	"github.com/csheth/litfind/internal/logging"
	"github.com/csheth/litfind/internal/remote"
)

// version is set at build time via ldflags.
var version = "dev"

// app carries what the subcommands share once the root command resolved
// the configuration.
type app struct {
	configFile  string
	noAltScreen bool

	cfg      *config.Config
	logger   zerolog.Logger
	closeLog func() error
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "litfind",
		Short: "Search your paper catalog, arXiv and DBLP as you type",
		Long: `litfind queries your personal catalog of downloaded papers together with
arXiv and DBLP while you type, merges hits that describe the same work and
lets you open, download or cite them.

Without a subcommand an interactive session starts. Terms match word
prefixes; end a term with $ to require an exact word.`,
		Version:            version,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
		RunE:               a.runInteractive,
		Args:               cobra.NoArgs,
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: ./litfind.yaml or ~/.config/litfind/litfind.yaml)")
	root.Flags().BoolVar(&a.noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")

	root.AddCommand(
		newCleanCmd(a),
		newAddCmd(a),
		newLocalCmd(a),
		newSearchCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.Options{ConfigFile: a.configFile, EnvFiles: []string{".env"}})
	if err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Writer: cmd.ErrOrStderr()}
	if cmd == cmd.Root() {
		// The terminal belongs to the UI.
		logCfg.File = cfg.LogFile()
	} else {
		logCfg.Format = "console"
	}
	logger, closeLog, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	a.logger = logger.With().Str("cmd", cmd.Name()).Logger()
	a.closeLog = closeLog
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	if a.closeLog == nil {
		return nil
	}
	return a.closeLog()
}

func (a *app) arxiv() *remote.Arxiv {
	return remote.NewArxiv(remote.WithBaseURL(a.cfg.ArxivURL), remote.WithUserAgent(a.cfg.UserAgent))
}

func (a *app) dblp() *remote.Dblp {
	return remote.NewDblp(remote.WithBaseURL(a.cfg.DblpURL), remote.WithUserAgent(a.cfg.UserAgent))
}

func (a *app) onlineFetchers() []remote.Fetcher {
	return []remote.Fetcher{a.arxiv(), a.dblp()}
}

// withCatalog runs fn against a started catalog actor. A catalog that
// cannot be loaded is fatal for one-shot commands. The actor's final save
// error is returned alongside fn's.
func (a *app) withCatalog(ctx context.Context, fn func(*catalog.Actor) error) (err error) {
	actor := catalog.NewActor(a.cfg.DataDir, a.logger)
	runErr := make(chan error, 1)
	go func() { runErr <- actor.Run(ctx) }()

	if res := <-actor.Loaded(); res.Err != nil {
		<-runErr
		return fmt.Errorf("failed to open catalog in %s: %w", a.cfg.DataDir, res.Err)
	}
	defer func() {
		closeErr := actor.Close()
		<-runErr
		if closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to save catalog: %w", closeErr))
		}
	}()
	return fn(actor)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
