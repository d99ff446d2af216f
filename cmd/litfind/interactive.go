package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/csheth/litfind/internal/bibtex"
	"github.com/csheth/litfind/internal/catalog"
	"github.com/csheth/litfind/internal/download"
	"github.com/csheth/litfind/internal/opener"
	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/tui"
)

func (a *app) runInteractive(cmd *cobra.Command, _ []string) error {
	dl, err := download.New(a.cfg.DocumentDir, nil)
	if err != nil {
		return err
	}

	actor := catalog.NewActor(a.cfg.DataDir, a.logger)
	engine := tui.NewEngine(actor, a.onlineFetchers(), a.cfg.MaxHits, a.logger)
	engine.Start(cmd.Context())

	opts := []tea.ProgramOption{tea.WithContext(cmd.Context())}
	if !a.noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Engine:     engine,
			Downloader: dl,
			Catalog:    actor,
			Bib:        bibtex.NewFetcher(nil, a.cfg.UserAgent),
			Opener:     opener.New(),
			Logger:     a.logger,
			Sources:    len(paper.Sources),
		}),
		opts...,
	)

	_, runErr := program.Run()
	if errors.Is(runErr, tea.ErrProgramKilled) {
		runErr = nil
	}
	if err := engine.Shutdown(); err != nil {
		a.logger.Error().Err(err).Msg("shutdown")
		runErr = errors.Join(runErr, fmt.Errorf("failed to save catalog: %w", err))
	}
	return runErr
}
