package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songwall/internal/models"
	"github.com/desertthunder/songwall/internal/shared"
	"github.com/desertthunder/songwall/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse launches the interactive terminal browser.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	repo, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	// stderr belongs to the alternate screen while the program runs
	logger := shared.NewLogger(io.Discard)

	opts := ui.ModelOpts{
		Store:      repo,
		Fetcher:    r.audioFetcher(),
		Dir:        r.config.Download.Dir,
		Filename:   r.config.Download.Filename,
		TagOptions: r.tagOptions(0, false),
		Logger:     logger,
	}
	if r.config.Download.ID3 {
		opts.AfterSave = func(song models.Song) func(string) error {
			return r.id3Hook(ctx, song, logger)
		}
	}

	p := tea.NewProgram(ui.NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
