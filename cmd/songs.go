package main

import (
	"context"

	"github.com/desertthunder/songwall/internal/formatter"
	"github.com/desertthunder/songwall/internal/models"
	"github.com/urfave/cli/v3"
)

// Songs lists the cached songs.
func (r *Runner) Songs(ctx context.Context, cmd *cli.Command) error {
	repo, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	criteria := map[string]any{}
	if tag := cmd.String("tag"); tag != "" {
		criteria["tag"] = tag
	}
	if limit := int(cmd.Int("limit")); limit > 0 {
		criteria["limit"] = limit
	}

	persisted, err := repo.List(criteria)
	if err != nil {
		return err
	}

	songs := make([]models.Song, len(persisted))
	for i, p := range persisted {
		songs[i] = p.Song()
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	if len(songs) == 0 {
		return r.writePlain("No songs cached. Run 'songwall sync' first.\n")
	}

	data, err := formatter.SongsToText(songs)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}
