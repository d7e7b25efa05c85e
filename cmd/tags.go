package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/songwall/internal/formatter"
	"github.com/desertthunder/songwall/internal/models"
	"github.com/desertthunder/songwall/internal/shared"
	"github.com/desertthunder/songwall/internal/tags"
	"github.com/urfave/cli/v3"
)

// Tags prints the tag summary of the cached songs.
func (r *Runner) Tags(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String("format"))
	switch format {
	case "text", "csv", "markdown", "md", "json":
	default:
		return fmt.Errorf("%w: unknown format %q (text, csv, markdown, json)", shared.ErrInvalidFlag, format)
	}

	repo, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	songs, err := repo.Songs()
	if err != nil {
		return err
	}

	counts := tags.Aggregate(songs, r.tagOptions(int(cmd.Int("limit")), cmd.Bool("double"))...)
	r.logger.Debug("aggregated tags", "songs", len(songs), "tags", len(counts))

	data, err := renderTags(format, counts, len(songs))
	if err != nil {
		return err
	}

	if out := cmd.String("output"); out != "" {
		if err := formatter.WriteExport(data, out); err != nil {
			return err
		}
		r.logger.Info("tag summary written", "path", out, "format", format)
		return nil
	}

	if len(counts) == 0 && format == "text" {
		return r.writePlain("No tags found. Run 'songwall sync' first.\n")
	}
	return r.writePlain("%s", data)
}

func renderTags(format string, counts []models.TagCount, songCount int) ([]byte, error) {
	switch format {
	case "csv":
		return formatter.TagsToCSV(counts)
	case "markdown", "md":
		return formatter.TagsToMarkdown(counts, songCount)
	case "json":
		if counts == nil {
			counts = []models.TagCount{}
		}
		data, err := shared.MarshalJSON(counts, true)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return formatter.TagsToText(counts)
	}
}
