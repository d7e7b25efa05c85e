// package formatter provides functions to export the tag summary and song lists to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/songwall/internal/models"
	"github.com/desertthunder/songwall/internal/shared"
	"github.com/desertthunder/songwall/internal/tags"
)

// TagsToCSV converts a tag summary to CSV format with columns: Rank, Tag, Count
func TagsToCSV(counts []models.TagCount) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Rank", "Tag", "Count"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, tc := range counts {
		record := []string{strconv.Itoa(i + 1), tc.Name, strconv.Itoa(tc.Count)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// TagsToMarkdown renders a tag summary as a Markdown table under a heading.
func TagsToMarkdown(counts []models.TagCount, songCount int) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Top Tags\n\n")
	fmt.Fprintf(&buf, "**Songs**: %d\n", songCount)
	fmt.Fprintf(&buf, "**Tag occurrences**: %d\n\n", tags.Total(counts))

	if len(counts) == 0 {
		buf.WriteString("_No tags._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| # | Tag | Count |\n")
	buf.WriteString("|---|-----|-------|\n")
	for i, tc := range counts {
		fmt.Fprintf(&buf, "| %d | %s | %d |\n", i+1, escapeCell(tc.Name), tc.Count)
	}

	return buf.Bytes(), nil
}

// TagsToText converts a tag summary to aligned plain text.
func TagsToText(counts []models.TagCount) ([]byte, error) {
	var buf bytes.Buffer

	width := 0
	for _, tc := range counts {
		width = max(width, len(tc.Name))
	}

	for i, tc := range counts {
		fmt.Fprintf(&buf, "%2d. %-*s %d\n", i+1, width, tc.Name, tc.Count)
	}

	return buf.Bytes(), nil
}

// SongsToText lists songs one per line as "title • likes • plays • tags".
func SongsToText(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	for i, s := range songs {
		fmt.Fprintf(&buf, "%d. %s • %s likes • %s plays", i+1, s.Title, shared.FormatCount(s.UpvoteCount), shared.FormatCount(s.PlayCount))
		if badges := tags.Split(s.Metadata.Tags); len(badges) > 0 {
			fmt.Fprintf(&buf, " • %s", strings.Join(badges, ", "))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// WriteExport writes data to path, creating parent directories as needed.
func WriteExport(data []byte, path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty output path", shared.ErrInvalidArgument)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
