package tags

import (
	"sort"
	"strings"

	"github.com/desertthunder/songwall/internal/models"
)

// DefaultLimit is the number of tags kept in the summary.
const DefaultLimit = 20

type options struct {
	limit       int
	doubleCount bool
}

// Option configures [Aggregate].
type Option func(*options)

// WithLimit keeps at most n tags. Values <= 0 select [DefaultLimit].
func WithLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithDoubleCount reproduces the legacy counts, where each occurrence adds two.
func WithDoubleCount(on bool) Option {
	return func(o *options) { o.doubleCount = on }
}

// Split breaks a raw tag string on commas, trims each token and drops the empty ones.
func Split(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Aggregate counts tag occurrences across songs and returns the most frequent, highest count first.
//
// A nil or empty song list yields nil.
func Aggregate(songs []models.Song, opts ...Option) []models.TagCount {
	if len(songs) == 0 {
		return nil
	}

	o := options{limit: DefaultLimit}
	for _, opt := range opts {
		opt(&o)
	}

	step := 1
	if o.doubleCount {
		step = 2
	}

	index := make(map[string]int)
	var counts []models.TagCount
	for _, song := range songs {
		for _, tag := range Split(song.Metadata.Tags) {
			i, seen := index[tag]
			if !seen {
				i = len(counts)
				index[tag] = i
				counts = append(counts, models.TagCount{Name: tag})
			}
			counts[i].Count += step
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if len(counts) > o.limit {
		counts = counts[:o.limit]
	}
	return counts
}

// Total sums the counts in a summary.
func Total(counts []models.TagCount) int {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return total
}
