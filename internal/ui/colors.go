package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/songwall/internal/models"
)

var styles = NewPalette("#BD93F9", "#50FA7B", "#FF5555", "#FFB86C", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	badge lipgloss.Style
	count lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		badge: lipgloss.NewStyle().Foreground(lipgloss.Color("#F8F8F2")).Background(lipgloss.Color("#44475A")).Padding(0, 1),
		count: NewBold(t),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// renderTags lays tag badges out in rows no wider than width.
func renderTags(counts []models.TagCount, width int) string {
	if len(counts) == 0 {
		return ""
	}

	var (
		rows []string
		row  []string
		used int
	)
	for _, tc := range counts {
		badge := styles.badge.Render(tc.Name + " " + styles.count.Render(strconv.Itoa(tc.Count)))
		w := lipgloss.Width(badge) + 1
		if width > 0 && used+w > width && len(row) > 0 {
			rows = append(rows, strings.Join(row, " "))
			row, used = nil, 0
		}
		row = append(row, badge)
		used += w
	}
	rows = append(rows, strings.Join(row, " "))
	return strings.Join(rows, "\n")
}
