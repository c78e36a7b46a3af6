package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// bar renders the header and footer strips. Every segment, including the
// spaces between words, carries the bar's background so resets between
// styled segments leave no gaps.
type bar struct {
	bg    lipgloss.Color
	fill  lipgloss.Style
	space string
}

func newBar(color string) bar {
	bg := lipgloss.Color(color)
	fill := lipgloss.NewStyle().Background(bg)
	return bar{bg: bg, fill: fill, space: fill.Render(" ")}
}

// text renders s word by word on the bar's background.
func (b bar) text(s string, style lipgloss.Style) string {
	if s == "" {
		return ""
	}
	styled := style.Background(b.bg)
	words := strings.Split(s, " ")
	for i, w := range words {
		if w != "" {
			words[i] = styled.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

func (b bar) pad(n int) string {
	if n <= 0 {
		return ""
	}
	return b.fill.Render(strings.Repeat(" ", n))
}

func (b bar) join(parts []string, sep string) string {
	return strings.Join(parts, b.fill.Render(sep))
}

// line lays out left and right segments across width.
func (b bar) line(left, right string, width int) string {
	gap := max(1, width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return b.fill.Width(width).Render(b.space + left + b.pad(gap) + right + b.space)
}
