package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellFace
	cellMark
	cellMinute
	cellSecond
	cellCenter
)

const (
	minuteHandLength = 0.6
	secondHandLength = 0.85
)

// clockGrid is an analog clock rasterized onto terminal cells. Cells are
// roughly twice as tall as they are wide, so x coordinates are doubled.
type clockGrid struct {
	radius int
	cells  [][]cellKind
}

func newClockGrid(radius int, minuteDeg, secondDeg float64) clockGrid {
	if radius < 2 {
		radius = 2
	}
	g := clockGrid{radius: radius, cells: make([][]cellKind, 2*radius+1)}
	for y := range g.cells {
		g.cells[y] = make([]cellKind, 4*radius+1)
	}

	for deg := 0.0; deg < 360; deg += 2 {
		g.plot(deg, float64(radius), cellFace)
	}
	for hour := 0; hour < 12; hour++ {
		g.plot(float64(hour*30), float64(radius), cellMark)
	}
	g.hand(minuteDeg, minuteHandLength*float64(radius), cellMinute)
	g.hand(secondDeg, secondHandLength*float64(radius), cellSecond)
	g.cells[radius][2*radius] = cellCenter
	return g
}

func (g clockGrid) center() (int, int) {
	return 2 * g.radius, g.radius
}

// point maps a clockwise angle from twelve and a distance from the center to a cell.
func (g clockGrid) point(deg, dist float64) (int, int) {
	rad := deg * math.Pi / 180
	cx, cy := g.center()
	x := cx + int(math.Round(2*dist*math.Sin(rad)))
	y := cy - int(math.Round(dist*math.Cos(rad)))
	return x, y
}

func (g clockGrid) plot(deg, dist float64, kind cellKind) {
	x, y := g.point(deg, dist)
	if y < 0 || y >= len(g.cells) || x < 0 || x >= len(g.cells[y]) {
		return
	}
	if g.cells[y][x] < kind {
		g.cells[y][x] = kind
	}
}

func (g clockGrid) hand(deg, length float64, kind cellKind) {
	steps := int(math.Ceil(length * 4))
	for i := 1; i <= steps; i++ {
		g.plot(deg, length*float64(i)/float64(steps), kind)
	}
}

// kindAt reports what occupies the cell at x, y.
func (g clockGrid) kindAt(x, y int) cellKind {
	if y < 0 || y >= len(g.cells) || x < 0 || x >= len(g.cells[y]) {
		return cellEmpty
	}
	return g.cells[y][x]
}

// render draws the grid with the theme's clock colors.
func (g clockGrid) render(theme Theme) string {
	glyphs := map[cellKind]struct {
		r     string
		style lipgloss.Style
	}{
		cellFace:   {"·", lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ClockFace))},
		cellMark:   {"•", lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Muted))},
		cellMinute: {"█", lipgloss.NewStyle().Foreground(lipgloss.Color(theme.MinuteHand))},
		cellSecond: {"▪", lipgloss.NewStyle().Foreground(lipgloss.Color(theme.SecondHand))},
		cellCenter: {"●", lipgloss.NewStyle().Foreground(lipgloss.Color(theme.SecondHand))},
	}

	lines := make([]string, len(g.cells))
	for y, row := range g.cells {
		var b strings.Builder
		for _, kind := range row {
			glyph, ok := glyphs[kind]
			if !ok {
				b.WriteString(" ")
				continue
			}
			b.WriteString(glyph.style.Render(glyph.r))
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}
