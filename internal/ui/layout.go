package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// renderHeader renders the title bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	b := newBar(m.theme.Surface)

	left := b.text("🍅", styles.Logo) + b.space + b.text(defaultWindowTitle, styles.Text.Bold(true))

	var right []string
	switch m.view {
	case ViewTimer:
		right = append(right, b.text(m.timer.Clock(), styles.AccentText))
	case ViewIssues:
		right = append(right, b.text(fmt.Sprintf("%d min", m.minutes), styles.MutedText))
	}
	right = append(right, b.text(m.theme.Name, styles.FaintText))

	return b.line(left, b.join(right, " · "), m.width)
}

// renderFooter renders key hints and transient status.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	b := newBar(m.theme.Surface)

	var status []string
	if m.flash != "" {
		status = append(status, b.text(m.flash, styles.SuccessText))
	}
	if m.view == ViewIssues && !m.lastRefresh.IsZero() {
		status = append(status, b.text("refreshed "+humanize.RelTime(m.lastRefresh, m.now(), "ago", "from now"), styles.FaintText))
	}
	right := b.join(status, "  ")

	// Hints give way to the status text on narrow terminals.
	budget := max(10, m.width-lipgloss.Width(right)-4)
	var left string
	switch m.view {
	case ViewIssues:
		left = m.shortHelp(b, m.keys.listHints(), budget)
	case ViewTimer:
		left = m.shortHelp(b, []key.Binding{m.keys.Stop, m.keys.Help, m.keys.ForceQuit}, budget)
	default:
		left = b.text("ctrl+c quit", styles.FaintText)
	}

	return b.line(left, right, m.width)
}

func (m Model) shortHelp(b bar, bindings []key.Binding, width int) string {
	styles := m.theme.Styles()
	h := m.help
	h.Width = width
	h.Styles.ShortKey = styles.WarningText.Background(b.bg)
	h.Styles.ShortDesc = styles.MutedText.Background(b.bg)
	h.Styles.ShortSeparator = styles.FaintText.Background(b.bg)
	h.Styles.Ellipsis = styles.FaintText.Background(b.bg)
	return h.ShortHelpView(bindings)
}
