package ui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderTimer renders the running pomodoro.
func (m Model) renderTimer(height int) string {
	styles := m.theme.Styles()
	issue := m.timer.Issue()

	digitsStyle := styles.AccentText.Bold(true)
	if m.timer.Remaining() < time.Minute {
		digitsStyle = styles.WarningText.Bold(true)
	}

	task := styles.Logo.Render("🍅 ") + styles.Text.Render(truncate(issue.Key+": "+issue.Summary, max(10, m.width-8)))
	digits := digitsStyle.Render(bigText(m.timer.Clock()))

	action := styles.FaintText.Render("s  Stop Timer & Log Work")
	if m.submitting {
		action = m.spinner.View() + " " + styles.MutedText.Render("Logging work to "+issue.Key+"...")
	}

	parts := []string{}
	// Clock (2r+1 rows) plus task, digits and action with spacing needs about 2r+12 rows.
	if radius := min(8, (height-12)/2); radius >= 3 {
		clock := newClockGrid(radius, m.timer.MinuteHand(), m.timer.SecondHand())
		parts = append(parts, clock.render(m.theme), "")
	}
	parts = append(parts, task, "", digits, "", action)

	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, parts...))
}
