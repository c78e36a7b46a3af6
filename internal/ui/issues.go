package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	msgNoIssues  = "No issues found. Make sure you have issues assigned to you in Jira."
	issueRowSize = 3 // title, meta, spacer
)

// renderIssues renders the assigned issue list.
func (m Model) renderIssues(height int) string {
	styles := m.theme.Styles()
	width := max(20, m.width-4)

	var lines []string
	title := styles.Text.Bold(true).Render(fmt.Sprintf("Your Issues (%d)", len(m.issues)))
	length := styles.MutedText.Render(fmt.Sprintf("Pomodoro: %d min", m.minutes))
	gap := max(1, width-lipgloss.Width(title)-lipgloss.Width(length))
	lines = append(lines, title+strings.Repeat(" ", gap)+length, "")

	if m.loading {
		lines = append(lines, m.spinner.View()+" "+styles.MutedText.Render("Loading issues..."))
		return indent(lines)
	}
	if m.fetchErr != "" {
		lines = append(lines, styles.DangerText.Render(m.fetchErr), "")
	}
	if len(m.issues) == 0 {
		if m.fetchErr == "" {
			lines = append(lines, styles.MutedText.Render(msgNoIssues))
		}
		return indent(lines)
	}

	visible := max(1, (height-len(lines))/issueRowSize)
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := min(len(m.issues), start+visible)

	for i := start; i < end; i++ {
		issue := m.issues[i]
		selected := i == m.selected

		marker := "  "
		if selected {
			marker = styles.AccentText.Render("▸ ")
		}
		heading := truncate(issue.Key+": "+issue.Summary, width-2)
		if selected {
			heading = styles.Selected.Render(padRight(heading, width-2))
		} else {
			heading = styles.Text.Render(heading)
		}

		status := issue.Status
		if status == "" {
			status = "Unknown"
		}
		meta := "  " + styles.StatusStyle(status).Render(status) +
			styles.MutedText.Render("  Total Time: ") +
			styles.Text.Bold(true).Render(formatTimeSpent(issue.TimeSpentSeconds))

		lines = append(lines, marker+heading, meta, "")
	}
	if end < len(m.issues) || start > 0 {
		lines = append(lines, styles.FaintText.Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(m.issues))))
	}
	return indent(lines)
}

func indent(lines []string) string {
	return lipgloss.NewStyle().Padding(1, 2, 0, 2).Render(strings.Join(lines, "\n"))
}
