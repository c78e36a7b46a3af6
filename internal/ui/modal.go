package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeError
)

// noticeModal shows a one-off message until dismissed.
type noticeModal struct {
	kind noticeKind
	text string
}

func newNotice(kind noticeKind, text string) noticeModal {
	return noticeModal{kind: kind, text: text}
}

func (n noticeModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, keys.Dismiss) {
		return n, nil, true
	}
	return n, nil, false
}

func (n noticeModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	title := styles.AccentText.Bold(true).Render("Notice")
	border := theme.Accent
	switch n.kind {
	case noticeSuccess:
		title = styles.SuccessText.Render("Done")
		border = theme.Success
	case noticeError:
		title = styles.DangerText.Render("Error")
		border = theme.Danger
	}

	modalWidth := 56
	if width > 0 && width-4 < modalWidth {
		modalWidth = max(20, width-4)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		styles.Text.Width(modalWidth-6).Render(n.text),
		"",
		styles.FaintText.Render("enter/esc to continue"),
	)

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		Width(modalWidth).
		Render(body)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
