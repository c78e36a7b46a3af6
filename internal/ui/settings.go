package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pomojira/internal/prefs"
)

const (
	msgFillAllFields = "Please fill in all fields."
	apiTokenURL      = "https://id.atlassian.com/manage-profile/security/api-tokens"
)

const (
	fieldDomain = iota
	fieldEmail
	fieldToken
	fieldCount
)

// settingsForm collects the Jira domain, login email and API token.
type settingsForm struct {
	inputs [fieldCount]textinput.Model
	labels [fieldCount]string
	focus  int
	err    string
}

func newSettingsForm(initial prefs.Credentials) settingsForm {
	f := settingsForm{
		labels: [fieldCount]string{"Jira Domain", "Jira Login Email", "Jira API Token"},
	}
	placeholders := [fieldCount]string{"your-company.atlassian.net", "you@example.com", "Your Jira API Token"}
	values := [fieldCount]string{initial.Domain, initial.Email, initial.Token}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 256
		ti.Width = 48
		ti.SetValue(values[i])
		f.inputs[i] = ti
	}
	f.inputs[fieldToken].EchoMode = textinput.EchoPassword
	f.inputs[fieldToken].EchoCharacter = '•'
	f.inputs[fieldDomain].Focus()
	return f
}

// credentials validates the form and returns normalized credentials.
func (f *settingsForm) credentials() (prefs.Credentials, bool) {
	creds, err := prefs.NewCredentials(
		f.inputs[fieldDomain].Value(),
		f.inputs[fieldEmail].Value(),
		f.inputs[fieldToken].Value(),
	)
	if err != nil {
		f.err = msgFillAllFields
		return prefs.Credentials{}, false
	}
	f.err = ""
	return creds, true
}

func (f *settingsForm) setFocus(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for idx := range f.inputs {
		if idx == f.focus {
			cmd = f.inputs[idx].Focus()
			continue
		}
		f.inputs[idx].Blur()
	}
	return cmd
}

// update routes a key to the form. submit is true when the user asked to save.
func (f *settingsForm) update(msg tea.KeyMsg, keys keyMap) (cmd tea.Cmd, submit bool) {
	switch {
	case key.Matches(msg, keys.NextField):
		return f.setFocus(f.focus + 1), false
	case key.Matches(msg, keys.PrevField):
		return f.setFocus(f.focus - 1), false
	case key.Matches(msg, keys.Submit):
		if f.focus < fieldCount-1 {
			return f.setFocus(f.focus + 1), false
		}
		return nil, true
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd, false
}

func (f *settingsForm) setWidth(width int) {
	w := min(64, max(20, width-12))
	for i := range f.inputs {
		f.inputs[i].Width = w
	}
}

// renderSettings renders the credentials form.
func (m Model) renderSettings() string {
	styles := m.theme.Styles()
	f := m.settings

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Jira Configuration"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Please provide your Jira credentials to connect."))
	b.WriteString("\n\n")

	for i := range f.inputs {
		label := styles.MutedText.Render(f.labels[i])
		border := m.theme.Border
		if i == f.focus {
			label = styles.AccentText.Bold(true).Render(f.labels[i])
			border = m.theme.BorderFocus
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(border)).
			Padding(0, 1).
			Render(f.inputs[i].View()))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("Create API Token: " + apiTokenURL))
	b.WriteString("\n\n")

	if f.err != "" {
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n\n")
	}

	hints := "tab next field · enter save and connect · ctrl+c quit"
	if m.hasCredentials() {
		hints = "tab next field · enter save and connect · esc back · ctrl+c quit"
	}
	b.WriteString(styles.FaintText.Render(hints))

	card := styles.Card.BorderForeground(lipgloss.Color(m.theme.Accent)).Render(b.String())
	return lipgloss.Place(m.width, max(0, m.height-2), lipgloss.Center, lipgloss.Center, card)
}
