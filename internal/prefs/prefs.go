// Package prefs handles pomojira user preferences persistence.
// Preferences, including the Jira credentials, are stored in
// ~/.config/pomojira/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for pomojira.
type Prefs struct {
	Theme           string       `toml:"theme"`
	PomodoroMinutes int          `toml:"pomodoro_minutes"`
	Auth            *Credentials `toml:"auth,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/pomojira/prefs.toml"
	defaultTheme     = "Nightfox"

	// DefaultPomodoroMinutes is the work interval used until the user changes it.
	DefaultPomodoroMinutes = 25
	// MinPomodoroMinutes and MaxPomodoroMinutes bound the adjustable interval.
	MinPomodoroMinutes = 1
	MaxPomodoroMinutes = 60
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, PomodoroMinutes: DefaultPomodoroMinutes}
}

// ClampMinutes bounds a pomodoro length to the supported range.
func ClampMinutes(minutes int) int {
	switch {
	case minutes < MinPomodoroMinutes:
		return MinPomodoroMinutes
	case minutes > MaxPomodoroMinutes:
		return MaxPomodoroMinutes
	default:
		return minutes
	}
}

// Load reads preferences from the given path, falling back to defaults if missing.
// Stored credentials that are incomplete are dropped so the settings form is shown.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), nil
	}

	prefs := Defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Defaults(), nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if prefs.PomodoroMinutes == 0 {
		prefs.PomodoroMinutes = DefaultPomodoroMinutes
	}
	prefs.PomodoroMinutes = ClampMinutes(prefs.PomodoroMinutes)
	if prefs.Auth != nil && !prefs.Auth.Complete() {
		prefs.Auth = nil
	}

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
// The file holds an API token, so it is only readable by the owner.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
