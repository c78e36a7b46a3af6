package prefs

import "fmt"

// Store is the loaded preferences plus the file they came from. It is read
// once at startup and handed to the components that need it; every mutation
// is written straight back to disk.
type Store struct {
	path  string
	prefs Prefs
}

// Open loads preferences from path (empty means the default location).
func Open(path string) *Store {
	p, _ := Load(path)
	return &Store{path: path, prefs: p}
}

// Prefs returns a copy of the current preferences.
func (s *Store) Prefs() Prefs {
	p := s.prefs
	if p.Auth != nil {
		auth := *p.Auth
		p.Auth = &auth
	}
	return p
}

// Credentials returns the stored credentials, if complete ones exist.
func (s *Store) Credentials() (Credentials, bool) {
	if s.prefs.Auth == nil || !s.prefs.Auth.Complete() {
		return Credentials{}, false
	}
	return *s.prefs.Auth, true
}

// SaveCredentials persists credentials. Incomplete credentials are rejected.
func (s *Store) SaveCredentials(c Credentials) error {
	if !c.Complete() {
		return ErrIncompleteCredentials
	}
	next := s.prefs
	next.Auth = &c
	return s.commit(next)
}

// ClearCredentials removes stored credentials.
func (s *Store) ClearCredentials() error {
	next := s.prefs
	next.Auth = nil
	return s.commit(next)
}

// SetPomodoroMinutes stores a new interval length, clamped to 1..60, and
// returns the value that was kept.
func (s *Store) SetPomodoroMinutes(minutes int) (int, error) {
	next := s.prefs
	next.PomodoroMinutes = ClampMinutes(minutes)
	return next.PomodoroMinutes, s.commit(next)
}

// SetTheme stores the selected theme name.
func (s *Store) SetTheme(name string) error {
	next := s.prefs
	next.Theme = name
	return s.commit(next)
}

func (s *Store) commit(next Prefs) error {
	// Memory follows intent even if the write fails; the caller reports the error.
	s.prefs = next
	if err := Save(s.path, next); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	return nil
}
