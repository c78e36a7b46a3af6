// Package ui provides the terminal user interface for pomojira.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea model. Network calls run as tea.Cmds and
// report back as messages, so Update is the only place state changes. The
// proxy is reached through backend.IssueService and preferences through a
// prefs.Store handed in by the caller.
//
// # Package Structure
//
//   - app.go: Model, Update loop, messages and commands, and Run
//   - settings.go: Credentials form (domain, email, masked API token)
//   - issues.go: Assigned issue list with status badges and logged time
//   - timer.go: Countdown view with the analog clock and block digits
//   - clock.go, digits.go: Clock face rasterizer and block font
//   - modal.go, help.go: Notice dialogs and the help overlay
//   - layout.go, bar.go: Header and footer bars with a gap-free background
//   - theme.go: Palettes, clock colors and Jira status badges
//
// # View Types
//
//   - Settings View: Shown until complete credentials are stored
//   - Issues View: Unfinished issues assigned to the user
//   - Timer View: A running pomodoro for one issue
//
// # Event Flow
//
//  1. Init fetches issues when credentials exist, otherwise focuses the form
//  2. enter on an issue starts the timer and arms a one second tick
//  3. Each tick carries the timer generation; stale ticks are dropped
//  4. Expiry or s submits the worklog, then a notice reports the result
//  5. The issue list is refreshed after a successful submission
//
// # Key Bindings
//
//   - enter: Start a pomodoro on the selected issue
//   - r: Reload issues (ignored while loading)
//   - +/-: Lengthen or shorten the pomodoro (1 to 60 minutes)
//   - y: Copy the selected issue key
//   - S: Edit credentials
//   - X: Clear credentials
//   - s: Stop the timer and log work
//   - T: Cycle theme
//   - ?: Toggle help
//   - q or Ctrl+C: Exit
package ui
