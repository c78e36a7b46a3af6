package pomodoro

import (
	"fmt"
	"math"
	"time"

	"github.com/five82/pomojira/internal/jira"
)

// MinLoggableSeconds is the smallest amount of time Jira accepts as a worklog.
const MinLoggableSeconds = 60

// State is the lifecycle position of a Timer.
type State int

const (
	Idle State = iota
	Running
	Expired
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Expired:
		return "expired"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome is the result of a finished session.
type Outcome struct {
	Issue   jira.Issue
	Seconds int64
	Expired bool
}

// Loggable reports whether the session is long enough to submit.
func (o Outcome) Loggable() bool {
	return o.Seconds >= MinLoggableSeconds
}

// Minutes rounds the logged seconds to the nearest minute for display.
func (o Outcome) Minutes() int64 {
	return int64(math.Round(float64(o.Seconds) / 60))
}

// Timer is a single pomodoro session. The zero value is Idle.
type Timer struct {
	state      State
	issue      jira.Issue
	duration   time.Duration
	startedAt  time.Time
	elapsed    time.Duration
	generation uint64
}

// Start begins a session on issue lasting minutes. Any running session is
// abandoned without an outcome. It returns the new generation.
func (t *Timer) Start(issue jira.Issue, minutes int, now time.Time) uint64 {
	if minutes < 1 {
		minutes = 1
	}
	t.generation++
	t.state = Running
	t.issue = issue
	t.duration = time.Duration(minutes) * time.Minute
	t.startedAt = now
	t.elapsed = 0
	return t.generation
}

// Tick advances the session to now. It returns an outcome once, when the
// countdown reaches zero.
func (t *Timer) Tick(now time.Time) (Outcome, bool) {
	if t.state != Running {
		return Outcome{}, false
	}
	t.advance(now)
	if t.elapsed < t.duration {
		return Outcome{}, false
	}
	t.state = Expired
	return t.outcome(true), true
}

// Stop ends a running session early and returns the elapsed time as an outcome.
func (t *Timer) Stop(now time.Time) (Outcome, bool) {
	if t.state != Running {
		return Outcome{}, false
	}
	t.advance(now)
	if t.elapsed >= t.duration {
		t.state = Expired
		return t.outcome(true), true
	}
	t.state = Stopped
	return t.outcome(false), true
}

// Reset returns the timer to Idle and invalidates outstanding ticks.
func (t *Timer) Reset() {
	t.generation++
	t.state = Idle
	t.issue = jira.Issue{}
	t.elapsed = 0
}

func (t *Timer) advance(now time.Time) {
	elapsed := now.Sub(t.startedAt).Truncate(time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > t.duration {
		elapsed = t.duration
	}
	if elapsed > t.elapsed {
		t.elapsed = elapsed
	}
}

func (t *Timer) outcome(expired bool) Outcome {
	seconds := int64(t.elapsed / time.Second)
	if expired {
		seconds = int64(t.duration / time.Second)
	}
	return Outcome{Issue: t.issue, Seconds: seconds, Expired: expired}
}

// State returns the current lifecycle state.
func (t *Timer) State() State { return t.state }

// Issue returns the issue being worked on.
func (t *Timer) Issue() jira.Issue { return t.issue }

// Generation identifies the live tick chain.
func (t *Timer) Generation() uint64 { return t.generation }

// Running reports whether a session is in progress.
func (t *Timer) Running() bool { return t.state == Running }

// Duration is the configured session length.
func (t *Timer) Duration() time.Duration { return t.duration }

// Elapsed is the time spent so far, in whole seconds.
func (t *Timer) Elapsed() time.Duration { return t.elapsed }

// Remaining is the time left on the countdown.
func (t *Timer) Remaining() time.Duration { return t.duration - t.elapsed }

// Clock formats the remaining time as MM:SS.
func (t *Timer) Clock() string {
	return FormatClock(t.Remaining())
}

// SecondHand is the angle in degrees of the analog clock's second hand,
// measured clockwise from twelve.
func (t *Timer) SecondHand() float64 {
	secs := int64(t.elapsed / time.Second)
	return float64(secs%60) * 6
}

// MinuteHand sweeps a full turn over the whole session.
func (t *Timer) MinuteHand() float64 {
	if t.duration <= 0 {
		return 0
	}
	return float64(t.elapsed) / float64(t.duration) * 360
}

// FormatClock renders d as zero padded MM:SS.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
