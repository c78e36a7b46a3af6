package pomodoro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/pomojira/internal/jira"
)

var (
	epoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	issue = jira.Issue{ID: "10", Key: "POM-1", Summary: "Write docs"}
)

func TestZeroValueIsIdle(t *testing.T) {
	var timer Timer
	assert.Equal(t, Idle, timer.State())
	_, ok := timer.Tick(epoch)
	assert.False(t, ok)
	_, ok = timer.Stop(epoch)
	assert.False(t, ok)
}

func TestExpiryLogsFullDuration(t *testing.T) {
	for _, minutes := range []int{1, 25, 60} {
		var timer Timer
		timer.Start(issue, minutes, epoch)

		var outcome Outcome
		var done bool
		now := epoch
		for i := 0; i < minutes*60+5 && !done; i++ {
			now = now.Add(time.Second)
			outcome, done = timer.Tick(now)
		}

		require.True(t, done, "timer of %d minutes never expired", minutes)
		assert.Equal(t, Expired, timer.State())
		assert.Equal(t, int64(minutes*60), outcome.Seconds)
		assert.True(t, outcome.Expired)
		assert.Equal(t, "POM-1", outcome.Issue.Key)
		assert.True(t, outcome.Loggable())
	}
}

func TestExpiryFiresOnce(t *testing.T) {
	var timer Timer
	timer.Start(issue, 1, epoch)

	_, ok := timer.Tick(epoch.Add(2 * time.Minute))
	require.True(t, ok)
	_, ok = timer.Tick(epoch.Add(3 * time.Minute))
	assert.False(t, ok)
	_, ok = timer.Stop(epoch.Add(3 * time.Minute))
	assert.False(t, ok)
}

func TestStopLogsElapsed(t *testing.T) {
	var timer Timer
	timer.Start(issue, 25, epoch)
	_, _ = timer.Tick(epoch.Add(5 * time.Minute))

	outcome, ok := timer.Stop(epoch.Add(10*time.Minute + 400*time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, Stopped, timer.State())
	assert.Equal(t, int64(600), outcome.Seconds)
	assert.False(t, outcome.Expired)
	assert.True(t, outcome.Loggable())
	assert.Equal(t, int64(10), outcome.Minutes())
}

func TestStopUnderAMinuteIsNotLoggable(t *testing.T) {
	var timer Timer
	timer.Start(issue, 25, epoch)

	outcome, ok := timer.Stop(epoch.Add(59 * time.Second))
	require.True(t, ok)
	assert.Equal(t, int64(59), outcome.Seconds)
	assert.False(t, outcome.Loggable())
}

func TestStopAfterDeadlineCountsAsExpiry(t *testing.T) {
	var timer Timer
	timer.Start(issue, 5, epoch)

	outcome, ok := timer.Stop(epoch.Add(time.Hour))
	require.True(t, ok)
	assert.Equal(t, Expired, timer.State())
	assert.Equal(t, int64(300), outcome.Seconds)
}

func TestRestartBumpsGeneration(t *testing.T) {
	var timer Timer
	first := timer.Start(issue, 25, epoch)
	second := timer.Start(jira.Issue{Key: "POM-2"}, 25, epoch.Add(time.Minute))

	assert.NotEqual(t, first, second)
	assert.Equal(t, second, timer.Generation())
	assert.Equal(t, "POM-2", timer.Issue().Key)
	assert.Equal(t, 25*time.Minute, timer.Remaining())

	timer.Reset()
	assert.Equal(t, Idle, timer.State())
	assert.NotEqual(t, second, timer.Generation())
}

func TestClockAndHands(t *testing.T) {
	var timer Timer
	timer.Start(issue, 25, epoch)
	assert.Equal(t, "25:00", timer.Clock())
	assert.Zero(t, timer.SecondHand())
	assert.Zero(t, timer.MinuteHand())

	_, _ = timer.Tick(epoch.Add(12*time.Minute + 30*time.Second))
	assert.Equal(t, "12:30", timer.Clock())
	assert.InDelta(t, 180, timer.SecondHand(), 0.001)
	assert.InDelta(t, 180, timer.MinuteHand(), 0.001)
}

func TestClockNeverRunsBackwards(t *testing.T) {
	var timer Timer
	timer.Start(issue, 25, epoch)
	_, _ = timer.Tick(epoch.Add(2 * time.Minute))
	_, _ = timer.Tick(epoch.Add(time.Minute))
	assert.Equal(t, 2*time.Minute, timer.Elapsed())
}

func TestStartClampsMinutes(t *testing.T) {
	var timer Timer
	timer.Start(issue, 0, epoch)
	assert.Equal(t, time.Minute, timer.Duration())
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(-time.Second))
	assert.Equal(t, "01:05", FormatClock(65*time.Second))
	assert.Equal(t, "60:00", FormatClock(time.Hour))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "state(9)", State(9).String())
}
