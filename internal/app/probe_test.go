package app

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	base := 100 * time.Millisecond

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 100 * time.Millisecond},
		{"negative failures", -1, 100 * time.Millisecond},
		{"one failure", 1, 200 * time.Millisecond},
		{"two failures", 2, 400 * time.Millisecond},
		{"four failures", 4, 1600 * time.Millisecond},
		{"five failures capped", 5, 2 * time.Second}, // Would be 3.2s, capped to 2s
		{"many failures capped", 40, 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, base)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, base, got, tt.want)
			}
		})
	}
}

type flakyPinger struct {
	failFor int
	calls   int
}

func (f *flakyPinger) Ping(context.Context) error {
	f.calls++
	if f.calls <= f.failFor {
		return errors.New("connection refused")
	}
	return nil
}

func TestWaitForProxy_RetriesUntilUp(t *testing.T) {
	p := &flakyPinger{failFor: 2}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := waitForProxy(ctx, p, time.Millisecond); err != nil {
		t.Fatalf("waitForProxy: %v", err)
	}
	if p.calls != 3 {
		t.Fatalf("calls = %d, want 3", p.calls)
	}
}

func TestWaitForProxy_GivesUpWithContext(t *testing.T) {
	p := &flakyPinger{failFor: 1 << 30}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := waitForProxy(ctx, p, time.Millisecond)
	if err == nil {
		t.Fatal("waitForProxy should fail when the proxy never answers")
	}
	if p.calls < 2 {
		t.Fatalf("calls = %d, want retries before giving up", p.calls)
	}
}
