package app

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultProbeInterval = 100 * time.Millisecond
	maxBackoff           = 2 * time.Second
	proxyReadyTimeout    = 5 * time.Second
)

type pinger interface {
	Ping(ctx context.Context) error
}

// calculateBackoff doubles the base interval per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

// waitForProxy polls the proxy until it answers or ctx ends.
func waitForProxy(ctx context.Context, p pinger, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	failures := 0
	for {
		err := p.Ping(ctx)
		if err == nil {
			return nil
		}
		failures++

		timer := time.NewTimer(calculateBackoff(failures-1, interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("after %d attempts: %w", failures, err)
		case <-timer.C:
		}
	}
}
