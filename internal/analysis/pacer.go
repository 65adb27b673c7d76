package analysis

import (
	"context"
	"time"
)

// pacer spaces outbound calls by a fixed interval. The delay policy lives
// here rather than inline in orchestration loops so tests can substitute the
// sleep function and run without real time passing.
type pacer struct {
	interval time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

func newPacer(interval time.Duration) *pacer {
	return &pacer{interval: interval, sleep: sleepContext}
}

// wait blocks for one interval, or until the context is cancelled.
func (p *pacer) wait(ctx context.Context) error {
	if p.interval <= 0 {
		return nil
	}
	return p.sleep(ctx, p.interval)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
