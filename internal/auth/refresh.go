package auth

import (
	"context"
	"time"
)

// DefaultRefreshInterval is four hours short of the backend's 24h token lifetime.
const DefaultRefreshInterval = 20 * time.Hour

// refreshTask calls tick every interval until stopped. stop never blocks, so
// it is safe to call from inside tick.
type refreshTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startRefreshTask(interval time.Duration, tick func(context.Context)) *refreshTask {
	ctx, cancel := context.WithCancel(context.Background())
	t := &refreshTask{cancel: cancel, done: make(chan struct{})}
	go t.run(ctx, interval, tick)
	return t
}

func (t *refreshTask) run(ctx context.Context, interval time.Duration, tick func(context.Context)) {
	defer close(t.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick(ctx)
		}
	}
}

func (t *refreshTask) stop() {
	t.cancel()
}

func (t *refreshTask) wait() {
	<-t.done
}
