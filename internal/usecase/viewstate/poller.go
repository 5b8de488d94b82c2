package viewstate

import (
	"context"
	"sync"
	"time"
)

// Poller runs fn right away and then every interval until stopped.
type Poller struct {
	interval time.Duration
	fn       func(context.Context)
}

func NewPoller(interval time.Duration, fn func(context.Context)) *Poller {
	return &Poller{interval: interval, fn: fn}
}

// Start launches the loop under a child of ctx. The returned stop func
// cancels it and waits for an in-flight fn to return; it is safe to call
// more than once.
func (p *Poller) Start(ctx context.Context) (stop func()) {
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		p.fn(loopCtx)
		if p.interval <= 0 {
			<-loopCtx.Done()
			return
		}

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				p.fn(loopCtx)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
