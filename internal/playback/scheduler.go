package playback

import (
	"sync"
	"time"
)

// Scheduler arms a repeating task. Exactly one task is armed per session at
// a time; the returned cancel function must be safe to call more than once
// and from within the task itself.
type Scheduler interface {
	Schedule(period time.Duration, fn func()) (cancel func())
}

// TickerScheduler runs tasks on a time.Ticker in a dedicated goroutine.
type TickerScheduler struct{}

func (TickerScheduler) Schedule(period time.Duration, fn func()) func() {
	ticker := time.NewTicker(period)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
