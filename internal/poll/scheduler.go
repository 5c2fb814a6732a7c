package poll

import (
	"sync"
	"time"
)

// Scheduler abstracts the periodic trigger so polling can be swapped for a
// push mechanism without touching view logic. Every runs fn on each tick
// until the returned stop function is called. At most one timer per concern
// is active at any time; restarting a concern means stop then Every again.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
}

// TickerScheduler is the production Scheduler backed by time.Ticker.
type TickerScheduler struct{}

// Every runs fn on every tick of d until stop is called.
func (TickerScheduler) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})

	go func() {
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
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}
