// Package clock provides the schedulers the effect engines run on: Real for
// production and Manual for deterministic tests.
package clock

import (
	"sync"
	"time"

	"github.com/ewilliams-labs/moodboard/internal/core/ports"
)

var _ ports.Scheduler = Real{}

// Real schedules on the runtime timers.
type Real struct{}

// After runs fn once after d on its own goroutine.
func (Real) After(d time.Duration, fn func()) ports.Timer {
	return time.AfterFunc(d, fn)
}

// Every runs fn every d until the returned timer is stopped. Ticks that
// arrive while fn is still running are dropped.
func (Real) Every(d time.Duration, fn func()) ports.Timer {
	if d <= 0 {
		return stoppedTimer{}
	}
	t := &ticker{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.loop(fn)
	return t
}

type ticker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *ticker) loop(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}

type stoppedTimer struct{}

func (stoppedTimer) Stop() bool { return false }
