package clock

import (
	"sync"
	"time"

	"github.com/ewilliams-labs/moodboard/internal/core/ports"
)

var _ ports.Scheduler = (*Manual)(nil)

// Manual is a scheduler whose time only moves when Advance is called.
// Callbacks run synchronously on the caller of Advance, in due order.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	timers map[int]*manualTimer
}

type manualTimer struct {
	clock  *Manual
	id     int
	due    time.Duration
	period time.Duration
	fn     func()
}

// NewManual returns a Manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{timers: make(map[int]*manualTimer)}
}

// After schedules fn once, d after the current manual time.
func (m *Manual) After(d time.Duration, fn func()) ports.Timer {
	return m.add(d, 0, fn)
}

// Every schedules fn every d.
func (m *Manual) Every(d time.Duration, fn func()) ports.Timer {
	if d <= 0 {
		return stoppedTimer{}
	}
	return m.add(d, d, fn)
}

func (m *Manual) add(d, period time.Duration, fn func()) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d < 0 {
		d = 0
	}
	m.nextID++
	t := &manualTimer{clock: m, id: m.nextID, due: m.now + d, period: period, fn: fn}
	m.timers[t.id] = t
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if _, ok := t.clock.timers[t.id]; !ok {
		return false
	}
	delete(t.clock.timers, t.id)
	return true
}

// Advance moves time forward by d, firing every callback that becomes due.
// Callbacks may schedule or stop timers.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		var next *manualTimer
		for _, t := range m.timers {
			if t.due > target {
				continue
			}
			if next == nil || t.due < next.due || (t.due == next.due && t.id < next.id) {
				next = t
			}
		}
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.due
		if next.period > 0 {
			next.due += next.period
		} else {
			delete(m.timers, next.id)
		}
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

// Now returns the elapsed manual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Recurring counts live Every timers.
func (m *Manual) Recurring() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if t.period > 0 {
			n++
		}
	}
	return n
}

// Pending counts every live timer, one-shot or recurring.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}
