package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_EveryFiresAtCadence(t *testing.T) {
	m := NewManual()
	fired := 0
	timer := m.Every(100*time.Millisecond, func() { fired++ })

	m.Advance(350 * time.Millisecond)
	assert.Equal(t, 3, fired)
	assert.Equal(t, 1, m.Recurring())

	require.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports already stopped")

	m.Advance(time.Second)
	assert.Equal(t, 3, fired)
	assert.Equal(t, 0, m.Recurring())
}

func TestManual_AfterFiresOnce(t *testing.T) {
	m := NewManual()
	fired := 0
	m.After(time.Second, func() { fired++ })
	assert.Equal(t, 1, m.Pending())

	m.Advance(999 * time.Millisecond)
	assert.Equal(t, 0, fired)

	m.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_CallbacksCanSchedule(t *testing.T) {
	m := NewManual()
	var order []string
	m.After(10*time.Millisecond, func() {
		order = append(order, "first")
		m.After(5*time.Millisecond, func() { order = append(order, "nested") })
	})
	m.After(20*time.Millisecond, func() { order = append(order, "second") })

	m.Advance(30 * time.Millisecond)
	assert.Equal(t, []string{"first", "nested", "second"}, order)
	assert.Equal(t, 30*time.Millisecond, m.Now())
}

func TestReal_EveryStops(t *testing.T) {
	var fired atomic.Int32
	timer := Real{}.Every(5*time.Millisecond, func() { fired.Add(1) })

	require.Eventually(t, func() bool { return fired.Load() >= 2 }, time.Second, time.Millisecond)
	require.True(t, timer.Stop())

	time.Sleep(20 * time.Millisecond)
	settled := fired.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, fired.Load())
}

func TestReal_EveryRejectsNonPositive(t *testing.T) {
	timer := Real{}.Every(0, func() { t.Fatal("must not fire") })
	assert.False(t, timer.Stop())
}
