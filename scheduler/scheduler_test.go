package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAddTickerFires(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count int64
	s.AddTicker("tick", 10*time.Millisecond, func() {
		atomic.AddInt64(&count, 1)
	})

	time.Sleep(60 * time.Millisecond)
	assert.Greater(t, atomic.LoadInt64(&count), int64(1))
}

func TestAddTickerReplacesSameName(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var first, second int64
	s.AddTicker("task", 10*time.Millisecond, func() { atomic.AddInt64(&first, 1) })
	s.AddTicker("task", 10*time.Millisecond, func() { atomic.AddInt64(&second, 1) })

	time.Sleep(50 * time.Millisecond)
	frozen := atomic.LoadInt64(&first)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, frozen, atomic.LoadInt64(&first), "replaced task stopped firing")
	assert.Greater(t, atomic.LoadInt64(&second), int64(0))
	assert.Equal(t, []string{"task"}, s.ListTickers())
}

func TestRemoveStopsTask(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count int64
	s.AddTicker("gone", 10*time.Millisecond, func() { atomic.AddInt64(&count, 1) })
	s.Remove("gone")

	frozen := atomic.LoadInt64(&count)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, frozen, atomic.LoadInt64(&count))
	assert.Empty(t, s.ListTickers())
}

func TestTaskPanicIsContained(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var after int64
	s.AddTicker("panicky", 10*time.Millisecond, func() {
		if atomic.AddInt64(&after, 1) == 1 {
			panic("boom")
		}
	})

	time.Sleep(60 * time.Millisecond)
	assert.Greater(t, atomic.LoadInt64(&after), int64(1), "task keeps firing after a panic")
}

func TestStopHaltsEverything(t *testing.T) {
	s := New(zap.NewNop())

	var count int64
	s.AddTicker("a", 10*time.Millisecond, func() { atomic.AddInt64(&count, 1) })
	s.Stop()
	s.Stop() // idempotent

	frozen := atomic.LoadInt64(&count)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, frozen, atomic.LoadInt64(&count))
}
