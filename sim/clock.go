package sim

import (
	"sync"
	"time"
)

// Clock is a manual clock. Sleep advances it instantly, so timing loops run
// without real delays and elapsed time is deterministic.
type Clock struct {
	mx  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mx.Lock()
	defer c.mx.Unlock()
	return c.now
}

func (c *Clock) Sleep(d time.Duration) {
	c.Advance(d)
}

func (c *Clock) Advance(d time.Duration) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.now = c.now.Add(d)
}
