// Package clock tracks how long a round has been running.
package clock

import (
	"fmt"
	"time"
)

// RoundClock counts whole seconds since its start. The count only moves
// when Update is called.
type RoundClock struct {
	now     func() time.Time
	start   time.Time
	elapsed int
	stopped bool
}

func New() *RoundClock {
	return NewWithSource(time.Now)
}

// NewWithSource starts a clock that reads the current time from now.
func NewWithSource(now func() time.Time) *RoundClock {
	c := &RoundClock{now: now}
	c.Start()
	return c
}

func (c *RoundClock) Start() {
	c.start = c.now()
	c.elapsed = 0
	c.stopped = false
}

// Update samples the time source and returns the elapsed seconds. A stopped
// clock keeps its last value.
func (c *RoundClock) Update() int {
	if !c.stopped {
		c.elapsed = int(c.now().Sub(c.start) / time.Second)
	}
	return c.elapsed
}

// Stop takes a final sample and freezes the clock.
func (c *RoundClock) Stop() {
	if c.stopped {
		return
	}
	c.Update()
	c.stopped = true
}

func (c *RoundClock) Elapsed() int {
	return c.elapsed
}

func (c *RoundClock) Stopped() bool {
	return c.stopped
}

// [RoundClock] implements [fmt.Stringer]
func (c *RoundClock) String() string {
	return fmt.Sprintf("%03d", c.elapsed)
}
