package room

import (
	"sync"
	"time"
)

// Clock is one side's countdown. Callers pass the current time so that a
// room and its tests agree on it.
type Clock struct {
	mu          sync.Mutex
	limit       time.Duration
	timeLeft    time.Duration
	lastStarted time.Time
	isRunning   bool
}

func NewClock(limit time.Duration) *Clock {
	return &Clock{limit: limit, timeLeft: limit}
}

func (c *Clock) Start(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = now
		c.isRunning = true
	}
}

func (c *Clock) Stop(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= now.Sub(c.lastStarted)
		c.isRunning = false
	}
}

// Reset stops the clock and restores the full time.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.timeLeft = c.limit
	c.isRunning = false
}

// TimeLeft never goes below zero.
func (c *Clock) TimeLeft(now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	left := c.timeLeft
	if c.isRunning {
		left -= now.Sub(c.lastStarted)
	}
	if left < 0 {
		return 0
	}
	return left
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}

func (c *Clock) Expired(now time.Time) bool {
	return c.TimeLeft(now) == 0
}
