package model

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Clock tracks one side's remaining time budget. It only measures; ending
// the game when it runs out is the session's decision.
type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time // When the clock was last started
	isRunning   bool
	now         func() time.Time
}

// NewClock returns a stopped clock. now defaults to time.Now when nil.
func NewClock(initialTime time.Duration, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{
		timeLeft:  initialTime,
		isRunning: false,
		now:       now,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
		log.Debugf("clock started with %v left", c.timeLeft)
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= c.now().Sub(c.lastStarted)
		c.isRunning = false
		log.Debugf("clock stopped with %v left", c.timeLeft)
	}
}

func (c *Clock) TimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	left := c.timeLeft
	if c.isRunning {
		left -= c.now().Sub(c.lastStarted)
	}
	if left < 0 {
		return 0
	}
	return left
}

func (c *Clock) Expired() bool {
	return c.TimeLeft() <= 0
}

func (c *Clock) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}
