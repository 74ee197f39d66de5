package session

import (
	"context"
	"sync"
	"time"
)

// DefaultTickRate is the classic game speed in ticks per second.
const DefaultTickRate = 15

// Clock blocks the loop until the next frame boundary.
type Clock interface {
	Wait(ctx context.Context) error
}

// TickerClock paces frames with a time.Ticker. The rate can change while the
// loop is running.
type TickerClock struct {
	mu     sync.Mutex
	rate   int
	ticker *time.Ticker
}

// NewTickerClock starts a clock at rate ticks per second.
func NewTickerClock(rate int) *TickerClock {
	rate = clampRate(rate)
	return &TickerClock{
		rate:   rate,
		ticker: time.NewTicker(interval(rate)),
	}
}

// Wait returns at the next tick or when ctx is done.
func (c *TickerClock) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ticker.C:
		return nil
	}
}

// SetRate changes the frame rate.
func (c *TickerClock) SetRate(rate int) {
	rate = clampRate(rate)
	c.mu.Lock()
	defer c.mu.Unlock()
	if rate == c.rate {
		return
	}
	c.rate = rate
	c.ticker.Reset(interval(rate))
}

// Rate returns the current ticks per second.
func (c *TickerClock) Rate() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

// Stop releases the ticker.
func (c *TickerClock) Stop() {
	c.ticker.Stop()
}

func interval(rate int) time.Duration {
	return time.Second / time.Duration(rate)
}

func clampRate(rate int) int {
	if rate < 1 {
		return DefaultTickRate
	}
	if rate > 120 {
		return 120
	}
	return rate
}
