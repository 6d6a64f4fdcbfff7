package app

import (
	"sync"
	"time"
)

// Ticker is the subset of time.Ticker the clock needs; tests substitute a manual one.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Clock accrues elapsed time for the current item and for the whole session.
// The item segment can be frozen on its own (after a check) while the session keeps running.
type Clock struct {
	now       func() time.Time
	interval  time.Duration
	newTicker func(time.Duration) Ticker

	mu          sync.Mutex
	running     bool
	itemPaused  bool
	totalStart  time.Time
	totalAcc    time.Duration
	itemStart   time.Time
	itemAcc     time.Duration
	onTick      func()
	stopTicking chan struct{}
}

// NewClock returns a stopped clock. interval <= 0 disables ticking.
func NewClock(now func() time.Time, interval time.Duration, newTicker func(time.Duration) Ticker) *Clock {
	if now == nil {
		now = time.Now
	}
	if newTicker == nil {
		newTicker = newTimeTicker
	}
	return &Clock{now: now, interval: interval, newTicker: newTicker}
}

// OnTick registers the callback run on every tick while the clock is running.
func (c *Clock) OnTick(fn func()) {
	c.mu.Lock()
	c.onTick = fn
	c.mu.Unlock()
}

// Start begins accruing item and session time. Starting a running clock is a no-op.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	now := c.now()
	c.running = true
	c.totalStart = now
	if !c.itemPaused {
		c.itemStart = now
	}
	c.startTickingLocked()
}

// Stop freezes both counters.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	now := c.now()
	c.totalAcc += now.Sub(c.totalStart)
	if !c.itemPaused {
		c.itemAcc += now.Sub(c.itemStart)
	}
	c.running = false
	c.stopTickingLocked()
}

// PauseItem freezes the item segment only.
func (c *Clock) PauseItem() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.itemPaused {
		return
	}
	if c.running {
		c.itemAcc += c.now().Sub(c.itemStart)
	}
	c.itemPaused = true
}

// ResumeItem continues the item segment from its frozen value.
func (c *Clock) ResumeItem() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.itemPaused {
		return
	}
	c.itemPaused = false
	c.itemStart = c.now()
}

// ResetItem zeroes the item segment and lets it accrue again.
func (c *Clock) ResetItem() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.itemAcc = 0
	c.itemPaused = false
	c.itemStart = c.now()
}

// Reset stops the clock and zeroes both counters.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTickingLocked()
	c.running = false
	c.itemPaused = false
	c.totalAcc = 0
	c.itemAcc = 0
}

// Running reports whether the session counter is accruing.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// ElapsedItem returns whole seconds spent on the current item.
func (c *Clock) ElapsedItem() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.itemAcc
	if c.running && !c.itemPaused {
		d += c.now().Sub(c.itemStart)
	}
	return int(d / time.Second)
}

// ElapsedTotal returns whole seconds since the session started.
func (c *Clock) ElapsedTotal() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.totalAcc
	if c.running {
		d += c.now().Sub(c.totalStart)
	}
	return int(d / time.Second)
}

func (c *Clock) startTickingLocked() {
	if c.interval <= 0 || c.onTick == nil || c.stopTicking != nil {
		return
	}
	stop := make(chan struct{})
	c.stopTicking = stop
	ticker := c.newTicker(c.interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C():
				c.mu.Lock()
				// Stop may have raced with this tick; a stopped clock never fires.
				if c.stopTicking != stop {
					c.mu.Unlock()
					return
				}
				fn := c.onTick
				c.mu.Unlock()
				fn()
			}
		}
	}()
}

func (c *Clock) stopTickingLocked() {
	if c.stopTicking == nil {
		return
	}
	close(c.stopTicking)
	c.stopTicking = nil
}
