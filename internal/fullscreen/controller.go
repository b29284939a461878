// Package fullscreen owns the "preview is fullscreen" flag and notifies
// observers when it changes.
package fullscreen

import "sync"

// Controller is an observable boolean. The zero value is ready to use and
// starts out windowed.
type Controller struct {
	mu          sync.RWMutex
	on          bool
	subscribers map[int]chan bool
	nextID      int
}

func NewController() *Controller { return &Controller{} }

// IsFullscreen reports the current state.
func (c *Controller) IsFullscreen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.on
}

// Set changes the state and notifies subscribers if it differs.
func (c *Controller) Set(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.on == on {
		return
	}
	c.on = on
	c.notifyLocked()
}

// Toggle flips the state and returns the new value.
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.on = !c.on
	c.notifyLocked()
	return c.on
}

// Subscribe returns a channel that receives the latest state after each
// change. A slow reader only ever sees the most recent value. Call cancel
// to stop receiving; the channel is closed afterwards.
func (c *Controller) Subscribe() (updates <-chan bool, cancel func()) {
	ch := make(chan bool, 1)

	c.mu.Lock()
	if c.subscribers == nil {
		c.subscribers = make(map[int]chan bool)
	}
	id := c.nextID
	c.nextID++
	c.subscribers[id] = ch
	c.mu.Unlock()

	var once sync.Once
	cancel = func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, id)
			c.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (c *Controller) notifyLocked() {
	for _, ch := range c.subscribers {
		// Drop a stale pending value so the channel always holds the latest one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- c.on:
		default:
		}
	}
}
