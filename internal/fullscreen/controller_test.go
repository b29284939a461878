package fullscreen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsWindowed(t *testing.T) {
	var c Controller
	assert.False(t, c.IsFullscreen())
}

func TestToggleAndSet(t *testing.T) {
	c := NewController()
	assert.True(t, c.Toggle())
	assert.True(t, c.IsFullscreen())
	assert.False(t, c.Toggle())

	c.Set(true)
	assert.True(t, c.IsFullscreen())
	c.Set(false)
	assert.False(t, c.IsFullscreen())
}

func TestSubscribeReceivesChanges(t *testing.T) {
	c := NewController()
	updates, cancel := c.Subscribe()
	defer cancel()

	c.Set(true)
	select {
	case v := <-updates:
		assert.True(t, v)
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}
}

func TestSetSameValueDoesNotNotify(t *testing.T) {
	c := NewController()
	updates, cancel := c.Subscribe()
	defer cancel()

	c.Set(false)
	select {
	case <-updates:
		t.Fatal("unexpected notification")
	default:
	}
}

func TestSlowSubscriberSeesLatest(t *testing.T) {
	c := NewController()
	updates, cancel := c.Subscribe()
	defer cancel()

	c.Toggle()
	c.Toggle()
	c.Toggle()

	select {
	case v := <-updates:
		assert.True(t, v)
	default:
		t.Fatal("no notification")
	}
	select {
	case <-updates:
		t.Fatal("notifications should coalesce")
	default:
	}
}

func TestCancelClosesChannel(t *testing.T) {
	c := NewController()
	updates, cancel := c.Subscribe()
	cancel()
	cancel()

	_, open := <-updates
	require.False(t, open)

	// Changing state after cancel must not panic on the closed channel.
	c.Toggle()
}
