package teles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsCollector(t *testing.T) {
	var c statsCollector

	s := c.snapshot()
	assert.Equal(t, ConnectionStats{}, s)
	assert.True(t, s.LastActivity.IsZero())

	c.recordDial(false)
	c.recordTransient()
	c.recordDial(true)
	c.recordCommand()
	c.recordFatal()
	c.recordExhausted()

	s = c.snapshot()
	assert.Equal(t, uint64(2), s.Dials)
	assert.Equal(t, uint64(1), s.Reconnects)
	assert.Equal(t, uint64(1), s.TransientErrors)
	assert.Equal(t, uint64(1), s.Commands)
	assert.Equal(t, uint64(1), s.FatalErrors)
	assert.Equal(t, uint64(1), s.Exhausted)
	assert.False(t, s.LastActivity.IsZero())
}
