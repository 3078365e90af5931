package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixed(t *testing.T) {
	start := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)
	c := NewFixed(start)
	assert.Equal(t, start, c.Now())

	c.Advance(time.Second)
	assert.Equal(t, 2027, c.Now().Year())

	c.Set(start)
	assert.Equal(t, 2026, c.Now().Year())
}

func TestSystem(t *testing.T) {
	before := time.Now()
	now := System().Now()
	assert.False(t, now.Before(before))
}
