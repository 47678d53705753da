package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xraph/stakeledger/clock"
)

func TestManualNeverMovesBackwards(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	c := clock.NewManual(start)
	assert.True(t, c.Now().Equal(start))

	c.Advance(time.Hour)
	assert.True(t, c.Now().Equal(start.Add(time.Hour)))

	c.Advance(-time.Minute)
	c.Set(start)
	assert.True(t, c.Now().Equal(start.Add(time.Hour)))

	c.Set(start.Add(2 * time.Hour))
	assert.True(t, c.Now().Equal(start.Add(2*time.Hour)))
	assert.Equal(t, time.UTC, c.Now().Location())
}

func TestSystemIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, clock.System.Now().Location())
}
