package api_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vytor/mistakeflash/internal/api"
	"github.com/vytor/mistakeflash/internal/testutil"
)

func TestRateLimiter_DropsIdleBuckets(t *testing.T) {
	clock := testutil.Clock(testutil.T0)
	rl := api.NewRateLimiter(10, 1, api.WithIdleTTL(time.Minute), api.WithLimiterClock(clock.Now))

	for i := 1; i <= 100; i++ {
		assert.True(t, rl.Allow(strconv.Itoa(i)))
	}
	assert.Equal(t, 100, rl.Len())

	clock.Advance(30 * time.Second)
	rl.Allow("1")
	assert.Equal(t, 100, rl.Len())

	// Only key 1 was seen within the last minute.
	clock.Advance(45 * time.Second)
	rl.Allow("101")
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiter_IdleTTLCoversRefill(t *testing.T) {
	clock := testutil.Clock(testutil.T0)
	// One token per 100s with a burst of 5 takes 500s to refill.
	rl := api.NewRateLimiter(0.01, 5, api.WithIdleTTL(time.Minute), api.WithLimiterClock(clock.Now))

	rl.Allow("1")
	clock.Advance(2 * time.Minute)
	rl.Allow("2")
	assert.Equal(t, 2, rl.Len())

	clock.Advance(7 * time.Minute)
	rl.Allow("2")
	assert.Equal(t, 1, rl.Len())
}
