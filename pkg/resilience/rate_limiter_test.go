package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterManagerCreatesOneLimiterPerName(t *testing.T) {
	settings := RateLimiterSettings{RequestsPerSecond: 1000, BurstSize: 1000, WaitTimeout: time.Second}
	manager := NewRateLimiterManager(settings, nil)

	require.NoError(t, manager.Wait(context.Background(), "registry-a"))
	require.NoError(t, manager.Wait(context.Background(), "registry-b"))

	manager.mu.Lock()
	assert.Len(t, manager.limiters, 2)
	manager.mu.Unlock()
}

func TestRateLimiterWaitRespectsTimeout(t *testing.T) {
	settings := RateLimiterSettings{RequestsPerSecond: 0.001, BurstSize: 1, WaitTimeout: 10 * time.Millisecond}
	limiter := NewRateLimiter("slow", settings, nil)

	require.NoError(t, limiter.Wait(context.Background()))
	assert.Error(t, limiter.Wait(context.Background()))
}
