// Package resilience provides throttling for the registry client:
// a per-registry-host wait before issuing a subprocess call. It is purely
// a throttle, never a correctness gate.
package resilience

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hemzaz/tugboat/pkg/helper/log"
)

// RateLimiterSettings configures a single named rate limiter.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	BurstSize         int
	WaitTimeout       time.Duration
}

// DefaultRateLimiterSettings returns the default throttle applied to every
// registry host: generous enough not to slow a well-behaved run, tight
// enough to back off a rate-limited remote instead of hammering it.
func DefaultRateLimiterSettings() RateLimiterSettings {
	return RateLimiterSettings{
		RequestsPerSecond: 100,
		BurstSize:         200,
		WaitTimeout:       5 * time.Second,
	}
}

// RateLimiter wraps golang.org/x/time/rate for one named resource.
type RateLimiter struct {
	name     string
	settings RateLimiterSettings
	limiter  *rate.Limiter
	logger   log.Logger
}

// NewRateLimiter builds a RateLimiter for name.
func NewRateLimiter(name string, settings RateLimiterSettings, logger log.Logger) *RateLimiter {
	if logger == nil {
		logger = log.NewBasicLogger(log.InfoLevel)
	}
	return &RateLimiter{
		name:     name,
		settings: settings,
		limiter:  rate.NewLimiter(rate.Limit(settings.RequestsPerSecond), settings.BurstSize),
		logger:   logger,
	}
}

// Wait blocks until a token is available or settings.WaitTimeout elapses.
func (r *RateLimiter) Wait(ctx context.Context) error {
	waitCtx := ctx
	if r.settings.WaitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, r.settings.WaitTimeout)
		defer cancel()
	}
	if err := r.limiter.Wait(waitCtx); err != nil {
		r.logger.WithField("rate_limiter", r.name).Warn("rate limit wait failed")
		return err
	}
	return nil
}

// RateLimiterManager lazily creates one RateLimiter per name, so the
// registry client can throttle per-host without pre-declaring every host
// a plan might touch.
type RateLimiterManager struct {
	mu       sync.Mutex
	limiters map[string]*RateLimiter
	settings RateLimiterSettings
	logger   log.Logger
}

// NewRateLimiterManager builds a manager that lazily creates limiters with
// the given settings applied uniformly to every resource name.
func NewRateLimiterManager(settings RateLimiterSettings, logger log.Logger) *RateLimiterManager {
	if logger == nil {
		logger = log.NewBasicLogger(log.InfoLevel)
	}
	return &RateLimiterManager{
		limiters: make(map[string]*RateLimiter),
		settings: settings,
		logger:   logger,
	}
}

// Wait throttles against the named resource's limiter, creating it on
// first use.
func (m *RateLimiterManager) Wait(ctx context.Context, name string) error {
	return m.getOrCreate(name).Wait(ctx)
}

func (m *RateLimiterManager) getOrCreate(name string) *RateLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limiter, ok := m.limiters[name]; ok {
		return limiter
	}
	limiter := NewRateLimiter(name, m.settings, m.logger)
	m.limiters[name] = limiter
	return limiter
}
