// Package retrylimit throttles outgoing calls per key and retries the ones that
// fail with a temporary error. It works with any error type and gives special
// treatment to errors carrying an HTTP status code.
//
// Example usage:
//
//	limiters := retrylimit.NewKeyedLimiter(retrylimit.LimiterConfig{Rate: 1, Burst: 3})
//	err := retrylimit.WithRetry(ctx, func() error {
//	    return send(channelID, text)
//	}, limiters.Get(channelID), retrylimit.DefaultRetryConfig())
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// =============================================================================
// Limiter
// =============================================================================

// LimiterConfig configures an AdaptiveLimiter.
type LimiterConfig struct {
	Rate     rate.Limit    // steady state events per second, also the ceiling
	Burst    int           // bucket size
	Min      rate.Limit    // floor after repeated rate limiting (0 = Rate/8)
	StepDown float64       // multiplier applied when rate limited (0 = 0.5)
	Recovery time.Duration // quiet time before the rate climbs back (0 = 10s)
}

func (c LimiterConfig) withDefaults() LimiterConfig {
	if c.Rate <= 0 {
		c.Rate = 1
	}
	if c.Burst < 1 {
		c.Burst = 1
	}
	if c.Min <= 0 || c.Min > c.Rate {
		c.Min = c.Rate / 8
	}
	if c.StepDown <= 0 || c.StepDown >= 1 {
		c.StepDown = 0.5
	}
	if c.Recovery <= 0 {
		c.Recovery = 10 * time.Second
	}
	return c
}

// AdaptiveLimiter is a rate limit that backs off when the remote side rate
// limits us and climbs back to the configured rate on success. Thread-safe.
type AdaptiveLimiter struct {
	mu        sync.RWMutex
	limiter   *rate.Limiter
	cfg       LimiterConfig
	lastError time.Time
}

// NewAdaptiveLimiter creates an AdaptiveLimiter running at cfg.Rate.
func NewAdaptiveLimiter(cfg LimiterConfig) *AdaptiveLimiter {
	cfg = cfg.withDefaults()
	return &AdaptiveLimiter{
		limiter: rate.NewLimiter(cfg.Rate, cfg.Burst),
		cfg:     cfg,
	}
}

// Wait blocks until a token is available or the context is canceled.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Success doubles the rate, up to the configured rate, once the limiter has
// been quiet for the recovery period.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > a.cfg.Recovery {
		a.adjustLimit(a.limiter.Limit() * 2)
	}
}

// RateLimited reduces the rate after the remote side reported overload.
func (a *AdaptiveLimiter) RateLimited() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.adjustLimit(rate.Limit(float64(a.limiter.Limit()) * a.cfg.StepDown))
}

// CurrentLimit returns the current events per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.limiter.Limit())
}

// adjustLimit sets the limiter to a new rate, respecting min/max boundaries.
func (a *AdaptiveLimiter) adjustLimit(newLimit rate.Limit) {
	newLimit = min(max(newLimit, a.cfg.Min), a.cfg.Rate)
	if newLimit != a.limiter.Limit() {
		a.limiter.SetLimit(newLimit)
	}
}

// KeyedLimiter hands out one AdaptiveLimiter per key, e.g. per channel.
type KeyedLimiter struct {
	mu       sync.Mutex
	cfg      LimiterConfig
	limiters map[string]*AdaptiveLimiter
}

// NewKeyedLimiter returns a KeyedLimiter creating its limiters from cfg.
func NewKeyedLimiter(cfg LimiterConfig) *KeyedLimiter {
	return &KeyedLimiter{cfg: cfg, limiters: make(map[string]*AdaptiveLimiter)}
}

// Get returns the limiter of key, creating it on first use.
func (k *KeyedLimiter) Get(key string) *AdaptiveLimiter {
	k.mu.Lock()
	defer k.mu.Unlock()
	lim, ok := k.limiters[key]
	if !ok {
		lim = NewAdaptiveLimiter(k.cfg)
		k.limiters[key] = lim
	}
	return lim
}

// Len returns the number of keys seen so far.
func (k *KeyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}

// =============================================================================
// Errors
// =============================================================================

// ErrAttemptsExceeded is wrapped by WithRetry when every attempt failed.
var ErrAttemptsExceeded = errors.New("max attempts exceeded")

// HTTPError is implemented by errors that carry an HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// RetryAfter is implemented by errors that know how long the remote side
// wants us to wait.
type RetryAfter interface {
	RetryAfter() time.Duration
}

// FatalError wraps errors that should stop retries immediately.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// ErrorClassifier reports whether an error is worth another attempt.
type ErrorClassifier func(error) bool

// DefaultClassifier retries 429 (rate limit) and 5xx (server errors), and
// errors without a status code.
func DefaultClassifier(err error) bool {
	code, ok := statusCode(err)
	if !ok {
		return true
	}
	return code == http.StatusTooManyRequests || code >= 500 && code < 600
}

// =============================================================================
// Retry
// =============================================================================

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxAttempts     int             // Maximum number of attempts (0 = 3)
	InitialDelay    time.Duration   // Delay after the first failure
	MaxDelay        time.Duration   // Maximum delay between attempts
	Multiplier      float64         // Delay multiplier for exponential backoff
	Jitter          bool            // Add up to 25% random jitter
	ErrorClassifier ErrorClassifier // nil = DefaultClassifier
}

// DefaultRetryConfig returns the configuration used for chat replies.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialDelay:    500 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		Multiplier:      2.0,
		Jitter:          true,
		ErrorClassifier: DefaultClassifier,
	}
}

// WithRetry runs fn until it succeeds. lim may be nil. It stops when:
//   - fn returns nil (success)
//   - fn returns a *FatalError or an error the classifier rejects
//   - the context is cancelled or expires
//   - cfg.MaxAttempts is reached, the error then wraps ErrAttemptsExceeded
func WithRetry(ctx context.Context, fn func() error, lim *AdaptiveLimiter, cfg RetryConfig) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.ErrorClassifier == nil {
		cfg.ErrorClassifier = DefaultClassifier
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	log := zerolog.Ctx(ctx)
	delay := cfg.InitialDelay

	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if lim != nil {
			if werr := lim.Wait(ctx); werr != nil {
				return werr
			}
		}

		err = fn()
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			if attempt > 1 {
				log.Debug().Int("attempt", attempt).Msg("Retry succeeded")
			}
			return nil
		}

		var fatal *FatalError
		if errors.As(err, &fatal) || !cfg.ErrorClassifier(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		wait := delay
		if isRateLimitError(err) {
			if lim != nil {
				lim.RateLimited()
			}
			var ra RetryAfter
			if errors.As(err, &ra) && ra.RetryAfter() > 0 {
				wait = ra.RetryAfter()
			}
			log.Warn().Int("attempt", attempt).Dur("wait", wait).Msg("Rate limited, retrying")
		} else {
			if cfg.Jitter {
				wait = addJitter(wait)
			}
			log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("Request failed, retrying")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("%w (%d): %w", ErrAttemptsExceeded, cfg.MaxAttempts, err)
}

// =============================================================================
// Helper functions
// =============================================================================

// addJitter adds random jitter (0-25% of delay).
func addJitter(delay time.Duration) time.Duration {
	if delay < 4 {
		return delay
	}
	return delay + rand.N(delay/4)
}

func statusCode(err error) (int, bool) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode(), true
	}
	return 0, false
}

func isRateLimitError(err error) bool {
	code, ok := statusCode(err)
	return ok && code == http.StatusTooManyRequests
}
