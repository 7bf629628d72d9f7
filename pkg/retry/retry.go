package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	MaxTotalTimeout time.Duration
}

// DefaultConfig returns a default retry configuration with 1 minute max timeout
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     10,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 60 * time.Second,
	}
}

// Permanent wraps err so that Do stops retrying and returns it immediately
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do executes the given function with exponential backoff retry logic
func Do(ctx context.Context, cfg Config, fn func() error) error {
	return DoWithLog(ctx, cfg, "operation", fn, nil)
}

// DoWithLog executes the function with retry and reports each failed attempt to logFn
func DoWithLog(ctx context.Context, cfg Config, serviceName string, fn func() error, logFn func(attempt int, err error, nextDelay time.Duration)) error {
	if cfg.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxTotalTimeout)
		defer cancel()
	}

	attempt := 0
	operation := func() error {
		attempt++
		return fn()
	}
	notify := func(err error, next time.Duration) {
		if logFn != nil {
			logFn(attempt, err, next)
		}
	}

	if err := backoff.RetryNotify(operation, newBackOff(ctx, cfg), notify); err != nil {
		return fmt.Errorf("%s: gave up after %d attempts: %w", serviceName, attempt, err)
	}
	return nil
}

func newBackOff(ctx context.Context, cfg Config) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = cfg.InitialDelay
	exp.MaxInterval = cfg.MaxDelay
	if cfg.BackoffFactor > 0 {
		exp.Multiplier = cfg.BackoffFactor
	}
	exp.RandomizationFactor = 0
	// MaxTotalTimeout is enforced through ctx
	exp.MaxElapsedTime = 0
	exp.Reset()

	var b backoff.BackOff = exp
	if cfg.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(cfg.MaxAttempts-1))
	}
	return backoff.WithContext(b, ctx)
}
