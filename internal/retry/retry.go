// Package retry provides exponential backoff with jitter for transient
// failures against external providers.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// ErrContextCanceled is returned when the context ends mid-retry.
var ErrContextCanceled = errors.New("context canceled during retry")

// Config tunes the backoff schedule.
type Config struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries int
	// InitialInterval is the first backoff wait.
	InitialInterval time.Duration
	// MaxInterval caps the backoff wait.
	MaxInterval time.Duration
	// Multiplier grows the wait after each attempt.
	Multiplier float64
	// JitterFactor randomizes each wait by up to this fraction.
	JitterFactor float64
}

// DefaultConfig retries twice with 500ms and 1s waits, enough to ride
// out a provider hiccup without stalling a bulk dispatch.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:      2,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}
}

// PermanentError marks an error that must not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so Do stops immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Retryer executes operations with exponential backoff.
type Retryer struct {
	config *Config
}

// New creates a Retryer, filling zero config values with defaults.
func New(config *Config) *Retryer {
	if config == nil {
		config = DefaultConfig()
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = 500 * time.Millisecond
	}
	if config.MaxInterval <= 0 {
		config.MaxInterval = 5 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.JitterFactor < 0 {
		config.JitterFactor = 0
	}
	if config.JitterFactor > 1 {
		config.JitterFactor = 1
	}
	return &Retryer{config: config}
}

// Do runs op, retrying on error until it succeeds, returns a permanent
// error, the attempts run out, or the context ends. The last attempt's
// error is returned.
func (r *Retryer) Do(ctx context.Context, op func(ctx context.Context) error) error {
	interval := r.config.InitialInterval

	var lastErr error
	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return ErrContextCanceled
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		var perm *PermanentError
		if errors.As(err, &perm) {
			return perm.Err
		}
		if attempt == r.config.MaxRetries {
			break
		}

		select {
		case <-time.After(r.jitter(interval)):
		case <-ctx.Done():
			return ErrContextCanceled
		}

		interval = time.Duration(float64(interval) * r.config.Multiplier)
		if interval > r.config.MaxInterval {
			interval = r.config.MaxInterval
		}
	}

	return lastErr
}

func (r *Retryer) jitter(interval time.Duration) time.Duration {
	if r.config.JitterFactor == 0 {
		return interval
	}
	delta := float64(interval) * r.config.JitterFactor
	return interval + time.Duration((rand.Float64()*2-1)*delta)
}
