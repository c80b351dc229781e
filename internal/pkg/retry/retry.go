// Package retry runs an operation with bounded exponential backoff. It is used
// at startup to wait for backing stores instead of sleeping a fixed delay.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// Policy bounds the retry loop. Zero values fall back to the defaults below.
type Policy struct {
	Attempts   int
	Initial    time.Duration
	MaxBackoff time.Duration
}

const (
	defaultAttempts   = 10
	defaultInitial    = 500 * time.Millisecond
	defaultMaxBackoff = 10 * time.Second
)

func (p Policy) withDefaults() Policy {
	if p.Attempts <= 0 {
		p.Attempts = defaultAttempts
	}
	if p.Initial <= 0 {
		p.Initial = defaultInitial
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = defaultMaxBackoff
	}
	if p.MaxBackoff < p.Initial {
		p.MaxBackoff = p.Initial
	}
	return p
}

// backOff builds the schedule for p: doubling waits capped at MaxBackoff,
// Attempts calls in total, stopped early by ctx.
func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.Initial
	exp.MaxInterval = p.MaxBackoff
	exp.Multiplier = 2
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(p.Attempts-1)), ctx)
}

// Do calls op until it succeeds, the attempts are exhausted or ctx is done.
func Do(ctx context.Context, p Policy, log zerolog.Logger, name string, op func(ctx context.Context) error) error {
	p = p.withDefaults()

	attempt := 0
	var lastErr error
	operation := func() error {
		attempt++
		lastErr = op(ctx)
		return lastErr
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).
			Str("target", name).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Msg("not ready, retrying")
	}

	err := backoff.RetryNotify(operation, p.backOff(ctx), notify)
	switch {
	case err == nil:
		if attempt > 1 {
			log.Info().Str("target", name).Int("attempt", attempt).Msg("connected after retry")
		}
		return nil
	case ctx.Err() != nil:
		return fmt.Errorf("%s: %w (last error: %v)", name, ctx.Err(), lastErr)
	default:
		return fmt.Errorf("%s: gave up after %d attempts: %w", name, attempt, err)
	}
}
