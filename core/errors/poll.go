package errors

import (
	"context"
	"strconv"
	"time"
)

// PollConfig bounds a wait on a remote operation.
type PollConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MaxAttempts int           `yaml:"max_attempts"`
}

// DefaultPollConfig checks once a second for up to two minutes.
func DefaultPollConfig() PollConfig {
	return PollConfig{
		Interval:    time.Second,
		MaxAttempts: 120,
	}
}

// Poll calls check every cfg.Interval until it reports done, returns an
// error, ctx is done or cfg.MaxAttempts checks have been made. Exhausting the
// attempts returns ErrPollTimeout.
func Poll(ctx context.Context, cfg PollConfig, check func(ctx context.Context) (bool, error)) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultPollConfig().MaxAttempts
	}

	ticker := time.NewTicker(max(cfg.Interval, time.Millisecond))
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if attempt >= cfg.MaxAttempts {
			return ErrPollTimeout.WithContext("attempts", strconv.Itoa(attempt))
		}

		select {
		case <-ctx.Done():
			return Upstream("wait for completion", ctx.Err())
		case <-ticker.C:
		}
	}
}
