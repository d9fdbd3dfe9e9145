// Package startup holds the guard that holds a lab back until its database
// answers.
package startup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const (
	DefaultMaxAttempts = 10
	DefaultDelay       = 5 * time.Second
)

var ErrRetriesExhausted = errors.New("connectivity retries exhausted")

// Target is a database handle that can verify it is reachable and be closed.
type Target interface {
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	// Retryable reports whether a failed attempt may be retried. Nil retries
	// every error.
	Retryable func(error) bool
	// sleep is replaced in tests.
	sleep func(context.Context, time.Duration) error
}

// DefaultPolicy retries Neo4j connectivity errors 10 times, 5 seconds apart.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultDelay,
		Retryable:   neo4j.IsConnectivityError,
	}
}

// WaitForConnectivity blocks until target answers. The target is closed
// before any error is returned.
func WaitForConnectivity(ctx context.Context, target Target, policy Policy) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultMaxAttempts
	}
	if policy.Retryable == nil {
		policy.Retryable = func(error) bool { return true }
	}
	if policy.sleep == nil {
		policy.sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		lastErr = target.VerifyConnectivity(ctx)
		if lastErr == nil {
			if attempt > 1 {
				slog.Info("database reachable", "attempt", attempt)
			}
			return nil
		}
		if !policy.Retryable(lastErr) {
			closeTarget(target)
			return fmt.Errorf("database unreachable: %w", lastErr)
		}

		slog.Warn("database not reachable yet",
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"error", lastErr)

		if attempt == policy.MaxAttempts {
			break
		}
		if err := policy.sleep(ctx, policy.Delay); err != nil {
			closeTarget(target)
			return err
		}
	}

	closeTarget(target)
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, policy.MaxAttempts, lastErr)
}

func closeTarget(target Target) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := target.Close(ctx); err != nil {
		slog.Warn("failed to close database handle", "error", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
