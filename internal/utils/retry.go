package utils

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

// RetryBackoff is multiplied by the attempt number between retries.
var RetryBackoff = 2 * time.Second

// Retry calls callFunc up to maxRetries times, backing off linearly between
// attempts. It stops early when ctx is done.
func Retry[T any](ctx context.Context, name string, maxRetries uint, callFunc func(context.Context) (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	if maxRetries == 0 {
		maxRetries = 1
	}
	for attempt := uint(1); attempt <= maxRetries; attempt++ {
		result, err = callFunc(ctx)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			var zero T
			return zero, ctx.Err()
		}
		if attempt == maxRetries {
			break
		}
		slog.Debug("Retrying RPC call", "call", name, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-time.After(time.Duration(attempt) * RetryBackoff):
		}
	}

	var zero T
	return zero, errors.WithMessage(err, fmt.Sprintf("%s failed after %d retries", name, maxRetries))
}
