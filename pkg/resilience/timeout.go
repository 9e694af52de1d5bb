package resilience

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/imamaawais/Boolean-Retrieval-Model/pkg/errors"
)

// WithTimeout runs fn under a deadline of d and stops waiting for it once
// the deadline passes, even if fn ignores its context. The error then wraps
// both apperrors.ErrTimeout and context.DeadlineExceeded. A non-positive d
// runs fn inline.
func WithTimeout(ctx context.Context, d time.Duration, name string, fn func(ctx context.Context) error) error {
	if d <= 0 {
		return fn(ctx)
	}
	runCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	result := make(chan error, 1)
	go func() { result <- fn(runCtx) }()

	select {
	case err := <-result:
		return err
	case <-runCtx.Done():
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return fmt.Errorf("%s: %w after %v: %w", name, apperrors.ErrTimeout, d, context.DeadlineExceeded)
}
