package indexer

import (
	"context"
	"time"
)

// retryPolicy bounds how often a single range query is re-issued.
type retryPolicy struct {
	maxRetries int
	baseDelay  time.Duration
	onRetry    func(attempt int, delay time.Duration, err error)
}

func (p retryPolicy) do(ctx context.Context, fn func(context.Context) error) error {
	maxRetries := p.maxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	delay := p.baseDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries || ctx.Err() != nil {
			return err
		}
		if p.onRetry != nil {
			p.onRetry(attempt+1, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
