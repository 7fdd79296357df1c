package source

import (
	"agd/internal/providers"
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerSource stops calling an upstream that keeps failing, so scheduled
// syncs fail fast until the breaker half-opens again.
type BreakerSource struct {
	inner SourceInterface
	cb    *gobreaker.CircuitBreaker[[]byte]
}

const breakerTripAfter = 5

func NewBreakerSource(inner SourceInterface, logger providers.Logger) *BreakerSource {
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "game-data-source",
		MaxRequests: 1,
		Interval:    10 * time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripAfter
		},
		IsSuccessful: func(err error) bool {
			// a cancelled sync says nothing about upstream health
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf(providers.TypeSync, "Circuit breaker %s: %s -> %s", name, from, to)
		},
	})
	return &BreakerSource{inner: inner, cb: cb}
}

func (b *BreakerSource) LatestRevision(ctx context.Context) (string, error) {
	out, err := b.execute("latest revision", func() ([]byte, error) {
		rev, err := b.inner.LatestRevision(ctx)
		return []byte(rev), err
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (b *BreakerSource) Fetch(ctx context.Context, revision, path string) ([]byte, error) {
	return b.execute("fetch "+path, func() ([]byte, error) {
		return b.inner.Fetch(ctx, revision, path)
	})
}

func (b *BreakerSource) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerSource) execute(op string, fn func() ([]byte, error)) ([]byte, error) {
	out, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &TransportError{Op: op, Err: err}
	}
	return out, err
}
