package adminclient

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned by LatestOnly.Do when a newer call cancelled this one.
var ErrSuperseded = errors.New("superseded by a newer request")

// LatestOnly runs one request at a time per view: starting a call cancels the
// previous one still in flight, so a stale response never overwrites a newer one.
// The zero value is ready to use.
type LatestOnly struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Do cancels any in-flight call and runs fn with a context tied to this call.
func (l *LatestOnly) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	l.cancel = cancel
	l.mu.Unlock()

	err := fn(ctx)

	l.mu.Lock()
	superseded := l.gen != gen
	if !superseded {
		l.cancel = nil
	}
	l.mu.Unlock()
	cancel()

	if superseded {
		return ErrSuperseded
	}
	return err
}

// Cancel aborts the in-flight call, if any.
func (l *LatestOnly) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
}
