package signal

import (
	"context"
	"sync"
)

// Runner serializes invocations of one pipeline: starting a new run cancels
// the run still in flight, so a consumer only ever observes the result of
// the newest invocation.
type Runner struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

// Begin cancels any in-flight run and returns the context for a new one.
// The returned cancel must be called when the run settles.
func (r *Runner) Begin(ctx context.Context) (context.Context, context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	return runCtx, cancel
}
