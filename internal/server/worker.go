package server

import (
	"context"
	"sync"
)

// Worker is a background loop owned by the server.
type Worker interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}

// loopWorker runs fn on its own goroutine until Stop cancels it.
type loopWorker struct {
	fn func(ctx context.Context)

	startMu  sync.Mutex
	started  bool
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

func newLoopWorker(fn func(ctx context.Context)) *loopWorker {
	return &loopWorker{fn: fn, done: make(chan struct{})}
}

func (w *loopWorker) Start(ctx context.Context) {
	w.startMu.Lock()
	defer w.startMu.Unlock()
	if w.started {
		return
	}
	w.started = true

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	go func() {
		defer close(w.done)
		w.fn(runCtx)
	}()
}

// Stop cancels the loop and waits for it to return or for ctx to expire.
func (w *loopWorker) Stop(ctx context.Context) error {
	w.startMu.Lock()
	started := w.started
	w.startMu.Unlock()
	if !started {
		return nil
	}

	w.stopOnce.Do(w.cancel)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
