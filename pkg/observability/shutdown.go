package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ShutdownFunc is one step of graceful teardown.
type ShutdownFunc func(context.Context) error

// ShutdownManager runs registered teardown steps, in registration order, under
// one shared timeout.
type ShutdownManager struct {
	log     *logrus.Logger
	timeout time.Duration

	mu    sync.Mutex
	funcs []ShutdownFunc
}

// NewShutdownManager creates a manager with the given overall timeout.
func NewShutdownManager(log *logrus.Logger, timeout time.Duration) *ShutdownManager {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &ShutdownManager{log: log, timeout: timeout}
}

// Register adds a teardown step.
func (sm *ShutdownManager) Register(fn ShutdownFunc) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.funcs = append(sm.funcs, fn)
}

// Shutdown runs every registered step. Steps that fail are logged; the first
// error is returned after all steps have run.
func (sm *ShutdownManager) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), sm.timeout)
	defer cancel()

	sm.mu.Lock()
	funcs := make([]ShutdownFunc, len(sm.funcs))
	copy(funcs, sm.funcs)
	sm.mu.Unlock()

	var firstErr error
	for i, fn := range funcs {
		if err := fn(ctx); err != nil {
			sm.log.WithError(err).Errorf("shutdown step %d failed", i)
			if firstErr == nil {
				firstErr = fmt.Errorf("shutdown step %d: %w", i, err)
			}
		}
	}
	return firstErr
}
