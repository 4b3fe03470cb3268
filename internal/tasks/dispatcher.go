// Package tasks runs best-effort work detached from the caller.
package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/zaqqye/signage_backend/internal/metrics"
)

const defaultTimeout = 30 * time.Second

// FailureHook observes a failed task. It never influences the caller.
type FailureHook func(task string, err error)

// Dispatcher starts fire-and-forget tasks and lets the owner wait for the
// in-flight ones at shutdown.
type Dispatcher struct {
	logger  zerolog.Logger
	timeout time.Duration
	onFail  FailureHook
	wg      sync.WaitGroup
}

func NewDispatcher(logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{logger: logger, timeout: defaultTimeout}
}

// WithTimeout bounds each task's context.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	d.timeout = timeout
	return d
}

// OnFailure adds a hook called after a task fails.
func (d *Dispatcher) OnFailure(hook FailureHook) *Dispatcher {
	d.onFail = hook
	return d
}

// Go runs fn in its own goroutine. The task context keeps ctx's values but
// not its cancellation, so a finished request does not abort the task.
func (d *Dispatcher) Go(ctx context.Context, name string, fn func(context.Context) error) {
	if ctx == nil {
		ctx = context.Background()
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.run(taskCtx, fn); err != nil {
			metrics.RecordTaskFailure(name)
			d.logger.Warn().Err(err).Str("task", name).Msg("background task failed")
			if d.onFail != nil {
				d.onFail(name, err)
			}
		}
	}()
}

// run turns a panic in fn into an error so it is reported like any failure.
func (d *Dispatcher) run(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

// Wait blocks until every started task has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
