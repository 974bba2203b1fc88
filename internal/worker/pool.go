// Package worker runs detached background tasks on a fixed set of
// goroutines. Task failures are logged and never reach the caller that
// submitted the task.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrQueueFull is returned by Submit when the queue has no free slot.
var ErrQueueFull = errors.New("worker: queue full")

// ErrClosed is returned by Submit after Shutdown started.
var ErrClosed = errors.New("worker: pool closed")

// Func is the body of a task. ctx is cancelled when the pool is forced to
// stop before the task finished.
type Func func(ctx context.Context) error

type task struct {
	id   string
	name string
	run  Func
}

// Pool is a bounded queue drained by a fixed number of workers.
type Pool struct {
	log   *slog.Logger
	queue chan task

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool

	wg sync.WaitGroup
}

// New starts workers goroutines reading from a queue of size queueSize.
func New(log *slog.Logger, workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		log:    log,
		queue:  make(chan task, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

// Submit enqueues fn without blocking and returns the task id.
func (p *Pool) Submit(name string, fn Func) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return "", ErrClosed
	}

	t := task{id: uuid.NewString(), name: name, run: fn}
	select {
	case p.queue <- t:
		p.log.Debug("task queued", slog.String("task", name), slog.String("task_id", t.id))
		return t.id, nil
	default:
		p.log.Warn("task dropped, queue full", slog.String("task", name))
		return "", ErrQueueFull
	}
}

// Shutdown stops accepting tasks and waits for the queue to drain. When ctx
// expires first, running tasks are cancelled and ctx.Err() is returned.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return ctx.Err()
	}
}

func (p *Pool) work() {
	defer p.wg.Done()
	for t := range p.queue {
		if p.ctx.Err() != nil {
			p.log.Warn("task skipped, pool stopping", slog.String("task", t.name), slog.String("task_id", t.id))
			continue
		}
		p.run(t)
	}
}

func (p *Pool) run(t task) {
	start := time.Now()
	attrs := []any{slog.String("task", t.name), slog.String("task_id", t.id)}

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return t.run(p.ctx)
	}()

	attrs = append(attrs, slog.Duration("took", time.Since(start)))
	if err != nil {
		p.log.Error("task failed", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	p.log.Debug("task done", attrs...)
}
