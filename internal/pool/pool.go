package pool

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/artiops/artifactory-automation/internal/utils"
	"go.uber.org/zap"
)

// Action performs one unit of work. It must be safe to call concurrently
// with itself. A returned error is logged and the item is still considered
// processed; the pool never retries.
type Action[T any] func(item T) error

// Pool drains a Queue with a fixed number of worker goroutines. The worker
// count is set at construction and never changes after Start. Each worker
// exits when it observes an empty queue or a stop request.
type Pool[T any] struct {
	size    int
	queue   *Queue[T]
	action  Action[T]
	log     *zap.Logger
	stop    atomic.Bool
	running atomic.Int32
	started atomic.Bool
	wg      sync.WaitGroup
}

// New constructs a pool of size workers bound to queue and action. The queue
// may legally be empty, in which case the pool finishes immediately after
// Start. A size below 1 or a nil queue/action is a caller bug and is
// reported as an error rather than logged and swallowed.
func New[T any](size int, queue *Queue[T], action Action[T]) (*Pool[T], error) {
	if size < 1 {
		return nil, fmt.Errorf("pool size must be at least 1, got %d", size)
	}
	if queue == nil {
		return nil, fmt.Errorf("pool queue must not be nil")
	}
	if action == nil {
		return nil, fmt.Errorf("pool action must not be nil")
	}
	log := utils.WithComponent("worker_pool")
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool[T]{
		size:   size,
		queue:  queue,
		action: action,
		log:    log,
	}, nil
}

// Start launches the workers. It must be called at most once.
func (p *Pool[T]) Start() {
	if !p.started.CompareAndSwap(false, true) {
		p.log.Warn("Start called more than once, ignoring")
		return
	}
	p.log.Debug("Starting workers", zap.Int("workers", p.size), zap.Int("queued", p.queue.Len()))
	p.running.Store(int32(p.size))
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.work(i)
	}
}

// RequestStop signals every worker to stop before its next dequeue. In-flight
// items run to completion. Safe to call multiple times and from any
// goroutine.
func (p *Pool[T]) RequestStop() {
	if p.stop.CompareAndSwap(false, true) {
		p.log.Debug("Stop requested")
	}
}

// Running reports whether at least one worker has not yet terminated. It
// never blocks; use Wait to block until the drain finishes.
func (p *Pool[T]) Running() bool {
	return p.running.Load() > 0
}

// Wait blocks until every worker has terminated.
func (p *Pool[T]) Wait() {
	p.wg.Wait()
}

func (p *Pool[T]) work(id int) {
	defer p.wg.Done()
	defer p.running.Add(-1)
	log := p.log.With(zap.Int("worker", id))
	log.Debug("Worker started")
	for !p.stop.Load() {
		item, ok := p.queue.TryPop()
		if !ok {
			// Empty queue is the normal termination condition.
			log.Debug("No more work, shutting down")
			break
		}
		p.invoke(log, item)
	}
	log.Debug("Worker finished")
}

// invoke runs the action for one item. Errors and panics are logged and the
// item counts as processed; one failed call must not take down its siblings.
func (p *Pool[T]) invoke(log *zap.Logger, item T) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Action panicked", zap.Any("panic", r))
		}
	}()
	if err := p.action(item); err != nil {
		log.Warn("Action failed", zap.Error(err))
	}
}
