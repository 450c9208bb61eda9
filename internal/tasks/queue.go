package tasks

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

type queuedOp struct {
	name string
	fn   func(context.Context) error
	done chan struct{}
}

// Queue runs submitted operations one at a time on a single goroutine bound
// to the queue's lifetime. Failures are logged, never returned.
type Queue struct {
	ctx    context.Context
	cancel context.CancelFunc
	ops    chan queuedOp
	logger *log.Logger
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewQueue(size int, logger *log.Logger) *Queue {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		ctx:    ctx,
		cancel: cancel,
		ops:    make(chan queuedOp, size),
		logger: logger,
	}
	q.wg.Add(1)
	go q.run()
	return q
}

// Submit enqueues fn. It reports false once the queue is closed.
func (q *Queue) Submit(name string, fn func(context.Context) error) bool {
	if fn == nil {
		return false
	}
	return q.enqueue(queuedOp{name: name, fn: fn})
}

// Flush blocks until every operation submitted before it has finished.
func (q *Queue) Flush() {
	done := make(chan struct{})
	if !q.enqueue(queuedOp{name: "flush", done: done}) {
		return
	}
	<-done
}

// Close cancels in-flight work, drops anything still queued and waits for the
// worker to exit.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.cancel()
	close(q.ops)
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *Queue) enqueue(op queuedOp) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.ops <- op
	return true
}

func (q *Queue) run() {
	defer q.wg.Done()
	for op := range q.ops {
		if op.fn != nil && q.ctx.Err() == nil {
			if err := op.fn(q.ctx); err != nil {
				q.logger.Error("task operation failed", "op", op.name, "err", err)
			}
		}
		if op.done != nil {
			close(op.done)
		}
	}
}
