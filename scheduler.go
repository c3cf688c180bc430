package statebus

import (
	"context"
	"log/slog"
	"sync"
)

// scheduler is the asynchronous delivery queue: an unbounded FIFO of pending
// handler invocations drained by a single worker goroutine. Tasks capture
// their delivered value and topic at enqueue time, so a later publish never
// changes what an already-queued delivery carries.
type scheduler struct {
	logger *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	running bool
	closed  bool
	waiters []chan struct{}
}

func newScheduler(logger *slog.Logger) *scheduler {
	s := &scheduler{logger: logger}
	s.cond = sync.NewCond(&s.mu)
	go s.run()
	return s
}

// enqueue appends a task. Tasks enqueued after close are dropped.
func (s *scheduler) enqueue(task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.queue = append(s.queue, task)
	s.cond.Signal()
}

// drain blocks until every task enqueued so far (and any tasks those tasks
// enqueue) has finished, or until ctx is done. Calling drain from inside a
// handler deadlocks; handlers run on the worker this waits for.
func (s *scheduler) drain(ctx context.Context) error {
	s.mu.Lock()
	if s.idleLocked() {
		s.mu.Unlock()
		return nil
	}
	done := make(chan struct{})
	s.waiters = append(s.waiters, done)
	s.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops the worker after the task in flight, if any, returns. Pending
// tasks are discarded and drain waiters are released.
func (s *scheduler) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.queue = nil
	s.cond.Broadcast()
}

func (s *scheduler) idleLocked() bool {
	return len(s.queue) == 0 && !s.running
}

func (s *scheduler) notifyIfIdleLocked() {
	if !s.idleLocked() && !s.closed {
		return
	}
	for _, done := range s.waiters {
		close(done)
	}
	s.waiters = nil
}

func (s *scheduler) run() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.notifyIfIdleLocked()
			s.cond.Wait()
		}
		if s.closed {
			s.notifyIfIdleLocked()
			s.mu.Unlock()
			return
		}
		task := s.queue[0]
		s.queue = s.queue[1:]
		s.running = true
		s.mu.Unlock()

		s.invoke(task)

		s.mu.Lock()
		s.running = false
		s.notifyIfIdleLocked()
		s.mu.Unlock()
	}
}

// invoke runs one task, isolating handler panics so a misbehaving subscriber
// cannot take down the delivery loop.
func (s *scheduler) invoke(task func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("subscriber handler panicked", "panic", r)
		}
	}()
	task()
}
