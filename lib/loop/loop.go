// Package loop provides the cooperative scheduler every component runs on.
//
// A Loop owns two queues. Tasks arrive from Post (safe from any goroutine)
// and run one at a time; microtasks arrive from QueueMicrotask and are
// drained completely after every task. Component state is only ever touched
// from the goroutine driving the loop, so none of it needs locking.
package loop

import (
	"context"
	"sync"
)

// Loop is a single-threaded task and microtask scheduler.
type Loop struct {
	mu         sync.Mutex
	cond       *sync.Cond
	tasks      []func()
	microtasks []func()
	inflight   int
}

// New creates an empty loop.
func New() *Loop {
	l := &Loop{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// QueueMicrotask schedules fn to run after the current task, before the
// next one is taken.
func (l *Loop) QueueMicrotask(fn func()) {
	l.mu.Lock()
	l.microtasks = append(l.microtasks, fn)
	l.cond.Broadcast()
	l.mu.Unlock()
}

// Post schedules fn as a task. Safe to call from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.cond.Broadcast()
	l.mu.Unlock()
}

// Pending reports whether any task, microtask or background job is queued.
func (l *Loop) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks) > 0 || len(l.microtasks) > 0 || l.inflight > 0
}

// begin marks a background job as started.
func (l *Loop) begin() {
	l.mu.Lock()
	l.inflight++
	l.mu.Unlock()
}

// finish posts the completion of a background job. The job stops counting
// as inflight in the same critical section the task is queued in, so
// RunUntilIdle never observes a gap between the two.
func (l *Loop) finish(fn func()) {
	l.mu.Lock()
	l.inflight--
	l.tasks = append(l.tasks, fn)
	l.cond.Broadcast()
	l.mu.Unlock()
}

// RunUntilIdle drives the loop on the calling goroutine until no task,
// microtask or background job remains.
func (l *Loop) RunUntilIdle() {
	for {
		l.runMicrotasks()

		l.mu.Lock()
		for len(l.tasks) == 0 && len(l.microtasks) == 0 && l.inflight > 0 {
			l.cond.Wait()
		}
		if len(l.tasks) == 0 {
			idle := len(l.microtasks) == 0
			l.mu.Unlock()
			if idle {
				return
			}
			continue
		}
		task := l.pop()
		l.mu.Unlock()

		task()
	}
}

// Run drives the loop until ctx is cancelled, waiting for new work when
// the queues are empty.
func (l *Loop) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		l.mu.Lock()
		l.cond.Broadcast()
		l.mu.Unlock()
	})
	defer stop()

	for {
		l.runMicrotasks()

		l.mu.Lock()
		for len(l.tasks) == 0 && len(l.microtasks) == 0 && ctx.Err() == nil {
			l.cond.Wait()
		}
		if err := ctx.Err(); err != nil {
			l.mu.Unlock()
			return err
		}
		if len(l.tasks) == 0 {
			l.mu.Unlock()
			continue
		}
		task := l.pop()
		l.mu.Unlock()

		task()
	}
}

// pop removes the head task. Caller holds mu.
func (l *Loop) pop() func() {
	task := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return task
}

func (l *Loop) runMicrotasks() {
	for {
		l.mu.Lock()
		if len(l.microtasks) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.microtasks[0]
		l.microtasks[0] = nil
		l.microtasks = l.microtasks[1:]
		l.mu.Unlock()

		fn()
	}
}
