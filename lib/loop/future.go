package loop

// Future is a value that becomes available later on a Loop.
//
// Futures are not safe for concurrent use: settle and observe them from the
// loop goroutine only. Background work settles through Go, which hops back
// onto the loop before resolving.
type Future[T any] struct {
	loop      *Loop
	done      bool
	value     T
	err       error
	callbacks []func(T, error)
}

// NewFuture creates an unsettled future bound to l.
func NewFuture[T any](l *Loop) *Future[T] {
	return &Future[T]{loop: l}
}

// Resolved returns a future already settled with v.
func Resolved[T any](l *Loop, v T) *Future[T] {
	f := NewFuture[T](l)
	f.Resolve(v)
	return f
}

// Failed returns a future already settled with err.
func Failed[T any](l *Loop, err error) *Future[T] {
	f := NewFuture[T](l)
	f.Reject(err)
	return f
}

// Go runs fn on a new goroutine and settles the returned future with its
// result on the loop.
func Go[T any](l *Loop, fn func() (T, error)) *Future[T] {
	f := NewFuture[T](l)
	l.begin()
	go func() {
		v, err := fn()
		l.finish(func() { f.settle(v, err) })
	}()
	return f
}

// Resolve settles the future with v. Later calls are ignored.
func (f *Future[T]) Resolve(v T) {
	f.settle(v, nil)
}

// Reject settles the future with err. Later calls are ignored.
func (f *Future[T]) Reject(err error) {
	var zero T
	f.settle(zero, err)
}

func (f *Future[T]) settle(v T, err error) {
	if f.done {
		return
	}
	f.done = true
	f.value = v
	f.err = err

	callbacks := f.callbacks
	f.callbacks = nil
	for _, cb := range callbacks {
		f.loop.QueueMicrotask(func() { cb(v, err) })
	}
}

// Then registers fn to run as a microtask once the future settles. If it
// has already settled, fn is queued immediately.
func (f *Future[T]) Then(fn func(T, error)) {
	if f.done {
		v, err := f.value, f.err
		f.loop.QueueMicrotask(func() { fn(v, err) })
		return
	}
	f.callbacks = append(f.callbacks, fn)
}

// Done reports whether the future has settled.
func (f *Future[T]) Done() bool { return f.done }

// Value returns the resolved value, or the zero value while pending.
func (f *Future[T]) Value() T { return f.value }

// Err returns the rejection error, if any.
func (f *Future[T]) Err() error { return f.err }

// All settles once every future in fs has settled. It rejects with the
// first error observed.
func All[T any](l *Loop, fs []*Future[T]) *Future[[]T] {
	out := NewFuture[[]T](l)
	if len(fs) == 0 {
		out.Resolve(nil)
		return out
	}

	values := make([]T, len(fs))
	remaining := len(fs)
	for i, f := range fs {
		f.Then(func(v T, err error) {
			if err != nil {
				out.Reject(err)
				return
			}
			values[i] = v
			remaining--
			if remaining == 0 {
				out.Resolve(values)
			}
		})
	}
	return out
}
