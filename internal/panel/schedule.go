package panel

import "sync"

// Future resolves once an external visual completion signal fires.
// Resolve may be called from any goroutine; Ready never blocks.
type Future struct {
	done chan struct{}
	once sync.Once
}

// NewFuture returns an unresolved future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved returns a future that is already complete, the default for
// resources without an animation.
func Resolved() *Future {
	f := NewFuture()
	f.Resolve()
	return f
}

// Resolve completes the future. Extra calls and nil futures are ignored.
func (f *Future) Resolve() {
	if f == nil {
		return
	}
	f.once.Do(func() { close(f.done) })
}

// Ready reports whether the future has resolved. A nil future is ready.
func (f *Future) Ready() bool {
	if f == nil {
		return true
	}
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done exposes the completion channel for callers outside the frame loop.
// A nil future yields an already closed channel.
func (f *Future) Done() <-chan struct{} {
	if f == nil {
		return closedChan
	}
	return f.done
}

var closedChan = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

// Routine is one suspendable sequence. It is stepped once per frame and
// returns true when it has finished.
type Routine func() bool

// Scheduler runs routines cooperatively against the host frame loop.
// All routines and posted functions run on the goroutine calling Tick;
// only Post is safe to call from elsewhere.
type Scheduler struct {
	running []Routine

	mu    sync.Mutex
	inbox []func()

	frame uint64
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Start runs r up to its first suspension immediately. If it has not
// finished it is stepped again on every following Tick.
func (s *Scheduler) Start(r Routine) {
	if r() {
		return
	}
	s.running = append(s.running, r)
}

// Post queues fn for the next Tick. Safe for concurrent use.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.inbox = append(s.inbox, fn)
	s.mu.Unlock()
}

// Tick drains posted work, then steps every suspended routine once.
// Routines started during this Tick are first stepped on the next one.
func (s *Scheduler) Tick() {
	s.frame++
	current := s.running
	s.running = nil

	s.mu.Lock()
	posted := s.inbox
	s.inbox = nil
	s.mu.Unlock()
	for _, fn := range posted {
		fn()
	}

	var keep []Routine
	for _, r := range current {
		if !r() {
			keep = append(keep, r)
		}
	}
	s.running = append(keep, s.running...)
}

// Pending returns the number of suspended routines.
func (s *Scheduler) Pending() int {
	return len(s.running)
}

// Frame returns the number of completed Ticks.
func (s *Scheduler) Frame() uint64 {
	return s.frame
}

// Idle reports whether nothing is suspended and nothing is posted.
func (s *Scheduler) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.running) == 0 && len(s.inbox) == 0
}
