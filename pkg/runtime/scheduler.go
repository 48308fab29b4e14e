package runtime

import (
	"sync"
	"time"
)

// DefaultFrameInterval is the tick period of the frame driver when none
// is given, roughly one display frame.
const DefaultFrameInterval = 16 * time.Millisecond

// Scheduler collects output mutations and applies them in FIFO order on
// flush. Mutations scheduled while a flush is running are deferred to
// the next flush: Flush drains only the queue as it stood when the
// flush began.
//
// A scheduler can run free (the owner calls Flush) or driven by the
// built-in ticker via Start/Stop.
type Scheduler struct {
	mu       sync.Mutex
	queue    []func()
	flushing bool

	onFlush func(n int)

	tickerMu sync.Mutex
	stop     chan struct{}
	done     chan struct{}
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// OnFlush registers a callback invoked after every non-empty flush with
// the number of mutations applied. A live session uses this to cut a
// patch frame per flush.
func (s *Scheduler) OnFlush(fn func(n int)) {
	s.mu.Lock()
	s.onFlush = fn
	s.mu.Unlock()
}

// Schedule enqueues one mutation.
func (s *Scheduler) Schedule(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
}

// Len returns the number of queued mutations.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Flush applies every mutation queued before the call, in order. A
// mutation that schedules further mutations sees them land in the next
// flush, not this one. Flushing an empty queue is a no-op.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.flushing || len(s.queue) == 0 {
		s.mu.Unlock()
		return
	}
	s.flushing = true
	batch := s.queue
	s.queue = nil
	cb := s.onFlush
	s.mu.Unlock()

	for _, fn := range batch {
		fn()
	}

	s.mu.Lock()
	s.flushing = false
	s.mu.Unlock()

	if cb != nil {
		cb(len(batch))
	}
}

// Start launches the frame driver, flushing every interval until Stop.
// A non-positive interval uses DefaultFrameInterval. Starting a started
// scheduler is a no-op.
func (s *Scheduler) Start(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}

	s.tickerMu.Lock()
	defer s.tickerMu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func(stop, done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Flush()
			case <-stop:
				return
			}
		}
	}(s.stop, s.done)
}

// Stop halts the frame driver and waits for it to exit, then applies
// any mutations still queued. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.tickerMu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.tickerMu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
	s.Flush()
}
