package runtime_test

import (
	"testing"
	"time"

	"github.com/filament-ui/filament/pkg/runtime"
)

func TestSchedulerFlushFIFO(t *testing.T) {
	s := runtime.NewScheduler()

	var order []int
	s.Schedule(func() { order = append(order, 1) })
	s.Schedule(func() { order = append(order, 2) })
	s.Schedule(func() { order = append(order, 3) })

	if got := s.Len(); got != 3 {
		t.Fatalf("Len = %d, want 3", got)
	}

	s.Flush()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("flush order = %v, want [1 2 3]", order)
	}
	if got := s.Len(); got != 0 {
		t.Errorf("Len after flush = %d, want 0", got)
	}
}

func TestSchedulerEmptyFlushIsNoOp(t *testing.T) {
	s := runtime.NewScheduler()
	s.Flush()
	s.Flush()

	if got := s.Len(); got != 0 {
		t.Errorf("Len = %d, want 0", got)
	}
}

func TestSchedulerMidFlushScheduleDefersToNextFlush(t *testing.T) {
	s := runtime.NewScheduler()

	ran := []string{}
	s.Schedule(func() {
		ran = append(ran, "first")
		s.Schedule(func() { ran = append(ran, "second") })
	})

	s.Flush()

	if len(ran) != 1 || ran[0] != "first" {
		t.Fatalf("first flush ran %v, want [first]", ran)
	}
	if got := s.Len(); got != 1 {
		t.Fatalf("Len after first flush = %d, want 1", got)
	}

	s.Flush()
	if len(ran) != 2 || ran[1] != "second" {
		t.Errorf("second flush ran %v, want [first second]", ran)
	}
}

func TestSchedulerOnFlushCallback(t *testing.T) {
	s := runtime.NewScheduler()

	var sizes []int
	s.OnFlush(func(n int) { sizes = append(sizes, n) })

	s.Flush() // empty, no callback
	s.Schedule(func() {})
	s.Schedule(func() {})
	s.Flush()

	if len(sizes) != 1 || sizes[0] != 2 {
		t.Errorf("OnFlush saw %v, want [2]", sizes)
	}
}

func TestSchedulerTicker(t *testing.T) {
	s := runtime.NewScheduler()

	done := make(chan struct{})
	s.Schedule(func() { close(done) })

	s.Start(time.Millisecond)
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticker did not flush within 1s")
	}
}

func TestSchedulerStopFlushesRemainder(t *testing.T) {
	s := runtime.NewScheduler()
	s.Start(time.Hour) // ticker never fires during the test

	ran := false
	s.Schedule(func() { ran = true })

	s.Stop()

	if !ran {
		t.Error("Stop did not flush queued mutations")
	}
	if got := s.Len(); got != 0 {
		t.Errorf("Len after Stop = %d, want 0", got)
	}

	s.Stop() // idempotent
}
