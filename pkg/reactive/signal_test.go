package reactive

import (
	"testing"
)

func TestSignalGetSet(t *testing.T) {
	s := NewSignal(42)

	if got := s.Get(); got != 42 {
		t.Errorf("Get() = %d, want 42", got)
	}

	s.Set(100)
	if got := s.Get(); got != 100 {
		t.Errorf("Get() after Set = %d, want 100", got)
	}
}

func TestSignalUpdate(t *testing.T) {
	s := NewSignal(10)
	s.Update(func(v int) int { return v * 2 })

	if got := s.Get(); got != 20 {
		t.Errorf("Get() = %d, want 20", got)
	}
}

func TestSignalEqualValueDoesNotNotify(t *testing.T) {
	s := NewSignal("a")
	runs := 0

	eff := CreateEffect(func() Cleanup {
		s.Get()
		runs++
		return nil
	})
	defer eff.Dispose()

	s.Set("a")
	if runs != 1 {
		t.Errorf("effect ran %d times after equal Set, want 1", runs)
	}

	s.Set("b")
	if runs != 2 {
		t.Errorf("effect ran %d times after changed Set, want 2", runs)
	}
}

func TestSignalWithEquals(t *testing.T) {
	// Treat all even numbers as equal to each other.
	s := NewSignal(2).WithEquals(func(a, b int) bool {
		return a%2 == b%2
	})

	runs := 0
	eff := CreateEffect(func() Cleanup {
		s.Get()
		runs++
		return nil
	})
	defer eff.Dispose()

	s.Set(4)
	if runs != 1 {
		t.Errorf("effect ran %d times for equivalent value, want 1", runs)
	}

	s.Set(5)
	if runs != 2 {
		t.Errorf("effect ran %d times for distinct value, want 2", runs)
	}
}

func TestSignalPeekDoesNotTrack(t *testing.T) {
	s := NewSignal(1)
	runs := 0

	eff := CreateEffect(func() Cleanup {
		s.Peek()
		runs++
		return nil
	})
	defer eff.Dispose()

	s.Set(2)
	if runs != 1 {
		t.Errorf("effect ran %d times, want 1: Peek must not subscribe", runs)
	}
}

func TestUntracked(t *testing.T) {
	a := NewSignal(1)
	b := NewSignal(10)
	runs := 0

	eff := CreateEffect(func() Cleanup {
		a.Get()
		Untracked(func() {
			b.Get()
		})
		runs++
		return nil
	})
	defer eff.Dispose()

	b.Set(20)
	if runs != 1 {
		t.Errorf("effect ran %d times after untracked dep change, want 1", runs)
	}

	a.Set(2)
	if runs != 2 {
		t.Errorf("effect ran %d times after tracked dep change, want 2", runs)
	}
}

func TestMemoLazyAndCached(t *testing.T) {
	src := NewSignal(3)
	computes := 0

	m := NewMemo(func() int {
		computes++
		return src.Get() * src.Get()
	})

	if computes != 0 {
		t.Fatalf("memo computed %d times before first Get, want 0", computes)
	}

	if got := m.Get(); got != 9 {
		t.Errorf("Get() = %d, want 9", got)
	}
	m.Get()
	if computes != 1 {
		t.Errorf("memo computed %d times for two Gets, want 1", computes)
	}

	src.Set(4)
	if got := m.Get(); got != 16 {
		t.Errorf("Get() after dep change = %d, want 16", got)
	}
	if computes != 2 {
		t.Errorf("memo computed %d times, want 2", computes)
	}
}

func TestMemoNotifiesDownstream(t *testing.T) {
	src := NewSignal(1)
	m := NewMemo(func() int { return src.Get() + 1 })

	var seen []int
	eff := CreateEffect(func() Cleanup {
		seen = append(seen, m.Get())
		return nil
	})
	defer eff.Dispose()

	src.Set(5)

	if len(seen) != 2 || seen[0] != 2 || seen[1] != 6 {
		t.Errorf("downstream saw %v, want [2 6]", seen)
	}
}
