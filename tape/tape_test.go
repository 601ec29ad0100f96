package tape

import "testing"

func TestWrapArithmetic(t *testing.T) {
	tp := New()
	for i := 0; i < 256; i++ {
		tp.Inc()
	}
	if got := tp.ReadHead(); got != 0 {
		t.Fatalf("after 256 increments, got %d, want 0", got)
	}
	for i := 0; i < 256; i++ {
		tp.Dec()
	}
	if got := tp.ReadHead(); got != 0 {
		t.Fatalf("after 256 decrements, got %d, want 0", got)
	}
}

func TestShiftLeftUnderflow(t *testing.T) {
	tp := New()
	if err := tp.ShiftLeft(); err != ErrPointerUnderflow {
		t.Fatalf("got %v, want ErrPointerUnderflow", err)
	}
}

func TestShiftRightGrowsAndZeroes(t *testing.T) {
	tp := New()
	initialCap := tp.Len()
	for i := 0; i < initialCap+5; i++ {
		if err := tp.ShiftRight(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if tp.Head() >= tp.Len() {
		t.Fatalf("head %d not < len %d", tp.Head(), tp.Len())
	}
	for i := 0; i < tp.Len(); i++ {
		if i == tp.Head() {
			continue
		}
		if tp.Read(i) != 0 {
			t.Fatalf("cell %d not zero after growth: %d", i, tp.Read(i))
		}
	}
}

func TestReadRangePastEndIsZero(t *testing.T) {
	tp := New()
	tp.Write(0, 42)
	got := tp.ReadRange(0, 5)
	want := []byte{42, 0, 0, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ReadRange = %v, want %v", got, want)
		}
	}
}

func TestBoundedTapeRefusesOvergrowth(t *testing.T) {
	tp := NewBounded(2)
	if err := tp.ShiftRight(); err != nil {
		t.Fatalf("unexpected error growing to cap: %v", err)
	}
	if err := tp.ShiftRight(); err != ErrTapeCapacityExceeded {
		t.Fatalf("got %v, want ErrTapeCapacityExceeded", err)
	}
}
