package timerwheel

import (
	"reflect"
	"testing"
)

// TestTimerWheelCascadeScenario exercises three rings (12x3600, 60x60,
// 60x1) with a handful of adds, a delete, and a sequence of
// UpdateDeltatime calls checked against their exact expected firing
// order, including a cascade across ring boundaries.
func TestTimerWheelCascadeScenario(t *testing.T) {
	w := NewDefault()

	idA := w.AddTimer(30)
	idB := w.AddTimer(149)
	idC := w.AddTimer(600)
	idD := w.AddTimer(1)

	delay, ok := w.GetDelayID()
	if !ok || delay != 1 {
		t.Fatalf("expected smallest delay 1, got %d (ok=%v)", delay, ok)
	}

	w.DelTimer(idC)

	idE := w.AddTimer(150)

	got := w.UpdateDeltatime(30)
	want := []TimerID{idD, idA}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("update_deltatime(30): got %v, want %v", got, want)
	}

	idF := w.AddTimer(2)

	got = w.UpdateDeltatime(119)
	want = []TimerID{idF, idB}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("update_deltatime(119): got %v, want %v", got, want)
	}

	got = w.UpdateDeltatime(1)
	want = []TimerID{idE}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("update_deltatime(1): got %v, want %v", got, want)
	}

	if !w.IsEmpty() {
		t.Fatal("expected wheel to be empty after all timers fired")
	}
}

func TestAppendRingSealedAfterFirstTimer(t *testing.T) {
	w := New()
	if err := w.AppendRing(10, 1, "base"); err != nil {
		t.Fatalf("unexpected error appending first ring: %v", err)
	}
	w.AddTimer(1)

	if err := w.AppendRing(10, 10, "coarser"); err != ErrRingsSealed {
		t.Fatalf("expected ErrRingsSealed, got %v", err)
	}
}

func TestDelTimerIsNoopOnUnknownID(t *testing.T) {
	w := NewDefault()
	w.DelTimer(TimerID(999)) // must not panic
	if !w.IsEmpty() {
		t.Fatal("expected wheel to remain empty")
	}
}

func TestGetDelayIDFalseWhenEmpty(t *testing.T) {
	w := NewDefault()
	if _, ok := w.GetDelayID(); ok {
		t.Fatal("expected ok=false on an empty wheel")
	}
}
