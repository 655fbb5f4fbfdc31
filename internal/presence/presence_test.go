package presence

import (
	"testing"
	"time"
)

func TestNextState_FirstScanIsOutside(t *testing.T) {
	if NextState(nil) != false {
		t.Error("first scan must record outside")
	}
}

func TestNextState_NegatesLatest(t *testing.T) {
	inside := Event{IsInside: true}
	if NextState(&inside) != false {
		t.Error("inside participant must toggle to outside")
	}
	outside := Event{IsInside: false}
	if NextState(&outside) != true {
		t.Error("outside participant must toggle to inside")
	}
}

func TestNextState_AlternatesFromFalse(t *testing.T) {
	var latest *Event
	want := false
	for i := 0; i < 10; i++ {
		got := NextState(latest)
		if got != want {
			t.Fatalf("toggle %d: expected %v, got %v", i, want, got)
		}
		latest = &Event{IsInside: got}
		want = !want
	}
}

func TestLater_OrdersByTimestamp(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	a := Event{ID: "a", ToggledAt: t1}
	b := Event{ID: "b", ToggledAt: t1.Add(time.Second)}
	if !Later(b, a) {
		t.Error("later timestamp must sort after")
	}
	if Later(a, b) {
		t.Error("earlier timestamp must not sort after")
	}
}

func TestLater_BreaksTiesByID(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	a := Event{ID: "aaa", ToggledAt: t1}
	b := Event{ID: "bbb", ToggledAt: t1}
	if !Later(b, a) {
		t.Error("greater id must win timestamp ties")
	}
	if Later(a, b) {
		t.Error("tie-break must be asymmetric")
	}
}

func TestStatusText(t *testing.T) {
	if StatusText(true) != "inside" {
		t.Errorf("expected inside, got %s", StatusText(true))
	}
	if StatusText(false) != "outside" {
		t.Errorf("expected outside, got %s", StatusText(false))
	}
}
