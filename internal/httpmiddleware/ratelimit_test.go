package httpmiddleware

import "testing"

func TestAllow_WithinCapacity(t *testing.T) {
	l := NewSimpleTokenBucket(3, 60)
	for i := 0; i < 3; i++ {
		if !l.allow("1.2.3.4") {
			t.Fatalf("request %d within capacity must be allowed", i+1)
		}
	}
}

func TestAllow_DeniesOverCapacity(t *testing.T) {
	l := NewSimpleTokenBucket(2, 60)
	l.allow("1.2.3.4")
	l.allow("1.2.3.4")
	if l.allow("1.2.3.4") {
		t.Error("request over capacity must be denied")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l := NewSimpleTokenBucket(1, 60)
	if !l.allow("1.1.1.1") {
		t.Fatal("first client must be allowed")
	}
	if !l.allow("2.2.2.2") {
		t.Error("second client has its own bucket")
	}
	if l.allow("1.1.1.1") {
		t.Error("first client exhausted its bucket")
	}
}

func TestNew_DefaultsCapacityToRate(t *testing.T) {
	l := NewSimpleTokenBucket(0, 5)
	for i := 0; i < 5; i++ {
		if !l.allow("x") {
			t.Fatalf("request %d should fit the defaulted capacity", i+1)
		}
	}
	if l.allow("x") {
		t.Error("sixth request must be denied")
	}
}
