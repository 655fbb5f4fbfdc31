package errs

import (
	"errors"
	"testing"
)

func TestSentinelWrapping(t *testing.T) {
	err := NotFound("participant %s", "HC00101")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("NotFound must wrap ErrNotFound, got %v", err)
	}
	if errors.Is(err, ErrConflict) {
		t.Error("NotFound must not match ErrConflict")
	}

	if !errors.Is(Conflict("dup"), ErrConflict) {
		t.Error("Conflict must wrap ErrConflict")
	}
	if !errors.Is(Validation("bad"), ErrValidation) {
		t.Error("Validation must wrap ErrValidation")
	}
}

func TestStorageWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage("insert participant", cause)

	if !IsStorage(err) {
		t.Error("wrapped error must be recognized as storage")
	}
	if !errors.Is(err, cause) {
		t.Error("cause must be preserved through the wrapper")
	}

	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatal("errors.As must find the StorageError")
	}
	if se.Op != "insert participant" {
		t.Errorf("expected op preserved, got %q", se.Op)
	}
}

func TestStorageNil(t *testing.T) {
	if Storage("noop", nil) != nil {
		t.Error("wrapping nil must return nil")
	}
	if IsStorage(nil) {
		t.Error("nil is not a storage error")
	}
	if IsStorage(ErrNotFound) {
		t.Error("sentinels are not storage errors")
	}
}
