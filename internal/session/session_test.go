package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestIDResolvesOnceAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session_id")

	m := NewManager(path, false)
	first, err := m.ID()
	if err != nil {
		t.Fatalf("ID err: %v", err)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("identifier %q is not a uuid: %v", first, err)
	}

	second, err := m.ID()
	if err != nil {
		t.Fatalf("second ID err: %v", err)
	}
	if second != first {
		t.Fatalf("identifier changed within one manager: %q vs %q", first, second)
	}

	// A fresh manager on the same path must see the persisted value.
	again, err := NewManager(path, false).ID()
	if err != nil {
		t.Fatalf("reload ID err: %v", err)
	}
	if again != first {
		t.Fatalf("identifier not persisted: %q vs %q", first, again)
	}
}

func TestIDLenientOnFailure(t *testing.T) {
	// A session file path inside a regular file cannot be created.
	base := filepath.Join(t.TempDir(), "blocker")
	if err := writeBlocker(base); err != nil {
		t.Fatalf("setup: %v", err)
	}
	path := filepath.Join(base, "session_id")

	id, err := NewManager(path, false).ID()
	if err != nil {
		t.Fatalf("lenient mode should not error, got %v", err)
	}
	if id != "" {
		t.Fatalf("lenient mode should yield empty id, got %q", id)
	}
}

func TestIDStrictOnFailure(t *testing.T) {
	base := filepath.Join(t.TempDir(), "blocker")
	if err := writeBlocker(base); err != nil {
		t.Fatalf("setup: %v", err)
	}
	path := filepath.Join(base, "session_id")

	if _, err := NewManager(path, true).ID(); !errors.Is(err, ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}
}

// writeBlocker creates a plain file so the path cannot be used as a
// directory component.
func writeBlocker(path string) error {
	return os.WriteFile(path, []byte("x"), 0o600)
}
