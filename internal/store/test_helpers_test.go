package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/diary/internal/retryx"
)

// createTestStore opens a fresh store in a temp dir with retries disabled.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(context.Background(), path, Options{Retry: retryx.Policy{}})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustChild creates the container at path below the root.
func mustChild(t *testing.T, s *Store, names ...string) Container {
	t.Helper()
	c := s.Root()
	for _, name := range names {
		var err error
		c, err = c.Child(context.Background(), name)
		if err != nil {
			t.Fatalf("Child(%q) failed: %v", name, err)
		}
	}
	return c
}
