// ABOUTME: Test utilities for creating isolated charm clients
// ABOUTME: Uses temporary directories with a local BadgerDB for test isolation

package charm

import (
	"path/filepath"
	"testing"
)

// NewTestClient creates a local client in a temporary directory. The
// database is closed when the test finishes.
func NewTestClient(t testing.TB) *Client {
	t.Helper()

	c, err := OpenLocal(filepath.Join(t.TempDir(), AppName))
	if err != nil {
		t.Fatalf("Failed to open test kv: %v", err)
	}

	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Logf("Warning: failed to close test kv: %v", err)
		}
	})

	return c
}
