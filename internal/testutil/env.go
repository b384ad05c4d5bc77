package testutil

import (
	"os"
	"testing"
)

// WithEnv sets env var to val for the duration of the test scope.
// Returns a cleanup func to restore previous value.
func WithEnv(t *testing.T, key, val string) func() {
	t.Helper()
	old, had := os.LookupEnv(key)
	if val == "" {
		_ = os.Unsetenv(key)
	} else {
		_ = os.Setenv(key, val)
	}
	return func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	}
}

// IsolateConfig points the user config base at a temp dir so store reads and
// writes never touch the developer's real files.
func IsolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	restoreXDG := WithEnv(t, "XDG_CONFIG_HOME", dir)
	restoreHome := WithEnv(t, "HOME", dir)
	t.Cleanup(func() {
		restoreXDG()
		restoreHome()
	})
	return dir
}
