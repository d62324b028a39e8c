package testsupport

import (
	"testing"

	"genforge/internal/config"
	"genforge/internal/project"
)

// MustOpenStore opens a project store for the supplied config and registers
// cleanup with the test lifecycle.
func MustOpenStore(t testing.TB, cfg *config.Config) *project.Store {
	t.Helper()

	store, err := project.Open(cfg)
	if err != nil {
		t.Fatalf("open project store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close project store: %v", err)
		}
	})
	return store
}
