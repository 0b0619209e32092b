package testsupport

import (
	"testing"

	"comicgen/internal/config"
	"comicgen/internal/history"
)

// MustOpenHistory opens the history database configured in cfg and closes it
// when the test ends.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
