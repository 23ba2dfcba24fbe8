package ops

import (
	"path/filepath"
	"testing"

	"github.com/hpungsan/debtmap/internal/config"
	"github.com/hpungsan/debtmap/internal/storage"
)

// newTestEngine creates an initialized engine over a temp document.
func newTestEngine(t *testing.T) *storage.Engine {
	t.Helper()
	eng := storage.NewEngine(filepath.Join(t.TempDir(), "debts.json"), "testproject")
	if err := eng.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return eng
}

// testConfig returns a default config for testing.
func testConfig() *config.Config {
	return config.DefaultConfig()
}

func stringPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

// validCreateInput returns a minimal valid input for Create.
func validCreateInput() CreateInput {
	return CreateInput{
		Title:       "Replace ad-hoc retry loop",
		Description: "Retries are hand-rolled with sleeps and no backoff",
		FilePath:    "internal/client/client.go",
		LineNumber:  120,
	}
}
