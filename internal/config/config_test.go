package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StorageLocation != DefaultConfig().StorageLocation {
		t.Fatalf("StorageLocation = %q, want %q", cfg.StorageLocation, DefaultConfig().StorageLocation)
	}
	if len(cfg.DebtMarkers) != 5 {
		t.Fatalf("DebtMarkers = %v, want the five defaults", cfg.DebtMarkers)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"project_name": "payments", "debt_markers": ["DEBT"]}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ProjectName != "payments" {
		t.Fatalf("ProjectName = %q, want payments", cfg.ProjectName)
	}
	if len(cfg.DebtMarkers) != 1 || cfg.DebtMarkers[0] != "DEBT" {
		t.Fatalf("DebtMarkers = %v, want [DEBT] (overlay replaces)", cfg.DebtMarkers)
	}
	// Unset fields keep defaults
	if cfg.StorageLocation != DefaultConfig().StorageLocation {
		t.Fatalf("StorageLocation = %q, want default", cfg.StorageLocation)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{not json}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoadWithRepo_RepoOverridesGlobal(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()

	globalConfig := `{"project_name": "global", "lock_stale_seconds": 60, "disabled_tools": ["debt_delete"]}`
	if err := os.WriteFile(filepath.Join(globalDir, "config.json"), []byte(globalConfig), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	repoDir := filepath.Join(repoRoot, RepoDirName)
	if err := os.MkdirAll(repoDir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	repoConfig := `{"project_name": "repo", "disabled_tools": ["debt_scan"]}`
	if err := os.WriteFile(filepath.Join(repoDir, "config.json"), []byte(repoConfig), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadWithRepo(globalDir, repoRoot)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}

	// Repo overrides scalar
	if cfg.ProjectName != "repo" {
		t.Errorf("ProjectName = %q, want repo", cfg.ProjectName)
	}
	// Global scalar survives when repo leaves it unset
	if cfg.LockStaleSeconds != 60 {
		t.Errorf("LockStaleSeconds = %d, want 60", cfg.LockStaleSeconds)
	}
	// disabled_tools are merged, not replaced
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools = %v, want both entries merged", cfg.DisabledTools)
	}
}

func TestLoadWithRepo_FindsConfigFromSubdirectory(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()

	repoDir := filepath.Join(repoRoot, RepoDirName)
	if err := os.MkdirAll(repoDir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(repoDir, "config.json"), []byte(`{"project_name": "nested"}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	deep := filepath.Join(repoRoot, "a", "b", "c")
	if err := os.MkdirAll(deep, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	cfg, err := LoadWithRepo(globalDir, deep)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.ProjectName != "nested" {
		t.Errorf("ProjectName = %q, want nested (found by upward walk)", cfg.ProjectName)
	}
}

func TestFindRepoConfig_NoneFound(t *testing.T) {
	if got := FindRepoConfig(t.TempDir()); got != "" {
		t.Errorf("FindRepoConfig() = %q, want empty", got)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, RepoDirName), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	deep := filepath.Join(root, "x", "y")
	if err := os.MkdirAll(deep, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	if got := FindProjectRoot(deep); got != root {
		t.Errorf("FindProjectRoot(%q) = %q, want %q", deep, got, root)
	}

	// No .debtmap anywhere: falls back to the start directory.
	bare := t.TempDir()
	if got := FindProjectRoot(bare); got != bare {
		t.Errorf("FindProjectRoot(%q) = %q, want the start dir", bare, got)
	}
}

func TestStoragePath(t *testing.T) {
	cfg := DefaultConfig()
	root := filepath.Join("/", "proj")

	want := filepath.Join(root, RepoDirName, "debts.json")
	if got := cfg.StoragePath(root); got != want {
		t.Errorf("StoragePath = %q, want %q", got, want)
	}

	cfg.StorageLocation = filepath.Join("/", "var", "debts.json")
	if got := cfg.StoragePath(root); got != cfg.StorageLocation {
		t.Errorf("absolute StoragePath = %q, want %q", got, cfg.StorageLocation)
	}
}

func TestLockStaleThreshold(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LockStaleThreshold() != 0 {
		t.Errorf("unset threshold = %v, want 0 (storage default)", cfg.LockStaleThreshold())
	}

	cfg.LockStaleSeconds = 45
	if cfg.LockStaleThreshold() != 45*time.Second {
		t.Errorf("threshold = %v, want 45s", cfg.LockStaleThreshold())
	}
}

func TestMerge_EmptyOverlayKeepsBase(t *testing.T) {
	base := DefaultConfig()
	merged := Merge(base, &Config{})

	if merged.StorageLocation != base.StorageLocation {
		t.Errorf("StorageLocation = %q, want base value", merged.StorageLocation)
	}
	if len(merged.DebtMarkers) != len(base.DebtMarkers) {
		t.Errorf("DebtMarkers = %v, want base markers", merged.DebtMarkers)
	}
	if len(merged.ExcludePatterns) != len(base.ExcludePatterns) {
		t.Errorf("ExcludePatterns = %v, want base patterns", merged.ExcludePatterns)
	}
}

func TestMerge_DisabledToolsDeduplicated(t *testing.T) {
	merged := Merge(
		&Config{DisabledTools: []string{"debt_scan", "debt_delete"}},
		&Config{DisabledTools: []string{" debt_scan ", "debt_report"}},
	)
	if len(merged.DisabledTools) != 3 {
		t.Errorf("DisabledTools = %v, want 3 deduplicated entries", merged.DisabledTools)
	}
}

func TestWriteRepoConfig(t *testing.T) {
	root := t.TempDir()

	path, err := WriteRepoConfig(root, &Config{ProjectName: "myproject"})
	if err != nil {
		t.Fatalf("WriteRepoConfig failed: %v", err)
	}
	if path != filepath.Join(root, RepoDirName, "config.json") {
		t.Errorf("path = %q, want repo config location", path)
	}

	loaded, err := LoadWithRepo(t.TempDir(), root)
	if err != nil {
		t.Fatalf("LoadWithRepo failed: %v", err)
	}
	if loaded.ProjectName != "myproject" {
		t.Errorf("ProjectName = %q, want myproject", loaded.ProjectName)
	}
}

func TestWriteRepoConfig_DoesNotOverwrite(t *testing.T) {
	root := t.TempDir()

	if _, err := WriteRepoConfig(root, &Config{ProjectName: "first"}); err != nil {
		t.Fatalf("WriteRepoConfig failed: %v", err)
	}
	path, err := WriteRepoConfig(root, &Config{ProjectName: "second"})
	if err != nil {
		t.Fatalf("second WriteRepoConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "first") {
		t.Error("existing repo config should be left untouched")
	}
}
