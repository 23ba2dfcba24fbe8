// Package config supplies marker vocabulary, scan globs, and the storage
// location. Configuration is read-only from the core's perspective: it is
// loaded once and passed explicitly at construction time, never read from
// ambient global state.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RepoDirName is the per-repository config directory.
const RepoDirName = ".debtmap"

// Config holds application configuration.
type Config struct {
	// ProjectName labels the storage document; defaults to the project
	// directory's base name when empty.
	ProjectName string `json:"project_name,omitempty"`

	// StorageLocation is the debt document path, relative to the project
	// root unless absolute.
	StorageLocation string `json:"storage_location,omitempty"`

	// DebtMarkers is the scanner vocabulary (TODO, FIXME, ...).
	DebtMarkers []string `json:"debt_markers,omitempty"`

	// ScanPatterns is the include glob set for workspace scans.
	ScanPatterns []string `json:"scan_patterns,omitempty"`

	// ExcludePatterns is the exclude glob set for workspace scans.
	ExcludePatterns []string `json:"exclude_patterns,omitempty"`

	// LockStaleSeconds is the advisory-lock staleness threshold.
	// 0 means the storage default.
	LockStaleSeconds int `json:"lock_stale_seconds,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from
	// registration. Unknown names are ignored at registration time.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		StorageLocation: filepath.Join(RepoDirName, "debts.json"),
		DebtMarkers:     []string{"TODO", "FIXME", "HACK", "BUG", "NOTE"},
		ScanPatterns:    []string{"**/*"},
		ExcludePatterns: []string{
			"**/.git/**",
			"**/node_modules/**",
			"**/vendor/**",
			"**/dist/**",
			"**/build/**",
			RepoDirName + "/**",
		},
	}
}

// Load loads configuration from baseDir/config.json, merged over defaults.
// Returns default config if the file doesn't exist. The baseDir parameter
// allows tests to use t.TempDir() instead of ~/.debtmap.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// LoadWithRepo loads configuration from both the global dir (~/.debtmap) and
// the nearest repo .debtmap directory found by walking upward from startDir.
// Repo config takes precedence. Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to the nearest
// .debtmap/config.json. Returns "" if none is found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, RepoDirName, "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// FindProjectRoot walks upward from startDir to the nearest directory
// containing a .debtmap directory. Falls back to startDir.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, RepoDirName)); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return startDir
		}
		dir = parent
	}
}

// WriteRepoConfig seeds projectRoot/.debtmap/config.json with the given
// config. An existing file is left untouched; the returned path points at
// whichever file ends up in place.
func WriteRepoConfig(projectRoot string, cfg *Config) (string, error) {
	dir := filepath.Join(projectRoot, RepoDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	configPath := filepath.Join(dir, "config.json")
	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(configPath, append(data, '\n'), 0644); err != nil {
		return "", err
	}
	return configPath, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the path is empty or the file doesn't exist.
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge combines base and overlay configs. Overlay wins for scalars and for
// the marker/glob arrays (a repo must be able to narrow the global scan
// set); disabled_tools is merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.ProjectName = overlay.ProjectName
	if result.ProjectName == "" {
		result.ProjectName = base.ProjectName
	}

	result.StorageLocation = overlay.StorageLocation
	if result.StorageLocation == "" {
		result.StorageLocation = base.StorageLocation
	}

	result.LockStaleSeconds = overlay.LockStaleSeconds
	if result.LockStaleSeconds == 0 {
		result.LockStaleSeconds = base.LockStaleSeconds
	}

	result.DebtMarkers = replaceSlice(base.DebtMarkers, overlay.DebtMarkers)
	result.ScanPatterns = replaceSlice(base.ScanPatterns, overlay.ScanPatterns)
	result.ExcludePatterns = replaceSlice(base.ExcludePatterns, overlay.ExcludePatterns)

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// LockStaleThreshold converts the configured staleness to a duration,
// 0 meaning "use the storage default".
func (c *Config) LockStaleThreshold() time.Duration {
	return time.Duration(c.LockStaleSeconds) * time.Second
}

// StoragePath resolves the storage location against the project root.
func (c *Config) StoragePath(projectRoot string) string {
	if filepath.IsAbs(c.StorageLocation) {
		return c.StorageLocation
	}
	return filepath.Join(projectRoot, c.StorageLocation)
}

// replaceSlice returns overlay when it is set at all, else base.
func replaceSlice(base, overlay []string) []string {
	if overlay != nil {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
