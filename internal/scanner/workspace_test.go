package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTree creates files under root from relative slash paths.
func writeTree(t *testing.T, root string, files map[string][]byte) {
	t.Helper()
	for rel, data := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
}

func TestScanWorkspace_DefaultsAndExcludes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"main.go":             []byte("package main\n// TODO: wire flags\n"),
		"lib/util.js":         []byte("// FIXME: leaking handle\n"),
		"node_modules/dep.js": []byte("// TODO: excluded by default\n"),
		"vendor/v/v.go":       []byte("// TODO: excluded by default\n"),
		".git/config":         []byte("# TODO: excluded by default\n"),
		"docs/readme.md":      []byte("no markers here\n"),
	})

	s := New(nil)
	result, err := s.ScanWorkspace(context.Background(), root, nil, nil)
	if err != nil {
		t.Fatalf("ScanWorkspace failed: %v", err)
	}

	if result.Cancelled {
		t.Error("scan should not report cancellation")
	}
	if len(result.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(result.Candidates), result.Candidates)
	}

	found := make(map[string]bool)
	for _, c := range result.Candidates {
		found[c.FilePath] = true
		if filepath.IsAbs(c.FilePath) {
			t.Errorf("candidate path %q should be relative", c.FilePath)
		}
	}
	if !found["main.go"] || !found["lib/util.js"] {
		t.Errorf("candidates = %v, want main.go and lib/util.js", found)
	}
}

func TestScanWorkspace_IncludePatterns(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"a.go":     []byte("// TODO: in scope\n"),
		"sub/b.go": []byte("// TODO: in scope\n"),
		"c.py":     []byte("# TODO: out of scope\n"),
	})

	s := New(nil)
	result, err := s.ScanWorkspace(context.Background(), root, []string{"**/*.go"}, nil)
	if err != nil {
		t.Fatalf("ScanWorkspace failed: %v", err)
	}

	if len(result.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2 (.go only)", len(result.Candidates))
	}
	for _, c := range result.Candidates {
		if filepath.Ext(c.FilePath) != ".go" {
			t.Errorf("candidate %q should have been filtered by include glob", c.FilePath)
		}
	}
}

func TestScanWorkspace_CustomExcludes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"keep.go":          []byte("// TODO: keep\n"),
		"generated/gen.go": []byte("// TODO: drop\n"),
	})

	s := New(nil)
	result, err := s.ScanWorkspace(context.Background(), root, nil, []string{"generated/**"})
	if err != nil {
		t.Fatalf("ScanWorkspace failed: %v", err)
	}

	if len(result.Candidates) != 1 || result.Candidates[0].FilePath != "keep.go" {
		t.Errorf("candidates = %+v, want only keep.go", result.Candidates)
	}
}

func TestScanWorkspace_SkipsBinaryFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"text.go": []byte("// TODO: visible\n"),
		"blob.go": {0x7f, 'E', 'L', 'F', 0, 0, 'T', 'O', 'D', 'O', ':', ' ', 'x'},
	})

	s := New(nil)
	result, err := s.ScanWorkspace(context.Background(), root, nil, nil)
	if err != nil {
		t.Fatalf("ScanWorkspace failed: %v", err)
	}

	if result.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1", result.FilesScanned)
	}
	if result.FilesSkipped != 1 {
		t.Errorf("FilesSkipped = %d, want 1", result.FilesSkipped)
	}
	if len(result.Candidates) != 1 || result.Candidates[0].FilePath != "text.go" {
		t.Errorf("candidates = %+v, want only text.go", result.Candidates)
	}
}

func TestScanWorkspace_CancelledContextReturnsPartial(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"a.go": []byte("// TODO: a\n"),
		"b.go": []byte("// TODO: b\n"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(nil)
	result, err := s.ScanWorkspace(ctx, root, nil, nil)
	if err != nil {
		t.Fatalf("cancelled scan should not error, got: %v", err)
	}
	if !result.Cancelled {
		t.Error("Cancelled should be set")
	}
	if result.FilesScanned != 0 {
		t.Errorf("FilesScanned = %d, want 0 for pre-cancelled context", result.FilesScanned)
	}
}

func TestScanWorkspace_MissingRoot(t *testing.T) {
	s := New(nil)
	_, err := s.ScanWorkspace(context.Background(), filepath.Join(t.TempDir(), "absent"), nil, nil)
	if err == nil {
		t.Error("scan of a missing root should fail")
	}
}

func TestScanFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "x.go")
	if err := os.WriteFile(path, []byte("// TODO: found\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s := New(nil)
	candidates, ok := s.ScanFile(path, "x.go")
	if !ok {
		t.Fatal("readable text file should be scanned")
	}
	if len(candidates) != 1 || candidates[0].FilePath != "x.go" {
		t.Errorf("candidates = %+v, want one under the relative path", candidates)
	}

	if _, ok := s.ScanFile(filepath.Join(root, "missing.go"), "missing.go"); ok {
		t.Error("unreadable file should be skipped, not scanned")
	}
}

func TestScanFile_OverlongLineSkipsFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "minified.js")
	content := "// TODO: before\n" + strings.Repeat("x", 1<<20+10) + "\n// TODO: after\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s := New(nil)
	candidates, ok := s.ScanFile(path, "minified.js")
	if ok {
		t.Error("a file with a line over the length limit should be skipped")
	}
	if candidates != nil {
		t.Errorf("candidates = %+v, want none from a skipped file", candidates)
	}

	// The workspace scan counts it as skipped, like a binary.
	result, err := s.ScanWorkspace(context.Background(), root, nil, nil)
	if err != nil {
		t.Fatalf("ScanWorkspace failed: %v", err)
	}
	if result.FilesSkipped != 1 || result.FilesScanned != 0 {
		t.Errorf("scanned=%d skipped=%d, want 0/1", result.FilesScanned, result.FilesSkipped)
	}
	if len(result.Candidates) != 0 {
		t.Errorf("candidates = %+v, want none", result.Candidates)
	}
}
