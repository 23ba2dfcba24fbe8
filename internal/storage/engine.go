package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/hpungsan/debtmap/internal/debt"
	"github.com/hpungsan/debtmap/internal/errors"
)

// Engine reads and writes the debt document. One engine per storage path;
// instances must not be used concurrently without external serialization.
type Engine struct {
	path        string
	projectName string
	lock        *FileLock
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	staleAfter time.Duration
}

// WithStaleAfter overrides the lock staleness threshold. Primarily for tests.
func WithStaleAfter(d time.Duration) Option {
	return func(o *options) { o.staleAfter = d }
}

// NewEngine creates an engine over the document at path. The lock marker is
// a ".lock" sibling of the document.
func NewEngine(path, projectName string, opts ...Option) *Engine {
	o := options{staleAfter: DefaultStaleAfter}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{
		path:        path,
		projectName: projectName,
		lock:        NewFileLock(path+".lock", o.staleAfter),
	}
}

// Path returns the document location.
func (e *Engine) Path() string { return e.path }

// Initialize creates the backing file and its directory if absent, seeding a
// default empty document. If the file already exists it is validated instead
// and corruption reported without overwriting anything. Idempotent.
func (e *Engine) Initialize() error {
	if err := os.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return errors.NewIO(err)
	}

	if _, err := os.Stat(e.path); err == nil {
		_, err := e.Read()
		return err
	} else if !os.IsNotExist(err) {
		return errors.NewIO(err)
	}

	return e.Write(DefaultDocument(e.projectName))
}

// Read loads and structurally validates the document. The lock is always
// released, even on failure. A document that fails parsing or validation is
// first copied to a timestamped backup sibling, then CORRUPT_DOCUMENT is
// returned so the operator can recover the bytes manually.
func (e *Engine) Read() (*Document, error) {
	if err := e.lock.Acquire(); err != nil {
		return nil, err
	}
	defer e.lock.Release()

	data, err := os.ReadFile(e.path)
	if err != nil {
		return nil, errors.NewIO(err)
	}

	if err := validateRaw(data); err != nil {
		backup := e.backupCorrupt(data)
		return nil, errors.NewCorruptDocument(err.Error(), backup)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		backup := e.backupCorrupt(data)
		return nil, errors.NewCorruptDocument(err.Error(), backup)
	}
	if doc.Entries == nil {
		doc.Entries = []debt.Entry{}
	}
	return &doc, nil
}

// Write validates the document, stamps metadata, and persists the whole
// document atomically (temp file + rename). The lock is always released.
func (e *Engine) Write(doc *Document) error {
	if err := e.lock.Acquire(); err != nil {
		return err
	}
	defer e.lock.Release()

	doc.Metadata.LastUpdated = time.Now().UTC()
	doc.Metadata.TotalCount = len(doc.Entries)
	if doc.Metadata.SchemaVersion == "" {
		doc.Metadata.SchemaVersion = SchemaVersion
	}
	if doc.Entries == nil {
		doc.Entries = []debt.Entry{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.NewInternal(err)
	}
	data = append(data, '\n')

	if err := validateRaw(data); err != nil {
		return errors.NewValidation("document", err.Error())
	}

	tmp := e.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.NewIO(err)
	}
	if err := os.Rename(tmp, e.path); err != nil {
		os.Remove(tmp)
		return errors.NewIO(err)
	}
	return nil
}

// IsAccessible reports whether the document can currently be read and
// validated. Best-effort: all errors collapse to false.
func (e *Engine) IsAccessible() bool {
	_, err := e.Read()
	return err == nil
}

// backupCorrupt copies raw document bytes to a timestamped sibling before a
// read fails. Returns the backup path, or "" if the copy itself failed.
func (e *Engine) backupCorrupt(data []byte) string {
	backup := e.path + ".corrupt-" + time.Now().UTC().Format("20060102-150405.000")
	if err := os.WriteFile(backup, data, 0644); err != nil {
		return ""
	}
	return backup
}
