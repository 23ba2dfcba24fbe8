// Package storage is the sole authority over the persisted debt document:
// a single JSON file shared across process instances, guarded by an advisory
// lock marker and validated structurally on every read and write.
package storage

import (
	"time"

	"github.com/hpungsan/debtmap/internal/debt"
)

// SchemaVersion is stamped into documents seeded by Initialize.
const SchemaVersion = "1.0.0"

// Document is the single persisted aggregate: every debt entry plus
// document-level metadata and integration settings.
type Document struct {
	// Entries in insertion order; listing preserves this order
	Entries  []debt.Entry `json:"entries"`
	Metadata Metadata     `json:"metadata"`
	Settings Settings     `json:"settings"`
}

// Metadata carries document bookkeeping. LastUpdated and TotalCount are
// recomputed by Engine.Write on every successful persist.
type Metadata struct {
	SchemaVersion string    `json:"schemaVersion"`
	LastUpdated   time.Time `json:"lastUpdated"`
	TotalCount    int       `json:"totalCount"`
	ProjectName   string    `json:"projectName"`
}

// Settings holds source-control integration flags persisted alongside the
// entries. The core only stores them; acting on them is a collaborator concern.
type Settings struct {
	IntegrationEnabled    bool   `json:"integrationEnabled"`
	AutoCommit            bool   `json:"autoCommit"`
	AutoPush              bool   `json:"autoPush"`
	CommitMessageTemplate string `json:"commitMessageTemplate"`
}

// DefaultDocument returns the document seeded by Initialize: no entries,
// default settings.
func DefaultDocument(projectName string) *Document {
	return &Document{
		Entries: []debt.Entry{},
		Metadata: Metadata{
			SchemaVersion: SchemaVersion,
			LastUpdated:   time.Now().UTC(),
			TotalCount:    0,
			ProjectName:   projectName,
		},
		Settings: Settings{
			CommitMessageTemplate: "chore(debt): resolve {id} {title}",
		},
	}
}

// FindEntry returns a pointer into d.Entries for the given id, or nil.
func (d *Document) FindEntry(id string) *debt.Entry {
	for i := range d.Entries {
		if d.Entries[i].ID == id {
			return &d.Entries[i]
		}
	}
	return nil
}

// RemoveEntry excises the entry with the given id, preserving order.
// It reports whether an entry was removed.
func (d *Document) RemoveEntry(id string) bool {
	for i := range d.Entries {
		if d.Entries[i].ID == id {
			d.Entries = append(d.Entries[:i], d.Entries[i+1:]...)
			return true
		}
	}
	return false
}
