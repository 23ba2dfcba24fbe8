package ops

import (
	"strings"

	"github.com/hpungsan/debtmap/internal/debt"
	"github.com/hpungsan/debtmap/internal/errors"
	"github.com/hpungsan/debtmap/internal/storage"
)

// ListInput contains optional exact-match filters for the List operation.
// Empty filters match everything.
type ListInput struct {
	FilePath string
	Status   string
	Severity string
	Category string
	Tag      string
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items []debt.Entry `json:"items"`
	Total int          `json:"total"`
}

// List returns entries in document insertion order, optionally filtered.
// The corpus is small by design (hundreds to low thousands), so this is a
// plain linear scan over the in-memory document.
func List(eng *storage.Engine, input ListInput) (*ListOutput, error) {
	if input.Status != "" && !debt.Status(input.Status).Valid() {
		return nil, errors.NewValidation("status", "must be one of: open, in-progress, review, resolved, closed")
	}
	if input.Severity != "" && !debt.Severity(input.Severity).Valid() {
		return nil, errors.NewValidation("severity", "must be one of: low, medium, high, critical")
	}
	if input.Category != "" && !debt.Category(input.Category).Valid() {
		return nil, errors.NewValidation("category", "must be a known category")
	}

	doc, err := eng.Read()
	if err != nil {
		return nil, err
	}

	items := make([]debt.Entry, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		if !matchesFilters(e, input) {
			continue
		}
		items = append(items, e)
	}

	return &ListOutput{Items: items, Total: len(doc.Entries)}, nil
}

// ByFile returns entries whose filePath exactly matches path.
func ByFile(eng *storage.Engine, path string) (*ListOutput, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.NewInvalidRequest("file path is required")
	}
	return List(eng, ListInput{FilePath: path})
}

// ByStatus returns entries with the given status.
func ByStatus(eng *storage.Engine, status string) (*ListOutput, error) {
	if strings.TrimSpace(status) == "" {
		return nil, errors.NewInvalidRequest("status is required")
	}
	return List(eng, ListInput{Status: status})
}

func matchesFilters(e debt.Entry, input ListInput) bool {
	if input.FilePath != "" && e.FilePath != input.FilePath {
		return false
	}
	if input.Status != "" && e.Status != debt.Status(input.Status) {
		return false
	}
	if input.Severity != "" && e.Severity != debt.Severity(input.Severity) {
		return false
	}
	if input.Category != "" && e.Category != debt.Category(input.Category) {
		return false
	}
	if input.Tag != "" && !hasTag(e.Tags, input.Tag) {
		return false
	}
	return true
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
