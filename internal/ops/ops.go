// Package ops implements the debt lifecycle: business rules over entries
// (validation, id assignment, the status whitelist) with all durability
// delegated to the storage engine. Operations are free functions taking the
// engine plus a typed input, mirroring how surfaces call them.
package ops

import (
	"strings"
	"time"

	"github.com/hpungsan/debtmap/internal/debt"
	"github.com/hpungsan/debtmap/internal/errors"
	"github.com/hpungsan/debtmap/internal/storage"
)

// Defaults applied when an input omits an enum token.
const (
	DefaultSeverity = debt.SeverityLow
	DefaultCategory = debt.CategoryOther
	DefaultPriority = debt.PriorityNormal
)

// newUniqueID mints an entry id that does not collide with any entry already
// in the document. Collisions are practically impossible (millisecond
// timestamp plus ULID entropy) but cheap to rule out entirely.
func newUniqueID(doc *storage.Document, now time.Time) (string, error) {
	for {
		id, err := debt.NewID(now)
		if err != nil {
			return "", errors.NewInternal(err)
		}
		if doc.FindEntry(id) == nil {
			return id, nil
		}
	}
}

// parseSeverity resolves an optional severity token.
func parseSeverity(s string) (debt.Severity, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultSeverity, nil
	}
	sev := debt.Severity(s)
	if !sev.Valid() {
		return "", errors.NewValidation("severity", "must be one of: low, medium, high, critical")
	}
	return sev, nil
}

// parseCategory resolves an optional category token.
func parseCategory(s string) (debt.Category, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultCategory, nil
	}
	cat := debt.Category(s)
	if !cat.Valid() {
		return "", errors.NewValidation("category", "must be a known category")
	}
	return cat, nil
}

// parsePriority resolves an optional priority token.
func parsePriority(s string) (debt.Priority, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultPriority, nil
	}
	pri := debt.Priority(s)
	if !pri.Valid() {
		return "", errors.NewValidation("priority", "must be one of: low, normal, high, urgent")
	}
	return pri, nil
}

// parseStatus resolves an optional status token, defaulting to open.
func parseStatus(s string) (debt.Status, error) {
	if strings.TrimSpace(s) == "" {
		return debt.StatusOpen, nil
	}
	st := debt.Status(s)
	if !st.Valid() {
		return "", errors.NewValidation("status", "must be one of: open, in-progress, review, resolved, closed")
	}
	return st, nil
}

// cleanTags trims and de-duplicates a tag set, preserving order.
func cleanTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
