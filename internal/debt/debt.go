package debt

import (
	"time"
	"unicode/utf8"

	"github.com/hpungsan/debtmap/internal/errors"
)

// Field length limits for debt entries.
const (
	MaxTitleChars       = 100
	MaxDescriptionChars = 500
)

// Severity indicates how damaging a debt item is if left unaddressed.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Category classifies the kind of debt.
type Category string

const (
	CategoryCodeQuality   Category = "code-quality"
	CategoryPerformance   Category = "performance"
	CategorySecurity      Category = "security"
	CategoryTesting       Category = "testing"
	CategoryDocumentation Category = "documentation"
	CategoryArchitecture  Category = "architecture"
	CategoryRefactoring   Category = "refactoring"
	CategoryOther         Category = "other"
)

// Priority indicates scheduling urgency, independent of severity.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var severities = map[Severity]bool{
	SeverityLow: true, SeverityMedium: true, SeverityHigh: true, SeverityCritical: true,
}

var categories = map[Category]bool{
	CategoryCodeQuality: true, CategoryPerformance: true, CategorySecurity: true,
	CategoryTesting: true, CategoryDocumentation: true, CategoryArchitecture: true,
	CategoryRefactoring: true, CategoryOther: true,
}

var priorities = map[Priority]bool{
	PriorityLow: true, PriorityNormal: true, PriorityHigh: true, PriorityUrgent: true,
}

// Valid reports whether s is a known severity token.
func (s Severity) Valid() bool { return severities[s] }

// Valid reports whether c is a known category token.
func (c Category) Valid() bool { return categories[c] }

// Valid reports whether p is a known priority token.
func (p Priority) Valid() bool { return priorities[p] }

// Entry represents one tracked unit of technical debt.
// Enum fields serialize as their lower/kebab-case tokens (e.g. "in-progress").
type Entry struct {
	// ID uniquely identifies the entry and is immutable after creation
	ID string `json:"id"`

	// Title is a short summary, at most 100 characters
	Title string `json:"title"`

	// Description explains the debt, at most 500 characters
	Description string `json:"description"`

	// FilePath is the project-relative location of the debt
	FilePath string `json:"filePath"`

	// LineNumber is the 1-based line within FilePath
	LineNumber int `json:"lineNumber"`

	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Status   Status   `json:"status"`
	Priority Priority `json:"priority"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	DueDate *time.Time `json:"dueDate,omitempty"`

	// Tags is a set of free-form labels; the scanner seeds it with the marker
	Tags []string `json:"tags"`

	Context         *string `json:"context,omitempty"`
	Assignee        *string `json:"assignee,omitempty"`
	EstimatedEffort *string `json:"estimatedEffort,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// Validate checks the entry's fields against the rules shared by create and
// update: non-empty title/description/filePath, length limits (counted in
// runes, not bytes), lineNumber >= 1, and known enum tokens.
func (e *Entry) Validate() error {
	if e.Title == "" {
		return errors.NewValidation("title", "must not be empty")
	}
	if n := utf8.RuneCountInString(e.Title); n > MaxTitleChars {
		return errors.NewValidation("title", "must be at most 100 characters")
	}
	if e.Description == "" {
		return errors.NewValidation("description", "must not be empty")
	}
	if n := utf8.RuneCountInString(e.Description); n > MaxDescriptionChars {
		return errors.NewValidation("description", "must be at most 500 characters")
	}
	if e.FilePath == "" {
		return errors.NewValidation("filePath", "must not be empty")
	}
	if e.LineNumber < 1 {
		return errors.NewValidation("lineNumber", "must be a positive integer")
	}
	if !e.Severity.Valid() {
		return errors.NewValidation("severity", "must be one of: low, medium, high, critical")
	}
	if !e.Category.Valid() {
		return errors.NewValidation("category", "must be a known category")
	}
	if !e.Status.Valid() {
		return errors.NewValidation("status", "must be one of: open, in-progress, review, resolved, closed")
	}
	if !e.Priority.Valid() {
		return errors.NewValidation("priority", "must be one of: low, normal, high, urgent")
	}
	return nil
}

// Patch describes a partial update to an entry. Pointer fields are applied
// when non-nil; Clear* flags explicitly remove the corresponding optional
// field, so an omitted field is never confused with a cleared one.
type Patch struct {
	Title       *string
	Description *string
	FilePath    *string
	LineNumber  *int
	Severity    *Severity
	Category    *Category
	Status      *Status
	Priority    *Priority
	DueDate     *time.Time
	Tags        *[]string
	Context     *string
	Assignee    *string
	Effort      *string
	Notes       *string

	ClearDueDate  bool
	ClearContext  bool
	ClearAssignee bool
	ClearEffort   bool
	ClearNotes    bool
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.FilePath == nil &&
		p.LineNumber == nil && p.Severity == nil && p.Category == nil &&
		p.Status == nil && p.Priority == nil && p.DueDate == nil &&
		p.Tags == nil && p.Context == nil && p.Assignee == nil &&
		p.Effort == nil && p.Notes == nil &&
		!p.ClearDueDate && !p.ClearContext && !p.ClearAssignee &&
		!p.ClearEffort && !p.ClearNotes
}

// Apply merges the patch onto a copy of e and returns it. The result is not
// validated; callers re-run Validate and the status whitelist themselves.
func (p Patch) Apply(e Entry) Entry {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.FilePath != nil {
		e.FilePath = *p.FilePath
	}
	if p.LineNumber != nil {
		e.LineNumber = *p.LineNumber
	}
	if p.Severity != nil {
		e.Severity = *p.Severity
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Priority != nil {
		e.Priority = *p.Priority
	}
	if p.DueDate != nil {
		due := *p.DueDate
		e.DueDate = &due
	}
	if p.Tags != nil {
		e.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Context != nil {
		v := *p.Context
		e.Context = &v
	}
	if p.Assignee != nil {
		v := *p.Assignee
		e.Assignee = &v
	}
	if p.Effort != nil {
		v := *p.Effort
		e.EstimatedEffort = &v
	}
	if p.Notes != nil {
		v := *p.Notes
		e.Notes = &v
	}
	if p.ClearDueDate {
		e.DueDate = nil
	}
	if p.ClearContext {
		e.Context = nil
	}
	if p.ClearAssignee {
		e.Assignee = nil
	}
	if p.ClearEffort {
		e.EstimatedEffort = nil
	}
	if p.ClearNotes {
		e.Notes = nil
	}
	return e
}
