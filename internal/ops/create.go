package ops

import (
	"time"

	"github.com/hpungsan/debtmap/internal/debt"
	"github.com/hpungsan/debtmap/internal/storage"
)

// CreateInput contains parameters for the Create operation. Enum fields are
// optional tokens; empty means the documented default.
type CreateInput struct {
	Title       string
	Description string
	FilePath    string
	LineNumber  int
	Severity    string // default: low
	Category    string // default: other
	Status      string // default: open
	Priority    string // default: normal
	DueDate     *time.Time
	Tags        []string
	Context     *string
	Assignee    *string
	Effort      *string
	Notes       *string
}

// CreateOutput contains the result of the Create operation.
type CreateOutput struct {
	Entry debt.Entry `json:"entry"`
}

// Create validates the fields, assigns an id and timestamps, and persists a
// new entry at the end of the document.
func Create(eng *storage.Engine, input CreateInput) (*CreateOutput, error) {
	severity, err := parseSeverity(input.Severity)
	if err != nil {
		return nil, err
	}
	category, err := parseCategory(input.Category)
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(input.Status)
	if err != nil {
		return nil, err
	}
	priority, err := parsePriority(input.Priority)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := debt.Entry{
		Title:           input.Title,
		Description:     input.Description,
		FilePath:        input.FilePath,
		LineNumber:      input.LineNumber,
		Severity:        severity,
		Category:        category,
		Status:          status,
		Priority:        priority,
		CreatedAt:       now,
		UpdatedAt:       now,
		DueDate:         input.DueDate,
		Tags:            cleanTags(input.Tags),
		Context:         cleanOptionalString(input.Context),
		Assignee:        cleanOptionalString(input.Assignee),
		EstimatedEffort: cleanOptionalString(input.Effort),
		Notes:           cleanOptionalString(input.Notes),
	}

	// Validate before touching storage so malformed input never costs a lock.
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	doc, err := eng.Read()
	if err != nil {
		return nil, err
	}

	entry.ID, err = newUniqueID(doc, now)
	if err != nil {
		return nil, err
	}

	doc.Entries = append(doc.Entries, entry)
	if err := eng.Write(doc); err != nil {
		return nil, err
	}

	return &CreateOutput{Entry: entry}, nil
}
