package ops

import (
	"strings"
	"time"

	"github.com/hpungsan/debtmap/internal/debt"
	"github.com/hpungsan/debtmap/internal/errors"
	"github.com/hpungsan/debtmap/internal/storage"
)

// UpdateInput contains parameters for the Update operation.
type UpdateInput struct {
	ID    string
	Patch debt.Patch
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	Entry debt.Entry `json:"entry"`
}

// Update merges the patch over the existing entry, re-validates with the
// same rules as Create, and persists. A patch that changes status must also
// satisfy the transition whitelist; one that jumps to a disallowed status
// fails INVALID_TRANSITION rather than being silently applied.
func Update(eng *storage.Engine, input UpdateInput) (*UpdateOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	if input.Patch.Empty() {
		return nil, errors.NewInvalidRequest("at least one field must be provided")
	}

	doc, err := eng.Read()
	if err != nil {
		return nil, err
	}

	existing := doc.FindEntry(id)
	if existing == nil {
		return nil, errors.NewNotFound(id)
	}

	if s := input.Patch.Status; s != nil && *s != existing.Status {
		if !s.Valid() {
			return nil, errors.NewValidation("status", "must be one of: open, in-progress, review, resolved, closed")
		}
		if !existing.Status.CanTransitionTo(*s) {
			return nil, errors.NewInvalidTransition(string(existing.Status), string(*s))
		}
	}

	merged := input.Patch.Apply(*existing)
	merged.ID = existing.ID // immutable
	merged.CreatedAt = existing.CreatedAt
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	merged.UpdatedAt = time.Now().UTC()

	*existing = merged
	if err := eng.Write(doc); err != nil {
		return nil, err
	}

	return &UpdateOutput{Entry: merged}, nil
}
