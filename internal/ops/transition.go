package ops

import (
	"strings"
	"time"

	"github.com/hpungsan/debtmap/internal/debt"
	"github.com/hpungsan/debtmap/internal/errors"
	"github.com/hpungsan/debtmap/internal/storage"
)

// TransitionInput contains parameters for the Transition operation.
type TransitionInput struct {
	ID     string
	Status string
}

// TransitionOutput contains the result of the Transition operation.
type TransitionOutput struct {
	Entry debt.Entry  `json:"entry"`
	From  debt.Status `json:"from"`
}

// Transition moves an entry to a new status, gated by the whitelist, and
// bumps updatedAt. The change is persisted before returning.
func Transition(eng *storage.Engine, input TransitionInput) (*TransitionOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	next := debt.Status(strings.TrimSpace(input.Status))
	if !next.Valid() {
		return nil, errors.NewValidation("status", "must be one of: open, in-progress, review, resolved, closed")
	}

	doc, err := eng.Read()
	if err != nil {
		return nil, err
	}

	entry := doc.FindEntry(id)
	if entry == nil {
		return nil, errors.NewNotFound(id)
	}

	from := entry.Status
	if !from.CanTransitionTo(next) {
		return nil, errors.NewInvalidTransition(string(from), string(next))
	}

	entry.Status = next
	entry.UpdatedAt = time.Now().UTC()

	if err := eng.Write(doc); err != nil {
		return nil, err
	}

	return &TransitionOutput{Entry: *entry, From: from}, nil
}
