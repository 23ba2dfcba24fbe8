package ops

import (
	"strings"

	"github.com/hpungsan/debtmap/internal/debt"
	"github.com/hpungsan/debtmap/internal/errors"
	"github.com/hpungsan/debtmap/internal/storage"
)

// GetInput contains parameters for the Get operation.
type GetInput struct {
	ID string
}

// GetOutput contains the result of the Get operation.
type GetOutput struct {
	Entry debt.Entry `json:"entry"`
}

// Get retrieves a single entry by exact id.
func Get(eng *storage.Engine, input GetInput) (*GetOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	doc, err := eng.Read()
	if err != nil {
		return nil, err
	}

	entry := doc.FindEntry(id)
	if entry == nil {
		return nil, errors.NewNotFound(id)
	}

	return &GetOutput{Entry: *entry}, nil
}
