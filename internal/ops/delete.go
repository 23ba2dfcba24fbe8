package ops

import (
	"strings"

	"github.com/hpungsan/debtmap/internal/errors"
	"github.com/hpungsan/debtmap/internal/storage"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// Delete removes the entry permanently; document metadata is recomputed by
// the engine on write.
func Delete(eng *storage.Engine, input DeleteInput) (*DeleteOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	doc, err := eng.Read()
	if err != nil {
		return nil, err
	}

	if !doc.RemoveEntry(id) {
		return nil, errors.NewNotFound(id)
	}

	if err := eng.Write(doc); err != nil {
		return nil, err
	}

	return &DeleteOutput{ID: id, Deleted: true}, nil
}
