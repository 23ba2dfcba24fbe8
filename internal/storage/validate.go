package storage

import (
	"encoding/json"
	"fmt"
)

// rawDocument mirrors the document shape loosely enough to distinguish a
// missing field from an empty one, and a wrong JSON kind from a right one.
type rawDocument struct {
	Entries  *[]rawEntry     `json:"entries"`
	Metadata json.RawMessage `json:"metadata"`
	Settings json.RawMessage `json:"settings"`
}

// rawEntry captures only the fields the structural check enumerates; kinds
// are checked against the decoded any values.
type rawEntry struct {
	ID          any `json:"id"`
	Title       any `json:"title"`
	Description any `json:"description"`
	FilePath    any `json:"filePath"`
	LineNumber  any `json:"lineNumber"`
}

// validateRaw structurally validates serialized document bytes. It is the
// same check for initialize, read, and write: entries must be present as a
// sequence, metadata and settings present as objects, and every entry must
// carry the required fields with the right primitive kinds. Entry ids must
// be unique within the document.
func validateRaw(data []byte) error {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("not a valid document record: %w", err)
	}
	if raw.Entries == nil {
		return fmt.Errorf("missing entries sequence")
	}
	if err := requireObject("metadata", raw.Metadata); err != nil {
		return err
	}
	if err := requireObject("settings", raw.Settings); err != nil {
		return err
	}

	seen := make(map[string]bool, len(*raw.Entries))
	for i, e := range *raw.Entries {
		id, err := requireNonEmptyString("id", i, e.ID)
		if err != nil {
			return err
		}
		if seen[id] {
			return fmt.Errorf("entry %d: duplicate id %q", i, id)
		}
		seen[id] = true

		if _, err := requireNonEmptyString("title", i, e.Title); err != nil {
			return err
		}
		if _, err := requireNonEmptyString("description", i, e.Description); err != nil {
			return err
		}
		if _, err := requireNonEmptyString("filePath", i, e.FilePath); err != nil {
			return err
		}
		if err := requirePositiveInt("lineNumber", i, e.LineNumber); err != nil {
			return err
		}
	}
	return nil
}

func requireObject(field string, raw json.RawMessage) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing %s object", field)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fmt.Errorf("%s is not an object", field)
	}
	return nil
}

func requireNonEmptyString(field string, index int, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("entry %d: %s must be a string", index, field)
	}
	if s == "" {
		return "", fmt.Errorf("entry %d: %s must not be empty", index, field)
	}
	return s, nil
}

func requirePositiveInt(field string, index int, v any) error {
	// encoding/json decodes every number into float64
	n, ok := v.(float64)
	if !ok {
		return fmt.Errorf("entry %d: %s must be an integer", index, field)
	}
	if n != float64(int64(n)) {
		return fmt.Errorf("entry %d: %s must be an integer", index, field)
	}
	if n < 1 {
		return fmt.Errorf("entry %d: %s must be >= 1", index, field)
	}
	return nil
}
