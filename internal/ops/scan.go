package ops

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/hpungsan/debtmap/internal/config"
	"github.com/hpungsan/debtmap/internal/debt"
	"github.com/hpungsan/debtmap/internal/errors"
	"github.com/hpungsan/debtmap/internal/scanner"
	"github.com/hpungsan/debtmap/internal/storage"
)

// ScanInput contains parameters for the Scan operation. Marker and glob
// overrides fall back to configuration when nil.
type ScanInput struct {
	Root    string
	Markers []string
	Include []string
	Exclude []string

	// Apply creates entries for candidates not already tracked. Without it
	// the scan is a dry run.
	Apply bool
}

// ScanOutput contains the result of the Scan operation.
type ScanOutput struct {
	Candidates   []scanner.Candidate `json:"candidates"`
	FilesScanned int                 `json:"filesScanned"`
	FilesSkipped int                 `json:"filesSkipped"`
	Cancelled    bool                `json:"cancelled"`

	// Created and AlreadyTracked are populated only when Apply is set.
	Created        []debt.Entry `json:"created,omitempty"`
	AlreadyTracked int          `json:"alreadyTracked,omitempty"`
}

// Scan runs the workspace scan under the configured vocabulary and glob
// sets. Cancellation is cooperative at file granularity: candidates gathered
// before ctx was cancelled are still returned; Apply is skipped entirely on
// a cancelled scan so entries are never applied partially.
func Scan(ctx context.Context, eng *storage.Engine, cfg *config.Config, input ScanInput) (*ScanOutput, error) {
	if input.Root == "" {
		return nil, errors.NewInvalidRequest("scan root is required")
	}

	markers := input.Markers
	if markers == nil {
		markers = cfg.DebtMarkers
	}
	include := input.Include
	if include == nil {
		include = cfg.ScanPatterns
	}
	exclude := input.Exclude
	if exclude == nil {
		exclude = cfg.ExcludePatterns
	}

	sc := scanner.New(markers)
	result, err := sc.ScanWorkspace(ctx, input.Root, include, exclude)
	if err != nil {
		return nil, errors.NewIO(err)
	}

	out := &ScanOutput{
		Candidates:   result.Candidates,
		FilesScanned: result.FilesScanned,
		FilesSkipped: result.FilesSkipped,
		Cancelled:    result.Cancelled,
	}

	if !input.Apply || result.Cancelled || len(result.Candidates) == 0 {
		return out, nil
	}

	created, tracked, err := applyCandidates(eng, result.Candidates)
	if err != nil {
		return nil, err
	}
	out.Created = created
	out.AlreadyTracked = tracked
	return out, nil
}

// applyCandidates appends entries for untracked candidates in one
// read-modify-write cycle. A candidate is already tracked when a non-closed
// entry sits at the same filePath and lineNumber.
func applyCandidates(eng *storage.Engine, candidates []scanner.Candidate) ([]debt.Entry, int, error) {
	doc, err := eng.Read()
	if err != nil {
		return nil, 0, err
	}

	tracked := make(map[string]bool, len(doc.Entries))
	for _, e := range doc.Entries {
		if e.Status != debt.StatusClosed {
			tracked[locationKey(e.FilePath, e.LineNumber)] = true
		}
	}

	now := time.Now().UTC()
	var created []debt.Entry
	already := 0
	for _, c := range candidates {
		key := locationKey(c.FilePath, c.LineNumber)
		if tracked[key] {
			already++
			continue
		}
		tracked[key] = true

		id, err := newUniqueID(doc, now)
		if err != nil {
			return nil, 0, err
		}
		entry := debt.Entry{
			ID:          id,
			Title:       c.Title,
			Description: truncateRunes(c.Description, debt.MaxDescriptionChars),
			FilePath:    c.FilePath,
			LineNumber:  c.LineNumber,
			Severity:    debt.SeverityLow,
			Category:    debt.CategoryCodeQuality,
			Status:      debt.StatusOpen,
			Priority:    debt.PriorityNormal,
			CreatedAt:   now,
			UpdatedAt:   now,
			Tags:        append([]string(nil), c.Tags...),
		}
		doc.Entries = append(doc.Entries, entry)
		created = append(created, entry)
	}

	if len(created) > 0 {
		if err := eng.Write(doc); err != nil {
			return nil, 0, err
		}
	}
	return created, already, nil
}

func locationKey(path string, line int) string {
	return fmt.Sprintf("%s:%d", path, line)
}

func truncateRunes(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	return string([]rune(s)[:maxRunes])
}
