package ops

import (
	"github.com/hpungsan/debtmap/internal/debt"
	"github.com/hpungsan/debtmap/internal/storage"
)

// StatsOutput summarizes the document: totals plus counts keyed by enum token.
type StatsOutput struct {
	Total       int            `json:"total"`
	OpenCount   int            `json:"openCount"` // everything not resolved or closed
	ByStatus    map[string]int `json:"byStatus"`
	BySeverity  map[string]int `json:"bySeverity"`
	ByCategory  map[string]int `json:"byCategory"`
	ProjectName string         `json:"projectName"`
}

// Stats projects counts over the whole document in one read.
func Stats(eng *storage.Engine) (*StatsOutput, error) {
	doc, err := eng.Read()
	if err != nil {
		return nil, err
	}

	out := &StatsOutput{
		Total:       len(doc.Entries),
		ByStatus:    map[string]int{},
		BySeverity:  map[string]int{},
		ByCategory:  map[string]int{},
		ProjectName: doc.Metadata.ProjectName,
	}

	for _, e := range doc.Entries {
		out.ByStatus[string(e.Status)]++
		out.BySeverity[string(e.Severity)]++
		out.ByCategory[string(e.Category)]++
		switch e.Status {
		case debt.StatusResolved, debt.StatusClosed:
		default:
			out.OpenCount++
		}
	}
	return out, nil
}
