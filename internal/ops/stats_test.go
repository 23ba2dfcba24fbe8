package ops

import (
	"testing"
)

func TestStats_EmptyDocument(t *testing.T) {
	eng := newTestEngine(t)

	output, err := Stats(eng)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if output.Total != 0 || output.OpenCount != 0 {
		t.Errorf("empty stats = %+v, want zeros", output)
	}
	if output.ProjectName != "testproject" {
		t.Errorf("ProjectName = %q, want testproject", output.ProjectName)
	}
}

func TestStats_Counts(t *testing.T) {
	eng := newTestEngine(t)
	ids := seedEntries(t, eng) // low/testing, high/security, high/performance

	// Resolve one, close another; only one entry remains open-ish.
	if _, err := Transition(eng, TransitionInput{ID: ids[0], Status: "resolved"}); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if _, err := Transition(eng, TransitionInput{ID: ids[1], Status: "closed"}); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}

	output, err := Stats(eng)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if output.Total != 3 {
		t.Errorf("Total = %d, want 3", output.Total)
	}
	if output.OpenCount != 1 {
		t.Errorf("OpenCount = %d, want 1 (resolved and closed excluded)", output.OpenCount)
	}
	if output.ByStatus["resolved"] != 1 || output.ByStatus["closed"] != 1 || output.ByStatus["open"] != 1 {
		t.Errorf("ByStatus = %v, want one of each", output.ByStatus)
	}
	if output.BySeverity["high"] != 2 || output.BySeverity["low"] != 1 {
		t.Errorf("BySeverity = %v, want high:2 low:1", output.BySeverity)
	}
	if output.ByCategory["security"] != 1 || output.ByCategory["testing"] != 1 || output.ByCategory["performance"] != 1 {
		t.Errorf("ByCategory = %v, want one of each", output.ByCategory)
	}
}
