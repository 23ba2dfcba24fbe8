package ops

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/debtmap/internal/debt"
	"github.com/hpungsan/debtmap/internal/errors"
	"github.com/hpungsan/debtmap/internal/storage"
)

// Report output formats.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// ReportInput contains parameters for the Report operation.
type ReportInput struct {
	// Path is the output file; default:
	// <storage dir>/reports/debt-report-<timestamp>.<ext>
	Path string

	// Format is "markdown" (default) or "html".
	Format string

	// Status optionally restricts the report to one status.
	Status string
}

// ReportOutput contains the result of the Report operation.
type ReportOutput struct {
	Path        string    `json:"path"`
	Count       int       `json:"count"`
	Format      string    `json:"format"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Report renders the document into a grouped report file. HTML output runs
// the markdown through goldmark and wraps it in a standalone page.
func Report(eng *storage.Engine, input ReportInput) (*ReportOutput, error) {
	format := input.Format
	if format == "" {
		format = FormatMarkdown
	}
	if format != FormatMarkdown && format != FormatHTML {
		return nil, errors.NewInvalidRequest("format must be one of: markdown, html")
	}
	if input.Status != "" && !debt.Status(input.Status).Valid() {
		return nil, errors.NewValidation("status", "must be one of: open, in-progress, review, resolved, closed")
	}

	doc, err := eng.Read()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	markdown, count := renderMarkdown(doc, input.Status, now)

	var data []byte
	switch format {
	case FormatMarkdown:
		data = []byte(markdown)
	case FormatHTML:
		var body bytes.Buffer
		if err := goldmark.Convert([]byte(markdown), &body); err != nil {
			return nil, errors.NewInternal(err)
		}
		data = wrapHTML(doc.Metadata.ProjectName, body.Bytes())
	}

	path := input.Path
	if path == "" {
		path = defaultReportPath(eng.Path(), format, now)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.NewIO(err)
	}

	// Temp file + rename so a failed write never clobbers a previous report.
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(err)
	}
	tmp := path + "." + hex.EncodeToString(randBytes) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return nil, errors.NewIO(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return nil, errors.NewIO(err)
	}

	return &ReportOutput{Path: path, Count: count, Format: format, GeneratedAt: now}, nil
}

// renderMarkdown builds the report body: a header, then one section per
// status in lifecycle order, entries in document order.
func renderMarkdown(doc *storage.Document, statusFilter string, now time.Time) (string, int) {
	var b strings.Builder
	project := doc.Metadata.ProjectName
	if project == "" {
		project = "project"
	}

	fmt.Fprintf(&b, "# Technical Debt Report: %s\n\n", project)
	fmt.Fprintf(&b, "Generated %s. %d tracked entries.\n", now.Format("2006-01-02 15:04 UTC"), len(doc.Entries))

	count := 0
	for _, status := range debt.Statuses() {
		if statusFilter != "" && string(status) != statusFilter {
			continue
		}

		var entries []debt.Entry
		for _, e := range doc.Entries {
			if e.Status == status {
				entries = append(entries, e)
			}
		}
		if len(entries) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n## %s (%d)\n\n", statusHeading(status), len(entries))
		for _, e := range entries {
			count++
			fmt.Fprintf(&b, "- **%s** `%s:%d`\n", e.Title, e.FilePath, e.LineNumber)
			fmt.Fprintf(&b, "  - severity: %s, category: %s, priority: %s\n", e.Severity, e.Category, e.Priority)
			if e.Description != e.Title {
				fmt.Fprintf(&b, "  - %s\n", e.Description)
			}
			if e.Assignee != nil {
				fmt.Fprintf(&b, "  - assignee: %s\n", *e.Assignee)
			}
			if e.DueDate != nil {
				fmt.Fprintf(&b, "  - due: %s\n", e.DueDate.Format("2006-01-02"))
			}
			if len(e.Tags) > 0 {
				fmt.Fprintf(&b, "  - tags: %s\n", strings.Join(e.Tags, ", "))
			}
		}
	}

	return b.String(), count
}

// statusHeading renders a status token as a section heading ("in-progress"
// becomes "In Progress").
func statusHeading(s debt.Status) string {
	words := strings.Split(string(s), "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func wrapHTML(project string, body []byte) []byte {
	var b bytes.Buffer
	if project == "" {
		project = "project"
	}
	fmt.Fprintf(&b, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Technical Debt Report: %s</title>
<style>body{font-family:sans-serif;max-width:60rem;margin:2rem auto;padding:0 1rem;}code{background:#f4f4f4;padding:0 .2rem;}</style>
</head>
<body>
`, html.EscapeString(project))
	b.Write(body)
	b.WriteString("</body>\n</html>\n")
	return b.Bytes()
}

func defaultReportPath(storagePath, format string, now time.Time) string {
	ext := "md"
	if format == FormatHTML {
		ext = "html"
	}
	name := fmt.Sprintf("debt-report-%s.%s", now.Format("20060102-150405"), ext)
	return filepath.Join(filepath.Dir(storagePath), "reports", name)
}
