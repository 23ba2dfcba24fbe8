// Package scanner extracts candidate debt records from raw source text.
// It holds no persistent state; turning candidates into tracked entries is
// the lifecycle layer's job.
package scanner

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hpungsan/debtmap/internal/debt"
)

// DefaultMarkers is the marker vocabulary used when configuration supplies none.
var DefaultMarkers = []string{"TODO", "FIXME", "HACK", "BUG", "NOTE"}

// Candidate is one marker match: the raw extraction plus the suggested
// title for the entry it would become.
type Candidate struct {
	// Marker is the matched keyword, normalized to upper case
	Marker string `json:"marker"`

	// Description is the trimmed text after the delimiter
	Description string `json:"description"`

	// Title is "<MARKER>: <description>" truncated to the entry title limit
	Title string `json:"title"`

	// FilePath is the path the candidate was found in, as given to the scan
	FilePath string `json:"filePath"`

	// LineNumber is 1-based
	LineNumber int `json:"lineNumber"`

	// Tags seeds the entry's tag set with the marker
	Tags []string `json:"tags"`
}

// Scanner matches lines against a marker vocabulary. Safe for reuse across
// files; a scan is restartable because results are plain slices.
type Scanner struct {
	markers []string
	re      *regexp.Regexp
}

// New builds a scanner for the given vocabulary. Empty or blank markers are
// dropped; an empty vocabulary falls back to DefaultMarkers. A line matches
// when it contains a marker as a whole word, immediately followed by ":" or
// "-" and non-empty trailing text. Matching is case-insensitive.
func New(markers []string) *Scanner {
	cleaned := make([]string, 0, len(markers))
	for _, m := range markers {
		m = strings.TrimSpace(m)
		if m != "" {
			cleaned = append(cleaned, m)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, DefaultMarkers...)
	}

	quoted := make([]string, len(cleaned))
	for i, m := range cleaned {
		quoted[i] = regexp.QuoteMeta(m)
	}
	re := regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)[:-](.*)$`)

	return &Scanner{markers: cleaned, re: re}
}

// Markers returns the effective vocabulary.
func (s *Scanner) Markers() []string {
	return append([]string(nil), s.markers...)
}

// MatchLine extracts at most one candidate from a single line. The second
// return value reports whether the line matched. filePath and lineNumber are
// carried into the candidate verbatim.
func (s *Scanner) MatchLine(filePath string, lineNumber int, line string) (Candidate, bool) {
	m := s.re.FindStringSubmatch(line)
	if m == nil {
		return Candidate{}, false
	}
	desc := strings.TrimSpace(m[2])
	if desc == "" {
		return Candidate{}, false
	}
	marker := strings.ToUpper(m[1])
	return Candidate{
		Marker:      marker,
		Description: desc,
		Title:       truncate(fmt.Sprintf("%s: %s", marker, desc), debt.MaxTitleChars),
		FilePath:    filePath,
		LineNumber:  lineNumber,
		Tags:        []string{marker},
	}, true
}

// ScanText scans line-oriented text, producing at most one candidate per
// line with 1-based line numbers. A line over maxLineBytes aborts the scan
// with an error; partial candidates are not returned.
func (s *Scanner) ScanText(filePath, text string) ([]Candidate, error) {
	return s.scanReader(filePath, strings.NewReader(text))
}

func (s *Scanner) scanReader(filePath string, r *strings.Reader) ([]Candidate, error) {
	var out []Candidate
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		if c, ok := s.MatchLine(filePath, line, sc.Text()); ok {
			out = append(out, c)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", filePath, err)
	}
	return out, nil
}

// maxLineBytes bounds a single source line; a longer line fails the file
// scan, and ScanFile then skips the file like a binary.
const maxLineBytes = 1 << 20

// looksBinary reports whether content is likely not line-oriented text.
// A NUL byte in the leading probe window is the deciding signal, as in git.
func looksBinary(data []byte) bool {
	probe := data
	if len(probe) > 8192 {
		probe = probe[:8192]
	}
	return bytes.IndexByte(probe, 0) >= 0
}

func truncate(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes])
}
