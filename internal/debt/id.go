package debt

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// suffixChars is how much of the ULID entropy tail goes into an id.
const suffixChars = 8

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)

	idPattern = regexp.MustCompile(`^debt-\d+-[0-9a-z]{8}$`)
)

// NewID generates an entry id of the form debt-<unix-millis>-<suffix>.
// The suffix is the tail of a monotonic ULID, so ids minted within the same
// millisecond still differ. Callers that hold the full entry set should
// additionally retry on collision via a uniqueness check.
func NewID(now time.Time) (string, error) {
	entropyMu.Lock()
	u, err := ulid.New(ulid.Timestamp(now), entropy)
	entropyMu.Unlock()
	if err != nil {
		return "", err
	}
	s := u.String()
	suffix := strings.ToLower(s[len(s)-suffixChars:])
	return fmt.Sprintf("debt-%d-%s", now.UnixMilli(), suffix), nil
}

// ValidID reports whether id matches the debt id format.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}
