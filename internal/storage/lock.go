package storage

import (
	"fmt"
	"os"
	"time"

	"github.com/hpungsan/debtmap/internal/errors"
)

// DefaultStaleAfter is how old a lock marker may grow before it is treated
// as abandoned by a crashed instance.
const DefaultStaleAfter = 30 * time.Second

// FileLock is an advisory cross-process lock: a sidecar marker file whose
// presence signals exclusive ownership of the document. A marker older than
// staleAfter is assumed to belong to a crashed instance and is removed.
// Not reentrant: a holder must not call Acquire again before Release.
type FileLock struct {
	path       string
	staleAfter time.Duration
	held       bool
}

// NewFileLock creates a lock around the given marker path. A non-positive
// staleAfter falls back to DefaultStaleAfter.
func NewFileLock(path string, staleAfter time.Duration) *FileLock {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &FileLock{path: path, staleAfter: staleAfter}
}

// Path returns the marker location.
func (l *FileLock) Path() string { return l.path }

// Acquire takes the lock, failing with LOCK_CONTENTION if another live
// instance holds it. Stale markers are removed and acquisition retried once.
func (l *FileLock) Acquire() error {
	if l.held {
		return errors.NewInternal(fmt.Errorf("lock %s already held by this instance", l.path))
	}

	for attempt := 0; attempt < 2; attempt++ {
		if err := l.tryCreate(); err == nil {
			l.held = true
			return nil
		} else if !os.IsExist(err) {
			return errors.NewIO(err)
		}

		info, err := os.Stat(l.path)
		if err != nil {
			if os.IsNotExist(err) {
				// Marker vanished between create and stat; retry.
				continue
			}
			return errors.NewIO(err)
		}

		age := time.Since(info.ModTime())
		if age < l.staleAfter {
			return errors.NewLockContention(l.path, age.Seconds())
		}

		// Stale marker: the owner is presumed dead. Remove and retry.
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return errors.NewIO(err)
		}
	}

	return errors.NewLockContention(l.path, 0)
}

// Release removes the marker. Best-effort: failures are swallowed so a
// partially failed operation never strands the lock beyond the staleness
// threshold.
func (l *FileLock) Release() {
	l.held = false
	_ = os.Remove(l.path)
}

// tryCreate atomically creates the marker with diagnostic owner info.
func (l *FileLock) tryCreate() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	host, _ := os.Hostname()
	fmt.Fprintf(f, "pid=%d host=%s acquired=%s\n", os.Getpid(), host, time.Now().UTC().Format(time.RFC3339))
	return f.Close()
}
