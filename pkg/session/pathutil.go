// Package session is the external message writer: it appends emitted
// protocol objects to per-session JSONL files under an advisory file lock.
// The on-disk layout is append-only lines; nothing here interprets them.
package session

import (
	"os"
	"path/filepath"
	"regexp"
)

// sessionIDPattern accepts UUID-style ids and simple slugs; anything with
// path separators or dots is rejected before it can touch the filesystem.
var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

// ValidateSessionID rejects ids that cannot safely become file names.
func ValidateSessionID(id string) error {
	if !sessionIDPattern.MatchString(id) {
		return ErrInvalidSessionID
	}
	return nil
}

// DefaultBaseDir returns the default session storage root: ~/.loom/sessions
func DefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".loom", "sessions")
	}
	return filepath.Join(home, ".loom", "sessions")
}

// SessionFile returns the JSONL path for a session id under baseDir.
func SessionFile(baseDir, sessionID string) string {
	return filepath.Join(baseDir, sessionID+".jsonl")
}
