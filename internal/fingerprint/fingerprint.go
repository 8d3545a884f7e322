// Package fingerprint decides whether a file's content changed since it was
// last indexed. Content digests are the only incrementality signal; mtimes
// and inodes are unreliable across checkouts and copies.
package fingerprint

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Sum returns the hex-encoded BLAKE2b-256 digest of content.
func Sum(content []byte) string {
	digest := blake2b.Sum256(content)
	return hex.EncodeToString(digest[:])
}

// Recorder reports the fingerprint recorded for a path at its last
// successful indexing, if any.
type Recorder interface {
	Fingerprint(path string) (string, bool)
}

// Tracker compares current file content against recorded fingerprints.
type Tracker struct {
	prior Recorder
}

// NewTracker creates a tracker over previously recorded fingerprints.
func NewTracker(prior Recorder) *Tracker {
	return &Tracker{prior: prior}
}

// ShouldReindex returns the content fingerprint and whether the file needs
// re-extraction: true when no prior record exists or the digest differs.
func (t *Tracker) ShouldReindex(path string, content []byte) (string, bool) {
	sum := Sum(content)
	prev, ok := t.prior.Fingerprint(path)
	if !ok {
		return sum, true
	}
	return sum, prev != sum
}
