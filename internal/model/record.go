// Package model defines the data structures for file integrity monitoring.
package model

import (
	"crypto/md5"  // #nosec G501 - weak algorithms are offered for baseline compatibility, not security-critical use
	"crypto/sha1" // #nosec G505
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"
	"time"
)

// Path represents a file system path.
type Path string

// Algorithm names a supported content digest algorithm. The set is closed:
// configuration strings are validated through ParseAlgorithm and the hash
// constructor is selected once per run, never re-dispatched per file.
type Algorithm string

// Supported digest algorithms.
const (
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
	SHA1   Algorithm = "sha1"
	MD5    Algorithm = "md5"
)

// ParseAlgorithm validates a configuration string against the supported set.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case SHA256:
		return SHA256, nil
	case SHA512:
		return SHA512, nil
	case SHA1:
		return SHA1, nil
	case MD5:
		return MD5, nil
	}

	return "", fmt.Errorf("unsupported hash algorithm %q", name)
}

// NewHash returns a fresh hash.Hash for the algorithm. Callers select the
// constructor once at configuration time and reuse it for every file.
func (a Algorithm) NewHash() hash.Hash {
	switch a {
	case SHA512:
		return sha512.New()
	case SHA1:
		return sha1.New() // #nosec G401
	case MD5:
		return md5.New() // #nosec G401
	default:
		return sha256.New()
	}
}

// FileRecord is the fingerprint of one file: content digest plus the
// metadata observed in the same stat call. Immutable once created.
type FileRecord struct {
	Path      Path      `json:"path"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"mod_time"`
	Mode      uint32    `json:"permissions"`
	Digest    string    `json:"digest"`
	Algorithm Algorithm `json:"algorithm"`
}

// SameContent reports whether two records carry the same content digest.
func (r FileRecord) SameContent(other FileRecord) bool {
	return r.Digest == other.Digest
}
