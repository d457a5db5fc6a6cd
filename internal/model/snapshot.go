package model

import "time"

// ScanFailure marks a resolved path that could not be fingerprinted.
// Failures travel with the snapshot so the diff layer can distinguish
// "intentionally excluded" from "read failed".
type ScanFailure struct {
	Path   Path   `json:"path"`
	Reason string `json:"reason"`
}

// Snapshot is the complete observed state of the monitored file set from
// one scan pass. A persisted snapshot accepted as ground truth is the
// baseline.
type Snapshot struct {
	TakenAt   time.Time           `json:"taken_at"`
	Algorithm Algorithm           `json:"algorithm"`
	Files     map[Path]FileRecord `json:"files"`
	Failures  []ScanFailure       `json:"failures,omitempty"`
}

// NewSnapshot returns an empty snapshot stamped with the scan time.
func NewSnapshot(algorithm Algorithm) Snapshot {
	return Snapshot{
		TakenAt:   time.Now().UTC(),
		Algorithm: algorithm,
		Files:     map[Path]FileRecord{},
	}
}

// Len returns the number of fingerprinted files.
func (s Snapshot) Len() int {
	return len(s.Files)
}

// BaselineInfo summarizes a stored baseline for the status command.
type BaselineInfo struct {
	Location  string
	Exists    bool
	FileCount int
	Failures  int
	Algorithm Algorithm
	CreatedAt time.Time
}
