// Package controller provides output adapters for rendering integrity
// results.
package controller

import (
	m "vigil.dev/pkg/vigil/internal/model"
)

// UI defines the interface for rendering scan and check results.
// Implementations can use different output methods (plain text, tables,
// machine-readable formats).
type UI interface {
	ShowBaselineCreated(snapshot m.Snapshot, location string)
	ShowReport(report m.Report, verbose bool)
	ShowStatus(info m.BaselineInfo)
}
