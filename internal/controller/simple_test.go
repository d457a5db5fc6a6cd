package controller

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	m "vigil.dev/pkg/vigil/internal/model"
)

func captureUI() (*SimpleUI, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	return NewSimpleUI(cmd), buf
}

func TestSimpleUI_ShowReportListsChanges(t *testing.T) {
	ui, buf := captureUI()

	report := m.Report{Records: []m.ChangeRecord{
		{Path: "/w/a", Kind: m.Modified},
		{Path: "/w/b", Kind: m.Removed},
		{Path: "/w/c", Kind: m.Added},
		{Path: "/w/d", Kind: m.Unchanged},
		{Path: "/w/e", Kind: m.Unreadable, Reason: "permission denied"},
	}}

	ui.ShowReport(report, false)

	out := buf.String()
	assert.Contains(t, out, "/w/a")
	assert.Contains(t, out, "/w/b")
	assert.Contains(t, out, "/w/c")
	assert.NotContains(t, out, "/w/d")
	assert.Contains(t, out, "permission denied")
	assert.Contains(t, out, "Total")
}

func TestSimpleUI_ShowReportVerboseIncludesUnchanged(t *testing.T) {
	ui, buf := captureUI()

	report := m.Report{Records: []m.ChangeRecord{
		{Path: "/w/d", Kind: m.Unchanged},
	}}

	ui.ShowReport(report, true)

	assert.Contains(t, buf.String(), "/w/d")
}

func TestSimpleUI_ShowReportSurfacesMetadataDrift(t *testing.T) {
	ui, buf := captureUI()

	report := m.Report{Records: []m.ChangeRecord{
		{Path: "/w/a", Kind: m.Unchanged, Drift: []string{m.DriftPermissions}},
	}}

	ui.ShowReport(report, false)

	out := buf.String()
	assert.Contains(t, out, "/w/a")
	assert.Contains(t, out, "metadata drift: permissions")
}

func TestSimpleUI_ShowStatus(t *testing.T) {
	ui, buf := captureUI()

	ui.ShowStatus(m.BaselineInfo{
		Location:  "/var/lib/vigil/baseline.json",
		Exists:    true,
		FileCount: 12,
		Algorithm: m.SHA256,
		CreatedAt: time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
	})

	out := buf.String()
	assert.Contains(t, out, "/var/lib/vigil/baseline.json")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "sha256")
	assert.Contains(t, out, "2026-02-03")
}

func TestSimpleUI_ShowStatusWithoutBaseline(t *testing.T) {
	ui, buf := captureUI()

	ui.ShowStatus(m.BaselineInfo{Location: "/tmp/baseline.json"})

	assert.Contains(t, buf.String(), "No baseline established")
}

func TestSimpleUI_ShowBaselineCreated(t *testing.T) {
	ui, buf := captureUI()

	snap := m.NewSnapshot(m.SHA256)
	snap.Files["/w/a"] = m.FileRecord{Path: "/w/a"}
	snap.Failures = []m.ScanFailure{{Path: "/w/locked", Reason: "permission denied"}}

	ui.ShowBaselineCreated(snap, "/tmp/baseline.json")

	out := buf.String()
	assert.Contains(t, out, "Baseline created at /tmp/baseline.json")
	assert.Contains(t, out, "1 file(s) recorded with sha256")
	assert.Contains(t, out, "/w/locked")
}
