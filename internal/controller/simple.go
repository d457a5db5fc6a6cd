package controller

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	m "vigil.dev/pkg/vigil/internal/model"
)

var (
	addedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	modifiedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	unreadableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	unchangedStyle  = lipgloss.NewStyle().Faint(true)
)

// SimpleUI renders results through the cobra command's printer so tests can
// capture the output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// ShowBaselineCreated prints a short summary after init.
func (s *SimpleUI) ShowBaselineCreated(snapshot m.Snapshot, location string) {
	s.cmd.Printf("Baseline created at %s\n", location)
	s.cmd.Printf("  %d file(s) recorded with %s\n", snapshot.Len(), snapshot.Algorithm)

	for _, failure := range snapshot.Failures {
		s.cmd.Printf("  %s %s: %s\n", unreadableStyle.Render("unreadable"), failure.Path, failure.Reason)
	}
}

// ShowReport renders the change report: changed records first, then a
// per-kind summary table. Unchanged records only appear in verbose mode.
func (s *SimpleUI) ShowReport(report m.Report, verbose bool) {
	for _, record := range report.Records {
		if record.Kind == m.Unchanged && !verbose && len(record.Drift) == 0 {
			continue
		}

		s.cmd.Printf("%-12s %s%s\n", styleKind(record.Kind), record.Path, recordDetail(record))
	}

	s.cmd.Printf("\n%s", renderSummaryTable(report))
}

// ShowStatus renders the baseline status table.
func (s *SimpleUI) ShowStatus(info m.BaselineInfo) {
	if !info.Exists {
		s.cmd.Printf("No baseline established at %s. Run 'vigil init' first.\n", info.Location)

		return
	}

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Field", "Value"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	table.Append([]string{"Baseline", info.Location})
	table.Append([]string{"Files", fmt.Sprintf("%d", info.FileCount)})
	table.Append([]string{"Unreadable at init", fmt.Sprintf("%d", info.Failures)})
	table.Append([]string{"Algorithm", string(info.Algorithm)})
	table.Append([]string{"Created", info.CreatedAt.Format("2006-01-02 15:04:05 MST")})
	table.Render()

	s.cmd.Printf("%s", buf.String())
}

func styleKind(kind m.ChangeKind) string {
	switch kind {
	case m.Added:
		return addedStyle.Render(string(kind))
	case m.Removed:
		return removedStyle.Render(string(kind))
	case m.Modified:
		return modifiedStyle.Render(string(kind))
	case m.Unreadable:
		return unreadableStyle.Render(string(kind))
	default:
		return unchangedStyle.Render(string(kind))
	}
}

func recordDetail(record m.ChangeRecord) string {
	switch {
	case record.Kind == m.Unreadable:
		return fmt.Sprintf(" (%s)", record.Reason)
	case len(record.Drift) > 0:
		return fmt.Sprintf(" (metadata drift: %s)", strings.Join(record.Drift, ", "))
	default:
		return ""
	}
}

func renderSummaryTable(report m.Report) string {
	counts := report.CountByKind()

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Kind", "Count"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, kind := range []m.ChangeKind{m.Added, m.Removed, m.Modified, m.Unreadable, m.Unchanged} {
		table.Append([]string{string(kind), fmt.Sprintf("%d", counts[kind])})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", len(report.Records))})
	table.Render()

	return buf.String()
}
