package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"vigil.dev/pkg/vigil/internal/controller"
	"vigil.dev/pkg/vigil/internal/domain"
)

var checkUpdateFlag bool

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check file integrity against the baseline",
		Long: `Re-scan the configured file set and compare it against the stored
baseline. The baseline is read-only unless --update is given. The report
always covers every tracked path, including files that could not be read.

Exits 0 when every file is unchanged, 1 when any file is added, removed,
modified or unreadable, 2 on configuration or store failure.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadRunConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			monitor := newMonitor()

			report, err := monitor.Check(ctx, scanArgs(cfg), checkUpdateFlag)
			if err != nil {
				return err
			}

			ui := controller.NewSimpleUI(cmd)
			ui.ShowReport(report, verboseFlag || cfg.VerboseConsole)

			if report.HasChanges() {
				return domain.ErrChangesDetected
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&checkUpdateFlag, "update", false, "accept the fresh snapshot as the new baseline after the check")

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
