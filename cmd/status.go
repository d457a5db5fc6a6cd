package cmd

import (
	"github.com/spf13/cobra"
	"vigil.dev/pkg/vigil/internal/controller"
)

// statusCmd represents the status command.
var statusCmd = newStatusCmd()

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show baseline status",
		Long:  "Report whether a baseline exists, how many files it tracks, and when it was created.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			monitor := newMonitor()

			info, err := monitor.Status()
			if err != nil {
				return err
			}

			ui := controller.NewSimpleUI(cmd)
			ui.ShowStatus(info)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
