package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"vigil.dev/pkg/vigil/internal/controller"
)

var initForceFlag bool

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Establish the integrity baseline",
		Long: `Scan the configured file set, fingerprint every file and persist the
snapshot as the new baseline. Fails if a baseline already exists unless
--force is given. An interrupted scan leaves any prior baseline intact.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadRunConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			monitor := newMonitor()

			snapshot, err := monitor.Baseline(ctx, scanArgs(cfg), initForceFlag)
			if err != nil {
				return err
			}

			ui := controller.NewSimpleUI(cmd)
			ui.ShowBaselineCreated(snapshot, storeLocation())

			return nil
		},
	}

	cmd.Flags().BoolVarP(&initForceFlag, "force", "f", false, "overwrite an existing baseline")

	return cmd
}

func init() {
	rootCmd.AddCommand(initCmd)
}
