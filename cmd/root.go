// Package cmd provides the root command and CLI setup for vigil.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"vigil.dev/pkg/vigil/internal/adapter"
	"vigil.dev/pkg/vigil/internal/domain"
	m "vigil.dev/pkg/vigil/internal/model"
)

// configFlag points at the monitor rules file (include/exclude/algorithm).
var configFlag string

// databaseFlag points at the baseline store file.
var databaseFlag string

// verboseFlag echoes per-file detail and unchanged records.
var verboseFlag bool

// scanParallelFlag sizes the fingerprint worker pool.
var scanParallelFlag int

const rootLongDescription = `Vigil establishes a cryptographic baseline of a configured file set and
re-scans that set to classify each tracked path as unchanged, modified,
added, removed or unreadable.

Monitoring rules live in a YAML file (default vigil.yaml):

  include:
    - /etc
    - /usr/local/bin
  exclude:
    - /etc/mtab
  hash_algorithm: sha256

Exit codes: 0 all files unchanged, 1 changes or unreadable files detected,
2 configuration, store or scan failure.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	initViperConfig()

	cmd := &cobra.Command{
		Use:           "vigil",
		Short:         "File integrity monitor",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(
		&configFlag, configFlagName, "c",
		viper.GetString(configFlagName),
		"path to the monitoring rules YAML file",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(configFlagName), configFlagName)

	cmd.PersistentFlags().StringVarP(
		&databaseFlag, databaseFlagName, "d",
		viper.GetString(databaseFlagName),
		"path to the baseline database file",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(databaseFlagName), databaseFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "verbose console output")

	cmd.PersistentFlags().IntVarP(
		&scanParallelFlag, scanParallelFlagName, "p",
		viper.GetInt(scanParallelKey),
		"number of parallel fingerprint workers",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(scanParallelFlagName), scanParallelKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values
// feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute runs the root command and maps the outcome to the documented
// exit codes. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, domain.ErrChangesDetected) {
			os.Exit(1)
		}

		os.Exit(2)
	}
}

// newMonitor wires a Monitor against the baseline store named by the
// resolved database path.
func newMonitor() *domain.Monitor {
	store := adapter.NewFileBaselineStore(viper.GetString(databaseFlagName))

	return domain.NewMonitor(adapter.NewLocalScanFS(), store)
}

// storeLocation returns the resolved baseline database path.
func storeLocation() string {
	return viper.GetString(databaseFlagName)
}

// loadRunConfig reads the monitoring rules and applies their log settings.
func loadRunConfig() (m.Config, error) {
	cfg, err := adapter.LoadConfig(viper.GetString(configFlagName))
	if err != nil {
		return m.Config{}, err
	}

	setLogLevel(cfg.LogLevel, verboseFlag)

	return cfg, nil
}

func scanArgs(cfg m.Config) domain.ScanArgs {
	return domain.ScanArgs{
		Config:  cfg,
		Workers: viper.GetInt(scanParallelKey),
	}
}
