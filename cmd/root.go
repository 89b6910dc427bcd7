// Package cmd wires the command-line interface for the automation toolkit.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/config"
	"github.com/artiops/artifactory-automation/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagDryRun   bool
	flagWorkers  int
	flagLogLevel string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "artifactory-automation",
	Short: "Admin automation for Artifactory and Xray",
	Long: `artifactory-automation bundles the recurring administrative chores of an
Artifactory installation: build and artifact cleanup, curation policy
reconciliation, repository conversion and provisioning, load generation,
token management, and reporting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return utils.Init(flagLogLevel)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	defer utils.Sync()
	if err := RootCmd.Execute(); err != nil {
		if utils.Logger != nil {
			utils.Logger.Error("command failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Log mutations instead of performing them")
	RootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "Worker pool size (overrides NUM_WORKERS)")
	RootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

// loadConfig loads the application configuration and applies CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagDryRun {
		cfg.DryRun = true
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	return cfg, nil
}

func credentials(cfg *config.Config) client.Credentials {
	return client.Credentials{
		Token:    cfg.Token,
		Username: cfg.Username,
		APIKey:   cfg.APIKey,
	}
}

// signalContext returns a context cancelled by SIGINT or SIGTERM. Workers
// finish their in-flight item and drain when it fires.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
