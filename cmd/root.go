package cmd

import (
	"fmt"
	"os"

	"scan-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "scan-sync",
	Short: "Inventory Reconciliation Service",
	Long: `Scan-Sync reconciles physical inventory against spreadsheet catalogs.
A host uploads a catalog to open a shared session, scanners submit codes from
any device, and the service reports what matched, what is missing and what
showed up unexpectedly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format so the failure reads well on a terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			// Log the error with structured logger (Console encoding will make it pretty)
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
