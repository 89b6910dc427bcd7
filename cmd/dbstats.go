package cmd

import (
	"fmt"
	"os"

	"github.com/artiops/artifactory-automation/internal/dbreport"
	"github.com/spf13/cobra"
)

var maliciousOutput string

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Count Access entities in the Artifactory database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		db, err := dbreport.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		counts, err := db.AccessEntityCounts(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Users: %d\nGroups: %d\nPermissions: %d\nTotal: %d\n",
			counts.Users, counts.Groups, counts.Permissions, counts.Total())
		return nil
	},
}

var maliciousReportCmd = &cobra.Command{
	Use:   "malicious-report",
	Short: "Export malicious components flagged in the Xray database as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		db, err := dbreport.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		out := os.Stdout
		if maliciousOutput != "" {
			f, err := os.Create(maliciousOutput)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		rows, err := db.WriteMaliciousComponentsCSV(ctx, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d rows\n", rows)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dbStatsCmd)
	maliciousReportCmd.Flags().StringVar(&maliciousOutput, "output", "", "Write the CSV to this file instead of stdout")
	RootCmd.AddCommand(maliciousReportCmd)
}
