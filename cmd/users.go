package cmd

import (
	"fmt"
	"time"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/service"
	"github.com/spf13/cobra"
)

var activeUserDays int

var activeUsersCmd = &cobra.Command{
	Use:   "active-users",
	Short: "Report enabled users who logged in recently",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		access := client.NewAccessClient(cfg.ArtifactoryURL, credentials(cfg))
		report, err := service.NewUserActivityReport(access).Run(activeUserDays)
		if err != nil {
			return err
		}
		fmt.Printf("Users: %d total, %d enabled, %d active in the last %d days\n",
			report.TotalUsers, report.EnabledUsers, len(report.ActiveUsers), activeUserDays)
		for _, u := range report.ActiveUsers {
			fmt.Printf("%s\t%s\n", u.Username, u.LastLoggedIn.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	activeUsersCmd.Flags().IntVar(&activeUserDays, "days", 30, "Activity window in days")
	RootCmd.AddCommand(activeUsersCmd)
}
