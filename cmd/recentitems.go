package cmd

import (
	"fmt"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/service"
	"github.com/spf13/cobra"
)

var (
	recentItemsRepo  string
	recentItemsDays  int
	recentItemsLimit int
)

var recentItemsCmd = &cobra.Command{
	Use:   "recent-items",
	Short: "List artifacts created within a recent window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		arti := client.NewArtifactoryClient(cfg.ArtifactoryURL, credentials(cfg))
		items, err := service.NewRecentItemsReport(arti).Run(recentItemsRepo, recentItemsDays, recentItemsLimit)
		if err != nil {
			return err
		}
		fmt.Printf("%d items created in the last %d days\n", len(items), recentItemsDays)
		for _, item := range items {
			fmt.Printf("%s\t%s\n", item.FullPath(), item.Created)
		}
		return nil
	},
}

func init() {
	recentItemsCmd.Flags().StringVar(&recentItemsRepo, "repo", "", "Restrict the report to one repository")
	recentItemsCmd.Flags().IntVar(&recentItemsDays, "days", 7, "Maximum age of items in days")
	recentItemsCmd.Flags().IntVar(&recentItemsLimit, "limit", 1000, "Maximum number of items to return")
	RootCmd.AddCommand(recentItemsCmd)
}
