package cmd

import (
	"fmt"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/service"
	"github.com/spf13/cobra"
)

var (
	cleanupYears   int
	cleanupRepos   []string
	cleanupPattern string
	cleanupMoveTo  string
)

var buildCleanupCmd = &cobra.Command{
	Use:   "build-cleanup",
	Short: "Delete build-info records older than a retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		arti := client.NewArtifactoryClient(cfg.ArtifactoryURL, credentials(cfg))
		m := service.NewBuildCleanupManager(arti, cfg.Workers, cfg.DryRun)
		summary, err := m.Run(ctx, cleanupYears)
		if err != nil {
			return err
		}
		fmt.Printf("Builds: %d, processed: %d, failed: %d\n",
			summary.Total, summary.Processed, summary.Failed)
		return nil
	},
}

var artifactCleanupCmd = &cobra.Command{
	Use:   "artifact-cleanup",
	Short: "Delete or relocate artifacts matching a pattern",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cleanupRepos) == 0 {
			return fmt.Errorf("at least one --repo is required")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		arti := client.NewArtifactoryClient(cfg.ArtifactoryURL, credentials(cfg))
		m := service.NewArtifactCleanupManager(arti, cfg.Workers, cfg.DryRun)
		summary, err := m.Run(ctx, service.ArtifactCleanupOptions{
			Repositories: cleanupRepos,
			Pattern:      cleanupPattern,
			MoveTo:       cleanupMoveTo,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Artifacts: %d, processed: %d, failed: %d\n",
			summary.Total, summary.Processed, summary.Failed)
		return nil
	},
}

func init() {
	buildCleanupCmd.Flags().IntVar(&cleanupYears, "years", 3, "Delete builds created more than this many years ago")
	RootCmd.AddCommand(buildCleanupCmd)

	artifactCleanupCmd.Flags().StringSliceVar(&cleanupRepos, "repo", nil, "Repository to clean (repeatable)")
	artifactCleanupCmd.Flags().StringVar(&cleanupPattern, "pattern", "", "AQL name pattern to match, e.g. '*.tmp'")
	artifactCleanupCmd.Flags().StringVar(&cleanupMoveTo, "move-to", "", "Move matches into this repository instead of deleting")
	RootCmd.AddCommand(artifactCleanupCmd)
}
