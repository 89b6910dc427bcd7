package cmd

import (
	"fmt"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/service"
	"github.com/spf13/cobra"
)

var (
	permRepo       string
	permGroups     []string
	permPathPrefix string
)

var permSetupCmd = &cobra.Command{
	Use:   "perm-setup",
	Short: "Provision per-group permission targets on a repository",
	Long: `Ensures each named group exists and has a permission target scoping it to
its own coordinate path inside the repository. Existing groups and targets
are left untouched, so the command can be re-run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(permGroups) == 0 {
			return fmt.Errorf("at least one --group is required")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		arti := client.NewArtifactoryClient(cfg.ArtifactoryURL, credentials(cfg))
		access := client.NewAccessClient(cfg.ArtifactoryURL, credentials(cfg))
		pm := service.NewPermissionManager(arti, access, cfg.Workers, cfg.DryRun)
		summary, err := pm.Setup(ctx, service.PermissionOptions{
			Repository: permRepo,
			Groups:     permGroups,
			PathPrefix: permPathPrefix,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Groups: %d total, %d processed, %d failed\n",
			summary.Total, summary.Processed, summary.Failed)
		return nil
	},
}

func init() {
	permSetupCmd.Flags().StringVar(&permRepo, "repo", "", "Repository the permission targets apply to")
	permSetupCmd.Flags().StringSliceVar(&permGroups, "group", nil, "Group to provision (repeatable)")
	permSetupCmd.Flags().StringVar(&permPathPrefix, "path-prefix", "", "Path prefix prepended to each group's include pattern")
	_ = permSetupCmd.MarkFlagRequired("repo")
	RootCmd.AddCommand(permSetupCmd)
}
