package cmd

import (
	"fmt"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/service"
	"github.com/spf13/cobra"
)

var projectsFile string

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects through the Access API",
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Bulk-create projects from an input file",
	Long: `Reads a JSON list of project definitions and creates each missing project.
Existing projects are skipped, so the command can be re-run after a partial
failure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		projects, err := service.LoadProjectDefinitions(projectsFile)
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		access := client.NewAccessClient(cfg.ArtifactoryURL, credentials(cfg))
		pm := service.NewProjectManager(access, cfg.Workers, cfg.DryRun)
		summary, err := pm.CreateProjects(ctx, projects)
		if err != nil {
			return err
		}
		fmt.Printf("Projects: %d total, %d processed, %d failed\n",
			summary.Total, summary.Processed, summary.Failed)
		return nil
	},
}

func init() {
	projectsCreateCmd.Flags().StringVar(&projectsFile, "file", "", "Path to the projects input JSON")
	_ = projectsCreateCmd.MarkFlagRequired("file")
	projectsCmd.AddCommand(projectsCreateCmd)
	RootCmd.AddCommand(projectsCmd)
}
