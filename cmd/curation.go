package cmd

import (
	"fmt"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/service"
	"github.com/spf13/cobra"
)

var curationFile string

var curationCmd = &cobra.Command{
	Use:   "curation",
	Short: "Manage Xray curation conditions and policies",
}

var curationApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Converge curation configuration onto a declarative input file",
	Long: `Reads a JSON document describing the desired curation conditions and
policies and reconciles the server against it. Conditions are matched by
name; policies by name with condition references resolved to ids. Running
apply twice with the same input performs no work the second time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		input, err := service.LoadCurationInput(curationFile)
		if err != nil {
			return err
		}

		xray := client.NewXrayClient(cfg.XrayURL, credentials(cfg))
		cm := service.NewCurationManager(xray, cfg.DryRun)
		summary, err := cm.Apply(input)
		if err != nil {
			return err
		}
		fmt.Printf("Conditions: %d created, %d updated. Policies: %d created, %d updated. Unchanged: %d\n",
			summary.ConditionsCreated, summary.ConditionsUpdated,
			summary.PoliciesCreated, summary.PoliciesUpdated, summary.Unchanged)
		return nil
	},
}

func init() {
	curationApplyCmd.Flags().StringVar(&curationFile, "file", "", "Path to the curation input JSON")
	_ = curationApplyCmd.MarkFlagRequired("file")
	curationCmd.AddCommand(curationApplyCmd)
	RootCmd.AddCommand(curationCmd)
}
