package cmd

import (
	"fmt"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/service"
	"github.com/spf13/cobra"
)

var (
	convertSource    string
	convertTemporary string
	convertDest      string
	convertKeepTemp  bool

	convertProject    string
	convertMemberURLs []string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert repositories between federated and local classes",
}

var federatedToLocalCmd = &cobra.Command{
	Use:   "federated-to-local",
	Short: "Convert a federated repository to a local one",
	Long: `Copies the repository content to a temporary hop repository, deletes the
federated repository, recreates it as local under the destination key, and
copies the content back. The destination may equal the source to convert in
place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		if convertDest == "" {
			convertDest = convertSource
		}
		arti := client.NewArtifactoryClient(cfg.ArtifactoryURL, credentials(cfg))
		cm := service.NewConversionManager(arti, cfg.Workers, cfg.DryRun)
		return cm.FederatedToLocal(ctx, service.FederatedToLocalOptions{
			Source:        convertSource,
			Temporary:     convertTemporary,
			Destination:   convertDest,
			KeepTemporary: convertKeepTemp,
		})
	},
}

var localToFederatedCmd = &cobra.Command{
	Use:   "local-to-federated",
	Short: "Create federated counterparts for local repositories",
	Long: `Creates a federated repository for every local repository of a project and
rewires the project's virtual repositories to deploy to it. Repositories
that already have a federated counterpart are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		members := make([]client.FederatedMember, 0, len(convertMemberURLs))
		for _, url := range convertMemberURLs {
			members = append(members, client.FederatedMember{URL: url, Enabled: true})
		}

		arti := client.NewArtifactoryClient(cfg.ArtifactoryURL, credentials(cfg))
		cm := service.NewConversionManager(arti, cfg.Workers, cfg.DryRun)
		summary, err := cm.LocalToFederated(ctx, convertProject, members)
		if err != nil {
			return err
		}
		fmt.Printf("Federated created: %d, virtuals updated: %d, unchanged: %d\n",
			summary.FederatedCreated, summary.VirtualsUpdated, summary.Unchanged)
		return nil
	},
}

func init() {
	federatedToLocalCmd.Flags().StringVar(&convertSource, "source", "", "Federated repository to convert")
	federatedToLocalCmd.Flags().StringVar(&convertTemporary, "temporary", "", "Temporary hop repository key")
	federatedToLocalCmd.Flags().StringVar(&convertDest, "destination", "", "Final local repository key (defaults to source)")
	federatedToLocalCmd.Flags().BoolVar(&convertKeepTemp, "keep-temporary", false, "Keep the hop repository after conversion")
	_ = federatedToLocalCmd.MarkFlagRequired("source")
	_ = federatedToLocalCmd.MarkFlagRequired("temporary")
	convertCmd.AddCommand(federatedToLocalCmd)

	localToFederatedCmd.Flags().StringVar(&convertProject, "project", "", "Limit to repositories of this project key")
	localToFederatedCmd.Flags().StringSliceVar(&convertMemberURLs, "member-url", nil, "Federation member URL (repeatable)")
	convertCmd.AddCommand(localToFederatedCmd)

	RootCmd.AddCommand(convertCmd)
}
