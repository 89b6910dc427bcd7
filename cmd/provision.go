package cmd

import (
	"context"
	"fmt"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/config"
	"github.com/artiops/artifactory-automation/internal/pool"
	"github.com/artiops/artifactory-automation/internal/service"
	"github.com/artiops/artifactory-automation/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	provisionFile          string
	provisionShardedPrefix string
	provisionVirtualRepo   string
	provisionVirtualType   string
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Bulk-create repositories from an input file or a sharded prefix",
	Long: `Reads a JSON list of repository requests (local or remote) and creates each
missing repository. Existing repositories are skipped, so the command can be
re-run after a partial failure.

With --sharded-prefix the input file is replaced by generated requests for
4096 generic repositories named <prefix>-000 through <prefix>-FFF. With
--virtual-repo the created repositories are also attached as members of the
named virtual repository, creating it when missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (provisionFile == "") == (provisionShardedPrefix == "") {
			return fmt.Errorf("exactly one of --file and --sharded-prefix is required")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		var requests []config.RepoProvisionRequest
		if provisionShardedPrefix != "" {
			requests = service.ShardedRepoRequests(provisionShardedPrefix)
		} else {
			requests, err = service.LoadProvisionRequests(provisionFile)
			if err != nil {
				return err
			}
		}
		ctx, stop := signalContext()
		defer stop()

		arti := client.NewArtifactoryClient(cfg.ArtifactoryURL, credentials(cfg))
		provisioner := service.NewProvisioningManager(arti, cfg.DryRun)

		queue := pool.NewQueue[config.RepoProvisionRequest]()
		for _, req := range requests {
			queue.Push(req)
		}
		workers, err := pool.New(cfg.Workers, queue, func(req config.RepoProvisionRequest) error {
			return provisioner.CreateRepository(req)
		})
		if err != nil {
			return err
		}
		workers.Start()
		stopWorkers := context.AfterFunc(ctx, workers.RequestStop)
		defer stopWorkers()
		workers.Wait()

		if provisionVirtualRepo != "" {
			keys := make([]string, 0, len(requests))
			for _, req := range requests {
				keys = append(keys, req.Key)
			}
			if err := provisioner.AttachToVirtual(provisionVirtualRepo, provisionVirtualType, keys); err != nil {
				return err
			}
		}

		utils.Logger.Info("Provisioning finished", zap.Int("requests", len(requests)))
		fmt.Printf("Processed %d requests\n", len(requests))
		return nil
	},
}

func init() {
	provisionCmd.Flags().StringVar(&provisionFile, "file", "", "Path to the provisioning input JSON")
	provisionCmd.Flags().StringVar(&provisionShardedPrefix, "sharded-prefix", "", "Generate 4096 hex-sharded generic repositories with this prefix")
	provisionCmd.Flags().StringVar(&provisionVirtualRepo, "virtual-repo", "", "Virtual repository to attach the created repositories to")
	provisionCmd.Flags().StringVar(&provisionVirtualType, "virtual-type", "generic", "Package type used when the virtual repository must be created")
	RootCmd.AddCommand(provisionCmd)
}
