package cmd

import (
	"fmt"
	"strings"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/service"
	"github.com/spf13/cobra"
)

var (
	loadRepo       string
	loadCount      int
	loadTotalSize  int64
	loadMinSize    int64
	loadMaxSize    int64
	loadProperties []string
	loadSeed       int64
)

var loadgenCmd = &cobra.Command{
	Use:   "loadgen",
	Short: "Upload synthetic binaries for load and capacity testing",
	Long: `Uploads randomly generated binaries into a repository. File sizes follow a
distribution that steers the total toward --total-size while keeping each
file between --min-size and --max-size. Paths are sharded by uuid and
annotated with matrix properties.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		props := make(map[string]string, len(loadProperties))
		for _, kv := range loadProperties {
			key, value, found := strings.Cut(kv, "=")
			if !found || key == "" {
				return fmt.Errorf("invalid --property %q, expected key=value", kv)
			}
			props[key] = value
		}

		arti := client.NewArtifactoryClient(cfg.ArtifactoryURL, credentials(cfg))
		g := service.NewLoadGenerator(arti, cfg.Workers, cfg.DryRun)
		summary, err := g.Run(ctx, service.LoadOptions{
			Repository: loadRepo,
			Count:      loadCount,
			TotalSize:  loadTotalSize,
			MinSize:    loadMinSize,
			MaxSize:    loadMaxSize,
			Properties: props,
			Seed:       loadSeed,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Planned: %d, uploaded: %d, failed: %d, bytes: %d\n",
			summary.Planned, summary.Uploaded, summary.Failed, summary.Bytes)
		return nil
	},
}

func init() {
	loadgenCmd.Flags().StringVar(&loadRepo, "repo", "", "Target repository")
	loadgenCmd.Flags().IntVar(&loadCount, "count", 1000, "Number of files to upload")
	loadgenCmd.Flags().Int64Var(&loadTotalSize, "total-size", 1<<30, "Approximate total bytes to upload")
	loadgenCmd.Flags().Int64Var(&loadMinSize, "min-size", 1<<10, "Minimum file size in bytes")
	loadgenCmd.Flags().Int64Var(&loadMaxSize, "max-size", 1<<24, "Maximum file size in bytes")
	loadgenCmd.Flags().StringSliceVar(&loadProperties, "property", nil, "Matrix property key=value for uploaded paths (repeatable)")
	loadgenCmd.Flags().Int64Var(&loadSeed, "seed", 0, "Size sequence seed (0 seeds from the clock)")
	_ = loadgenCmd.MarkFlagRequired("repo")
	RootCmd.AddCommand(loadgenCmd)
}
