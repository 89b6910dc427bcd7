package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/pool"
	"github.com/artiops/artifactory-automation/internal/utils"
	"go.uber.org/zap"
)

const (
	rclassLocal     = "local"
	rclassVirtual   = "virtual"
	rclassFederated = "federated"
)

// FederatedKeyFor derives the federated repository key used for a local
// repository: the "-local" suffix is replaced with "-fed".
func FederatedKeyFor(localKey string) string {
	return strings.TrimSuffix(localKey, "-local") + "-fed"
}

// ToLocalDefinition derives a local repository definition from an existing
// repository. Temporary repos used as a migration hop skip indexing and
// metadata calculation so the hop does not trigger scans.
func ToLocalDefinition(src *client.Repository, key string, temporary bool) *client.Repository {
	def := *src
	def.Key = key
	def.Rclass = rclassLocal
	def.Members = nil
	def.Proxy = ""
	def.Repositories = nil
	def.DefaultDeploymentRepo = ""
	if temporary {
		def.XrayIndex = boolPtr(false)
		def.SuppressPomConsistencyChecks = boolPtr(true)
		def.CalculateYumMetadata = boolPtr(false)
		def.EnableFileListsIndexing = boolPtr(false)
	}
	return &def
}

// ToFederatedDefinition derives a federated repository definition from a
// local repository, carrying the given member list.
func ToFederatedDefinition(src *client.Repository, key string, members []client.FederatedMember) *client.Repository {
	def := *src
	def.Key = key
	def.Rclass = rclassFederated
	def.Members = members
	def.Repositories = nil
	def.DefaultDeploymentRepo = ""
	return &def
}

// AddFederatedToVirtual returns a copy of the virtual repository with the
// federated key prepended to its member list and set as the default
// deployment target. Reports false when the virtual already references the
// key with the right deployment target, so repeated runs converge.
func AddFederatedToVirtual(virtual client.Repository, fedKey string) (client.Repository, bool) {
	changed := false
	if !slices.Contains(virtual.Repositories, fedKey) {
		virtual.Repositories = append([]string{fedKey}, virtual.Repositories...)
		changed = true
	}
	if virtual.DefaultDeploymentRepo != fedKey {
		virtual.DefaultDeploymentRepo = fedKey
		changed = true
	}
	return virtual, changed
}

func boolPtr(b bool) *bool { return &b }

// FederatedToLocalOptions control one federated-to-local conversion.
type FederatedToLocalOptions struct {
	// Source is the federated repository to convert.
	Source string
	// Temporary is the hop repository that holds the artifacts while the
	// source is deleted and recreated.
	Temporary string
	// Destination is the key of the final local repository. It may equal
	// Source to convert in place.
	Destination string
	// KeepTemporary leaves the hop repository in place for inspection.
	KeepTemporary bool
}

// ConversionManager converts repositories between federated and local
// classes, copying artifact content through a bounded worker pool.
type ConversionManager struct {
	arti    client.ArtifactoryClient
	workers int
	dryRun  bool
}

// NewConversionManager creates a new ConversionManager instance.
func NewConversionManager(arti client.ArtifactoryClient, workers int, dryRun bool) *ConversionManager {
	return &ConversionManager{arti: arti, workers: workers, dryRun: dryRun}
}

// FederatedToLocal converts a federated repository to a local one. The
// content is copied to a temporary hop repository, the federated repository
// is deleted, a local repository with the destination key is created from
// the federated definition, and the content is copied back.
func (cm *ConversionManager) FederatedToLocal(ctx context.Context, opts FederatedToLocalOptions) error {
	log := utils.WithComponent("conversion")

	if opts.Source == opts.Temporary || opts.Destination == opts.Temporary {
		return fmt.Errorf("convert '%s': temporary repository key must differ from source and destination", opts.Source)
	}

	source, err := cm.arti.GetRepository(opts.Source)
	if err != nil {
		return fmt.Errorf("convert '%s': %w", opts.Source, err)
	}
	if source == nil {
		return fmt.Errorf("convert '%s': repository not found", opts.Source)
	}
	if source.Rclass != rclassFederated {
		return fmt.Errorf("convert '%s': repository is '%s', not federated", opts.Source, source.Rclass)
	}

	if cm.dryRun {
		log.Info("Dry run: would convert federated repository to local",
			zap.String("source", opts.Source),
			zap.String("temporary", opts.Temporary),
			zap.String("destination", opts.Destination))
		return nil
	}

	hop := ToLocalDefinition(source, opts.Temporary, true)
	if err := cm.arti.CreateRepository(hop); err != nil {
		return fmt.Errorf("convert '%s': create temporary repository: %w", opts.Source, err)
	}
	log.Info("Created temporary repository", zap.String(utils.FieldRepo, opts.Temporary))

	if err := cm.copyContent(ctx, opts.Source, opts.Temporary); err != nil {
		return fmt.Errorf("convert '%s': %w", opts.Source, err)
	}

	if err := cm.arti.DeleteRepository(opts.Source); err != nil {
		return fmt.Errorf("convert '%s': delete federated repository: %w", opts.Source, err)
	}
	log.Info("Deleted federated repository", zap.String(utils.FieldRepo, opts.Source))

	dest := ToLocalDefinition(source, opts.Destination, false)
	if err := cm.arti.CreateRepository(dest); err != nil {
		return fmt.Errorf("convert '%s': create local repository: %w", opts.Source, err)
	}
	log.Info("Created local repository", zap.String(utils.FieldRepo, opts.Destination))

	if err := cm.copyContent(ctx, opts.Temporary, opts.Destination); err != nil {
		return fmt.Errorf("convert '%s': %w", opts.Source, err)
	}

	if !opts.KeepTemporary {
		if err := cm.arti.DeleteRepository(opts.Temporary); err != nil {
			return fmt.Errorf("convert '%s': delete temporary repository: %w", opts.Source, err)
		}
		log.Info("Deleted temporary repository", zap.String(utils.FieldRepo, opts.Temporary))
	}

	log.Info("Conversion finished",
		zap.String("source", opts.Source),
		zap.String("destination", opts.Destination))
	return nil
}

// LocalToFederatedSummary reports what a LocalToFederated pass did.
type LocalToFederatedSummary struct {
	FederatedCreated int
	VirtualsUpdated  int
	Unchanged        int
}

// LocalToFederated creates a federated counterpart for every local
// repository belonging to the given project and rewires the project's
// virtual repositories to deploy to it. Already-converged repositories are
// left untouched.
func (cm *ConversionManager) LocalToFederated(ctx context.Context, projectKey string, members []client.FederatedMember) (*LocalToFederatedSummary, error) {
	log := utils.WithComponent("conversion")

	configs, err := cm.arti.GetRepositoryConfigurations()
	if err != nil {
		return nil, fmt.Errorf("local to federated: %w", err)
	}

	existingFederated := make(map[string]bool)
	for _, repo := range configs["FEDERATED"] {
		existingFederated[repo.Key] = true
	}

	summary := &LocalToFederatedSummary{}
	for _, local := range configs["LOCAL"] {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if projectKey != "" && local.ProjectKey != projectKey {
			continue
		}
		fedKey := FederatedKeyFor(local.Key)
		if existingFederated[fedKey] {
			summary.Unchanged++
			continue
		}
		if cm.dryRun {
			log.Info("Dry run: would create federated repository",
				zap.String(utils.FieldRepo, fedKey),
				zap.String("from", local.Key))
			continue
		}
		def := ToFederatedDefinition(&local, fedKey, members)
		if err := cm.arti.CreateRepository(def); err != nil {
			return summary, fmt.Errorf("local to federated: create '%s': %w", fedKey, err)
		}
		log.Info("Created federated repository",
			zap.String(utils.FieldRepo, fedKey),
			zap.String("from", local.Key))
		existingFederated[fedKey] = true
		summary.FederatedCreated++
	}

	for _, virtual := range configs["VIRTUAL"] {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if projectKey != "" && virtual.ProjectKey != projectKey {
			continue
		}
		if virtual.DefaultDeploymentRepo == "" {
			continue
		}
		if existingFederated[virtual.DefaultDeploymentRepo] {
			// Already deploying to a federated repo.
			summary.Unchanged++
			continue
		}
		fedKey := FederatedKeyFor(virtual.DefaultDeploymentRepo)
		updated, changed := AddFederatedToVirtual(virtual, fedKey)
		if !changed {
			summary.Unchanged++
			continue
		}
		if cm.dryRun {
			log.Info("Dry run: would update virtual repository",
				zap.String(utils.FieldRepo, virtual.Key),
				zap.String("defaultDeploymentRepo", fedKey))
			continue
		}
		if err := cm.arti.UpdateRepository(&updated); err != nil {
			return summary, fmt.Errorf("local to federated: update virtual '%s': %w", virtual.Key, err)
		}
		log.Info("Updated virtual repository",
			zap.String(utils.FieldRepo, virtual.Key),
			zap.String("defaultDeploymentRepo", fedKey))
		summary.VirtualsUpdated++
	}

	return summary, nil
}

// copyContent copies every artifact from one repository to another through
// the worker pool, logging progress every copyProgressInterval artifacts.
const copyProgressInterval = 100

func (cm *ConversionManager) copyContent(ctx context.Context, from, to string) error {
	log := utils.WithComponent("conversion")

	items, err := cm.arti.SearchItems(from, "")
	if err != nil {
		return err
	}
	log.Info("Copying repository content",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int("artifacts", len(items)))

	queue := pool.NewQueue[client.ArtifactRef]()
	for _, item := range items {
		queue.Push(item)
	}

	var copied, failed atomic.Int64
	action := func(item client.ArtifactRef) error {
		dest := to + "/" + item.Path + "/" + item.Name
		if err := cm.arti.CopyArtifact(item.FullPath(), dest); err != nil {
			failed.Add(1)
			return fmt.Errorf("copy '%s': %w", item.FullPath(), err)
		}
		if n := copied.Add(1); n%copyProgressInterval == 0 {
			log.Info("Copy progress",
				zap.Int64("copied", n),
				zap.Int("total", len(items)))
		}
		return nil
	}

	workers, err := pool.New(cm.workers, queue, action)
	if err != nil {
		return err
	}
	workers.Start()
	stop := context.AfterFunc(ctx, workers.RequestStop)
	defer stop()
	workers.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("copy from '%s' to '%s': %d of %d artifacts failed", from, to, n, len(items))
	}
	return nil
}
