package service

import (
	"context"
	"fmt"
	"path"
	"sync"
	"sync/atomic"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/pool"
	"github.com/artiops/artifactory-automation/internal/utils"
	"go.uber.org/zap"
)

// ArtifactCleanupOptions control one artifact cleanup run.
type ArtifactCleanupOptions struct {
	// Repositories to search for matching artifacts.
	Repositories []string
	// Pattern restricts the search to artifact names matching this AQL
	// wildcard pattern, e.g. "*.tmp".
	Pattern string
	// MoveTo, when set, relocates matches into this repository preserving
	// their paths instead of deleting them.
	MoveTo string
}

// ArtifactCleanupManager deletes or relocates artifacts matched by an AQL
// search, fanning the operations out over a bounded worker pool.
type ArtifactCleanupManager struct {
	arti    client.ArtifactoryClient
	workers int
	dryRun  bool
}

// NewArtifactCleanupManager creates a new ArtifactCleanupManager instance.
func NewArtifactCleanupManager(arti client.ArtifactoryClient, workers int, dryRun bool) *ArtifactCleanupManager {
	return &ArtifactCleanupManager{arti: arti, workers: workers, dryRun: dryRun}
}

// Run searches each repository for matching artifacts and deletes them, or
// moves them into opts.MoveTo when set. Cancelling ctx stops the workers
// after their in-flight operations finish.
func (m *ArtifactCleanupManager) Run(ctx context.Context, opts ArtifactCleanupOptions) (*CleanupSummary, error) {
	log := utils.WithComponent("artifact-cleanup")

	mode := "delete"
	if opts.MoveTo != "" {
		mode = "move"
	}
	log.Info("Starting artifact cleanup",
		zap.String(utils.FieldAction, mode),
		zap.Strings("repositories", opts.Repositories))

	queue := pool.NewQueue[client.ArtifactRef]()
	total := 0
	for _, repo := range opts.Repositories {
		items, err := m.arti.SearchItems(repo, opts.Pattern)
		if err != nil {
			return nil, fmt.Errorf("artifact cleanup: %w", err)
		}
		log.Info("Found matching artifacts",
			zap.String(utils.FieldRepo, repo),
			zap.String("pattern", opts.Pattern),
			zap.Int("count", len(items)))
		for _, item := range items {
			queue.Push(item)
		}
		total += len(items)
	}

	var processed, failed atomic.Int64
	// Directory creation in the target repository is deduplicated so the
	// workers do not race PUTs for the same folder.
	var dirMu sync.Mutex
	createdDirs := make(map[string]bool)

	action := func(item client.ArtifactRef) error {
		var err error
		if opts.MoveTo == "" {
			err = m.deleteOne(log, item)
		} else {
			err = m.moveOne(log, item, opts.MoveTo, &dirMu, createdDirs)
		}
		if err != nil {
			failed.Add(1)
			return err
		}
		processed.Add(1)
		return nil
	}

	workers, err := pool.New(m.workers, queue, action)
	if err != nil {
		return nil, fmt.Errorf("artifact cleanup: %w", err)
	}
	workers.Start()
	stop := context.AfterFunc(ctx, workers.RequestStop)
	defer stop()
	workers.Wait()

	summary := &CleanupSummary{
		Total:     total,
		Processed: processed.Load(),
		Failed:    failed.Load(),
	}
	log.Info("Artifact cleanup finished",
		zap.String(utils.FieldAction, mode),
		zap.Int("total", summary.Total),
		zap.Int64("processed", summary.Processed),
		zap.Int64("failed", summary.Failed))
	return summary, nil
}

func (m *ArtifactCleanupManager) deleteOne(log *zap.Logger, item client.ArtifactRef) error {
	if m.dryRun {
		log.Info("Dry run: would delete artifact", zap.String(utils.FieldPath, item.FullPath()))
		return nil
	}
	if err := m.arti.DeleteArtifact(item.FullPath()); err != nil {
		return fmt.Errorf("delete artifact '%s': %w", item.FullPath(), err)
	}
	return nil
}

func (m *ArtifactCleanupManager) moveOne(log *zap.Logger, item client.ArtifactRef, moveTo string, dirMu *sync.Mutex, createdDirs map[string]bool) error {
	destDir := path.Join(moveTo, item.Path)
	dest := path.Join(destDir, item.Name)
	if m.dryRun {
		log.Info("Dry run: would move artifact",
			zap.String("from", item.FullPath()),
			zap.String("to", dest))
		return nil
	}

	dirMu.Lock()
	needDir := !createdDirs[destDir]
	if needDir {
		createdDirs[destDir] = true
	}
	dirMu.Unlock()
	if needDir {
		if err := m.arti.CreateDirectory(destDir); err != nil {
			return fmt.Errorf("create directory '%s': %w", destDir, err)
		}
	}

	if err := m.arti.MoveArtifact(item.FullPath(), dest); err != nil {
		return fmt.Errorf("move artifact '%s': %w", item.FullPath(), err)
	}
	return nil
}
