package service

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/pool"
	"github.com/artiops/artifactory-automation/internal/utils"
	"go.uber.org/zap"
)

// BuildDeletion is one unit of cleanup work: a build name and every stale
// number recorded for it, deleted in a single API call.
type BuildDeletion struct {
	Name    string
	Numbers []string
}

// GroupBuilds collapses individual build records into one deletion per build
// name. Output ordering is deterministic so dry runs are diffable.
func GroupBuilds(records []client.BuildRecord) []BuildDeletion {
	byName := make(map[string][]string)
	for _, r := range records {
		byName[r.Name] = append(byName[r.Name], r.Number.String())
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	groups := make([]BuildDeletion, 0, len(names))
	for _, name := range names {
		numbers := byName[name]
		sort.Strings(numbers)
		groups = append(groups, BuildDeletion{Name: name, Numbers: numbers})
	}
	return groups
}

// CleanupSummary reports how much of a cleanup run completed before the
// workers drained or were stopped.
type CleanupSummary struct {
	Total     int
	Processed int64
	Failed    int64
}

// BuildCleanupManager deletes build-info records older than a retention
// window, fanning the deletions out over a bounded worker pool.
type BuildCleanupManager struct {
	arti    client.ArtifactoryClient
	workers int
	dryRun  bool
}

// NewBuildCleanupManager creates a new BuildCleanupManager instance.
func NewBuildCleanupManager(arti client.ArtifactoryClient, workers int, dryRun bool) *BuildCleanupManager {
	return &BuildCleanupManager{arti: arti, workers: workers, dryRun: dryRun}
}

// Run finds builds whose creation date is older than the given number of
// years and deletes them. Cancelling ctx stops the workers after their
// in-flight deletions finish.
func (m *BuildCleanupManager) Run(ctx context.Context, years int) (*CleanupSummary, error) {
	log := utils.WithComponent("build-cleanup")

	records, err := m.arti.SearchOldBuilds(years)
	if err != nil {
		return nil, fmt.Errorf("build cleanup: %w", err)
	}
	groups := GroupBuilds(records)
	log.Info("Found stale builds",
		zap.Int("records", len(records)),
		zap.Int("builds", len(groups)),
		zap.Int("years", years))

	queue := pool.NewQueue[BuildDeletion]()
	for _, g := range groups {
		queue.Push(g)
	}

	var processed, failed atomic.Int64
	action := func(b BuildDeletion) error {
		if m.dryRun {
			log.Info("Dry run: would delete build",
				zap.String("build", b.Name),
				zap.Int("numbers", len(b.Numbers)))
			processed.Add(1)
			return nil
		}
		if err := m.arti.DeleteBuild(b.Name, b.Numbers); err != nil {
			failed.Add(1)
			return fmt.Errorf("delete build '%s': %w", b.Name, err)
		}
		processed.Add(1)
		return nil
	}

	workers, err := pool.New(m.workers, queue, action)
	if err != nil {
		return nil, fmt.Errorf("build cleanup: %w", err)
	}
	workers.Start()
	stop := context.AfterFunc(ctx, workers.RequestStop)
	defer stop()
	workers.Wait()

	summary := &CleanupSummary{
		Total:     len(groups),
		Processed: processed.Load(),
		Failed:    failed.Load(),
	}
	log.Info("Build cleanup finished",
		zap.Int("total", summary.Total),
		zap.Int64("processed", summary.Processed),
		zap.Int64("failed", summary.Failed))
	return summary, nil
}
