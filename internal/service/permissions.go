package service

import (
	"context"
	"fmt"
	"path"
	"sync/atomic"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/pool"
	"github.com/artiops/artifactory-automation/internal/utils"
	"go.uber.org/zap"
)

// groupActions is the full action set granted to a group on its coordinate.
var groupActions = []string{"read", "write", "annotate", "delete", "manage", "managedXrayMeta", "distribute"}

// PermissionManager provisions per-group permission targets that scope each
// group to its own coordinate path inside a shared repository.
type PermissionManager struct {
	arti    client.ArtifactoryClient
	access  client.AccessClient
	workers int
	dryRun  bool
}

// PermissionOptions describes one permission setup run. Each group gets a
// permission target named <repository>-<group> whose include pattern is
// <path prefix>/<group>/**.
type PermissionOptions struct {
	Repository string
	Groups     []string
	PathPrefix string
}

// PermissionSummary reports how a permission setup run went.
type PermissionSummary struct {
	Total     int
	Processed int64
	Failed    int64
}

func NewPermissionManager(arti client.ArtifactoryClient, access client.AccessClient, workers int, dryRun bool) *PermissionManager {
	return &PermissionManager{arti: arti, access: access, workers: workers, dryRun: dryRun}
}

// Setup ensures a group and a matching permission target exist for every
// group name. Existing groups and targets are left untouched, so the
// operation can be re-run.
func (m *PermissionManager) Setup(ctx context.Context, opts PermissionOptions) (*PermissionSummary, error) {
	log := utils.WithComponent("permissions")

	if opts.Repository == "" {
		return nil, fmt.Errorf("permission setup: repository is required")
	}

	queue := pool.NewQueue[string]()
	for _, group := range opts.Groups {
		queue.Push(group)
	}

	summary := &PermissionSummary{Total: len(opts.Groups)}
	action := func(group string) error {
		if err := m.setupOne(log, opts, group); err != nil {
			atomic.AddInt64(&summary.Failed, 1)
			return err
		}
		atomic.AddInt64(&summary.Processed, 1)
		return nil
	}

	workers, err := pool.New(m.workers, queue, action)
	if err != nil {
		return nil, err
	}
	workers.Start()
	stop := context.AfterFunc(ctx, workers.RequestStop)
	defer stop()
	workers.Wait()

	log.Info("Permission setup finished",
		zap.String(utils.FieldRepo, opts.Repository),
		zap.Int("total", summary.Total),
		zap.Int64("processed", atomic.LoadInt64(&summary.Processed)),
		zap.Int64("failed", atomic.LoadInt64(&summary.Failed)))
	return summary, nil
}

func (m *PermissionManager) setupOne(log *zap.Logger, opts PermissionOptions, group string) error {
	exists, err := m.access.GroupExists(group)
	if err != nil {
		return err
	}
	if !exists {
		if m.dryRun {
			log.Info("Dry run: would create group", zap.String("group", group))
		} else {
			if err := m.access.CreateGroup(&client.Group{Name: group}); err != nil {
				return err
			}
			log.Info("Created group", zap.String("group", group))
		}
	}

	target := permissionTargetFor(opts, group)
	present, err := m.arti.PermissionTargetExists(target.Name)
	if err != nil {
		return err
	}
	if present {
		log.Debug("Permission target already exists, skipping creation",
			zap.String("permission_target", target.Name))
		return nil
	}
	if m.dryRun {
		log.Info("Dry run: would create permission target",
			zap.String("permission_target", target.Name),
			zap.String("group", group))
		return nil
	}
	if err := m.arti.CreatePermissionTarget(target); err != nil {
		return err
	}
	log.Info("Created permission target",
		zap.String("permission_target", target.Name),
		zap.String("group", group))
	return nil
}

func permissionTargetFor(opts PermissionOptions, group string) *client.PermissionTarget {
	return &client.PermissionTarget{
		Name: fmt.Sprintf("%s-%s", opts.Repository, group),
		Repo: &client.PermissionGrant{
			IncludePatterns: []string{path.Join(opts.PathPrefix, group) + "/**"},
			ExcludePatterns: []string{""},
			Repositories:    []string{opts.Repository},
			Actions: client.PermissionActions{
				Groups: map[string][]string{group: groupActions},
			},
		},
	}
}
