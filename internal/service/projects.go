package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/pool"
	"github.com/artiops/artifactory-automation/internal/utils"
	"go.uber.org/zap"
)

// ProjectManager bulk-creates projects through the Access API.
type ProjectManager struct {
	access  client.AccessClient
	workers int
	dryRun  bool
}

// ProjectSummary reports how a bulk project run went.
type ProjectSummary struct {
	Total     int
	Processed int64
	Failed    int64
}

func NewProjectManager(access client.AccessClient, workers int, dryRun bool) *ProjectManager {
	return &ProjectManager{access: access, workers: workers, dryRun: dryRun}
}

// CreateProjects creates each missing project. Existing projects are
// skipped, so the operation can be re-run after a partial failure.
func (m *ProjectManager) CreateProjects(ctx context.Context, projects []client.Project) (*ProjectSummary, error) {
	log := utils.WithComponent("projects")

	queue := pool.NewQueue[client.Project]()
	for _, project := range projects {
		queue.Push(project)
	}

	summary := &ProjectSummary{Total: len(projects)}
	action := func(project client.Project) error {
		if err := m.createOne(log, project); err != nil {
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

	log.Info("Project creation finished",
		zap.Int("total", summary.Total),
		zap.Int64("processed", atomic.LoadInt64(&summary.Processed)),
		zap.Int64("failed", atomic.LoadInt64(&summary.Failed)))
	return summary, nil
}

func (m *ProjectManager) createOne(log *zap.Logger, project client.Project) error {
	if project.Key == "" {
		return fmt.Errorf("create project: key is empty")
	}
	existing, err := m.access.GetProject(project.Key)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Debug("Project already exists, skipping creation",
			zap.String("project_key", project.Key))
		return nil
	}
	if m.dryRun {
		log.Info("Dry run: would create project",
			zap.String("project_key", project.Key),
			zap.String("name", project.Name))
		return nil
	}
	if err := m.access.CreateProject(&project); err != nil {
		return err
	}
	log.Info("Created project", zap.String("project_key", project.Key))
	return nil
}

// LoadProjectDefinitions reads a JSON file containing a list of project
// definitions.
func LoadProjectDefinitions(path string) ([]client.Project, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open projects input: %w", err)
	}
	defer file.Close()
	var projects []client.Project
	if err := json.NewDecoder(file).Decode(&projects); err != nil {
		return nil, fmt.Errorf("decode projects input '%s': %w", path, err)
	}
	return projects, nil
}
