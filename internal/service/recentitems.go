package service

import (
	"fmt"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/utils"
	"go.uber.org/zap"
)

// RecentItemsReport lists artifacts created within a recent window, across
// one repository or the whole instance.
type RecentItemsReport struct {
	arti client.ArtifactoryClient
}

func NewRecentItemsReport(arti client.ArtifactoryClient) *RecentItemsReport {
	return &RecentItemsReport{arti: arti}
}

// Run returns the artifacts created in the last N days, newest query limit
// applied server-side. An empty repo searches every repository.
func (r *RecentItemsReport) Run(repo string, days, limit int) ([]client.ArtifactRef, error) {
	log := utils.WithComponent("recent_items")

	if days <= 0 {
		return nil, fmt.Errorf("recent items: days must be positive, got %d", days)
	}
	items, err := r.arti.SearchRecentItems(repo, days, limit)
	if err != nil {
		return nil, err
	}
	log.Info("Recent items query finished",
		zap.String(utils.FieldRepo, repo),
		zap.Int("days", days),
		zap.Int("count", len(items)))
	return items, nil
}
