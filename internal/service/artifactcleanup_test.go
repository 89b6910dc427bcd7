package service

import (
	"context"
	"errors"
	"testing"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestArtifactCleanupRun(t *testing.T) {
	items := []client.ArtifactRef{
		{Repo: "libs-release", Path: "com/acme/app", Name: "app-1.0.tmp"},
		{Repo: "libs-release", Path: "com/acme/lib", Name: "lib-2.0.tmp"},
	}

	t.Run("Deletes matching artifacts", func(t *testing.T) {
		mockClient := new(MockArtifactoryClient)
		mockClient.On("SearchItems", "libs-release", "*.tmp").Return(items, nil)
		mockClient.On("DeleteArtifact", "libs-release/com/acme/app/app-1.0.tmp").Return(nil)
		mockClient.On("DeleteArtifact", "libs-release/com/acme/lib/lib-2.0.tmp").Return(nil)

		m := NewArtifactCleanupManager(mockClient, 2, false)
		summary, err := m.Run(context.Background(), ArtifactCleanupOptions{
			Repositories: []string{"libs-release"},
			Pattern:      "*.tmp",
		})

		require.NoError(t, err)
		assert.Equal(t, 2, summary.Total)
		assert.Equal(t, int64(2), summary.Processed)
		mockClient.AssertExpectations(t)
	})

	t.Run("Moves into target preserving paths", func(t *testing.T) {
		mockClient := new(MockArtifactoryClient)
		mockClient.On("SearchItems", "libs-release", "*.tmp").Return(items[:1], nil)
		mockClient.On("CreateDirectory", "quarantine/com/acme/app").Return(nil)
		mockClient.On("MoveArtifact",
			"libs-release/com/acme/app/app-1.0.tmp",
			"quarantine/com/acme/app/app-1.0.tmp").Return(nil)

		m := NewArtifactCleanupManager(mockClient, 2, false)
		summary, err := m.Run(context.Background(), ArtifactCleanupOptions{
			Repositories: []string{"libs-release"},
			Pattern:      "*.tmp",
			MoveTo:       "quarantine",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), summary.Processed)
		mockClient.AssertExpectations(t)
	})

	t.Run("Directory created once per destination", func(t *testing.T) {
		sameDir := []client.ArtifactRef{
			{Repo: "libs-release", Path: "com/acme", Name: "a.tmp"},
			{Repo: "libs-release", Path: "com/acme", Name: "b.tmp"},
		}
		mockClient := new(MockArtifactoryClient)
		mockClient.On("SearchItems", "libs-release", "*.tmp").Return(sameDir, nil)
		mockClient.On("CreateDirectory", "quarantine/com/acme").Return(nil).Once()
		mockClient.On("MoveArtifact", mock.Anything, mock.Anything).Return(nil)

		m := NewArtifactCleanupManager(mockClient, 1, false)
		_, err := m.Run(context.Background(), ArtifactCleanupOptions{
			Repositories: []string{"libs-release"},
			Pattern:      "*.tmp",
			MoveTo:       "quarantine",
		})

		require.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Dry run touches nothing", func(t *testing.T) {
		mockClient := new(MockArtifactoryClient)
		mockClient.On("SearchItems", "libs-release", "*.tmp").Return(items, nil)

		m := NewArtifactCleanupManager(mockClient, 2, true)
		summary, err := m.Run(context.Background(), ArtifactCleanupOptions{
			Repositories: []string{"libs-release"},
			Pattern:      "*.tmp",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(2), summary.Processed)
		mockClient.AssertNotCalled(t, "DeleteArtifact", mock.Anything)
	})

	t.Run("Search failure aborts before any work", func(t *testing.T) {
		mockClient := new(MockArtifactoryClient)
		mockClient.On("SearchItems", "libs-release", "").Return(nil, errors.New("boom"))

		m := NewArtifactCleanupManager(mockClient, 2, false)
		_, err := m.Run(context.Background(), ArtifactCleanupOptions{
			Repositories: []string{"libs-release"},
		})

		assert.Error(t, err)
		mockClient.AssertNotCalled(t, "DeleteArtifact", mock.Anything)
	})
}
