package service

import (
	"testing"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecentItemsReport(t *testing.T) {
	t.Run("Returns matching items", func(t *testing.T) {
		items := []client.ArtifactRef{
			{Repo: "libs-release", Path: "com/example", Name: "app.jar", Created: "2026-08-25T10:00:00.000Z"},
		}
		mockClient := new(MockArtifactoryClient)
		mockClient.On("SearchRecentItems", "libs-release", 7, 1000).Return(items, nil)

		report := NewRecentItemsReport(mockClient)
		got, err := report.Run("libs-release", 7, 1000)

		require.NoError(t, err)
		assert.Equal(t, items, got)
		mockClient.AssertExpectations(t)
	})

	t.Run("Non-positive days rejected before any call", func(t *testing.T) {
		mockClient := new(MockArtifactoryClient)

		report := NewRecentItemsReport(mockClient)
		_, err := report.Run("libs-release", 0, 1000)

		assert.Error(t, err)
		mockClient.AssertNotCalled(t, "SearchRecentItems", mock.Anything, mock.Anything, mock.Anything)
	})
}
