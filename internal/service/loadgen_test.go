package service

import (
	"context"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSizePlanner(t *testing.T) {
	t.Run("Sizes stay within bounds", func(t *testing.T) {
		p := NewSizePlanner(1000, 1_000_000, 100, 10_000, 1)
		for i := 0; i < 1000; i++ {
			n := p.Next()
			assert.GreaterOrEqual(t, n, int64(100))
			assert.LessOrEqual(t, n, int64(10_000))
		}
	})

	t.Run("Total tracks the target", func(t *testing.T) {
		p := NewSizePlanner(1000, 1_000_000, 100, 10_000, 42)
		var sum int64
		for i := 0; i < 1000; i++ {
			sum += p.Next()
		}
		// The planner steers the running average toward total/count, so the
		// sum lands within a few max-sizes of the target.
		assert.InDelta(t, 1_000_000, float64(sum), 50_000)
	})

	t.Run("Same seed, same sequence", func(t *testing.T) {
		a := NewSizePlanner(10, 10_000, 10, 5_000, 7)
		b := NewSizePlanner(10, 10_000, 10, 5_000, 7)
		for i := 0; i < 10; i++ {
			assert.Equal(t, a.Next(), b.Next())
		}
	})
}

func TestPlanUploads(t *testing.T) {
	opts := LoadOptions{
		Repository: "loadtest",
		Count:      50,
		TotalSize:  500_000,
		MinSize:    1_000,
		MaxSize:    50_000,
		Properties: map[string]string{"env": "qa", "shortsha": "0a1b2c3"},
		Seed:       1,
	}

	plans := PlanUploads(opts)
	require.Len(t, plans, 50)

	// loadtest/aa/bb/cc/dd/ee/<uuid>.bin;env=qa;shortsha=0a1b2c3
	pathRe := regexp.MustCompile(
		`^loadtest(/[0-9a-f]{2}){5}/[0-9a-f-]{36}\.bin;env=qa;shortsha=0a1b2c3$`)
	seen := make(map[string]bool)
	for _, p := range plans {
		assert.Regexp(t, pathRe, p.Path)
		assert.False(t, seen[p.Path], "duplicate path %s", p.Path)
		seen[p.Path] = true
		assert.GreaterOrEqual(t, p.Size, opts.MinSize)
		assert.LessOrEqual(t, p.Size, opts.MaxSize)
	}
}

func TestLoadGeneratorRun(t *testing.T) {
	opts := LoadOptions{
		Repository: "loadtest",
		Count:      20,
		TotalSize:  20_000,
		MinSize:    100,
		MaxSize:    2_000,
		Seed:       1,
	}

	t.Run("Uploads every planned file", func(t *testing.T) {
		mockClient := new(MockArtifactoryClient)
		mockClient.On("UploadArtifact",
			mock.MatchedBy(func(p string) bool { return strings.HasPrefix(p, "loadtest/") }),
			mock.Anything).Return(nil)

		g := NewLoadGenerator(mockClient, 4, false)
		summary, err := g.Run(context.Background(), opts)

		require.NoError(t, err)
		assert.Equal(t, 20, summary.Planned)
		assert.Equal(t, int64(20), summary.Uploaded)
		assert.Equal(t, int64(0), summary.Failed)
		assert.Greater(t, summary.Bytes, int64(0))
		mockClient.AssertNumberOfCalls(t, "UploadArtifact", 20)
	})

	t.Run("Dry run uploads nothing", func(t *testing.T) {
		mockClient := new(MockArtifactoryClient)

		g := NewLoadGenerator(mockClient, 4, true)
		summary, err := g.Run(context.Background(), opts)

		require.NoError(t, err)
		assert.Equal(t, int64(20), summary.Uploaded)
		mockClient.AssertNotCalled(t, "UploadArtifact", mock.Anything, mock.Anything)
	})
}

func TestRandomReader(t *testing.T) {
	r := newRandomReader(10_000)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Len(t, data, 10_000)
}
