package reconcile

import (
	"os"
	"testing"

	"github.com/artiops/artifactory-automation/internal/utils"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	// Initialize a no-op logger for testing to prevent panics
	utils.Logger = zap.NewNop()

	os.Exit(m.Run())
}

// testPolicy is a minimal entity for exercising the reconciler.
type testPolicy struct {
	ID      int
	Name    string
	Enabled bool
	Repos   []string
}

func testSpec() Spec[testPolicy] {
	return Spec[testPolicy]{
		Kind:     "policy",
		Identity: func(p testPolicy) string { return p.Name },
		Merge: func(desired, current testPolicy) (testPolicy, bool) {
			changed := false
			if desired.Enabled != current.Enabled {
				current.Enabled = desired.Enabled
				changed = true
			}
			if desired.Repos != nil {
				if current.Repos == nil || !StringSetsEqual(desired.Repos, current.Repos) {
					current.Repos = desired.Repos
					changed = true
				}
			}
			return current, changed
		},
	}
}

func TestDiffCreatesMissingEntity(t *testing.T) {
	desired := []testPolicy{{Name: "p1", Enabled: true}}

	result := Diff(desired, nil, testSpec())

	assert.Equal(t, []testPolicy{{Name: "p1", Enabled: true}}, result.ToCreate)
	assert.Empty(t, result.ToUpdate)
	assert.Zero(t, result.Unchanged)
}

func TestDiffUpdatesChangedEntityKeepingID(t *testing.T) {
	desired := []testPolicy{{Name: "p1", Enabled: false}}
	current := []testPolicy{{ID: 7, Name: "p1", Enabled: true}}

	result := Diff(desired, current, testSpec())

	assert.Empty(t, result.ToCreate)
	assert.Equal(t, []testPolicy{{ID: 7, Name: "p1", Enabled: false}}, result.ToUpdate)
}

func TestDiffUnchangedEntity(t *testing.T) {
	desired := []testPolicy{{Name: "p1", Enabled: true}}
	current := []testPolicy{{ID: 7, Name: "p1", Enabled: true}}

	result := Diff(desired, current, testSpec())

	assert.Empty(t, result.ToCreate)
	assert.Empty(t, result.ToUpdate)
	assert.Equal(t, 1, result.Unchanged)
}

func TestDiffSetValuedFieldIgnoresOrder(t *testing.T) {
	desired := []testPolicy{{Name: "p1", Repos: []string{"a", "b"}}}
	current := []testPolicy{{ID: 3, Name: "p1", Repos: []string{"b", "a"}}}

	result := Diff(desired, current, testSpec())

	assert.Empty(t, result.ToCreate)
	assert.Empty(t, result.ToUpdate)
	assert.Equal(t, 1, result.Unchanged)
}

func TestDiffDuplicateIdentitySkipsEntity(t *testing.T) {
	desired := []testPolicy{{Name: "p1", Enabled: true}}
	current := []testPolicy{
		{ID: 1, Name: "p1", Enabled: false},
		{ID: 2, Name: "p1", Enabled: false},
	}

	result := Diff(desired, current, testSpec())

	assert.Empty(t, result.ToCreate, "ambiguous entity must not be double-created")
	assert.Empty(t, result.ToUpdate, "ambiguous entity must not be merged")
	assert.Equal(t, []string{"p1"}, result.Skipped)
}

func TestDiffMissingIdentitySkipsEntity(t *testing.T) {
	desired := []testPolicy{{Enabled: true}}

	result := Diff(desired, nil, testSpec())

	assert.Empty(t, result.ToCreate)
	assert.Empty(t, result.ToUpdate)
	assert.Len(t, result.Skipped, 1)
}

func TestDiffIsPure(t *testing.T) {
	desired := []testPolicy{
		{Name: "p1", Enabled: true},
		{Name: "p2", Enabled: false, Repos: []string{"x"}},
	}
	current := []testPolicy{
		{ID: 1, Name: "p2", Enabled: true, Repos: []string{"x"}},
	}

	first := Diff(desired, current, testSpec())
	second := Diff(desired, current, testSpec())

	assert.Equal(t, first, second)
}

func TestDiffIdempotence(t *testing.T) {
	desired := []testPolicy{
		{Name: "p1", Enabled: true, Repos: []string{"a", "b"}},
		{Name: "p2", Enabled: false},
		{Name: "p3", Enabled: true},
	}
	current := []testPolicy{
		{ID: 1, Name: "p2", Enabled: true},
		{ID: 2, Name: "p3", Enabled: true},
	}

	result := Diff(desired, current, testSpec())

	// Apply creates and updates onto current to form the new server state.
	next := []testPolicy{{ID: 2, Name: "p3", Enabled: true}}
	nextID := 10
	for _, c := range result.ToCreate {
		c.ID = nextID
		nextID++
		next = append(next, c)
	}
	next = append(next, result.ToUpdate...)

	again := Diff(desired, next, testSpec())
	assert.Empty(t, again.ToCreate)
	assert.Empty(t, again.ToUpdate)
	assert.Equal(t, len(desired), again.Unchanged)
}
