// Package reconcile computes create/update sets that converge declarative
// desired state onto the state currently held by the server. Repeatedly
// reconciling the same desired state against its own applied output yields
// no further work.
package reconcile

import (
	"github.com/artiops/artifactory-automation/internal/utils"
	"go.uber.org/zap"
)

// Spec describes how to reconcile one entity kind.
type Spec[E any] struct {
	// Kind names the entity kind in log messages (e.g. "condition").
	Kind string
	// Identity returns the natural identity of an entity (name or key).
	// An empty identity marks the entity as malformed.
	Identity func(E) string
	// Merge compares a desired entity against its current counterpart and
	// returns the current entity with only the differing fields overwritten
	// from desired, plus whether anything differed. The current entity's
	// system-assigned fields (ids, timestamps) are preserved so an update
	// call targets the right record.
	Merge func(desired, current E) (E, bool)
}

// Result partitions the desired entities by required server operation.
type Result[E any] struct {
	ToCreate  []E
	ToUpdate  []E
	Unchanged int
	// Skipped lists identities excluded from both output sets because of a
	// data-integrity problem (duplicate or missing identity).
	Skipped []string
}

// Diff compares desired entities against current server state.
//
// A desired entity with no identity match in current is created as-is. A
// desired entity with exactly one match is merged; if any field differs the
// whole merged record lands in ToUpdate. More than one match is an
// identity-uniqueness violation: merging into an ambiguous record risks
// corrupting the wrong one, so the entity is logged and skipped entirely.
func Diff[E any](desired, current []E, spec Spec[E]) Result[E] {
	log := utils.WithComponent("reconcile")
	if log == nil {
		log = zap.NewNop()
	}

	var result Result[E]
	for _, want := range desired {
		id := spec.Identity(want)
		if id == "" {
			log.Error("Desired entity has no identity, skipping",
				zap.String("kind", spec.Kind))
			result.Skipped = append(result.Skipped, id)
			continue
		}

		var matches []E
		for _, have := range current {
			if spec.Identity(have) == id {
				matches = append(matches, have)
			}
		}

		switch len(matches) {
		case 0:
			log.Debug("New entity",
				zap.String("kind", spec.Kind),
				zap.String("name", id))
			result.ToCreate = append(result.ToCreate, want)
		case 1:
			merged, changed := spec.Merge(want, matches[0])
			if changed {
				log.Debug("Entity changed",
					zap.String("kind", spec.Kind),
					zap.String("name", id))
				result.ToUpdate = append(result.ToUpdate, merged)
			} else {
				result.Unchanged++
			}
		default:
			log.Error("Identity is not unique in current state, skipping",
				zap.String("kind", spec.Kind),
				zap.String("name", id),
				zap.Int("matches", len(matches)))
			result.Skipped = append(result.Skipped, id)
		}
	}
	return result
}
