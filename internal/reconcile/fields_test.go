package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringSetsEqual(t *testing.T) {
	t.Run("order does not matter", func(t *testing.T) {
		assert.True(t, StringSetsEqual([]string{"a", "b"}, []string{"b", "a"}))
	})

	t.Run("different lengths", func(t *testing.T) {
		assert.False(t, StringSetsEqual([]string{"a"}, []string{"a", "b"}))
	})

	t.Run("different elements", func(t *testing.T) {
		assert.False(t, StringSetsEqual([]string{"a", "b"}, []string{"a", "c"}))
	})

	t.Run("both empty", func(t *testing.T) {
		assert.True(t, StringSetsEqual(nil, []string{}))
	})

	t.Run("duplicates count", func(t *testing.T) {
		assert.False(t, StringSetsEqual([]string{"a", "a"}, []string{"a", "b"}))
	})
}

type testWaiver struct {
	ID            string
	Justification string
}

func waiverKey(w testWaiver) string { return w.ID }

func waiverDiffers(a, b testWaiver) bool { return a.Justification != b.Justification }

func TestKeyedListChanged(t *testing.T) {
	t.Run("identical lists", func(t *testing.T) {
		list := []testWaiver{{ID: "w1", Justification: "ok"}}
		assert.False(t, KeyedListChanged(list, list, waiverKey, waiverDiffers))
	})

	t.Run("new sub-item forces replacement", func(t *testing.T) {
		desired := []testWaiver{{ID: "w2"}}
		current := []testWaiver{{ID: "w1"}}
		assert.True(t, KeyedListChanged(desired, current, waiverKey, waiverDiffers))
	})

	t.Run("duplicate key in current forces replacement", func(t *testing.T) {
		desired := []testWaiver{{ID: "w1"}}
		current := []testWaiver{{ID: "w1"}, {ID: "w1"}}
		assert.True(t, KeyedListChanged(desired, current, waiverKey, waiverDiffers))
	})

	t.Run("any field difference forces replacement", func(t *testing.T) {
		desired := []testWaiver{{ID: "w1", Justification: "new reason"}}
		current := []testWaiver{{ID: "w1", Justification: "old reason"}}
		assert.True(t, KeyedListChanged(desired, current, waiverKey, waiverDiffers))
	})
}
