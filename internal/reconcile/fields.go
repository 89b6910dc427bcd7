package reconcile

// StringSetsEqual compares two string slices as unordered sets, so
// reordering the elements of a set-valued field never triggers a spurious
// update.
func StringSetsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, s := range a {
		counts[s]++
	}
	for _, s := range b {
		counts[s]--
		if counts[s] < 0 {
			return false
		}
	}
	return true
}

// KeyedListChanged compares a nested sub-collection whose items carry their
// own identity (e.g. waivers keyed by id). It reports true when the parent
// collection must be replaced wholesale with desired's copy: a desired item
// with zero or multiple key matches in current, or any matched item whose
// fields differ. Element-level merging of sub-collections is never
// attempted.
func KeyedListChanged[S any](desired, current []S, key func(S) string, differs func(desired, current S) bool) bool {
	for _, want := range desired {
		var matches []S
		for _, have := range current {
			if key(have) == key(want) {
				matches = append(matches, have)
			}
		}
		if len(matches) != 1 {
			return true
		}
		if differs(want, matches[0]) {
			return true
		}
	}
	return false
}
