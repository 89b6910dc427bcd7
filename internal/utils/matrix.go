package utils

import (
	"sort"
	"strings"
)

// SortedMatrixParams renders a property map as Artifactory matrix
// parameters, ";k=v" pairs appended to an upload path. Keys are sorted so
// the same map always produces the same path. An empty map yields "".
func SortedMatrixParams(props map[string]string) string {
	if len(props) == 0 {
		return ""
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(";")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(props[k])
	}
	return b.String()
}
