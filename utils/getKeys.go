package utils

import (
	"sort"
)

// GetKeys returns the keys of m sorted, handy for error messages.
func GetKeys[T any](m map[string]T) []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
