package util

import "strings"

// HeaderIndex maps normalized column names to their positions in a header row.
// Names are trimmed and compared case-insensitively; spaces equal underscores.
func HeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[NormalizeColumn(h)] = i
	}
	return idx
}

// NormalizeColumn folds a column name to its lookup key.
func NormalizeColumn(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ToLower(s)
}
