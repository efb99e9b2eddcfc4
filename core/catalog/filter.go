package catalog

import "strings"

// Filter returns the tutorials whose title or description contains q.Search (case-insensitively)
// and whose category equals q.Category. An empty search or the "all" category match everything.
// Source order is kept and the input slice is left untouched.
func Filter(tutorials []Tutorial, q Query) []Tutorial {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	result := make([]Tutorial, 0, len(tutorials))
	for _, t := range tutorials {
		if !q.Category.isWildcard() && t.Category != q.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		result = append(result, t)
	}
	return result
}
