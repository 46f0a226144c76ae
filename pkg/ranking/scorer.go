package ranking

import "github.com/defeedco/foryou/pkg/interests"

// Score sums the interest weight of every article tag with a nonzero entry.
// There is no normalization by tag count: more matching tags, larger boost.
func Score(articleTags []string, m interests.Map) float64 {
	if len(articleTags) == 0 || len(m) == 0 {
		return 0
	}

	var boost float64
	for _, tag := range interests.NormalizeSet(articleTags) {
		if w := m[tag]; w > 0 {
			boost += w
		}
	}
	return boost
}
