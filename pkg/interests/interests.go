package interests

import (
	"maps"
	"math"
	"strings"
)

// Map holds the learned weight of each normalized keyword.
type Map map[string]float64

// Clone returns an independent copy. A nil map clones to an empty one.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	maps.Copy(out, m)
	return out
}

// Weight returns the stored weight for the keyword, normalizing it first.
func (m Map) Weight(keyword string) float64 {
	return m[Normalize(keyword)]
}

// Normalize lower-cases and trims a keyword.
func Normalize(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

// NormalizeSet normalizes tags and drops empty and duplicate entries,
// preserving first-seen order.
func NormalizeSet(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		n := Normalize(tag)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}

	return out
}

// sanitize drops entries that can't be a valid weight and clamps the rest.
// Backends call it on load so corrupt rows never reach the scorer.
// Keys that normalize to the same keyword keep the largest weight.
func sanitize(in Map, maxWeight float64) Map {
	out := make(Map, len(in))
	for k, w := range in {
		k = Normalize(k)
		if k == "" || math.IsNaN(w) || math.IsInf(w, 0) {
			continue
		}
		w = clamp(w, maxWeight)
		if prev, ok := out[k]; ok && prev >= w {
			continue
		}
		out[k] = w
	}
	return out
}

func clamp(w, maxWeight float64) float64 {
	return math.Max(0, math.Min(maxWeight, w))
}
