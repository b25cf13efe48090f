package registry

import "strings"

// ClosestName returns the candidate nearest to name, or "" when nothing is
// within editing distance 2. Matching ignores case so hints still fire for
// casing mistakes, but the returned candidate keeps its declared casing.
func ClosestName(name string, candidates []string) string {
	best := ""
	bestDist := 3
	lower := strings.ToLower(name)
	for _, candidate := range candidates {
		if candidate == name {
			continue
		}
		dist := levenshtein(lower, strings.ToLower(candidate))
		if dist < bestDist {
			best = candidate
			bestDist = dist
		}
	}
	return best
}

// levenshtein computes the edit distance between two strings. Used for
// closest-match hints on unknown derive and method names.
func levenshtein(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}
	return matrix[len(s1)][len(s2)]
}
