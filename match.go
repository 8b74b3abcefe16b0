// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

package sampler

// Match reports whether name matches the glob pattern. Two metacharacters
// are recognized: '?' matches exactly one character, and '*' matches zero
// or more characters (consecutive '*'s behave as a single one). There is
// no escape syntax: '?' and '*' are always meta. An empty pattern matches
// only the empty name.
func Match(pattern, name string) bool {
	// Classic bounded backtracking wildcard match. Worst case is
	// O(len(pattern) * len(name)), acceptable given stat names are capped
	// at MaxNameLength bytes.
	p, n := 0, 0
	starP, starN := -1, 0

	for n < len(name) {
		switch {
		case p < len(pattern) && pattern[p] == '?':
			p++
			n++
		case p < len(pattern) && pattern[p] == name[n]:
			p++
			n++
		case p < len(pattern) && pattern[p] == '*':
			starP = p
			starN = n
			p++
		case starP >= 0:
			p = starP + 1
			starN++
			n = starN
		default:
			return false
		}
	}

	for p < len(pattern) && pattern[p] == '*' {
		p++
	}

	return p == len(pattern)
}

// MatchAny reports whether name matches at least one pattern in patterns
// (OR semantics, per the filter evaluation rule).
func MatchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if Match(p, name) {
			return true
		}
	}
	return false
}
