// Package similarity implements the duplicate guard for context capture.
// The score is a heuristic, not a guarantee: false negatives and false
// positives are acceptable, and the design favors explainability over
// precision. See docs/ARCHITECTURE.md § Similarity Guard.
package similarity

import (
	"strings"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// BlockThreshold is the score at or above which an insert is blocked by
// default. Callers may force the insert past the guard.
const BlockThreshold = 0.7

// RecentWindow bounds how many of a workspace's most recent items each
// check considers.
const RecentWindow = 100

// minTokenLen excludes short words from the Jaccard token sets.
const minTokenLen = 2

// Match reports the most similar existing item found by a check.
type Match struct {
	Item  *types.ContextItem
	Score float64
}

// Blocks reports whether the match is strong enough to block an insert.
func (m *Match) Blocks() bool {
	return m != nil && m.Score >= BlockThreshold
}

// Percent returns the score on a 0-100 scale for reporting.
func (m *Match) Percent() int {
	return int(m.Score * 100)
}

// recentLister is the slice of the store the guard needs.
type recentLister interface {
	RecentContext(workspaceID, itemType string, limit int) ([]*types.ContextItem, error)
}

// Check scans the workspace's most recent items (optionally narrowed by
// type) for content similar to the candidate text. Returns the best match
// at or above threshold, or nil when nothing comes close.
func Check(store recentLister, workspaceID, itemType, content string, threshold float64) (*Match, error) {
	items, err := store.RecentContext(workspaceID, itemType, RecentWindow)
	if err != nil {
		return nil, err
	}

	var best *Match
	for _, item := range items {
		score := Score(content, item.Content)
		if score < threshold {
			continue
		}
		if best == nil || score > best.Score {
			best = &Match{Item: item, Score: score}
		}
	}
	return best, nil
}

// Score computes the similarity of two texts in [0, 1]. Rules apply in
// order, short-circuiting on the first hit:
//
//  1. normalized strings equal: 1.0
//  2. one normalized string contains the other: len(shorter)/len(longer)
//  3. Jaccard coefficient over word sets, words longer than two characters
func Score(a, b string) float64 {
	na, nb := normalize(a), normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		shorter, longer := len(na), len(nb)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return float64(shorter) / float64(longer)
	}

	return jaccard(tokenize(na), tokenize(nb))
}

// normalize lowercases, trims, and collapses internal whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// tokenize splits normalized text into the set of words longer than two
// characters.
func tokenize(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		if len(w) > minTokenLen {
			set[w] = true
		}
	}
	return set
}

// jaccard computes |intersection| / |union| of two word sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
