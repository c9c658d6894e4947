package match

import (
	"sort"
)

// Confidence thresholds for auto-accepting matches.
const (
	// DefaultMinScore is the minimum score for auto-acceptance.
	DefaultMinScore = 0.8
	// DefaultMinGap is the minimum score gap between the two best candidates.
	DefaultMinGap = 0.15
	// DefaultAmbiguityThreshold is the score difference that marks ambiguity.
	DefaultAmbiguityThreshold = 0.1
)

// Candidate is a source key proposed for a target key.
type Candidate struct {
	SourceKey string
	TargetKey string

	// Score is the key similarity in [0, 1].
	Score float64

	NormalizedSource string
	NormalizedTarget string
}

// CandidateList is a ranked list of candidates, best first.
type CandidateList []Candidate

// RankCandidates scores every source key against target. Exact key matches
// rank first among equal scores.
func RankCandidates(target string, sourceKeys []string) CandidateList {
	targetNorm := NormalizeKey(target)

	candidates := make(CandidateList, 0, len(sourceKeys))
	for _, key := range sourceKeys {
		candidates = append(candidates, Candidate{
			SourceKey:        key,
			TargetKey:        target,
			Score:            KeySimilarity(key, target),
			NormalizedSource: NormalizeKey(key),
			NormalizedTarget: targetNorm,
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface: score descending, exact matches first on
// ties, then source key for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	ei, ej := c[i].SourceKey == c[i].TargetKey, c[j].SourceKey == c[j].TargetKey
	if ei != ej {
		return ei
	}

	return c[i].SourceKey < c[j].SourceKey
}

// Top returns the n best candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Keys returns the source keys in rank order.
func (c CandidateList) Keys() []string {
	keys := make([]string, len(c))
	for i, cand := range c {
		keys[i] = cand.SourceKey
	}

	return keys
}

// Best returns the best candidate, or nil if the list is empty.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// IsAmbiguous returns true if the two best candidates are within threshold.
func (c CandidateList) IsAmbiguous(threshold float64) bool {
	if len(c) < 2 {
		return false
	}

	return c[0].Score-c[1].Score < threshold
}

// AboveThreshold returns the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// HighConfidence returns the best candidate when it scores at least minScore
// and leads the runner-up by at least minGap. An exact key match is always
// accepted.
func (c CandidateList) HighConfidence(minScore, minGap float64) *Candidate {
	best := c.Best()
	if best == nil {
		return nil
	}

	if best.SourceKey == best.TargetKey {
		return best
	}

	if best.Score < minScore {
		return nil
	}

	if len(c) > 1 && c[0].Score-c[1].Score < minGap {
		return nil
	}

	return best
}
