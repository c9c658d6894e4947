package mapping

import (
	"fmt"
	"slices"

	"transmute/engine"
	"transmute/internal/common"
	"transmute/internal/diagnostic"
	"transmute/internal/match"
)

// suggestionMinScore is the lowest score a key needs to be offered as a
// "did you mean" suggestion.
const suggestionMinScore = 0.5

// SuggestConfig tunes Suggest.
type SuggestConfig struct {
	// MinScore is the minimum similarity for auto-accepting a match.
	MinScore float64
	// MinGap is the minimum lead of the best candidate over the runner-up.
	MinGap float64
	// AmbiguityThreshold marks the two best candidates as ambiguous.
	AmbiguityThreshold float64
	// MaxCandidates caps the suggestions attached to warnings.
	MaxCandidates int
}

// DefaultSuggestConfig returns the default thresholds.
func DefaultSuggestConfig() SuggestConfig {
	return SuggestConfig{
		MinScore:           match.DefaultMinScore,
		MinGap:             match.DefaultMinGap,
		AmbiguityThreshold: match.DefaultAmbiguityThreshold,
		MaxCandidates:      3,
	}
}

// Suggest proposes a schema copying source keys into the given target keys.
// Confident matches become rules in target order; every other target gets a
// warning listing its best candidates.
func Suggest(sourceKeys, targetKeys []string, cfg SuggestConfig) (*SchemaFile, *diagnostic.Diagnostics) {
	sf := &SchemaFile{Version: CurrentVersion}
	diags := &diagnostic.Diagnostics{}

	for _, target := range targetKeys {
		candidates := match.RankCandidates(target, sourceKeys)

		if best := candidates.HighConfidence(cfg.MinScore, cfg.MinGap); best != nil {
			sf.Rules = append(sf.Rules, RuleDef{To: target, From: StringOrArray{best.SourceKey}})

			if best.SourceKey != target {
				diags.AddInfo("auto_matched",
					fmt.Sprintf("%s -> %s (score %.2f)", best.SourceKey, target, best.Score), "", target)
			}

			continue
		}

		top := candidates.AboveThreshold(suggestionMinScore).Top(cfg.MaxCandidates).Keys()

		var (
			code   string
			reason string
		)

		switch {
		case len(candidates) == 0:
			code, reason = "unmapped_target", "no source keys to match"
		case candidates.IsAmbiguous(cfg.AmbiguityThreshold) && candidates[0].Score >= cfg.MinScore:
			code = "ambiguous_match"
			reason = fmt.Sprintf("top candidates %q (%.2f) and %q (%.2f) are too close",
				candidates[0].SourceKey, candidates[0].Score, candidates[1].SourceKey, candidates[1].Score)
		default:
			code = "unmapped_target"
			reason = fmt.Sprintf("best match %q (%.2f) below threshold %.2f",
				candidates[0].SourceKey, candidates[0].Score, cfg.MinScore)
		}

		diags.AddWarning(code, reason, "", target, top...)
	}

	return sf, diags
}

// SampleKeys lists the keys of rec and, for nested records, their dotted
// paths, sorted.
func SampleKeys(rec engine.Record) []string {
	var keys []string

	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for _, k := range common.SortedKeys(m) {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}

			keys = append(keys, path)

			if nested, ok := asMap(m[k]); ok {
				walk(path, nested)
			}
		}
	}

	walk("", rec)
	slices.Sort(keys)

	return keys
}
