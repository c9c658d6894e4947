// Package match ranks source keys as candidates for target keys.
//
// It powers schema suggestion: given the keys of a sample source record and
// the keys a target should have, it proposes direct mappings for the pairs
// whose names are clearly related ("first_name" -> "firstName",
// "customerID" -> "customer_id") and reports the rest as ambiguous or
// unmatched.
//
// Key functions:
//   - NormalizeKey: folds case and separators so naming styles compare equal
//   - Levenshtein: edit distance over runes
//   - RankCandidates: scores every source key against one target key
package match
