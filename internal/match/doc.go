// Package match provides name normalization, Levenshtein distance calculation,
// structural compatibility scoring, and candidate ranking for node matching.
//
// Key functions:
//   - NormalizeName: folds a node name for fuzzy comparison
//   - CanonicalName: strips rig prefixes and extracts the side marker
//   - Levenshtein: computes edit distance between strings
//   - NameScore: combined name similarity of two node names
//   - Matcher.Match: ranks target nodes for a source node
package match
