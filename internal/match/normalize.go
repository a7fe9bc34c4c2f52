package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Side is the left/right marker carried by symmetric bone names.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

// NameKey is the canonical form of a node name.
type NameKey struct {
	// Base is the normalized name without rig prefixes and side markers.
	Base string
	Side Side
}

// rigPrefixes are leading tokens that exporters put in front of bone names
// ("mixamorig:Hips", "J_Bip_C_Hips", "Bip01 L Hand", "DEF-upper_arm.L").
var rigPrefixes = map[string]bool{
	"mixamorig":  true,
	"mixamorig1": true,
	"valvebiped": true,
	"bip":        true,
	"bip01":      true,
	"bip001":     true,
	"j":          true,
	"def":        true,
	"org":        true,
	"mch":        true,
	"sec":        true,
}

// NormalizeName normalizes a node name for fuzzy matching.
// The normalization pipeline:
// 1. Unicode NFC composition.
// 2. Tokenize CamelCase and separators (_, -, ., :, space).
// 3. Case-fold and join.
func NormalizeName(s string) string {
	return strings.Join(TokenizeName(s), "")
}

// TokenizeName splits a name into normalized, case-folded tokens.
func TokenizeName(s string) []string {
	// Casers keep state; one per call keeps this safe for concurrent use.
	folder := cases.Fold()

	tokens := tokenizeCamelCase(norm.NFC.String(s))
	for i, t := range tokens {
		tokens[i] = folder.String(t)
	}

	return tokens
}

// CanonicalName strips known rig prefixes and extracts a side marker.
// Examples:
//   - "mixamorig:LeftHand" -> {hand, left}
//   - "J_Bip_R_UpperArm"   -> {upperarm, right}
//   - "upper_arm.L"        -> {upperarm, left}
//   - "J_Bip_C_Hips"       -> {hips, none}
func CanonicalName(s string) NameKey {
	tokens := TokenizeName(s)

	for len(tokens) > 1 && rigPrefixes[tokens[0]] {
		tokens = tokens[1:]
	}

	var (
		key  NameKey
		kept []string
	)

	for _, t := range tokens {
		switch t {
		case "l", "left":
			key.Side = SideLeft
		case "r", "right":
			key.Side = SideRight
		case "c", "center":
		default:
			kept = append(kept, t)
		}
	}

	key.Base = strings.Join(kept, "")

	return key
}

// tokenizeCamelCase splits a CamelCase or camelCase string into tokens.
// Examples:
//   - "LeftUpperArm" -> ["Left", "Upper", "Arm"]
//   - "mixamorig:Hips" -> ["mixamorig", "Hips"]
//   - "Bip01 L Hand" -> ["Bip01", "L", "Hand"]
//   - "HTMLHand" -> ["HTML", "Hand"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string

	var current strings.Builder

	runes := []rune(s)
	for i := range runes {
		r := runes[i]

		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && shouldStartNewToken(runes, i) && current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// isSeparator returns true if the rune separates name tokens.
func isSeparator(r rune) bool {
	switch r {
	case '_', '-', ' ', '.', ':', '|':
		return true
	}

	return unicode.IsSpace(r)
}

// shouldStartNewToken determines if a new token should start at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r := runes[i]
	prevRune := runes[i-1]
	isUpper := unicode.IsUpper(r)
	isPrevUpper := unicode.IsUpper(prevRune)

	// "leftHand" -> split before 'H'
	if isUpper && !isPrevUpper && !isSeparator(prevRune) {
		return true
	}

	// "HTMLHand" -> split before 'H' of "Hand"
	hasNextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

	return isUpper && isPrevUpper && hasNextLower
}
