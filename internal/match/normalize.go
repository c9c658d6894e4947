package match

import (
	"strings"
	"unicode"
)

// NormalizeKey folds a key into a comparable form: camelCase, PascalCase,
// snake_case, kebab-case and dotted keys all reduce to the same lowercase
// run of letters and digits.
//
//	NormalizeKey("customerID")  == "customerid"
//	NormalizeKey("customer_id") == "customerid"
//	NormalizeKey("Customer-ID") == "customerid"
func NormalizeKey(s string) string {
	return strings.Join(Tokenize(s), "")
}

// NormalizeKeyStripped is NormalizeKey with one trailing noise token removed
// (id, ids, at, utc, timestamp), so "createdAt" and "created" compare equal.
// A key made only of the noise token is kept.
func NormalizeKeyStripped(s string) string {
	tokens := Tokenize(s)
	if len(tokens) > 1 && noiseTokens[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}

	return strings.Join(tokens, "")
}

var noiseTokens = map[string]bool{
	"id":        true,
	"ids":       true,
	"at":        true,
	"utc":       true,
	"timestamp": true,
}

// Tokenize splits a key into lowercase words.
//
//	Tokenize("XMLHttpRequest") == []string{"xml", "http", "request"}
//	Tokenize("order_items.sku") == []string{"order", "items", "sku"}
//	Tokenize("customerIDs")     == []string{"customer", "ids"}
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
}

// startsToken reports whether runes[i] begins a new word.
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]

	if isSeparator(prev) {
		return false
	}

	// "orderID": lower -> upper
	if unicode.IsUpper(r) && !unicode.IsUpper(prev) {
		return true
	}

	// "XMLParser": the P after an acronym starts a word.
	if unicode.IsUpper(r) && unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
		// "IDs" stays one token.
		return !(runes[i+1] == 's' && i+2 == len(runes))
	}

	return false
}
