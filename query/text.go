package query

import "strings"

var diacriticFolder = strings.NewReplacer(
	"á", "a",
	"é", "e",
	"í", "i",
	"ó", "o",
	"ú", "u",
	"ñ", "n",
)

// NormalizeText lowercases s and folds the accented vowels and ñ used in the
// catalog to their ASCII base letter. Every text comparison in this package
// goes through it, and the SQL backend stores its output in shadow columns so
// both backends agree on what matches.
func NormalizeText(s string) string {
	return diacriticFolder.Replace(strings.ToLower(s))
}

// ContainsNormalized reports whether needle is a substring of haystack after
// both are normalized.
func ContainsNormalized(haystack, needle string) bool {
	return strings.Contains(NormalizeText(haystack), NormalizeText(needle))
}

// EqualNormalized reports whether a and b are equal after normalization.
func EqualNormalized(a, b string) bool {
	return NormalizeText(a) == NormalizeText(b)
}
