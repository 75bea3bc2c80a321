// Package textnorm normalizes free text for keyword matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// symbolWords keeps language names that are mostly punctuation from being
// erased by Normalize.
var symbolWords = strings.NewReplacer(
	"c++", " cpp ",
	"c#", " csharp ",
	".net", " dotnet ",
	"node.js", " nodejs ",
)

// Normalize lower-cases s, strips accents and collapses every run of
// non-alphanumeric characters to a single space.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		stripped = strings.ToLower(s)
	}
	stripped = symbolWords.Replace(stripped)

	fields := strings.FieldsFunc(stripped, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}

// Tokens returns the normalized words of s.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}

// ContainsPhrase reports whether the normalized text contains phrase as a
// whole-word sequence. Both arguments must already be normalized.
func ContainsPhrase(text, phrase string) bool {
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}
