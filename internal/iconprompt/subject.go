package iconprompt

import (
	"slices"
	"strings"

	"github.com/lumenlearn/lumen/internal/textnorm"
)

// titleDelimiters end a subject phrase.
var titleDelimiters = []string{"—", "–", "-", ":", ",", "(", ")", "|", "/"}

type titleToken struct {
	raw   string
	norm  string
	delim bool
}

func tokenizeTitle(title string) []titleToken {
	spaced := title
	for _, d := range titleDelimiters {
		spaced = strings.ReplaceAll(spaced, d, " "+d+" ")
	}

	var tokens []titleToken
	for _, field := range strings.Fields(spaced) {
		tok := titleToken{raw: field, norm: textnorm.Normalize(field), delim: slices.Contains(titleDelimiters, field)}
		if !tok.delim && tok.norm == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// extractSubject finds the first keyword token in title and returns the words
// after it up to the next delimiter, with the game name and trailing
// connectors removed. It returns "" when nothing usable follows the keyword.
func extractSubject(title string, keywords []string, g game) string {
	tokens := tokenizeTitle(title)

	start := -1
	for i, tok := range tokens {
		if !tok.delim && slices.Contains(keywords, tok.norm) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}

	var phrase []titleToken
	for _, tok := range tokens[start:] {
		if tok.delim {
			break
		}
		phrase = append(phrase, tok)
	}

	phrase = stripGameName(phrase, g)
	for len(phrase) > 0 && subjectConnectors[phrase[len(phrase)-1].norm] {
		phrase = phrase[:len(phrase)-1]
	}
	for len(phrase) > 0 && subjectConnectors[phrase[0].norm] {
		phrase = phrase[1:]
	}

	words := make([]string, len(phrase))
	for i, tok := range phrase {
		words[i] = strings.Trim(tok.raw, `"'«»“”.!?¡¿`)
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

// stripGameName cuts phrase at the first occurrence of any of g's aliases.
func stripGameName(phrase []titleToken, g game) []titleToken {
	cut := len(phrase)
	for _, alias := range append(append([]string(nil), g.aliases...), g.ambiguous...) {
		words := strings.Fields(alias)
		for i := 0; i+len(words) <= len(phrase); i++ {
			if matchesAt(phrase, i, words) && i < cut {
				cut = i
				break
			}
		}
	}
	return phrase[:cut]
}

func matchesAt(phrase []titleToken, at int, words []string) bool {
	for j, w := range words {
		if phrase[at+j].norm != w {
			return false
		}
	}
	return true
}
