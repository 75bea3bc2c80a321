// Package iconprompt chooses an image prompt for a study module.
//
// Modules are classified by an ordered list of keyword rules evaluated
// against the normalized module text. The first matching rule wins, so a
// programming language beats a game and a game beats a generic concept.
package iconprompt

import (
	"fmt"
	"strings"

	"github.com/lumenlearn/lumen/internal/textnorm"
)

// Kind names the category a module was classified into.
type Kind string

// Classification kinds, in rule priority order.
const (
	KindProgrammingLanguage Kind = "programming-language"
	KindGameCharacter       Kind = "game-character"
	KindGameMap             Kind = "game-map"
	KindGameItem            Kind = "game-item"
	KindGame                Kind = "game"
	KindConcept             Kind = "concept"
	KindFallback            Kind = "fallback"
)

const iconStyle = "Modern, cute 3D icon, simple and clean, centered on a plain pastel background, no text."

// fallbackPrompt is used when no rule matches.
const fallbackPrompt = "An open notebook with a pencil and a small lightbulb, representing studying. " + iconStyle

// Subject is the text a module is classified on.
type Subject struct {
	Title       string
	Description string
	Topic       string
	Subtopics   []string
}

// Classification is the outcome of Classify.
type Classification struct {
	Kind Kind
	// Subject is the extracted phrase the prompt is about: the language,
	// game, character, map, item or concept name. Empty for fallback.
	Subject string
	// Game is set for the game kinds.
	Game   string
	Prompt string
}

type input struct {
	subject Subject
	text    string
}

type rule struct {
	kind  Kind
	match func(in input) (Classification, bool)
}

// rules are evaluated in order; the order is part of the contract.
var rules = []rule{
	{KindProgrammingLanguage, matchLanguage},
	{KindGameCharacter, matchGameSubject(KindGameCharacter, characterKeywords, characterPrompt)},
	{KindGameMap, matchGameSubject(KindGameMap, mapKeywords, mapPrompt)},
	{KindGameItem, matchGameSubject(KindGameItem, itemKeywords, itemPrompt)},
	{KindGame, matchGame},
	{KindConcept, matchConcept},
}

// Classify returns the first matching classification for s, or a fallback.
func Classify(s Subject) Classification {
	parts := append([]string{s.Title, s.Description, s.Topic}, s.Subtopics...)
	in := input{subject: s, text: textnorm.Normalize(strings.Join(parts, " "))}

	for _, r := range rules {
		if c, ok := r.match(in); ok {
			return c
		}
	}
	return Classification{Kind: KindFallback, Prompt: fallbackPrompt}
}

func matchLanguage(in input) (Classification, bool) {
	for _, lang := range languages {
		if containsAny(in.text, lang.phrases) ||
			(containsAny(in.text, lang.ambiguous) && containsAny(in.text, programmingContext)) {
			return Classification{
				Kind:    KindProgrammingLanguage,
				Subject: lang.name,
				Prompt:  fmt.Sprintf("The %s programming language logo as a mascot-like emblem. %s", lang.name, iconStyle),
			}, true
		}
	}
	return Classification{}, false
}

func detectGame(text string) (game, bool) {
	for _, g := range games {
		if containsAny(text, g.aliases) ||
			(containsAny(text, g.ambiguous) && hasGameContext(text)) {
			return g, true
		}
	}
	return game{}, false
}

func hasGameContext(text string) bool {
	return containsAny(text, gameContext) ||
		containsAny(text, characterKeywords) ||
		containsAny(text, mapKeywords) ||
		containsAny(text, itemKeywords)
}

func matchGameSubject(kind Kind, keywords []string, prompt func(subject, gameName string) string) func(in input) (Classification, bool) {
	return func(in input) (Classification, bool) {
		g, ok := detectGame(in.text)
		if !ok {
			return Classification{}, false
		}
		if !containsAny(in.text, keywords) {
			return Classification{}, false
		}

		subject := extractSubject(in.subject.Title, keywords, g)
		return Classification{
			Kind:    kind,
			Subject: subject,
			Game:    g.name,
			Prompt:  prompt(subject, g.name),
		}, true
	}
}

func characterPrompt(subject, gameName string) string {
	if subject == "" {
		return fmt.Sprintf("A chibi-style character from the video game %s. %s", gameName, iconStyle)
	}
	return fmt.Sprintf("A chibi-style portrait of %s, the character from the video game %s. %s", subject, gameName, iconStyle)
}

func mapPrompt(subject, gameName string) string {
	if subject == "" {
		return fmt.Sprintf("A tiny isometric diorama of a map from the video game %s. %s", gameName, iconStyle)
	}
	return fmt.Sprintf("A tiny isometric diorama of the %s map from the video game %s. %s", subject, gameName, iconStyle)
}

func itemPrompt(subject, gameName string) string {
	if subject == "" {
		return fmt.Sprintf("A glowing collectible item from the video game %s. %s", gameName, iconStyle)
	}
	return fmt.Sprintf("The %s item from the video game %s, shown as a glowing collectible. %s", subject, gameName, iconStyle)
}

func matchGame(in input) (Classification, bool) {
	g, ok := detectGame(in.text)
	if !ok {
		return Classification{}, false
	}
	return Classification{
		Kind:    KindGame,
		Subject: g.name,
		Game:    g.name,
		Prompt:  fmt.Sprintf("A game controller decorated with the visual style of the video game %s. %s", g.name, iconStyle),
	}, true
}

func matchConcept(in input) (Classification, bool) {
	for _, c := range concepts {
		if containsAny(in.text, c.phrases) {
			return Classification{
				Kind:    KindConcept,
				Subject: c.name,
				Prompt:  fmt.Sprintf("%s, representing %s. %s", capitalize(c.metaphor), c.name, iconStyle),
			}, true
		}
	}
	return Classification{}, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
