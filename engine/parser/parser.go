// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strconv"
	"strings"

	"github.com/nathoo/fieldmed/types"
)

var verbAliases = map[string]string{
	// Advance time
	"d":       "day",
	"next":    "day",
	"wait":    "day",
	"z":       "day",
	"advance": "day",

	// Combat
	"hit":    "combat",
	"wound":  "combat",
	"shoot":  "combat",
	"attack": "combat",

	// Assignment
	"treat":  "assign",
	"heal":   "assign",
	"admit":  "assign",
	"attend": "assign",

	"dismiss":   "release",
	"discharge": "release",
	"unassign":  "release",

	// Forecast
	"forecast": "preview",
	"plan":     "preview",

	// Inspection
	"show":    "status",
	"x":       "status",
	"examine": "status",
	"inspect": "status",
	"look":    "status",
	"l":       "status",

	"ls":   "roster",
	"list": "roster",
	"who":  "roster",

	"log":     "history",
	"journal": "history",

	"types":    "catalog",
	"injuries": "catalog",
}

var prepositions = map[string]bool{
	"to": true, "with": true, "for": true,
	"on": true, "by": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))

	// Handle multi-word verb phrases before general parsing.
	words = expandMultiWordVerbs(words)

	verb := words[0]
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}
	rest := stripArticles(words[1:])

	object, target := splitOnPreposition(rest)
	if target == "" {
		object, target = splitTrailingNumber(rest)
	}

	// "treat ana with reyes" names the patient first.
	if words[0] == "treat" || words[0] == "heal" || words[0] == "attend" {
		if target != "" && !isNumber(target) {
			object, target = target, object
		}
	}

	return types.Intent{
		Verb:   verb,
		Object: object,
		Target: target,
	}
}

// expandMultiWordVerbs handles "next day", "look at", "send home" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "next", "end":
		if words[1] == "day" {
			return append([]string{"day"}, words[2:]...)
		}
	case "look":
		if words[1] == "at" {
			return append([]string{"status"}, words[2:]...)
		}
	case "send":
		if words[1] == "home" {
			return append([]string{"release"}, words[2:]...)
		}
	case "take":
		if words[1] == "fire" || words[1] == "hits" {
			return append([]string{"combat"}, words[2:]...)
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// Words before the preposition become the object, words after become the target.
// If no preposition is found, all words become the object.
func splitOnPreposition(words []string) (object, target string) {
	for i, w := range words {
		if prepositions[w] {
			object = strings.Join(words[:i], " ")
			target = strings.Join(words[i+1:], " ")
			return object, target
		}
	}
	return strings.Join(words, " "), ""
}

// splitTrailingNumber turns "ana kovac 4" into ("ana kovac", "4"). A lone
// number stays the object, as in "day 3".
func splitTrailingNumber(words []string) (object, target string) {
	if n := len(words); n > 1 && isNumber(words[n-1]) {
		return strings.Join(words[:n-1], " "), words[n-1]
	}
	return strings.Join(words, " "), ""
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
