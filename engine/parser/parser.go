// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strings"

	"github.com/nathoo/templecore/types"
)

var directionExpansions = map[string]string{
	"n":  "north",
	"s":  "south",
	"e":  "east",
	"w":  "west",
	"ne": "northeast",
	"nw": "northwest",
	"se": "southeast",
	"sw": "southwest",
	"u":  "up",
}

// Full direction names that are standalone shortcuts for "go <dir>".
var directionNames = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
	"northeast": true, "northwest": true, "southeast": true, "southwest": true,
	"up": true, "down": true,
}

var verbAliases = map[string]string{
	// Look
	"l":       "look",
	"x":       "look",
	"examine": "look",

	// Movement
	"walk":   "go",
	"move":   "go",
	"head":   "go",
	"enter":  "go",
	"travel": "go",

	// Combat
	"a":       "attack",
	"hit":     "attack",
	"strike":  "attack",
	"d":       "defend",
	"block":   "defend",
	"guard":   "defend",
	"h":       "heal",
	"restore": "heal",
	"f":       "flee",
	"run":     "flee",
	"escape":  "flee",
	"battle":  "fight",

	// Quests
	"q":            "quests",
	"journal":      "quests",
	"log":          "quests",
	"start":        "accept",
	"drop":         "abandon",
	"cancel":       "abandon",
	"qinfo":        "questinfo",
	"questdetails": "questinfo",

	// Talk / Dialogue
	"ask":   "talk",
	"speak": "talk",
	"chat":  "talk",

	// Items
	"consume": "use",
	"drink":   "use",
	"eat":     "use",

	// Miscellaneous
	"stats": "status",
	"sheet": "status",
	"inv":   "inventory",
	"i":     "inventory",
	"z":     "wait",
	"rest":  "wait",
	"?":     "help",
}

var prepositions = map[string]bool{
	"on": true, "at": true, "to": true,
	"with": true, "in": true, "from": true,
	"about": true,
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

	// Direction shortcut: bare "n", "south", etc. → go <direction>
	if len(words) == 1 {
		if dir, ok := directionExpansions[words[0]]; ok {
			return types.Intent{Verb: "go", Object: dir, Args: dir}
		}
		if directionNames[words[0]] {
			return types.Intent{Verb: "go", Object: words[0], Args: words[0]}
		}
	}

	// Handle multi-word verb phrases before general parsing.
	words = expandMultiWordVerbs(words)

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	args := strings.Join(words[1:], " ")

	// Strip articles ("the", "a", "an").
	rest := stripArticles(words[1:])

	// Use the first preposition as a delimiter between object and target.
	object, target := splitOnPreposition(rest)

	return types.Intent{
		Verb:   verb,
		Object: object,
		Target: target,
		Args:   args,
	}
}

// expandMultiWordVerbs handles "look at", "talk to", "quest info" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "look":
		if words[1] == "at" || words[1] == "around" {
			return append([]string{"look"}, words[2:]...)
		}
	case "talk", "speak", "chat":
		if words[1] == "to" || words[1] == "with" {
			return append([]string{"talk"}, words[2:]...)
		}
	case "quest":
		if words[1] == "info" {
			return append([]string{"questinfo"}, words[2:]...)
		}
	case "run":
		if words[1] == "away" {
			return append([]string{"flee"}, words[2:]...)
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
