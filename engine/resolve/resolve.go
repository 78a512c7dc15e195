// Package resolve maps names typed by the player to NPC and quest IDs.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/templecore/engine/quest"
	"github.com/nathoo/templecore/engine/state"
)

// AmbiguityError indicates multiple candidates matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates nothing matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("you don't see %q here", e.Name)
}

// NPC resolves a name to the id of an NPC in the given room.
func NPC(defs *state.Defs, roomID, name string) (string, error) {
	nameLower := strings.ToLower(strings.TrimSpace(name))

	var matches []string
	for _, id := range state.NPCsInRoom(defs, roomID) {
		if matchesName(id, defs.NPCs[id].Name, nameLower) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Name: name}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguityError{Name: name, Candidates: matches}
	}
}

// QuestSource lists the quests a player can refer to by name.
type QuestSource interface {
	Quest(id string) (*quest.Quest, bool)
	AvailableQuests() []*quest.Quest
	ActiveQuests() []*quest.Quest
	CompletedQuests() []*quest.Quest
}

// Quest resolves a quest id or title to a quest id. Exact ids win; titles
// match case-insensitively, in full or by any one word.
func Quest(src QuestSource, name string) (string, error) {
	name = strings.TrimSpace(name)
	if _, ok := src.Quest(name); ok {
		return name, nil
	}

	nameLower := strings.ToLower(name)
	seen := map[string]bool{}
	var matches []string
	for _, group := range [][]*quest.Quest{src.ActiveQuests(), src.AvailableQuests(), src.CompletedQuests()} {
		for _, q := range group {
			if seen[q.ID()] {
				continue
			}
			if matchesName(q.ID(), q.Title(), nameLower) {
				seen[q.ID()] = true
				matches = append(matches, q.ID())
			}
		}
	}
	sort.Strings(matches)

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Name: name}
	case 1:
		return matches[0], nil
	default:
		// A full title match beats word matches.
		for _, id := range matches {
			if q, _ := src.Quest(id); strings.ToLower(q.Title()) == nameLower {
				return id, nil
			}
		}
		return "", &AmbiguityError{Name: name, Candidates: matches}
	}
}

// matchesName checks a display name or id against the query
// (case-insensitive). Supports exact match, word-based partial match and
// underscore-normalised id match.
func matchesName(id, displayName, nameLower string) bool {
	if nameLower == "" {
		return false
	}
	displayLower := strings.ToLower(displayName)
	if displayLower == nameLower {
		return true
	}
	// e.g. "samuel" matches "Gate Keeper Samuel".
	for _, word := range strings.Fields(displayLower) {
		if word == nameLower {
			return true
		}
	}
	idLower := strings.ToLower(id)
	if idLower == nameLower {
		return true
	}
	// "gate keeper samuel" matches id "gate_keeper_samuel".
	return strings.ReplaceAll(nameLower, " ", "_") == idLower
}
