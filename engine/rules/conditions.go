// Package rules evaluates the conditions that gate dialogue topics.
package rules

import (
	"github.com/nathoo/templecore/engine/quest"
	"github.com/nathoo/templecore/engine/state"
	"github.com/nathoo/templecore/types"
)

// QuestLookup finds a player's quest instance by id.
type QuestLookup interface {
	Quest(id string) (*quest.Quest, bool)
}

// Context is what conditions are evaluated against.
type Context struct {
	Character *state.Character
	Quests    QuestLookup
}

// EvalCondition evaluates a single condition against the current state.
func EvalCondition(c types.Condition, ctx Context) bool {
	switch c.Type {
	case "quest_status":
		id, _ := c.Params["quest"].(string)
		want, _ := c.Params["status"].(string)
		return questStatus(ctx, id) == want

	case "min_level":
		return ctx.Character.Level >= toInt(c.Params["level"])

	case "has_item":
		item, _ := c.Params["item"].(string)
		return ctx.Character.HasItem(item)

	case "flag_set":
		flag, _ := c.Params["flag"].(string)
		return ctx.Character.Flag(flag)

	case "flag_not":
		flag, _ := c.Params["flag"].(string)
		return !ctx.Character.Flag(flag)

	case "in_room":
		room, _ := c.Params["room"].(string)
		return ctx.Character.Location == room

	case "not":
		if c.Inner == nil {
			return true
		}
		return !EvalCondition(*c.Inner, ctx)

	default:
		return false
	}
}

// questStatus returns the status of a quest, or "none" if the player has
// never been offered it.
func questStatus(ctx Context, id string) string {
	if ctx.Quests == nil {
		return "none"
	}
	q, ok := ctx.Quests.Quest(id)
	if !ok {
		return "none"
	}
	return string(q.Status)
}

// EvalAllConditions returns true if all conditions pass (AND logic).
// An empty condition list is vacuously true.
func EvalAllConditions(conditions []types.Condition, ctx Context) bool {
	for _, c := range conditions {
		if !EvalCondition(c, ctx) {
			return false
		}
	}
	return true
}

// toInt converts an any value to int, handling float64 from JSON/Lua.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}
