// Package effects applies dialogue effects as opaque calls into the core.
// Every effect type is one atomic operation. No logic in effects.
package effects

import (
	"strings"

	"github.com/nathoo/templecore/types"
)

// Target is the core surface dialogue effects may call.
type Target interface {
	Say(text string)
	HealFull()
	StartCombat(creatureType string, level int)
	OfferQuest(questID string)
	StartQuest(questID string)
	FailQuest(questID string)
	AdvanceObjective(objType types.ObjectiveType, target string, delta int)
	SetFlag(name string, value bool)
	GiveCurrency(amount int)
	GiveItem(item string)
	EquipWeapon(item string, bonus int)
}

// Context carries the names used for template interpolation.
type Context struct {
	Player string
	NPC    string
}

// Apply runs effects in order against the target. Unknown effect types are
// skipped and returned.
func Apply(effs []types.Effect, ctx Context, t Target) []string {
	var unknown []string

	for _, eff := range effs {
		switch eff.Type {
		case "say":
			text, _ := eff.Params["text"].(string)
			t.Say(interpolate(text, ctx))

		case "heal_full":
			t.HealFull()

		case "start_combat":
			creature, _ := eff.Params["creature"].(string)
			level := toInt(eff.Params["level"])
			if level < 1 {
				level = 1
			}
			t.StartCombat(creature, level)

		case "offer_quest":
			id, _ := eff.Params["quest"].(string)
			t.OfferQuest(id)

		case "start_quest":
			id, _ := eff.Params["quest"].(string)
			t.StartQuest(id)

		case "fail_quest":
			id, _ := eff.Params["quest"].(string)
			t.FailQuest(id)

		case "advance_objective":
			objType, _ := eff.Params["objective"].(string)
			target, _ := eff.Params["target"].(string)
			amount := 1
			if _, ok := eff.Params["amount"]; ok {
				amount = toInt(eff.Params["amount"])
			}
			t.AdvanceObjective(types.ObjectiveType(objType), target, amount)

		case "set_flag":
			flag, _ := eff.Params["flag"].(string)
			value := true
			if v, ok := eff.Params["value"].(bool); ok {
				value = v
			}
			t.SetFlag(flag, value)

		case "give_currency":
			t.GiveCurrency(toInt(eff.Params["amount"]))

		case "give_item":
			item, _ := eff.Params["item"].(string)
			t.GiveItem(item)

		case "equip_weapon":
			item, _ := eff.Params["item"].(string)
			t.EquipWeapon(item, toInt(eff.Params["damage"]))

		default:
			unknown = append(unknown, eff.Type)
		}
	}

	return unknown
}

// interpolate replaces {player} and {npc} in text.
func interpolate(text string, ctx Context) string {
	text = strings.ReplaceAll(text, "{player}", ctx.Player)
	text = strings.ReplaceAll(text, "{npc}", ctx.NPC)
	return text
}

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
