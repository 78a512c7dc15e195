package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/templecore/engine/catalog"
	"github.com/nathoo/templecore/engine/encounter"
	"github.com/nathoo/templecore/engine/quest"
	"github.com/nathoo/templecore/engine/state"
	"github.com/nathoo/templecore/logger"
	"github.com/nathoo/templecore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known effect types.
var validEffectTypes = map[string]bool{
	"say":               true,
	"heal_full":         true,
	"start_combat":      true,
	"offer_quest":       true,
	"start_quest":       true,
	"fail_quest":        true,
	"advance_objective": true,
	"set_flag":          true,
	"give_currency":     true,
	"give_item":         true,
	"equip_weapon":      true,
}

// Known condition types.
var validConditionTypes = map[string]bool{
	"quest_status": true,
	"min_level":    true,
	"has_item":     true,
	"flag_set":     true,
	"flag_not":     true,
	"in_room":      true,
	"not":          true,
}

var validObjectiveTypes = map[types.ObjectiveType]bool{
	types.ObjectiveKillCreature:     true,
	types.ObjectiveCollectItem:      true,
	types.ObjectiveReachLocation:    true,
	types.ObjectiveTalkToNPC:        true,
	types.ObjectiveUseItem:          true,
	types.ObjectiveDiscoverLocation: true,
}

// validator carries the merged catalogs references are checked against.
type validator struct {
	defs      *state.Defs
	creatures *catalog.Catalog
	quests    *quest.Catalog
	ve        *ValidationError
}

func (v *validator) errorf(format string, args ...any) {
	v.ve.Errors = append(v.ve.Errors, fmt.Sprintf(format, args...))
}

func (v *validator) warnf(format string, args ...any) {
	v.ve.Warnings = append(v.ve.Warnings, fmt.Sprintf(format, args...))
}

// validate checks the compiled defs for referential integrity and consistency.
func validate(defs *state.Defs) error {
	v := &validator{
		defs:      defs,
		creatures: catalog.New(defs.Creatures),
		quests:    quest.NewCatalog(defs.Quests),
		ve:        &ValidationError{},
	}

	// Game title required.
	if defs.Game.Title == "" {
		v.errorf("Game.Title is required")
	}

	// Start room exists.
	if defs.Game.Start == "" {
		v.errorf("Game.Start is required")
	} else if _, ok := defs.Rooms[defs.Game.Start]; !ok {
		v.errorf("start room %q not found in defined rooms", defs.Game.Start)
	}
	for _, id := range defs.Game.Quests {
		if _, ok := v.quests.Def(id); !ok {
			v.errorf("Game.Quests references undefined quest %q", id)
		}
	}

	// Exit targets valid.
	for _, roomID := range sortedKeys(defs.Rooms) {
		room := defs.Rooms[roomID]
		for dir, target := range room.Exits {
			if _, ok := defs.Rooms[target]; !ok {
				v.errorf("room %q exit %q points to undefined room %q", roomID, dir, target)
			}
		}
	}

	// NPCs.
	for _, npcID := range sortedKeys(defs.NPCs) {
		npc := defs.NPCs[npcID]
		if _, ok := defs.Rooms[npc.Location]; !ok {
			v.warnf("NPC %q location %q does not match any defined room", npcID, npc.Location)
		}
		for _, topic := range npc.Topics {
			v.conditions(topic.Requires)
			v.effects(topic.Effects)
		}
	}

	// Creatures.
	for _, c := range defs.Creatures {
		if c.HP < 1 {
			v.errorf("creature %q must have hp >= 1", c.Type)
		}
		if c.Damage < 0 {
			v.errorf("creature %q has negative damage", c.Type)
		}
	}

	// Encounters.
	for _, err := range encounter.New(defs.Encounters).Validate(v.creatures) {
		v.errorf("%s", err.Error())
	}
	for _, enc := range defs.Encounters {
		if _, ok := defs.Rooms[enc.Room]; !ok {
			v.errorf("encounter %q room %q is not defined", enc.ID, enc.Room)
		}
	}

	// Quests.
	for _, q := range defs.Quests {
		v.quest(q)
	}

	// Print warnings.
	log := logger.Component("loader")
	for _, w := range v.ve.Warnings {
		log.Warn(w)
	}

	if len(v.ve.Errors) > 0 {
		return v.ve
	}
	return nil
}

func (v *validator) quest(q types.QuestDef) {
	if q.Title == "" {
		v.errorf("quest %q: title is required", q.ID)
	}
	if len(q.Objectives) == 0 {
		v.errorf("quest %q: at least one objective is required", q.ID)
	}
	seen := map[string]bool{}
	for _, obj := range q.Objectives {
		if obj.ID == "" {
			v.errorf("quest %q: objective without id", q.ID)
		} else if seen[obj.ID] {
			v.errorf("quest %q: duplicate objective %q", q.ID, obj.ID)
		}
		seen[obj.ID] = true
		if !validObjectiveTypes[obj.Type] {
			v.errorf("quest %q objective %q: unknown type %q", q.ID, obj.ID, obj.Type)
		}
		if obj.Required < 1 {
			v.errorf("quest %q objective %q: required must be >= 1, got %d", q.ID, obj.ID, obj.Required)
		}

		switch obj.Type {
		case types.ObjectiveKillCreature:
			if !v.creatures.Has(obj.Target) {
				v.warnf("quest %q objective %q targets unknown creature %q", q.ID, obj.ID, obj.Target)
			}
		case types.ObjectiveReachLocation, types.ObjectiveDiscoverLocation:
			if _, ok := v.defs.Rooms[obj.Target]; !ok {
				v.warnf("quest %q objective %q targets undefined room %q", q.ID, obj.ID, obj.Target)
			}
		case types.ObjectiveTalkToNPC:
			if _, ok := v.defs.NPCs[obj.Target]; !ok {
				v.warnf("quest %q objective %q targets undefined NPC %q", q.ID, obj.ID, obj.Target)
			}
		}
	}
}

func (v *validator) conditions(conditions []types.Condition) {
	for _, cond := range conditions {
		if !validConditionTypes[cond.Type] {
			v.errorf("unknown condition type %q", cond.Type)
		}

		// Check quest/room refs in conditions.
		switch cond.Type {
		case "quest_status":
			if id, ok := cond.Params["quest"].(string); ok {
				if _, ok := v.quests.Def(id); !ok {
					v.errorf("condition quest_status references undefined quest %q", id)
				}
			}
		case "in_room":
			if room, ok := cond.Params["room"].(string); ok {
				if _, ok := v.defs.Rooms[room]; !ok {
					v.errorf("condition in_room references undefined room %q", room)
				}
			}
		case "not":
			if cond.Inner != nil {
				v.conditions([]types.Condition{*cond.Inner})
			}
		}
	}
}

func (v *validator) effects(effects []types.Effect) {
	for _, eff := range effects {
		if !validEffectTypes[eff.Type] {
			v.errorf("unknown effect type %q", eff.Type)
		}

		// Check creature/quest refs in effects.
		switch eff.Type {
		case "start_combat":
			if c, ok := eff.Params["creature"].(string); ok && !v.creatures.Has(c) {
				v.errorf("effect start_combat references unknown creature %q", c)
			}
		case "offer_quest", "start_quest", "fail_quest":
			if id, ok := eff.Params["quest"].(string); ok {
				if _, ok := v.quests.Def(id); !ok {
					v.errorf("effect %s references undefined quest %q", eff.Type, id)
				}
			}
		case "advance_objective":
			objType, _ := eff.Params["objective"].(string)
			if !validObjectiveTypes[types.ObjectiveType(objType)] {
				v.errorf("effect advance_objective has unknown objective type %q", objType)
			}
		case "equip_weapon":
			if item, _ := eff.Params["item"].(string); item == "" {
				v.errorf("effect equip_weapon needs an item")
			}
			switch d := eff.Params["damage"].(type) {
			case int:
				if d < 0 {
					v.errorf("effect equip_weapon damage must be >= 0")
				}
			case float64:
				if d < 0 {
					v.errorf("effect equip_weapon damage must be >= 0")
				}
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
