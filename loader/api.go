package loader

import (
	"github.com/nathoo/templecore/types"
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerObjectiveHelpers(L)
	registerConditionHelpers(L)
	registerEffectHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Room "id" { ... }, NPC "id" { ... } and friends are curried:
	// Kind("id") returns a function that takes a table.
	curried := func(name string, dst *[]rawDef) {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.CheckTable(1)
				*dst = append(*dst, rawDef{id: id, table: tbl})
				return 0
			}))
			return 1
		}))
	}
	curried("Room", &coll.rooms)
	curried("NPC", &coll.npcs)
	curried("Creature", &coll.creatures)
	curried("Encounter", &coll.encounters)
	curried("Quest", &coll.quests)
}

// registerObjectiveHelpers registers Kill { ... }, Reach { ... } etc. Each
// returns its table with the objective type filled in.
func registerObjectiveHelpers(L *lua.LState) {
	helpers := map[string]types.ObjectiveType{
		"Kill":     types.ObjectiveKillCreature,
		"Collect":  types.ObjectiveCollectItem,
		"Reach":    types.ObjectiveReachLocation,
		"TalkTo":   types.ObjectiveTalkToNPC,
		"UseItem":  types.ObjectiveUseItem,
		"Discover": types.ObjectiveDiscoverLocation,
	}
	for name, objType := range helpers {
		objType := objType
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("type", lua.LString(objType))
			L.Push(tbl)
			return 1
		}))
	}
}

func registerConditionHelpers(L *lua.LState) {
	// QuestStatus("quest_id", "completed")
	L.SetGlobal("QuestStatus", L.NewFunction(func(L *lua.LState) int {
		quest := L.CheckString(1)
		status := L.CheckString(2)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("quest_status"))
		tbl.RawSetString("quest", lua.LString(quest))
		tbl.RawSetString("status", lua.LString(status))
		L.Push(tbl)
		return 1
	}))

	// MinLevel(3)
	L.SetGlobal("MinLevel", L.NewFunction(func(L *lua.LState) int {
		level := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("min_level"))
		tbl.RawSetString("level", level)
		L.Push(tbl)
		return 1
	}))

	// HasItem("key")
	L.SetGlobal("HasItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("has_item"))
		tbl.RawSetString("item", lua.LString(item))
		L.Push(tbl)
		return 1
	}))

	// FlagSet("flag")
	L.SetGlobal("FlagSet", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("flag_set"))
		tbl.RawSetString("flag", lua.LString(flag))
		L.Push(tbl)
		return 1
	}))

	// FlagNot("flag")
	L.SetGlobal("FlagNot", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("flag_not"))
		tbl.RawSetString("flag", lua.LString(flag))
		L.Push(tbl)
		return 1
	}))

	// InRoom("room_id")
	L.SetGlobal("InRoom", L.NewFunction(func(L *lua.LState) int {
		room := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("in_room"))
		tbl.RawSetString("room", lua.LString(room))
		L.Push(tbl)
		return 1
	}))

	// Not(condition)
	L.SetGlobal("Not", L.NewFunction(func(L *lua.LState) int {
		inner := L.CheckTable(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("not"))
		tbl.RawSetString("inner", inner)
		L.Push(tbl)
		return 1
	}))
}

func registerEffectHelpers(L *lua.LState) {
	// Say("text")
	L.SetGlobal("Say", L.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("say"))
		tbl.RawSetString("text", lua.LString(text))
		L.Push(tbl)
		return 1
	}))

	// HealFull()
	L.SetGlobal("HealFull", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("heal_full"))
		L.Push(tbl)
		return 1
	}))

	// StartCombat("creature", level)
	L.SetGlobal("StartCombat", L.NewFunction(func(L *lua.LState) int {
		creature := L.CheckString(1)
		level := L.OptNumber(2, 1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("start_combat"))
		tbl.RawSetString("creature", lua.LString(creature))
		tbl.RawSetString("level", level)
		L.Push(tbl)
		return 1
	}))

	// OfferQuest("quest_id")
	L.SetGlobal("OfferQuest", L.NewFunction(func(L *lua.LState) int {
		quest := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("offer_quest"))
		tbl.RawSetString("quest", lua.LString(quest))
		L.Push(tbl)
		return 1
	}))

	// StartQuest("quest_id")
	L.SetGlobal("StartQuest", L.NewFunction(func(L *lua.LState) int {
		quest := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("start_quest"))
		tbl.RawSetString("quest", lua.LString(quest))
		L.Push(tbl)
		return 1
	}))

	// FailQuest("quest_id")
	L.SetGlobal("FailQuest", L.NewFunction(func(L *lua.LState) int {
		quest := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("fail_quest"))
		tbl.RawSetString("quest", lua.LString(quest))
		L.Push(tbl)
		return 1
	}))

	// AdvanceObjective("kill_creature", "orc", amount)
	L.SetGlobal("AdvanceObjective", L.NewFunction(func(L *lua.LState) int {
		objType := L.CheckString(1)
		target := L.CheckString(2)
		amount := L.OptNumber(3, 1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("advance_objective"))
		tbl.RawSetString("objective", lua.LString(objType))
		tbl.RawSetString("target", lua.LString(target))
		tbl.RawSetString("amount", amount)
		L.Push(tbl)
		return 1
	}))

	// SetFlag("flag", value)
	L.SetGlobal("SetFlag", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		value := L.OptBool(2, true)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("set_flag"))
		tbl.RawSetString("flag", lua.LString(flag))
		tbl.RawSetString("value", lua.LBool(value))
		L.Push(tbl)
		return 1
	}))

	// GiveCurrency(amount)
	L.SetGlobal("GiveCurrency", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("give_currency"))
		tbl.RawSetString("amount", amount)
		L.Push(tbl)
		return 1
	}))

	// GiveItem("id")
	L.SetGlobal("GiveItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("give_item"))
		tbl.RawSetString("item", lua.LString(item))
		L.Push(tbl)
		return 1
	}))

	// EquipWeapon("id", damage)
	L.SetGlobal("EquipWeapon", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		damage := L.OptNumber(2, 0)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("equip_weapon"))
		tbl.RawSetString("item", lua.LString(item))
		tbl.RawSetString("damage", damage)
		L.Push(tbl)
		return 1
	}))
}
