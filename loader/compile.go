// Package loader loads Lua game content into Go structs at compile time.
// The Lua VM is discarded after loading, leaving zero Lua at runtime.
package loader

import (
	"fmt"
	"sort"

	"github.com/nathoo/templecore/engine/state"
	"github.com/nathoo/templecore/types"
	lua "github.com/yuin/gopher-lua"
)

// rawDef holds a constructor's id and table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getIntOr returns an int field, or def when the field is absent.
func getIntOr(tbl *lua.LTable, key string, def int) int {
	if _, ok := tbl.RawGetString(key).(lua.LNumber); !ok {
		return def
	}
	return getInt(tbl, key)
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStrings returns the string elements of an array field.
func getStrings(tbl *lua.LTable, key string) []string {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []string
	for i := 1; i <= arr.MaxN(); i++ {
		if s, ok := arr.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Check if it's an array (sequential integer keys starting at 1).
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		// Otherwise treat as map.
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// tableToStringMap converts a Lua table to a map[string]string.
func tableToStringMap(tbl *lua.LTable) map[string]string {
	if tbl == nil {
		return nil
	}
	m := map[string]string{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vs, ok := v.(lua.LString); ok {
				m[string(ks)] = string(vs)
			}
		}
	})
	return m
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Rooms: map[string]types.RoomDef{},
		NPCs:  map[string]types.NPCDef{},
	}

	// Game.
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	for _, raw := range coll.rooms {
		if _, dup := defs.Rooms[raw.id]; dup {
			return nil, fmt.Errorf("duplicate room %q", raw.id)
		}
		defs.Rooms[raw.id] = compileRoom(raw)
	}

	for _, raw := range coll.npcs {
		if _, dup := defs.NPCs[raw.id]; dup {
			return nil, fmt.Errorf("duplicate NPC %q", raw.id)
		}
		defs.NPCs[raw.id] = compileNPC(raw)
	}

	seen := map[string]bool{}
	for _, raw := range coll.creatures {
		if seen["creature:"+raw.id] {
			return nil, fmt.Errorf("duplicate creature %q", raw.id)
		}
		seen["creature:"+raw.id] = true
		defs.Creatures = append(defs.Creatures, compileCreature(raw))
	}

	for _, raw := range coll.encounters {
		if seen["encounter:"+raw.id] {
			return nil, fmt.Errorf("duplicate encounter %q", raw.id)
		}
		seen["encounter:"+raw.id] = true
		defs.Encounters = append(defs.Encounters, compileEncounter(raw))
	}

	for _, raw := range coll.quests {
		if seen["quest:"+raw.id] {
			return nil, fmt.Errorf("duplicate quest %q", raw.id)
		}
		seen["quest:"+raw.id] = true
		q, err := compileQuest(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling quest %s: %w", raw.id, err)
		}
		defs.Quests = append(defs.Quests, q)
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Start:   getString(tbl, "start"),
		Intro:   getString(tbl, "intro"),
		Quests:  getStrings(tbl, "quests"),
	}
}

func compileRoom(raw rawDef) types.RoomDef {
	tbl := raw.table
	return types.RoomDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Floor:       getIntOr(tbl, "floor", 1),
		Exits:       tableToStringMap(getTable(tbl, "exits")),
	}
}

func compileNPC(raw rawDef) types.NPCDef {
	tbl := raw.table
	npc := types.NPCDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Location:    getString(tbl, "location"),
		Description: getString(tbl, "description"),
	}
	if npc.Name == "" {
		npc.Name = raw.id
	}
	if topicsTbl := getTable(tbl, "topics"); topicsTbl != nil {
		npc.Topics = compileTopics(topicsTbl)
	}
	return npc
}

func compileCreature(raw rawDef) types.CreatureDef {
	tbl := raw.table
	return types.CreatureDef{
		Type:           raw.id,
		Name:           getString(tbl, "name"),
		HP:             getInt(tbl, "hp"),
		Damage:         getInt(tbl, "damage"),
		Strength:       getInt(tbl, "strength"),
		Courage:        getInt(tbl, "courage"),
		XPReward:       getInt(tbl, "xp"),
		CurrencyReward: getInt(tbl, "currency"),
		Sprite:         getString(tbl, "sprite"),
	}
}

func compileEncounter(raw rawDef) types.EncounterDef {
	tbl := raw.table
	return types.EncounterDef{
		ID:          raw.id,
		Room:        getString(tbl, "room"),
		Creatures:   getStrings(tbl, "creatures"),
		Frequency:   getNumber(tbl, "frequency"),
		MinLevel:    getIntOr(tbl, "min_level", 1),
		MaxLevel:    getIntOr(tbl, "max_level", 1),
		Description: getString(tbl, "description"),
		Unique:      getBool(tbl, "unique", false),
	}
}

func compileQuest(raw rawDef) (types.QuestDef, error) {
	tbl := raw.table
	q := types.QuestDef{
		ID:             raw.id,
		Title:          getString(tbl, "title"),
		Description:    getString(tbl, "description"),
		Level:          getIntOr(tbl, "level", 1),
		XPReward:       getInt(tbl, "xp"),
		CurrencyReward: getInt(tbl, "currency"),
		ItemRewards:    getStrings(tbl, "items"),
		Giver:          getString(tbl, "giver"),
		Series:         getString(tbl, "series"),
		Repeatable:     getBool(tbl, "repeatable", false),
	}
	objs := getTable(tbl, "objectives")
	if objs == nil {
		return q, fmt.Errorf("objectives are required")
	}
	for i := 1; i <= objs.MaxN(); i++ {
		objTbl, ok := objs.RawGetInt(i).(*lua.LTable)
		if !ok {
			return q, fmt.Errorf("objective %d is not a table", i)
		}
		q.Objectives = append(q.Objectives, types.ObjectiveDef{
			ID:          getString(objTbl, "id"),
			Description: getString(objTbl, "description"),
			Type:        types.ObjectiveType(getString(objTbl, "type")),
			Target:      getString(objTbl, "target"),
			Required:    getIntOr(objTbl, "required", 1),
		})
	}
	return q, nil
}

func compileTopics(tbl *lua.LTable) map[string]types.TopicDef {
	topics := map[string]types.TopicDef{}
	tbl.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		topicTbl, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		topic := types.TopicDef{
			Text: getString(topicTbl, "text"),
		}
		if reqTbl := getTable(topicTbl, "requires"); reqTbl != nil {
			topic.Requires = compileConditions(reqTbl)
		}
		if effTbl := getTable(topicTbl, "effects"); effTbl != nil {
			topic.Effects = compileEffects(effTbl)
		}
		topics[string(key)] = topic
	})
	return topics
}

func compileConditions(tbl *lua.LTable) []types.Condition {
	var conditions []types.Condition
	for i := 1; i <= tbl.MaxN(); i++ {
		if condTbl, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			conditions = append(conditions, compileCondition(condTbl))
		}
	}
	return conditions
}

func compileCondition(tbl *lua.LTable) types.Condition {
	condType := getString(tbl, "type")

	if condType == "not" {
		innerTbl := getTable(tbl, "inner")
		if innerTbl != nil {
			inner := compileCondition(innerTbl)
			return types.Condition{
				Type:  "not",
				Inner: &inner,
			}
		}
	}

	return types.Condition{
		Type:   condType,
		Params: params(tbl),
	}
}

func compileEffects(tbl *lua.LTable) []types.Effect {
	var effects []types.Effect
	for i := 1; i <= tbl.MaxN(); i++ {
		if effTbl, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			effects = append(effects, types.Effect{
				Type:   getString(effTbl, "type"),
				Params: params(effTbl),
			})
		}
	}
	return effects
}

// params collects every string-keyed field except "type".
func params(tbl *lua.LTable) map[string]any {
	out := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok && string(ks) != "type" {
			out[string(ks)] = toGoValue(v)
		}
	})
	return out
}

// sortedLuaFiles returns .lua files in a directory, with game.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
