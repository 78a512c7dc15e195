package quest

import (
	"sort"
	"strings"

	"github.com/nathoo/templecore/types"
)

var builtin = []types.QuestDef{
	{
		ID:             "quest_meet_elder",
		Title:          "Meet the Elder",
		Description:    "Seek out the Elder of the Courtyard and learn about the tests ahead.",
		Level:          1,
		XPReward:       100,
		CurrencyReward: 50,
		Giver:          "gate_keeper_samuel",
		Objectives: []types.ObjectiveDef{
			{ID: "obj_talk_elder", Description: "Speak to the Elder", Type: types.ObjectiveTalkToNPC, Target: "elder", Required: 1},
		},
	},
	{
		ID:             "quest_trial_of_strength",
		Title:          "Trial of Strength",
		Description:    "Prove your worthiness by defeating the creatures that dwell in the depths. Three must fall before you.",
		Level:          2,
		XPReward:       250,
		CurrencyReward: 150,
		Giver:          "priest_ezra",
		Objectives: []types.ObjectiveDef{
			{ID: "obj_defeat_orc", Description: "Defeat the Orc Guardian", Type: types.ObjectiveKillCreature, Target: "orc", Required: 1},
			{ID: "obj_defeat_demon", Description: "Defeat the Demon of Shadows", Type: types.ObjectiveKillCreature, Target: "demon", Required: 1},
			{ID: "obj_defeat_serpent", Description: "Defeat the Ancient Serpent", Type: types.ObjectiveKillCreature, Target: "serpent", Required: 1},
		},
	},
	{
		ID:             "quest_the_descent",
		Title:          "The Descent",
		Description:    "Journey to the lower floors and face the trials that await. Return with proof of your journey.",
		Level:          3,
		XPReward:       500,
		CurrencyReward: 250,
		Series:         "main_story",
		Objectives: []types.ObjectiveDef{
			{ID: "obj_reach_floor2", Description: "Reach the Second Floor", Type: types.ObjectiveReachLocation, Target: "floor2_entrance", Required: 1},
			{ID: "obj_reach_floor3", Description: "Reach the Third Floor", Type: types.ObjectiveReachLocation, Target: "floor3_entrance", Required: 1},
		},
	},
	{
		ID:             "quest_dark_knight_challenge",
		Title:          "The Dark Knight's Challenge",
		Description:    "A formidable warrior challenges you to single combat. Defeat the Dark Knight to prove your mastery.",
		Level:          4,
		XPReward:       400,
		CurrencyReward: 200,
		Objectives: []types.ObjectiveDef{
			{ID: "obj_defeat_dark_knight", Description: "Defeat the Dark Knight", Type: types.ObjectiveKillCreature, Target: "dark_knight", Required: 1},
		},
	},
	{
		ID:             "quest_behemoth_hunt",
		Title:          "The Behemoth Hunt",
		Description:    "An ancient Behemoth has been awakened in the depths. Only the bravest should attempt this hunt.",
		Level:          5,
		XPReward:       600,
		CurrencyReward: 350,
		Objectives: []types.ObjectiveDef{
			{ID: "obj_defeat_behemoth", Description: "Hunt and defeat the Behemoth", Type: types.ObjectiveKillCreature, Target: "behemoth", Required: 1},
		},
	},
	{
		ID:             "quest_leviathan_awakened",
		Title:          "Leviathan Awakened",
		Description:    "The ancient Leviathan has stirred from its slumber. This is the ultimate test of your abilities.",
		Level:          6,
		XPReward:       1000,
		CurrencyReward: 500,
		Series:         "main_story",
		Objectives: []types.ObjectiveDef{
			{ID: "obj_defeat_leviathan", Description: "Defeat the Leviathan", Type: types.ObjectiveKillCreature, Target: "leviathan", Required: 1},
		},
	},
}

// Catalog is the immutable set of quest templates.
type Catalog struct {
	defs map[string]types.QuestDef
}

// DefaultCatalog returns the built-in quests.
func DefaultCatalog() *Catalog {
	return NewCatalog(nil)
}

// NewCatalog returns the built-in quests with defs added on top. A def with
// a built-in id replaces it.
func NewCatalog(defs []types.QuestDef) *Catalog {
	c := &Catalog{defs: make(map[string]types.QuestDef, len(builtin)+len(defs))}
	for _, d := range builtin {
		c.defs[d.ID] = d
	}
	for _, d := range defs {
		if d.ID != "" {
			c.defs[d.ID] = d
		}
	}
	return c
}

// Def returns a quest template.
func (c *Catalog) Def(id string) (types.QuestDef, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// IDs returns every quest id, sorted.
func (c *Catalog) IDs() []string {
	out := make([]string, 0, len(c.defs))
	for id := range c.defs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Lookup finds a quest by id or, case-insensitively, by title.
func (c *Catalog) Lookup(name string) (types.QuestDef, bool) {
	if d, ok := c.defs[name]; ok {
		return d, true
	}
	for _, id := range c.IDs() {
		if strings.EqualFold(c.defs[id].Title, name) {
			return c.defs[id], true
		}
	}
	return types.QuestDef{}, false
}

// CreateInstance returns a new Available instance with zeroed progress.
// ok is false for an unknown id.
func (c *Catalog) CreateInstance(id string) (*Quest, bool) {
	def, ok := c.defs[id]
	if !ok {
		return nil, false
	}
	return newQuest(def), true
}
