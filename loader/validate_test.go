package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/templecore/engine/state"
	"github.com/nathoo/templecore/types"
)

// validDefs returns a small world that passes validation.
func validDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{Title: "Test", Start: "hall", Quests: []string{"q1"}},
		Rooms: map[string]types.RoomDef{
			"hall":   {ID: "hall", Description: "A hall.", Exits: map[string]string{"north": "garden"}},
			"garden": {ID: "garden", Description: "A garden.", Exits: map[string]string{"south": "hall"}},
		},
		NPCs: map[string]types.NPCDef{
			"sage": {ID: "sage", Name: "Sage", Location: "hall", Topics: map[string]types.TopicDef{
				"greet": {
					Text:     "Hello.",
					Requires: []types.Condition{{Type: "min_level", Params: map[string]any{"level": 1}}},
					Effects:  []types.Effect{{Type: "offer_quest", Params: map[string]any{"quest": "q1"}}},
				},
			}},
		},
		Creatures: []types.CreatureDef{{Type: "rat", Name: "Rat", HP: 5, Damage: 1}},
		Encounters: []types.EncounterDef{
			{ID: "enc", Room: "garden", Creatures: []string{"rat"}, Frequency: 0.5, MinLevel: 1, MaxLevel: 1},
		},
		Quests: []types.QuestDef{{
			ID: "q1", Title: "Q", Level: 1,
			Objectives: []types.ObjectiveDef{
				{ID: "o1", Type: types.ObjectiveKillCreature, Target: "rat", Required: 2},
			},
		}},
	}
}

// validationErrors runs validate and returns the collected error strings.
func validationErrors(t *testing.T, defs *state.Defs) []string {
	t.Helper()
	err := validate(defs)
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve.Errors
}

func TestValidate_ValidDefs(t *testing.T) {
	if errs := validationErrors(t, validDefs()); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *state.Defs)
		want   string
	}{
		{"missing title", func(d *state.Defs) { d.Game.Title = "" }, "Game.Title is required"},
		{"missing start", func(d *state.Defs) { d.Game.Start = "" }, "Game.Start is required"},
		{"unknown start", func(d *state.Defs) { d.Game.Start = "void" }, `start room "void"`},
		{"unknown game quest", func(d *state.Defs) { d.Game.Quests = []string{"nope"} }, `Game.Quests references undefined quest "nope"`},
		{"bad exit", func(d *state.Defs) {
			d.Rooms["hall"] = types.RoomDef{ID: "hall", Exits: map[string]string{"up": "attic"}}
		}, `points to undefined room "attic"`},
		{"zero hp creature", func(d *state.Defs) { d.Creatures[0].HP = 0 }, `creature "rat" must have hp >= 1`},
		{"negative damage", func(d *state.Defs) { d.Creatures[0].Damage = -1 }, "negative damage"},
		{"unknown encounter creature", func(d *state.Defs) {
			d.Encounters[0].Creatures = []string{"dragon"}
		}, `unknown creature type "dragon"`},
		{"frequency out of range", func(d *state.Defs) { d.Encounters[0].Frequency = 1.5 }, "outside [0,1]"},
		{"inverted levels", func(d *state.Defs) { d.Encounters[0].MaxLevel = 0 }, "bad level range"},
		{"encounter room", func(d *state.Defs) { d.Encounters[0].Room = "cellar" }, `room "cellar" is not defined`},
		{"quest title", func(d *state.Defs) { d.Quests[0].Title = "" }, "title is required"},
		{"quest without objectives", func(d *state.Defs) { d.Quests[0].Objectives = nil }, "at least one objective"},
		{"objective required", func(d *state.Defs) { d.Quests[0].Objectives[0].Required = 0 }, "required must be >= 1"},
		{"objective type", func(d *state.Defs) { d.Quests[0].Objectives[0].Type = "dance" }, `unknown type "dance"`},
		{"duplicate objective", func(d *state.Defs) {
			d.Quests[0].Objectives = append(d.Quests[0].Objectives, d.Quests[0].Objectives[0])
		}, `duplicate objective "o1"`},
		{"unknown condition", func(d *state.Defs) {
			d.NPCs["sage"].Topics["greet"] = types.TopicDef{Requires: []types.Condition{{Type: "moon_phase"}}}
		}, `unknown condition type "moon_phase"`},
		{"condition quest ref", func(d *state.Defs) {
			d.NPCs["sage"].Topics["greet"] = types.TopicDef{Requires: []types.Condition{{
				Type:  "not",
				Inner: &types.Condition{Type: "quest_status", Params: map[string]any{"quest": "ghost", "status": "active"}},
			}}}
		}, `quest_status references undefined quest "ghost"`},
		{"unknown effect", func(d *state.Defs) {
			d.NPCs["sage"].Topics["greet"] = types.TopicDef{Effects: []types.Effect{{Type: "teleport"}}}
		}, `unknown effect type "teleport"`},
		{"combat creature ref", func(d *state.Defs) {
			d.NPCs["sage"].Topics["greet"] = types.TopicDef{Effects: []types.Effect{
				{Type: "start_combat", Params: map[string]any{"creature": "dragon"}},
			}}
		}, `start_combat references unknown creature "dragon"`},
		{"advance objective type", func(d *state.Defs) {
			d.NPCs["sage"].Topics["greet"] = types.TopicDef{Effects: []types.Effect{
				{Type: "advance_objective", Params: map[string]any{"objective": "juggle", "target": "x"}},
			}}
		}, `unknown objective type "juggle"`},
		{"fail quest ref", func(d *state.Defs) {
			d.NPCs["sage"].Topics["greet"] = types.TopicDef{Effects: []types.Effect{
				{Type: "fail_quest", Params: map[string]any{"quest": "ghost"}},
			}}
		}, `fail_quest references undefined quest "ghost"`},
		{"weapon without item", func(d *state.Defs) {
			d.NPCs["sage"].Topics["greet"] = types.TopicDef{Effects: []types.Effect{
				{Type: "equip_weapon", Params: map[string]any{"damage": 3}},
			}}
		}, "equip_weapon needs an item"},
		{"negative weapon damage", func(d *state.Defs) {
			d.NPCs["sage"].Topics["greet"] = types.TopicDef{Effects: []types.Effect{
				{Type: "equip_weapon", Params: map[string]any{"item": "club", "damage": -2}},
			}}
		}, "equip_weapon damage must be >= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := validDefs()
			tt.mutate(defs)
			assertContains(t, validationErrors(t, defs), tt.want)
		})
	}
}

func TestValidate_BuiltinReferences(t *testing.T) {
	defs := validDefs()
	// Built-in creatures and quests satisfy references without being defined.
	defs.Encounters[0].Creatures = []string{"orc", "serpent"}
	defs.Game.Quests = []string{"quest_meet_elder"}
	if errs := validationErrors(t, defs); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidate_WarningsDoNotFail(t *testing.T) {
	defs := validDefs()
	defs.NPCs["wanderer"] = types.NPCDef{ID: "wanderer", Location: "nowhere"}
	defs.Quests[0].Objectives[0].Target = "unicorn"
	if err := validate(defs); err != nil {
		t.Fatalf("warnings should not fail validation: %v", err)
	}
}

func TestValidationError_Message(t *testing.T) {
	ve := &ValidationError{Errors: []string{"a", "b"}}
	if !strings.Contains(ve.Error(), "2 error(s)") {
		t.Errorf("Error() = %q", ve.Error())
	}
}

func assertContains(t *testing.T, strs []string, substr string) {
	t.Helper()
	for _, s := range strs {
		if strings.Contains(s, substr) {
			return
		}
	}
	t.Errorf("expected an entry containing %q, got %v", substr, strs)
}
