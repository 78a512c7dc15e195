package dialogue

import (
	"testing"

	"github.com/nathoo/templecore/engine/quest"
	"github.com/nathoo/templecore/engine/rules"
	"github.com/nathoo/templecore/engine/state"
	"github.com/nathoo/templecore/types"
)

func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{Start: "gate"},
		Rooms: map[string]types.RoomDef{
			"gate": {ID: "gate", Description: "The temple gate."},
		},
		NPCs: map[string]types.NPCDef{
			"samuel": {
				ID:       "samuel",
				Name:     "Gate Keeper Samuel",
				Location: "gate",
				Topics: map[string]types.TopicDef{
					"greeting": {
						Text: "Peace be with you, traveller.",
						Effects: []types.Effect{
							{Type: "set_flag", Params: map[string]any{"flag": "met_samuel", "value": true}},
						},
					},
					"elder": {
						Text: "The Elder waits in the courtyard.",
						Requires: []types.Condition{
							{Type: "quest_status", Params: map[string]any{"quest": "quest_meet_elder", "status": "active"}},
						},
					},
					"secret": {
						Text:     "Few return from the third floor.",
						Requires: []types.Condition{{Type: "min_level", Params: map[string]any{"level": 5}}},
					},
				},
			},
			"statue": {ID: "statue", Name: "Statue", Location: "gate"},
		},
	}
}

func testContext() (rules.Context, *quest.Manager) {
	c := state.NewCharacter("Eli", "gate")
	m := quest.NewManager(quest.DefaultCatalog(), c, nil)
	return rules.Context{Character: c, Quests: m}, m
}

func TestAvailableTopics_Gated(t *testing.T) {
	defs := testDefs()
	ctx, m := testContext()

	topics := AvailableTopics("samuel", defs, ctx)
	if len(topics) != 1 || topics[0] != "greeting" {
		t.Fatalf("expected [greeting], got %v", topics)
	}

	m.Offer("quest_meet_elder")
	m.Start("quest_meet_elder")
	ctx.Character.Level = 5

	topics = AvailableTopics("samuel", defs, ctx)
	want := []string{"elder", "greeting", "secret"}
	if len(topics) != len(want) {
		t.Fatalf("expected %v, got %v", want, topics)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], topics[i])
		}
	}
}

func TestAvailableTopics_NoTopics(t *testing.T) {
	ctx, _ := testContext()
	if topics := AvailableTopics("statue", testDefs(), ctx); topics != nil {
		t.Errorf("expected nil, got %v", topics)
	}
	if topics := AvailableTopics("nobody", testDefs(), ctx); topics != nil {
		t.Errorf("expected nil, got %v", topics)
	}
}

func TestSelectTopic(t *testing.T) {
	defs := testDefs()
	ctx, _ := testContext()

	text, effs := SelectTopic("samuel", "greeting", defs, ctx)
	if text != "Peace be with you, traveller." {
		t.Errorf("unexpected text %q", text)
	}
	if len(effs) != 1 || effs[0].Type != "set_flag" {
		t.Errorf("unexpected effects %+v", effs)
	}

	if text, effs := SelectTopic("samuel", "secret", defs, ctx); text != "" || effs != nil {
		t.Errorf("gated topic should be empty, got %q %v", text, effs)
	}
	if text, _ := SelectTopic("samuel", "weather", defs, ctx); text != "" {
		t.Errorf("unknown topic should be empty, got %q", text)
	}
}
