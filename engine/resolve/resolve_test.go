package resolve

import (
	"errors"
	"testing"

	"github.com/nathoo/templecore/engine/quest"
	"github.com/nathoo/templecore/engine/state"
	"github.com/nathoo/templecore/types"
)

func testDefs() *state.Defs {
	return &state.Defs{
		Rooms: map[string]types.RoomDef{
			"gate":      {ID: "gate"},
			"courtyard": {ID: "courtyard"},
		},
		NPCs: map[string]types.NPCDef{
			"gate_keeper_samuel": {ID: "gate_keeper_samuel", Name: "Gate Keeper Samuel", Location: "gate"},
			"gate_guard":         {ID: "gate_guard", Name: "Gate Guard", Location: "gate"},
			"elder":              {ID: "elder", Name: "The Elder", Location: "courtyard"},
		},
	}
}

func TestNPC(t *testing.T) {
	defs := testDefs()

	tests := []struct {
		name    string
		room    string
		query   string
		want    string
		wantErr any
	}{
		{"exact name", "gate", "Gate Keeper Samuel", "gate_keeper_samuel", nil},
		{"single word", "gate", "samuel", "gate_keeper_samuel", nil},
		{"id", "gate", "gate_guard", "gate_guard", nil},
		{"spaced id", "gate", "gate keeper samuel", "gate_keeper_samuel", nil},
		{"other room", "gate", "elder", "", &NotFoundError{}},
		{"ambiguous", "gate", "gate", "", &AmbiguityError{}},
		{"empty", "gate", " ", "", &NotFoundError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NPC(defs, tt.room, tt.query)
			switch tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("expected %q, got %q", tt.want, got)
				}
			case *NotFoundError:
				var nf *NotFoundError
				if !errors.As(err, &nf) {
					t.Errorf("expected NotFoundError, got %v", err)
				}
			case *AmbiguityError:
				var amb *AmbiguityError
				if !errors.As(err, &amb) {
					t.Fatalf("expected AmbiguityError, got %v", err)
				}
				if len(amb.Candidates) != 2 {
					t.Errorf("expected 2 candidates, got %v", amb.Candidates)
				}
			}
		})
	}
}

func TestQuest(t *testing.T) {
	m := quest.NewManager(quest.DefaultCatalog(), state.NewCharacter("Eli", "gate"), nil)
	m.Offer("quest_meet_elder")
	m.Offer("quest_dark_knight_challenge")
	m.Offer("quest_behemoth_hunt")
	m.Start("quest_behemoth_hunt")

	tests := []struct {
		query string
		want  string
		ok    bool
	}{
		{"quest_meet_elder", "quest_meet_elder", true},
		{"Meet the Elder", "quest_meet_elder", true},
		{"elder", "quest_meet_elder", true},
		{"behemoth", "quest_behemoth_hunt", true},
		{"the dark knight's challenge", "quest_dark_knight_challenge", true},
		{"the", "", false},
		{"leviathan", "", false},
	}
	for _, tt := range tests {
		got, err := Quest(m, tt.query)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("Quest(%q) = %q, %v; want %q", tt.query, got, err, tt.want)
		}
		if !tt.ok && err == nil {
			t.Errorf("Quest(%q) = %q; want error", tt.query, got)
		}
	}
}
