package tui

import (
	"strings"
	"testing"

	"github.com/nathoo/templecore/engine"
	"github.com/nathoo/templecore/engine/state"
	"github.com/nathoo/templecore/types"
)

func TestRoomDisplayName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"hall", "Hall"},
		{"great_hall", "Great Hall"},
		{"castle_gates", "Castle Gates"},
		{"tower_top", "Tower Top"},
		{"secret_passage", "Secret Passage"},
	}
	for _, tt := range tests {
		got := roomDisplayName(tt.id)
		if got != tt.want {
			t.Errorf("roomDisplayName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"You see: Gate Keeper Samuel, The Elder.", kindYouSee},
		{"Exits: north, south.", kindExits},
		{"[trace] combat_started {}", kindTrace},
		{`The Elder says: "Welcome, child of the covenant."`, kindDialogue},
		{"A grand hall with stone walls.", kindPlain},
		{"You can't go that way.", kindPlain},
		{"", kindPlain},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestContainsQuotedSpeech(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{`"Hello, pilgrim. Welcome to the temple."`, true},
		{`A "big" door.`, false}, // short quote segment
		{"No quotes here.", false},
		{`"Hi"`, false},
		{`Samuel says: "Seek the Elder in the courtyard."`, true},
	}
	for _, tt := range tests {
		got := containsQuotedSpeech(tt.line)
		if got != tt.want {
			t.Errorf("containsQuotedSpeech(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"The great hall stretches before you with its vaulted ceiling.", 30,
			"The great hall stretches\nbefore you with its vaulted\nceiling."},
		{"", 80, ""},
		{"one", 80, "one"},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("go north")
	h.Push("take key")

	prev, ok := h.Prev()
	if !ok || prev != "take key" {
		t.Errorf("expected 'take key', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "go north" {
		t.Errorf("expected 'go north', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "look" {
		t.Errorf("expected 'look', got %q (ok=%v)", prev, ok)
	}

	// At oldest, stays there.
	prev, ok = h.Prev()
	if !ok || prev != "look" {
		t.Errorf("expected 'look' at boundary, got %q (ok=%v)", prev, ok)
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("go north")

	h.Prev() // "go north"
	h.Prev() // "look"

	next, ok := h.Next()
	if !ok || next != "go north" {
		t.Errorf("expected 'go north', got %q (ok=%v)", next, ok)
	}

	_, ok = h.Next()
	if ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	_, ok := h.Prev()
	if ok {
		t.Error("expected false on empty history")
	}
	_, ok = h.Next()
	if ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted

	prev, _ := h.Prev()
	if prev != "c" {
		t.Errorf("expected 'c', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b', got %q", prev)
	}
	// "a" is gone.
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b' at boundary, got %q", prev)
	}
}

func TestHistory_NoDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("look") // skipped
	h.Push("look") // skipped

	if len(h.entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(h.entries))
	}
}

func TestHistory_ResetCursor(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("go north")

	h.Prev() // "go north"
	h.ResetCursor()

	// After reset, Prev starts from the end again.
	prev, ok := h.Prev()
	if !ok || prev != "go north" {
		t.Errorf("expected 'go north' after reset, got %q", prev)
	}
}

// testDefs returns minimal game definitions for TUI testing.
func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{
			Title:   "Test Game",
			Author:  "Test",
			Version: "1.0",
			Start:   "hall",
			Intro:   "Welcome to the test.",
		},
		Rooms: map[string]types.RoomDef{
			"hall": {
				ID:          "hall",
				Name:        "Great Hall",
				Description: "A grand hall.",
				Exits:       map[string]string{"north": "garden", "east": "pit"},
			},
			"garden": {
				ID:          "garden",
				Description: "A peaceful garden.",
				Exits:       map[string]string{"south": "hall"},
			},
			"pit": {
				ID:          "pit",
				Description: "Something growls.",
				Exits:       map[string]string{"west": "hall"},
			},
		},
		Encounters: []types.EncounterDef{
			{ID: "enc_pit", Room: "pit", Creatures: []string{"leviathan"}, Frequency: 1, MinLevel: 1, MaxLevel: 1},
		},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	defs := testDefs()
	m := New(engine.New(defs, "Eli", engine.Options{Seed: 5}), defs, t.TempDir())
	m.width = 100
	return m
}

func TestHandleMeta_Quit(t *testing.T) {
	m := newTestModel(t)

	if _, quit := m.handleMeta("/quit"); !quit {
		t.Error("expected quit=true for /quit")
	}
	if _, quit := m.handleMeta("/exit"); !quit {
		t.Error("expected quit=true for /exit")
	}
}

func TestHandleMeta_SaveAndLoad(t *testing.T) {
	m := newTestModel(t)
	m.engine.Step("north")

	output, quit := m.handleMeta("/save test")
	if quit {
		t.Error("save should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Game saved") {
		t.Errorf("expected save confirmation, got %v", output)
	}

	m.engine.Step("south")
	output, _ = m.handleMeta("/load test")
	if len(output) == 0 || !strings.Contains(output[0], "Game loaded") {
		t.Fatalf("expected load confirmation, got %v", output)
	}
	if m.engine.Player.Location != "garden" {
		t.Errorf("location = %q, want garden", m.engine.Player.Location)
	}
	if m.hud.sheet.Location != "garden" {
		t.Errorf("status bar should follow the loaded save, got %q", m.hud.sheet.Location)
	}
}

func TestHandleMeta_SaveInCombat(t *testing.T) {
	m := newTestModel(t)
	m.engine.Step("east")

	output, _ := m.handleMeta("/save")
	if len(output) == 0 || !strings.Contains(output[0], "middle of a fight") {
		t.Errorf("expected combat refusal, got %v", output)
	}
}

func TestHandleMeta_LoadNonexistent(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/load nonexistent")
	if quit {
		t.Error("load should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Load failed") {
		t.Errorf("expected load failure, got %v", output)
	}
}

func TestHandleMeta_Help(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/help")
	if quit {
		t.Error("help should not quit")
	}

	joined := strings.Join(output, "\n")
	for _, expected := range []string{"/save", "/load", "/quit", "look", "attack", "quests"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in help output", expected)
		}
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/trace")
	if !m.trace {
		t.Error("expected trace to be enabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "enabled") {
		t.Errorf("expected enabled message, got %v", output)
	}

	output, _ = m.handleMeta("/trace")
	if m.trace {
		t.Error("expected trace to be disabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "disabled") {
		t.Errorf("expected disabled message, got %v", output)
	}
}

func TestHandleMeta_Unknown(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/bogus")
	if quit {
		t.Error("unknown command should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Unknown command") {
		t.Errorf("expected unknown command message, got %v", output)
	}
}

func TestHandleMeta_State(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/state")
	joined := strings.Join(output, "\n")
	for _, want := range []string{"Location: hall", "Turn:", "RNG: seed 5"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in state output", want)
		}
	}
}

func TestHandleMeta_StateShowsRoomEncounters(t *testing.T) {
	m := newTestModel(t)
	m.engine.Step("east")

	output, _ := m.handleMeta("/state")
	if joined := strings.Join(output, "\n"); !strings.Contains(joined, "Encounters here: enc_pit (active)") {
		t.Errorf("expected the pit encounter, got:\n%s", joined)
	}
}

func TestHUD_TracksCombat(t *testing.T) {
	m := newTestModel(t)

	res := m.engine.Step("east")
	m = m.appendOutput(gameOutputMsg{input: "east", lines: res.Output, notifications: res.Notifications})
	if m.hud.enemy == nil || m.hud.enemy.Name != "Leviathan" {
		t.Fatalf("expected the leviathan in the status bar, got %+v", m.hud.enemy)
	}
	if !strings.Contains(m.renderStatusBar(), "Leviathan") {
		t.Errorf("status bar = %q", m.renderStatusBar())
	}

	res = m.engine.Step("attack")
	m = m.appendOutput(gameOutputMsg{input: "attack", lines: res.Output, notifications: res.Notifications})
	if m.hud.sheet.HP != m.engine.Player.HP {
		t.Errorf("hud HP = %d, player HP = %d", m.hud.sheet.HP, m.engine.Player.HP)
	}

	m.hud = m.hud.apply(types.Notification{Kind: types.KindCombatEnded, Payload: types.CombatEnded{}})
	if m.hud.enemy != nil {
		t.Error("enemy should clear when combat ends")
	}
}

func TestHUD_Apply(t *testing.T) {
	h := hud{}.apply(types.Notification{
		Kind:    types.KindCombatStarted,
		Payload: types.CombatStarted{Enemy: types.EnemyInfo{Name: "Orc", Health: 30, MaxHealth: 30}},
	})
	h = h.apply(types.Notification{
		Kind:    types.KindCombatTurn,
		Payload: types.TurnResult{DefenderName: "Orc", DefenderHP: 22},
	})
	h = h.apply(types.Notification{
		Kind:    types.KindHealthUpdated,
		Payload: types.HealthUpdate{AttackerHealth: 22, TargetHealth: 91},
	})

	if h.enemy.HP != 22 || h.enemy.MaxHP != 30 {
		t.Errorf("enemy = %+v", *h.enemy)
	}
	if h.sheet.HP != 91 {
		t.Errorf("HP = %d, want 91", h.sheet.HP)
	}
}

func TestStatusBar_ShowsSheet(t *testing.T) {
	m := newTestModel(t)
	bar := m.renderStatusBar()

	for _, want := range []string{"Great Hall", "Exits: east,north", "Lv1", "HP 100/100", "XP 0/100"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar %q missing %q", bar, want)
		}
	}
}
