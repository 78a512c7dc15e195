package state

import (
	"errors"
	"testing"

	"github.com/nathoo/templecore/types"
)

func testDefs() *Defs {
	return &Defs{
		Game: types.GameDef{
			Title: "Test Game",
			Start: "gate",
		},
		Rooms: map[string]types.RoomDef{
			"gate":      {ID: "gate", Name: "Temple Gate", Exits: map[string]string{"north": "courtyard"}},
			"courtyard": {ID: "courtyard", Name: "Courtyard", Exits: map[string]string{"south": "gate"}},
		},
		NPCs: map[string]types.NPCDef{
			"samuel": {ID: "samuel", Name: "Samuel", Location: "gate"},
			"anna":   {ID: "anna", Name: "Anna", Location: "gate"},
			"priest": {ID: "priest", Name: "Priest", Location: "courtyard"},
		},
	}
}

func TestNewCharacter_Defaults(t *testing.T) {
	c := NewCharacter("Eli", "gate")

	if c.HP != 100 || c.MaxHP != 100 {
		t.Errorf("expected 100/100 hp, got %d/%d", c.HP, c.MaxHP)
	}
	if c.Damage != 5 || c.Strength != 5 || c.Courage != 5 {
		t.Errorf("expected default combat stats 5, got %+v", c)
	}
	if c.Level != 1 || c.XPToNext != 100 {
		t.Errorf("expected level 1 / 100 xp to next, got %d / %d", c.Level, c.XPToNext)
	}
	if c.Location != "gate" {
		t.Errorf("expected location gate, got %q", c.Location)
	}
}

func TestSetClass(t *testing.T) {
	tests := []struct {
		class    string
		strength int
		courage  int
		maxHP    int
	}{
		{"prophet", 4, 5, 100},
		{"warrior", 8, 8, 120},
		{"shepherd", 6, 6, 100},
		{"Scribe", 4, 5, 100},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			c := NewCharacter("Eli", "gate")
			if err := c.SetClass(tt.class); err != nil {
				t.Fatalf("SetClass: %v", err)
			}
			if c.Strength != tt.strength || c.Courage != tt.courage {
				t.Errorf("expected str %d cou %d, got %d %d", tt.strength, tt.courage, c.Strength, c.Courage)
			}
			if c.MaxHP != tt.maxHP || c.HP != tt.maxHP {
				t.Errorf("expected hp %d, got %d/%d", tt.maxHP, c.HP, c.MaxHP)
			}
		})
	}
}

func TestSetClass_Unknown(t *testing.T) {
	c := NewCharacter("Eli", "gate")
	if err := c.SetClass("bard"); !errors.Is(err, ErrUnknownClass) {
		t.Errorf("expected ErrUnknownClass, got %v", err)
	}
	if c.Class != "" {
		t.Errorf("class should be unchanged, got %q", c.Class)
	}
}

func TestGainXP_LevelUp(t *testing.T) {
	c := NewCharacter("Eli", "gate")
	c.HP = 40

	levels := c.GainXP(120)

	if levels != 1 {
		t.Fatalf("expected 1 level, got %d", levels)
	}
	if c.Level != 2 || c.XP != 20 || c.XPToNext != 150 {
		t.Errorf("expected level 2, xp 20, next 150; got %d, %d, %d", c.Level, c.XP, c.XPToNext)
	}
	if c.MaxHP != 110 || c.HP != 110 {
		t.Errorf("expected full heal to 110, got %d/%d", c.HP, c.MaxHP)
	}
}

func TestGainXP_MultipleLevels(t *testing.T) {
	c := NewCharacter("Eli", "gate")

	// 100 → level 2 (next 150), 150 → level 3 (next 225)
	levels := c.GainXP(260)

	if levels != 2 {
		t.Fatalf("expected 2 levels, got %d", levels)
	}
	if c.Level != 3 || c.XP != 10 || c.XPToNext != 225 {
		t.Errorf("unexpected progression: level %d xp %d next %d", c.Level, c.XP, c.XPToNext)
	}
}

func TestGainXP_NonPositive(t *testing.T) {
	c := NewCharacter("Eli", "gate")
	if c.GainXP(0) != 0 || c.GainXP(-5) != 0 || c.XP != 0 {
		t.Errorf("non-positive xp should be ignored, xp=%d", c.XP)
	}
}

func TestHeal_ClampsToMax(t *testing.T) {
	c := NewCharacter("Eli", "gate")
	c.HP = 90

	if got := c.Heal(15); got != 10 {
		t.Errorf("expected 10 restored, got %d", got)
	}
	if c.HP != 100 {
		t.Errorf("expected hp 100, got %d", c.HP)
	}
}

func TestTakeDamage_ClampsAtZero(t *testing.T) {
	c := NewCharacter("Eli", "gate")
	c.HP = 5

	if got := c.TakeDamage(12); got != 0 {
		t.Errorf("expected 0 remaining, got %d", got)
	}
	c.Revive()
	if c.HP != c.MaxHP {
		t.Errorf("expected revive to max, got %d", c.HP)
	}
}

func TestAddCurrency_NeverNegative(t *testing.T) {
	c := NewCharacter("Eli", "gate")
	c.AddCurrency(30)
	c.AddCurrency(-50)
	if c.Currency != 0 {
		t.Errorf("expected 0, got %d", c.Currency)
	}
}

func TestVisit_FirstTimeOnly(t *testing.T) {
	c := NewCharacter("Eli", "gate")
	if !c.Visit("courtyard") {
		t.Error("first visit should return true")
	}
	if c.Visit("courtyard") {
		t.Error("second visit should return false")
	}
}

func TestFlags(t *testing.T) {
	c := &Character{}
	if c.Flag("met_elder") {
		t.Error("unset flag should be false")
	}
	c.SetFlag("met_elder", true)
	if !c.Flag("met_elder") {
		t.Error("expected flag set")
	}
}

func TestSheet(t *testing.T) {
	c := NewCharacter("Eli", "gate")
	c.Currency = 12
	s := c.Sheet()
	if s.Name != "Eli" || s.HP != 100 || s.Currency != 12 || s.Location != "gate" {
		t.Errorf("unexpected sheet: %+v", s)
	}
}

func TestRoomExits(t *testing.T) {
	defs := testDefs()
	if exits := RoomExits(defs, "gate"); exits["north"] != "courtyard" {
		t.Errorf("expected north exit, got %v", exits)
	}
	if exits := RoomExits(defs, "void"); exits != nil {
		t.Errorf("expected nil for unknown room, got %v", exits)
	}
}

func TestNPCsInRoom_Sorted(t *testing.T) {
	got := NPCsInRoom(testDefs(), "gate")
	if len(got) != 2 || got[0] != "anna" || got[1] != "samuel" {
		t.Errorf("expected [anna samuel], got %v", got)
	}
}

func TestItems_RemoveAndEquip(t *testing.T) {
	c := NewCharacter("Eli", "gate")
	c.AddItem("worn_walking_staff")
	c.AddItem("olive_branch")

	if c.Equip("sling", 2) {
		t.Error("equipping an item not carried should fail")
	}
	if !c.Equip("worn_walking_staff", 3) || c.Weapon != "worn_walking_staff" || c.WeaponBonus != 3 {
		t.Fatalf("expected staff equipped with bonus 3, got %q/%d", c.Weapon, c.WeaponBonus)
	}

	if !c.RemoveItem("olive_branch") || c.HasItem("olive_branch") {
		t.Error("expected olive branch removed")
	}
	if c.RemoveItem("olive_branch") {
		t.Error("removing a missing item should report false")
	}
	if c.WeaponBonus != 3 {
		t.Errorf("unrelated removal changed the weapon bonus to %d", c.WeaponBonus)
	}

	c.RemoveItem("worn_walking_staff")
	if c.Weapon != "" || c.WeaponBonus != 0 {
		t.Errorf("dropping the weapon should clear it, got %q/%d", c.Weapon, c.WeaponBonus)
	}
}
