// Package state holds the per-player character record and the static
// world definitions it is checked against.
package state

import (
	"errors"
	"sort"
	"strings"

	"github.com/nathoo/templecore/types"
)

// ErrUnknownClass is returned by SetClass for an unrecognised class name.
var ErrUnknownClass = errors.New("unknown class")

// Character defaults.
const (
	DefaultHP       = 100
	DefaultDamage   = 5
	DefaultStat     = 5
	DefaultXPToNext = 100
	LevelUpHP       = 10
)

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game       types.GameDef
	Rooms      map[string]types.RoomDef
	NPCs       map[string]types.NPCDef
	Creatures  []types.CreatureDef
	Encounters []types.EncounterDef
	Quests     []types.QuestDef
}

// Character is the mutable player record.
type Character struct {
	Name          string          `json:"name"`
	Class         string          `json:"class,omitempty"`
	HP            int             `json:"hp"`
	MaxHP         int             `json:"max_hp"`
	Damage        int             `json:"damage"`
	Strength      int             `json:"strength"`
	Courage       int             `json:"courage"`
	Faith         int             `json:"faith"`
	Wisdom        int             `json:"wisdom"`
	Righteousness int             `json:"righteousness"`
	Level         int             `json:"level"`
	XP            int             `json:"xp"`
	XPToNext      int             `json:"xp_to_next"`
	Currency      int             `json:"currency"`
	Location      string          `json:"location"`
	Weapon        string          `json:"weapon,omitempty"`
	WeaponBonus   int             `json:"weapon_bonus,omitempty"`
	InCombat      bool            `json:"in_combat,omitempty"`
	Defending     bool            `json:"defending,omitempty"`
	CombatSession string          `json:"combat_session,omitempty"`
	Items         []string        `json:"items,omitempty"`
	Flags         map[string]bool `json:"flags"`
	Visited       map[string]bool `json:"visited"`
}

// NewCharacter creates a level-1 character with default stats at the
// given location.
func NewCharacter(name, location string) *Character {
	return &Character{
		Name:          name,
		HP:            DefaultHP,
		MaxHP:         DefaultHP,
		Damage:        DefaultDamage,
		Strength:      DefaultStat,
		Courage:       DefaultStat,
		Faith:         DefaultStat,
		Wisdom:        DefaultStat,
		Righteousness: DefaultStat,
		Level:         1,
		XPToNext:      DefaultXPToNext,
		Location:      location,
		Flags:         map[string]bool{},
		Visited:       map[string]bool{},
	}
}

type classPreset struct {
	strength, courage, faith, wisdom, righteousness int
	hp                                              int
}

var classes = map[string]classPreset{
	"prophet":  {strength: 4, courage: 5, faith: 8, wisdom: 8, righteousness: 7},
	"warrior":  {strength: 8, courage: 8, faith: 5, wisdom: 5, righteousness: 7, hp: 120},
	"shepherd": {strength: 6, courage: 6, faith: 6, wisdom: 6, righteousness: 6},
	"scribe":   {strength: 4, courage: 5, faith: 7, wisdom: 8, righteousness: 6},
}

// Classes returns the selectable class names, sorted.
func Classes() []string {
	out := make([]string, 0, len(classes))
	for name := range classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SetClass applies a class stat preset. Health is restored to the new max.
func (c *Character) SetClass(name string) error {
	name = strings.ToLower(name)
	p, ok := classes[name]
	if !ok {
		return ErrUnknownClass
	}
	c.Class = name
	c.Strength = p.strength
	c.Courage = p.courage
	c.Faith = p.faith
	c.Wisdom = p.wisdom
	c.Righteousness = p.righteousness
	if p.hp > 0 {
		c.MaxHP = p.hp
	}
	c.HP = c.MaxHP
	return nil
}

// GainXP adds experience and applies any level-ups. Each level costs the
// current threshold, raises the next threshold by half, adds LevelUpHP to
// max health and fully heals. Returns the number of levels gained.
func (c *Character) GainXP(amount int) int {
	if amount <= 0 {
		return 0
	}
	c.XP += amount
	gained := 0
	for c.XPToNext > 0 && c.XP >= c.XPToNext {
		c.XP -= c.XPToNext
		c.XPToNext = int(float64(c.XPToNext) * 1.5)
		c.Level++
		c.MaxHP += LevelUpHP
		c.HP = c.MaxHP
		gained++
	}
	return gained
}

// AddCurrency adds (or with a negative amount removes) currency, never
// dropping below zero.
func (c *Character) AddCurrency(amount int) {
	c.Currency += amount
	if c.Currency < 0 {
		c.Currency = 0
	}
}

// AddItem records an item reward.
func (c *Character) AddItem(item string) {
	c.Items = append(c.Items, item)
}

// HasItem reports whether the character carries an item.
func (c *Character) HasItem(item string) bool {
	for _, it := range c.Items {
		if it == item {
			return true
		}
	}
	return false
}

// RemoveItem drops one copy of an item. Returns false if it was not carried.
func (c *Character) RemoveItem(item string) bool {
	for i, it := range c.Items {
		if it == item {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			if c.Weapon == item && !c.HasItem(item) {
				c.Weapon = ""
				c.WeaponBonus = 0
			}
			return true
		}
	}
	return false
}

// Equip wields a carried item as a weapon with the given damage bonus.
func (c *Character) Equip(item string, bonus int) bool {
	if !c.HasItem(item) {
		return false
	}
	if bonus < 0 {
		bonus = 0
	}
	c.Weapon = item
	c.WeaponBonus = bonus
	return true
}

// Heal restores health up to max. Returns the amount actually restored.
func (c *Character) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := c.HP
	c.HP += amount
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	return c.HP - before
}

// TakeDamage reduces health, clamping at zero. Returns remaining health.
func (c *Character) TakeDamage(amount int) int {
	if amount > 0 {
		c.HP -= amount
	}
	if c.HP < 0 {
		c.HP = 0
	}
	return c.HP
}

// Revive restores full health after a defeat.
func (c *Character) Revive() {
	c.HP = c.MaxHP
}

// Visit marks a room visited. Returns true on the first visit.
func (c *Character) Visit(roomID string) bool {
	if c.Visited == nil {
		c.Visited = map[string]bool{}
	}
	if c.Visited[roomID] {
		return false
	}
	c.Visited[roomID] = true
	return true
}

// SetFlag sets a named story flag.
func (c *Character) SetFlag(name string, value bool) {
	if c.Flags == nil {
		c.Flags = map[string]bool{}
	}
	c.Flags[name] = value
}

// Flag returns a story flag. Unset flags return false.
func (c *Character) Flag(name string) bool {
	return c.Flags[name]
}

// Sheet returns the compact status view of the character.
func (c *Character) Sheet() types.CharacterUpdate {
	return types.CharacterUpdate{
		Name:     c.Name,
		Class:    c.Class,
		Level:    c.Level,
		XP:       c.XP,
		XPToNext: c.XPToNext,
		HP:       c.HP,
		MaxHP:    c.MaxHP,
		Currency: c.Currency,
		Location: c.Location,
	}
}

// RoomExits returns the exits of a room, or nil for an unknown room.
func RoomExits(defs *Defs, roomID string) map[string]string {
	room, ok := defs.Rooms[roomID]
	if !ok {
		return nil
	}
	return room.Exits
}

// NPCsInRoom returns the ids of NPCs located in a room, sorted.
func NPCsInRoom(defs *Defs, roomID string) []string {
	var out []string
	for id, npc := range defs.NPCs {
		if npc.Location == roomID {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
