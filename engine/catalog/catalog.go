// Package catalog maps creature types to base stats and scales them by level.
package catalog

import (
	"sort"

	"github.com/nathoo/templecore/types"
)

// DefaultType is used when a requested creature type is unknown.
const DefaultType = "orc"

// Creature is a fully populated creature record ready for combat.
type Creature struct {
	Type           string
	Name           string
	Level          int
	HP             int
	Damage         int
	Strength       int
	Courage        int
	XPReward       int
	CurrencyReward int
	Sprite         string
}

var builtin = []types.CreatureDef{
	{Type: "orc", Name: "Orc", HP: 30, Damage: 8, Strength: 7, Courage: 6, XPReward: 100, CurrencyReward: 50},
	{Type: "demon", Name: "Demon", HP: 45, Damage: 12, Strength: 8, Courage: 7, XPReward: 150, CurrencyReward: 75},
	{Type: "leviathan", Name: "Leviathan", HP: 100, Damage: 18, Strength: 10, Courage: 9, XPReward: 300, CurrencyReward: 200},
	{Type: "behemoth", Name: "Behemoth", HP: 80, Damage: 15, Strength: 9, Courage: 8, XPReward: 250, CurrencyReward: 150},
	{Type: "nephilim", Name: "Nephilim", HP: 60, Damage: 14, Strength: 9, Courage: 8, XPReward: 200, CurrencyReward: 100},
	{Type: "dark_knight", Name: "Dark Knight", HP: 55, Damage: 13, Strength: 8, Courage: 8, XPReward: 180, CurrencyReward: 90},
	{Type: "serpent", Name: "Ancient Serpent", HP: 40, Damage: 10, Strength: 7, Courage: 7, XPReward: 120, CurrencyReward: 60},
}

// Catalog is a read-only creature table. Safe for concurrent use.
type Catalog struct {
	defs map[string]types.CreatureDef
}

// Default returns a catalog holding only the built-in creatures.
func Default() *Catalog {
	return New(nil)
}

// New returns a catalog of the built-in creatures with the given
// definitions added on top. A definition with a built-in type replaces it.
func New(defs []types.CreatureDef) *Catalog {
	c := &Catalog{defs: make(map[string]types.CreatureDef, len(builtin)+len(defs))}
	for _, d := range builtin {
		c.defs[d.Type] = withSprite(d)
	}
	for _, d := range defs {
		if d.Type == "" {
			continue
		}
		if d.Name == "" {
			d.Name = d.Type
		}
		c.defs[d.Type] = withSprite(d)
	}
	return c
}

func withSprite(d types.CreatureDef) types.CreatureDef {
	if d.Sprite == "" {
		d.Sprite = d.Type + "_idle"
	}
	return d
}

// Has reports whether the creature type is known.
func (c *Catalog) Has(creatureType string) bool {
	_, ok := c.defs[creatureType]
	return ok
}

// Def returns the level-1 definition of a creature type.
func (c *Catalog) Def(creatureType string) (types.CreatureDef, bool) {
	d, ok := c.defs[creatureType]
	return d, ok
}

// Types returns every known creature type, sorted.
func (c *Catalog) Types() []string {
	out := make([]string, 0, len(c.defs))
	for t := range c.defs {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// LevelMultiplier returns the stat multiplier for a creature level.
// Levels below 1 count as level 1.
func LevelMultiplier(level int) float64 {
	if level < 1 {
		level = 1
	}
	return 1 + float64(level-1)*0.25
}

// CreateCreature builds a creature of the given type and level. Unknown
// types fall back to DefaultType. HP, damage and rewards scale with level
// and are truncated; strength and courage do not scale.
func (c *Catalog) CreateCreature(creatureType string, level int) Creature {
	def, ok := c.defs[creatureType]
	if !ok {
		def = c.defs[DefaultType]
	}
	if level < 1 {
		level = 1
	}
	mult := LevelMultiplier(level)

	return Creature{
		Type:           def.Type,
		Name:           def.Name,
		Level:          level,
		HP:             int(float64(def.HP) * mult),
		Damage:         int(float64(def.Damage) * mult),
		Strength:       def.Strength,
		Courage:        def.Courage,
		XPReward:       int(float64(def.XPReward) * mult),
		CurrencyReward: int(float64(def.CurrencyReward) * mult),
		Sprite:         def.Sprite,
	}
}
