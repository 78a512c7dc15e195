package combat

import (
	"github.com/google/uuid"
	"github.com/nathoo/templecore/engine/catalog"
	"github.com/nathoo/templecore/engine/state"
)

// Offense is the stat block an attack is computed from.
type Offense struct {
	BaseDamage  int
	Strength    int
	Courage     int
	WeaponBonus int
}

// Combatant is anything that can take part in a combat turn.
type Combatant interface {
	Key() string
	DisplayName() string
	HP() int
	MaxHP() int
	// TakeDamage applies damage, clamping at zero, and returns remaining HP.
	TakeDamage(n int) int
	Offense() Offense
}

// PlayerCombatant is the player side of a session, backed by the
// character record.
type PlayerCombatant struct {
	c *state.Character
}

// NewPlayer wraps a character.
func NewPlayer(c *state.Character) *PlayerCombatant {
	return &PlayerCombatant{c: c}
}

func (p *PlayerCombatant) Key() string          { return p.c.Name }
func (p *PlayerCombatant) DisplayName() string  { return p.c.Name }
func (p *PlayerCombatant) HP() int              { return p.c.HP }
func (p *PlayerCombatant) MaxHP() int           { return p.c.MaxHP }
func (p *PlayerCombatant) TakeDamage(n int) int { return p.c.TakeDamage(n) }

func (p *PlayerCombatant) Offense() Offense {
	return Offense{
		BaseDamage:  p.c.Damage,
		Strength:    p.c.Strength,
		Courage:     p.c.Courage,
		WeaponBonus: p.c.WeaponBonus,
	}
}

// Character returns the underlying character record.
func (p *PlayerCombatant) Character() *state.Character { return p.c }

// CreatureCombatant is a spawned creature. It refers to its session by id
// only.
type CreatureCombatant struct {
	key       string
	creature  catalog.Creature
	hp        int
	sessionID string
}

// NewCreature spawns a combatant from a catalog record.
func NewCreature(c catalog.Creature) *CreatureCombatant {
	return &CreatureCombatant{
		key:      "creature_" + c.Type + "_" + uuid.NewString()[:8],
		creature: c,
		hp:       c.HP,
	}
}

func (cc *CreatureCombatant) Key() string         { return cc.key }
func (cc *CreatureCombatant) DisplayName() string { return cc.creature.Name }
func (cc *CreatureCombatant) HP() int             { return cc.hp }
func (cc *CreatureCombatant) MaxHP() int          { return cc.creature.HP }

func (cc *CreatureCombatant) TakeDamage(n int) int {
	if n > 0 {
		cc.hp -= n
	}
	if cc.hp < 0 {
		cc.hp = 0
	}
	return cc.hp
}

func (cc *CreatureCombatant) Offense() Offense {
	return Offense{
		BaseDamage: cc.creature.Damage,
		Strength:   cc.creature.Strength,
		Courage:    cc.creature.Courage,
	}
}

// Creature returns the catalog record the combatant was spawned from.
func (cc *CreatureCombatant) Creature() catalog.Creature { return cc.creature }

// SessionID returns the id of the session the creature belongs to.
func (cc *CreatureCombatant) SessionID() string { return cc.sessionID }
