// Package combat resolves turn-based fights between a player and a spawned
// creature.
package combat

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/nathoo/templecore/engine/catalog"
	"github.com/nathoo/templecore/engine/encounter"
	"github.com/nathoo/templecore/engine/events"
	"github.com/nathoo/templecore/engine/quest"
	"github.com/nathoo/templecore/engine/state"
	"github.com/nathoo/templecore/logger"
	"github.com/nathoo/templecore/types"
	"github.com/sirupsen/logrus"
)

var (
	ErrAlreadyInCombat = errors.New("already in combat")
	ErrNotInCombat     = errors.New("not in combat")
	ErrNoCombatTarget  = errors.New("combat target lost")
	ErrUnknownAction   = errors.New("unknown combat action")
)

const (
	HealAmount           = 15
	AttackRetaliationMax = 10
	FleeRetaliationMax   = 8

	minAccuracy = 0.10
	maxAccuracy = 1.00
)

// Actions accepted by ResolveAction.
const (
	ActionAttack = "attack"
	ActionDefend = "defend"
	ActionHeal   = "heal"
	ActionFlee   = "flee"
)

// Rand is the randomness combat draws from.
type Rand interface {
	Float64() float64
	IntRange(lo, hi int) int
	Uniform(lo, hi float64) float64
}

// QuestTracker is the quest side of a victory.
type QuestTracker interface {
	ActiveQuests() []*quest.Quest
	UpdateProgress(questID, objectiveID string, delta int) bool
}

// EncounterDisabler retires unique encounters once their creature falls.
type EncounterDisabler interface {
	Disable(encounterID string)
}

// Outcome is how a session ended.
type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
	OutcomeFled    Outcome = "fled"
)

// Session pairs the player with one creature.
type Session struct {
	ID          string
	Attacker    *PlayerCombatant
	Defender    *CreatureCombatant
	Active      bool
	Turn        int
	Outcome     Outcome
	EncounterID string
	Unique      bool
}

// ActionResult is the outcome of one player action.
type ActionResult struct {
	Action      string
	Turn        *types.TurnResult // attack only
	Retaliation int
	Healed      int
	Defending   bool
	Fled        bool
	Ended       bool
	Outcome     Outcome
}

// Deps are the collaborators of an Engine. Quests and Encounters may be nil.
type Deps struct {
	Catalog    *catalog.Catalog
	Rand       Rand
	Notifier   events.Notifier
	Quests     QuestTracker
	Encounters EncounterDisabler
}

// Engine runs combat for one player. It is owned by that player's worker
// and is not safe for concurrent use.
type Engine struct {
	catalog    *catalog.Catalog
	rnd        Rand
	notify     events.Notifier
	quests     QuestTracker
	encounters EncounterDisabler
	log        *logrus.Entry

	session *Session
}

// New creates a combat engine.
func New(d Deps) *Engine {
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	if d.Notifier == nil {
		d.Notifier = events.Discard
	}
	return &Engine{
		catalog:    d.Catalog,
		rnd:        d.Rand,
		notify:     d.Notifier,
		quests:     d.Quests,
		encounters: d.Encounters,
		log:        logger.Component("combat"),
	}
}

// Session returns the current or most recent session, or nil.
func (e *Engine) Session() *Session { return e.session }

// InCombat reports whether a session is active.
func (e *Engine) InCombat() bool {
	return e.session != nil && e.session.Active
}

func (e *Engine) text(style types.Style, format string, args ...any) {
	e.notify.Notify(events.Textf(style, format, args...))
}

// Accuracy is the hit chance of an attacker against a defender.
func Accuracy(attackerCourage, defenderCourage int) float64 {
	acc := 0.75 + float64(attackerCourage)*0.10 - float64(defenderCourage)*0.05
	return math.Max(minAccuracy, math.Min(maxAccuracy, acc))
}

// Damage rolls the damage of a successful hit: base damage plus half of
// strength above 5 plus weapon bonus, varied by up to 20% either way,
// rounded, never below 1.
func Damage(o Offense, rnd Rand) int {
	strengthBonus := math.Max(0, float64(o.Strength-5)) * 0.5
	total := float64(o.BaseDamage) + strengthBonus + float64(o.WeaponBonus)
	variance := 0.2 * total
	dmg := int(math.Round(total + rnd.Uniform(-variance, variance)))
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// Start opens a session against a freshly created creature. It fails with
// ErrAlreadyInCombat, leaving the current session untouched, if the player
// is already fighting.
func (e *Engine) Start(player *state.Character, creatureType string, level int) (*Session, error) {
	if player.InCombat {
		e.text(types.StyleError, "You are already in combat!")
		return nil, ErrAlreadyInCombat
	}

	creature := NewCreature(e.catalog.CreateCreature(creatureType, level))
	s := &Session{
		ID:       uuid.NewString(),
		Attacker: NewPlayer(player),
		Defender: creature,
		Active:   true,
	}
	creature.sessionID = s.ID
	player.InCombat = true
	player.CombatSession = s.ID
	player.Defending = false
	e.session = s

	c := creature.Creature()
	e.log.WithFields(logrus.Fields{
		"session":  s.ID,
		"player":   player.Name,
		"creature": c.Type,
		"level":    c.Level,
	}).Info("combat started")

	e.notify.Notify(types.Notification{
		Kind: types.KindCombatStarted,
		Payload: types.CombatStarted{Enemy: types.EnemyInfo{
			ID:           creature.Key(),
			Name:         c.Name,
			CreatureType: c.Type,
			Health:       creature.HP(),
			MaxHealth:    creature.MaxHP(),
			Level:        c.Level,
			Sprite:       c.Sprite,
		}},
	})
	e.text(types.StyleCombat, "You encounter a %s!", c.Name)
	e.text(types.StyleCombat, "%s attacks you!", c.Name)
	return s, nil
}

// StartFromSpawn narrates an encounter and opens a session for it.
func (e *Engine) StartFromSpawn(player *state.Character, spawn encounter.Spawn) (*Session, error) {
	if player.InCombat {
		e.text(types.StyleError, "You are already in combat!")
		return nil, ErrAlreadyInCombat
	}
	if spawn.Description != "" {
		e.text(types.StyleCombat, "%s", spawn.Description)
		name := spawn.CreatureType
		if def, ok := e.catalog.Def(spawn.CreatureType); ok {
			name = def.Name
		}
		e.text(types.StyleCombat, "A %s appears!", name)
	}
	s, err := e.Start(player, spawn.CreatureType, spawn.Level)
	if err != nil {
		return nil, err
	}
	s.EncounterID = spawn.EncounterID
	s.Unique = spawn.Unique
	return s, nil
}

// ResolveAttackerTurn resolves one player attack against the session's
// creature. Reaching zero HP ends the session as a victory, granting
// rewards and advancing kill objectives before it returns.
func (e *Engine) ResolveAttackerTurn(s *Session) (types.TurnResult, error) {
	if s == nil || !s.Active {
		return types.TurnResult{}, ErrNotInCombat
	}

	atk, def := s.Attacker, s.Defender
	acc := Accuracy(atk.Offense().Courage, def.Offense().Courage)
	hit := e.rnd.Float64() < acc
	hpBefore := def.HP()

	res := types.TurnResult{
		AttackerName: atk.DisplayName(),
		DefenderName: def.DisplayName(),
		Hit:          hit,
	}
	if hit {
		res.Damage = Damage(atk.Offense(), e.rnd)
		def.TakeDamage(res.Damage)
		res.Message = fmt.Sprintf("%s strikes %s for %d damage!", atk.DisplayName(), def.DisplayName(), res.Damage)
	} else {
		res.Message = fmt.Sprintf("%s swings at %s but misses!", atk.DisplayName(), def.DisplayName())
	}
	res.DefenderHP = def.HP()
	res.DefenderMaxHP = def.MaxHP()
	s.Turn++

	e.log.WithFields(logrus.Fields{
		"session":   s.ID,
		"turn":      s.Turn,
		"attacker":  atk.Key(),
		"defender":  def.Key(),
		"accuracy":  acc,
		"hit":       hit,
		"damage":    res.Damage,
		"hp_before": hpBefore,
		"hp_after":  res.DefenderHP,
	}).Debug("attacker turn")

	e.text(types.StyleCombat, "%s", res.Message)

	if def.HP() == 0 {
		res.CombatEnded = true
		res.Victory = true
	}
	e.notify.Notify(types.Notification{Kind: types.KindCombatTurn, Payload: res})

	if res.Victory {
		e.End(s, true)
	}
	return res, nil
}

// ResolveAction applies one player action to the active session.
func (e *Engine) ResolveAction(player *state.Character, action string) (ActionResult, error) {
	if !player.InCombat {
		e.text(types.StyleError, "You are not in combat!")
		return ActionResult{}, ErrNotInCombat
	}
	s := e.session
	if s == nil || !s.Active || s.ID != player.CombatSession {
		e.text(types.StyleError, "Combat target lost!")
		return ActionResult{}, ErrNoCombatTarget
	}

	res := ActionResult{Action: action}
	creature := s.Defender

	switch action {
	case ActionAttack:
		turn, err := e.ResolveAttackerTurn(s)
		if err != nil {
			return res, err
		}
		res.Turn = &turn
		if !turn.CombatEnded {
			res.Retaliation = e.retaliate(s, AttackRetaliationMax)
			e.notify.Notify(types.Notification{
				Kind: types.KindHealthUpdated,
				Payload: types.HealthUpdate{
					AttackerHealth: creature.HP(),
					TargetHealth:   player.HP,
					Message:        creature.DisplayName() + " retaliates!",
				},
			})
		}

	case ActionDefend:
		player.Defending = true
		res.Defending = true
		e.text(types.StyleCombat, "You brace for impact, reducing damage.")

	case ActionHeal:
		res.Healed = player.Heal(HealAmount)
		e.text(types.StyleSuccess, "You heal yourself for %d HP.", HealAmount)

	case ActionFlee:
		if e.rnd.Float64() < float64(player.Courage)/10.0 {
			e.text(types.StyleSuccess, "You successfully flee from %s!", creature.DisplayName())
			res.Fled = true
			s.Outcome = OutcomeFled
			e.End(s, false)
		} else {
			e.text(types.StyleError, "You failed to flee from %s!", creature.DisplayName())
			res.Retaliation = e.retaliate(s, FleeRetaliationMax)
		}

	default:
		e.text(types.StyleError, "Unknown combat action: %s", action)
		return ActionResult{}, ErrUnknownAction
	}

	// A retaliation may have ended the fight.
	if s.Active && player.HP == 0 {
		s.Outcome = OutcomeDefeat
		e.End(s, false)
	}

	res.Ended = !s.Active
	res.Outcome = s.Outcome
	return res, nil
}

// retaliate applies a flat creature counter-attack rolled in [1, maxDamage].
// A defending player takes half, at least 1, and stops defending.
func (e *Engine) retaliate(s *Session, maxDamage int) int {
	player := s.Attacker.Character()
	dmg := e.rnd.IntRange(1, maxDamage)
	if player.Defending {
		dmg /= 2
		if dmg < 1 {
			dmg = 1
		}
		player.Defending = false
	}
	s.Attacker.TakeDamage(dmg)
	e.text(types.StyleCombat, "%s attacks you for %d damage!", s.Defender.DisplayName(), dmg)

	e.log.WithFields(logrus.Fields{
		"session":  s.ID,
		"attacker": s.Defender.Key(),
		"defender": s.Attacker.Key(),
		"damage":   dmg,
		"hp_after": player.HP,
	}).Debug("creature retaliation")
	return dmg
}

// End closes a session. A victory grants the creature's rewards, advances
// matching kill objectives and retires a unique encounter; a defeat revives
// the player. Calling End on an inactive session does nothing.
func (e *Engine) End(s *Session, victory bool) {
	if s == nil || !s.Active {
		return
	}
	s.Active = false
	player := s.Attacker.Character()
	player.InCombat = false
	player.CombatSession = ""
	player.Defending = false
	s.Defender.sessionID = ""

	c := s.Defender.Creature()
	name := s.Defender.DisplayName()

	switch {
	case victory:
		s.Outcome = OutcomeVictory
		player.GainXP(c.XPReward)
		player.AddCurrency(c.CurrencyReward)
		e.text(types.StyleSuccess, "Victory! You defeated %s!", name)
		e.text(types.StyleSuccess, "You gained %d XP and %d shekels!", c.XPReward, c.CurrencyReward)

		if e.quests != nil {
			for _, q := range e.quests.ActiveQuests() {
				for _, obj := range q.Def.Objectives {
					if obj.Type == types.ObjectiveKillCreature && obj.Target == c.Type {
						e.quests.UpdateProgress(q.ID(), obj.ID, 1)
					}
				}
			}
		}
		if s.Unique && s.EncounterID != "" && e.encounters != nil {
			e.encounters.Disable(s.EncounterID)
		}

		e.notify.Notify(types.Notification{
			Kind: types.KindCombatEnded,
			Payload: types.CombatEnded{
				Victory:        true,
				XPGained:       c.XPReward,
				CurrencyGained: c.CurrencyReward,
				EnemyName:      name,
			},
		})

	case s.Outcome == OutcomeDefeat:
		e.text(types.StyleError, "You have been defeated by %s!", name)
		e.notify.Notify(types.Notification{
			Kind:    types.KindCombatEnded,
			Payload: types.CombatEnded{Victory: false, EnemyName: name},
		})
		player.Revive()
		e.text(types.StyleNarrative, "You awaken in the sanctuary, your strength restored.")

	default:
		if s.Outcome == OutcomeNone {
			s.Outcome = OutcomeFled
		}
	}

	e.log.WithFields(logrus.Fields{
		"session": s.ID,
		"outcome": s.Outcome,
		"turns":   s.Turn,
	}).Info("combat ended")
}
