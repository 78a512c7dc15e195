// Package engine provides the Step() orchestrator that wires together
// parsing, resolution, combat, quests, dialogue and notifications into a
// single turn for one player.
package engine

import (
	"fmt"

	"github.com/nathoo/templecore/engine/catalog"
	"github.com/nathoo/templecore/engine/combat"
	"github.com/nathoo/templecore/engine/encounter"
	"github.com/nathoo/templecore/engine/events"
	"github.com/nathoo/templecore/engine/parser"
	"github.com/nathoo/templecore/engine/quest"
	"github.com/nathoo/templecore/engine/rng"
	"github.com/nathoo/templecore/engine/state"
	"github.com/nathoo/templecore/logger"
	"github.com/nathoo/templecore/types"
	"github.com/sirupsen/logrus"
)

// Options configure a new Engine.
type Options struct {
	// Seed for the player's RNG. Zero means seed 1.
	Seed int64
	// Encounters is shared by every player of a world. Nil builds a private
	// registry from the definitions.
	Encounters *encounter.Registry
	// Sinks receive every notification in addition to the step result.
	Sinks []events.Notifier
}

// Engine holds the game definitions and one player's mutable state. It is
// not safe for concurrent use; each player worker owns its own.
type Engine struct {
	Defs       *state.Defs
	Player     *state.Character
	RNG        *rng.RNG
	Catalog    *catalog.Catalog
	Combat     *combat.Engine
	Quests     *quest.Manager
	Encounters *encounter.Registry

	TurnCount  int
	CommandLog []string

	rec    *events.Recorder
	notify events.Notifier
	log    *logrus.Entry
}

// New creates an engine for a new character named name, placed in the
// game's starting room.
func New(defs *state.Defs, name string, opts Options) *Engine {
	seed := opts.Seed
	if seed == 0 {
		seed = 1
	}
	reg := opts.Encounters
	if reg == nil {
		reg = encounter.New(defs.Encounters)
	}

	e := &Engine{
		Defs:       defs,
		Player:     state.NewCharacter(name, defs.Game.Start),
		RNG:        rng.New(seed),
		Catalog:    catalog.New(defs.Creatures),
		Encounters: reg,
		rec:        &events.Recorder{},
		log:        logger.Component("engine").WithField("player", name),
	}
	sinks := append(events.Fanout{e.rec}, opts.Sinks...)
	if trace := events.TraceSink(e.log); trace != nil {
		sinks = append(sinks, trace)
	}
	e.notify = sinks

	e.Quests = quest.NewManager(quest.NewCatalog(defs.Quests), e.Player, e.notify)
	e.Combat = e.newCombat()

	e.Player.Visit(defs.Game.Start)
	for _, id := range defs.Game.Quests {
		if err := e.Quests.Offer(id); err != nil {
			e.log.WithError(err).WithField("quest", id).Warn("starting quest not offered")
		}
	}
	e.rec.Drain()
	return e
}

func (e *Engine) newCombat() *combat.Engine {
	return combat.New(combat.Deps{
		Catalog:    e.Catalog,
		Rand:       e.RNG,
		Notifier:   e.notify,
		Quests:     e.Quests,
		Encounters: e.Encounters,
	})
}

// RestoreRNG re-creates the RNG from seed and advances to the saved position.
func (e *Engine) RestoreRNG(seed int64, position int64) {
	e.RNG = rng.Restore(seed, position)
	e.Combat = e.newCombat()
}

// Notifier returns the sink every core module narrates into.
func (e *Engine) Notifier() events.Notifier { return e.notify }

func (e *Engine) text(style types.Style, format string, args ...any) {
	e.notify.Notify(events.Textf(style, format, args...))
}

// RoomEncounters describes the encounters of the player's room and
// whether each can still fire.
func (e *Engine) RoomEncounters() []string {
	var out []string
	for _, def := range e.Encounters.Room(e.Player.Location) {
		status := "active"
		if !e.Encounters.Active(def.ID) {
			status = "retired"
		}
		out = append(out, fmt.Sprintf("%s (%s)", def.ID, status))
	}
	return out
}

// Intro narrates the game's opening and the starting room.
func (e *Engine) Intro() types.Result {
	if e.Defs.Game.Intro != "" {
		e.text(types.StyleNarrative, "%s", e.Defs.Game.Intro)
	}
	e.describeRoom(e.Player.Location)
	for _, q := range e.Quests.AvailableQuests() {
		e.text(types.StyleSystem, "Quest available: %s", q.Title())
	}
	return e.finish(e.Player.Level)
}

// Step processes one player command and returns the result.
func (e *Engine) Step(input string) types.Result {
	level := e.Player.Level

	// 1. Parse input.
	intent := parser.Parse(input)

	// 2. Log the command.
	e.CommandLog = append(e.CommandLog, input)

	// 3. Empty input.
	if intent.Verb == "" {
		e.text(types.StyleSystem, "What do you want to do?")
		return e.finish(level)
	}

	// 3a. Combat mode: rewrite "go" → "flee" and restrict commands.
	if e.Combat.InCombat() {
		if intent.Verb == "go" {
			intent = types.Intent{Verb: combat.ActionFlee}
		}
		if !allowedInCombat(intent.Verb) {
			e.text(types.StyleWarning, "You're in the middle of a fight! (attack, defend, heal, flee)")
			return e.finish(level)
		}
	}

	// 4. Dispatch.
	switch intent.Verb {
	case "look":
		e.cmdLook(intent)
	case "go":
		e.cmdGo(intent.Object)
	case combat.ActionAttack, combat.ActionDefend, combat.ActionHeal, combat.ActionFlee:
		e.cmdCombat(intent.Verb)
	case "fight":
		e.cmdFight(intent.Object)
	case "use":
		e.cmdUse(intent.Object)
	case "quests":
		e.cmdQuests(intent.Object)
	case "accept":
		e.cmdAccept(intent.Args)
	case "abandon":
		e.cmdAbandon(intent.Args)
	case "questinfo":
		e.cmdQuestInfo(intent.Args)
	case "talk":
		e.cmdTalk(intent)
	case "status":
		e.cmdStatus()
	case "inventory":
		e.cmdInventory()
	case "class":
		e.cmdClass(intent.Object)
	case "wait":
		e.text(types.StyleNarrative, "Time passes.")
		e.checkEncounter()
	case "help":
		e.cmdHelp()
	default:
		e.text(types.StyleError, "I don't understand %q. Type 'help' for a list of commands.", intent.Verb)
	}

	// 5. Increment turn count.
	e.TurnCount++

	return e.finish(level)
}

// finish narrates level-ups since the step began, appends a character
// update and drains the step's notifications into a Result.
func (e *Engine) finish(levelBefore int) types.Result {
	if e.Player.Level > levelBefore {
		e.text(types.StyleSuccess, "Level up! You are now level %d.", e.Player.Level)
		e.notify.Notify(types.Notification{
			Kind: types.KindAnnouncement,
			Payload: types.Announcement{
				From: e.Player.Name,
				Text: fmt.Sprintf("%s has reached level %d!", e.Player.Name, e.Player.Level),
			},
		})
		e.log.WithField("level", e.Player.Level).Info("level up")
	}
	e.notify.Notify(types.Notification{
		Kind:    types.KindCharacterUpdate,
		Payload: e.Player.Sheet(),
	})

	ns := e.rec.Drain()
	return types.Result{
		Output:        events.TextLines(ns),
		Notifications: ns,
	}
}

func allowedInCombat(verb string) bool {
	switch verb {
	case combat.ActionAttack, combat.ActionDefend, combat.ActionHeal, combat.ActionFlee, "fight",
		"look", "status", "quests", "questinfo", "inventory", "help":
		return true
	}
	return false
}
