package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/templecore/engine/combat"
	"github.com/nathoo/templecore/engine/dialogue"
	"github.com/nathoo/templecore/engine/effects"
	"github.com/nathoo/templecore/engine/resolve"
	"github.com/nathoo/templecore/engine/rules"
	"github.com/nathoo/templecore/engine/state"
	"github.com/nathoo/templecore/types"
)

func (e *Engine) cmdLook(intent types.Intent) {
	if intent.Object == "" {
		e.describeRoom(e.Player.Location)
		return
	}
	if e.Combat.InCombat() {
		if s := e.Combat.Session(); s != nil && matchesCreature(s.Defender, intent.Object) {
			c := s.Defender.Creature()
			e.text(types.StyleCombat, "%s (level %d): %d/%d HP.", c.Name, c.Level, s.Defender.HP(), s.Defender.MaxHP())
			return
		}
	}
	id, err := resolve.NPC(e.Defs, e.Player.Location, intent.Object)
	if err != nil {
		e.text(types.StyleError, "%s", err.Error())
		return
	}
	npc := e.Defs.NPCs[id]
	if npc.Description == "" {
		e.text(types.StyleNarrative, "You see nothing special about %s.", npc.Name)
		return
	}
	e.text(types.StyleNarrative, "%s", npc.Description)
}

func matchesCreature(c *combat.CreatureCombatant, name string) bool {
	name = strings.ToLower(name)
	if name == c.Creature().Type {
		return true
	}
	for _, w := range strings.Fields(strings.ToLower(c.DisplayName())) {
		if w == name {
			return true
		}
	}
	return strings.EqualFold(c.DisplayName(), name)
}

func (e *Engine) cmdGo(direction string) {
	if direction == "" {
		e.text(types.StyleError, "Go where?")
		return
	}
	exits := state.RoomExits(e.Defs, e.Player.Location)
	target, ok := exits[direction]
	if !ok {
		e.text(types.StyleError, "You can't go that way.")
		return
	}
	e.enterRoom(target)
}

// enterRoom moves the player, advances location objectives, describes the
// room and rolls for an encounter.
func (e *Engine) enterRoom(roomID string) {
	e.Player.Location = roomID
	if e.Player.Visit(roomID) {
		e.Quests.Advance(types.ObjectiveDiscoverLocation, roomID, 1)
	}
	e.describeRoom(roomID)
	e.Quests.Advance(types.ObjectiveReachLocation, roomID, 1)
	e.checkEncounter()
}

func (e *Engine) checkEncounter() {
	if e.Combat.InCombat() {
		return
	}
	spawn, ok := e.Encounters.Check(e.Player.Location, e.RNG)
	if !ok {
		return
	}
	e.log.WithField("encounter", spawn.EncounterID).Debug("encounter triggered")
	if _, err := e.Combat.StartFromSpawn(e.Player, spawn); err != nil {
		e.log.WithError(err).Warn("encounter not started")
	}
}

func (e *Engine) cmdCombat(action string) {
	if !e.Combat.InCombat() && action == combat.ActionAttack {
		e.text(types.StyleError, "There is nothing to fight here.")
		return
	}
	s := e.Combat.Session()
	res, err := e.Combat.ResolveAction(e.Player, action)
	if err != nil {
		return
	}
	if !res.Ended {
		return
	}
	switch res.Outcome {
	case combat.OutcomeVictory:
		if s.Unique {
			e.notify.Notify(types.Notification{
				Kind: types.KindAnnouncement,
				Payload: types.Announcement{
					From: e.Player.Name,
					Text: fmt.Sprintf("%s has defeated %s!", e.Player.Name, s.Defender.DisplayName()),
				},
			})
		}
	case combat.OutcomeDefeat:
		if start := e.Defs.Game.Start; start != "" && start != e.Player.Location {
			e.Player.Location = start
			e.describeRoom(start)
		}
	}
}

// cmdFight picks a fight with a level-1 creature of the named type. Inside
// a fight it is an attack.
func (e *Engine) cmdFight(name string) {
	if e.Combat.InCombat() {
		e.cmdCombat(combat.ActionAttack)
		return
	}
	if name == "" {
		e.text(types.StyleError, "Fight what? (%s)", strings.Join(e.Catalog.Types(), ", "))
		return
	}
	creatureType := strings.ReplaceAll(name, " ", "_")
	if !e.Catalog.Has(creatureType) {
		e.text(types.StyleError, "Unknown creature. Valid types: %s.", strings.Join(e.Catalog.Types(), ", "))
		return
	}
	if _, err := e.Combat.Start(e.Player, creatureType, 1); err != nil {
		e.log.WithError(err).WithField("creature", creatureType).Warn("fight not started")
	}
}

// cmdUse consumes a carried item and counts it toward use objectives. The
// wielded weapon is used without being consumed.
func (e *Engine) cmdUse(name string) {
	if name == "" {
		e.text(types.StyleError, "Use what?")
		return
	}
	item := strings.ReplaceAll(name, " ", "_")
	if !e.Player.HasItem(item) {
		e.text(types.StyleError, "You don't have '%s'.", name)
		return
	}
	if item == e.Player.Weapon {
		e.text(types.StyleNarrative, "You grip the %s.", displayItem(item))
	} else {
		e.Player.RemoveItem(item)
		e.text(types.StyleNarrative, "You use the %s.", displayItem(item))
	}
	e.Quests.Advance(types.ObjectiveUseItem, item, 1)
}

func (e *Engine) cmdTalk(intent types.Intent) {
	if intent.Object == "" {
		e.text(types.StyleError, "Talk to whom?")
		return
	}
	npcID, err := resolve.NPC(e.Defs, e.Player.Location, intent.Object)
	if err != nil {
		e.text(types.StyleError, "%s", err.Error())
		return
	}
	npc := e.Defs.NPCs[npcID]
	if len(npc.Topics) == 0 {
		e.text(types.StyleError, "You can't talk to that.")
		return
	}

	ctx := rules.Context{Character: e.Player, Quests: e.Quests}
	available := dialogue.AvailableTopics(npcID, e.Defs, ctx)
	topicKey := intent.Target
	if topicKey == "" {
		// No topic specified: prefer a greeting, else the first available.
		if len(available) == 0 {
			e.text(types.StyleNarrative, "%s has nothing to say right now.", npc.Name)
			return
		}
		topicKey = available[0]
		for _, k := range available {
			if k == "greet" {
				topicKey = k
				break
			}
		}
	}

	text, effs := dialogue.SelectTopic(npcID, topicKey, e.Defs, ctx)
	if text == "" {
		if len(available) > 0 {
			e.text(types.StyleNarrative, "%s has nothing to say about that. You could ask about: %s.", npc.Name, strings.Join(available, ", "))
			return
		}
		e.text(types.StyleNarrative, "%s has nothing to say right now.", npc.Name)
		return
	}

	text = strings.NewReplacer("{player}", e.Player.Name, "{npc}", npc.Name).Replace(text)
	e.text(types.StyleNarrative, "%s says: \"%s\"", npc.Name, text)
	e.Quests.Advance(types.ObjectiveTalkToNPC, npcID, 1)

	unknown := effects.Apply(effs, effects.Context{Player: e.Player.Name, NPC: npc.Name}, e)
	for _, t := range unknown {
		e.log.WithField("effect", t).Warn("unknown effect type")
	}
}

func (e *Engine) cmdStatus() {
	p := e.Player
	class := p.Class
	if class == "" {
		class = "pilgrim"
	}
	lines := []string{
		fmt.Sprintf("%s - Level %d %s", p.Name, p.Level, strings.ToUpper(class)),
		fmt.Sprintf("Health: %d/%d", p.HP, p.MaxHP),
		fmt.Sprintf("XP: %d/%d", p.XP, p.XPToNext),
		fmt.Sprintf("Shekels: %d", p.Currency),
		fmt.Sprintf("Strength %d  Courage %d  Faith %d  Wisdom %d  Righteousness %d",
			p.Strength, p.Courage, p.Faith, p.Wisdom, p.Righteousness),
	}
	if p.Weapon != "" {
		lines = append(lines, fmt.Sprintf("Weapon: %s (+%d damage)", displayItem(p.Weapon), p.WeaponBonus))
	}
	if s := e.Combat.Session(); e.Combat.InCombat() && s != nil {
		lines = append(lines, fmt.Sprintf("Fighting: %s (%d/%d HP)", s.Defender.DisplayName(), s.Defender.HP(), s.Defender.MaxHP()))
	}
	e.text(types.StyleSystem, "%s", strings.Join(lines, "\n"))
}

func (e *Engine) cmdInventory() {
	if len(e.Player.Items) == 0 {
		e.text(types.StyleSystem, "You are carrying nothing.")
		return
	}
	e.text(types.StyleSystem, "You are carrying: %s.", strings.Join(e.Player.Items, ", "))
}

func (e *Engine) cmdClass(name string) {
	if name == "" {
		e.text(types.StyleSystem, "Choose a class: %s.", strings.Join(state.Classes(), ", "))
		return
	}
	if e.Player.Class != "" {
		e.text(types.StyleWarning, "You are already a %s.", e.Player.Class)
		return
	}
	if err := e.Player.SetClass(name); err != nil {
		if errors.Is(err, state.ErrUnknownClass) {
			e.text(types.StyleError, "Unknown class: %s. Choose from: %s.", name, strings.Join(state.Classes(), ", "))
		}
		return
	}
	e.text(types.StyleSuccess, "You walk the path of the %s.", e.Player.Class)
}

func (e *Engine) cmdHelp() {
	e.text(types.StyleSystem, "%s", strings.Join([]string{
		"Commands:",
		"  look [npc], go <direction> (or n/s/e/w/...)",
		"  fight <creature>, attack (a), defend (d), heal (h), flee (f)",
		"  use <item>",
		"  quests [active|completed|all], accept <quest>, abandon <quest>, questinfo <quest>",
		"  talk <npc> [about <topic>], status, inventory, class <name>, wait",
	}, "\n"))
}

// describeRoom narrates a room, its NPCs and its exits.
func (e *Engine) describeRoom(roomID string) {
	room, ok := e.Defs.Rooms[roomID]
	if !ok {
		e.text(types.StyleNarrative, "You are somewhere unknown.")
		return
	}

	if room.Name != "" {
		e.text(types.StyleSystem, "%s", room.Name)
	}
	e.text(types.StyleNarrative, "%s", room.Description)

	// List NPCs.
	npcs := state.NPCsInRoom(e.Defs, roomID)
	if len(npcs) > 0 {
		names := make([]string, 0, len(npcs))
		for _, id := range npcs {
			names = append(names, e.Defs.NPCs[id].Name)
		}
		e.text(types.StyleNarrative, "You see: %s.", strings.Join(names, ", "))
	}

	// List exits.
	exits := state.RoomExits(e.Defs, roomID)
	if len(exits) > 0 {
		dirs := make([]string, 0, len(exits))
		for dir := range exits {
			dirs = append(dirs, dir)
		}
		sort.Strings(dirs) // deterministic order
		e.text(types.StyleSystem, "Exits: %s.", strings.Join(dirs, ", "))
	}
}
