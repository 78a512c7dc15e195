package engine

import (
	"strings"

	"github.com/nathoo/templecore/engine/effects"
	"github.com/nathoo/templecore/types"
)

var _ effects.Target = (*Engine)(nil)

// Say narrates a line of dialogue.
func (e *Engine) Say(text string) {
	e.text(types.StyleNarrative, "%s", text)
}

// HealFull restores the player to full health.
func (e *Engine) HealFull() {
	e.Player.Heal(e.Player.MaxHP)
	e.text(types.StyleSuccess, "You feel your strength fully restored.")
}

// StartCombat opens a fight with a freshly spawned creature.
func (e *Engine) StartCombat(creatureType string, level int) {
	if _, err := e.Combat.Start(e.Player, creatureType, level); err != nil {
		e.log.WithError(err).WithField("creature", creatureType).Debug("dialogue combat not started")
	}
}

// OfferQuest makes a quest available to the player.
func (e *Engine) OfferQuest(questID string) {
	if err := e.Quests.Offer(questID); err != nil {
		e.log.WithError(err).WithField("quest", questID).Debug("quest not offered")
	}
}

// StartQuest offers a quest if needed and starts it.
func (e *Engine) StartQuest(questID string) {
	if q, ok := e.Quests.Quest(questID); !ok || q.Status != types.QuestAvailable {
		if err := e.Quests.Offer(questID); err != nil {
			e.log.WithError(err).WithField("quest", questID).Debug("quest not offered")
			return
		}
	}
	_, _ = e.Quests.Start(questID)
}

// FailQuest fails an active quest.
func (e *Engine) FailQuest(questID string) {
	if err := e.Quests.Fail(questID); err != nil {
		e.log.WithError(err).WithField("quest", questID).Debug("quest not failed")
	}
}

// AdvanceObjective routes a world event to matching quest objectives.
func (e *Engine) AdvanceObjective(objType types.ObjectiveType, target string, delta int) {
	e.Quests.Advance(objType, target, delta)
}

// SetFlag sets a player flag.
func (e *Engine) SetFlag(name string, value bool) {
	e.Player.SetFlag(name, value)
}

// GiveCurrency adds shekels to the player.
func (e *Engine) GiveCurrency(amount int) {
	e.Player.AddCurrency(amount)
	if amount > 0 {
		e.text(types.StyleSuccess, "You receive %d shekels.", amount)
	}
}

// GiveItem adds an item to the player and counts it toward collect
// objectives.
func (e *Engine) GiveItem(item string) {
	e.Player.AddItem(item)
	e.text(types.StyleSuccess, "Received: %s", item)
	e.Quests.Advance(types.ObjectiveCollectItem, item, 1)
}

// EquipWeapon wields item, handing it over first if the player lacks it.
func (e *Engine) EquipWeapon(item string, bonus int) {
	if !e.Player.HasItem(item) {
		e.GiveItem(item)
	}
	e.Player.Equip(item, bonus)
	e.text(types.StyleSuccess, "You wield the %s (+%d damage).", displayItem(item), e.Player.WeaponBonus)
}

func displayItem(item string) string {
	return strings.ReplaceAll(item, "_", " ")
}
