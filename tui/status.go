package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nathoo/templecore/engine/state"
	"github.com/nathoo/templecore/types"
)

// enemyHUD is the creature currently fought.
type enemyHUD struct {
	Name  string
	HP    int
	MaxHP int
}

// hud is what the status bar shows. It is rebuilt purely from the
// notifications the engine emits.
type hud struct {
	sheet types.CharacterUpdate
	enemy *enemyHUD
}

// apply folds one notification into the display state.
func (h hud) apply(n types.Notification) hud {
	switch p := n.Payload.(type) {
	case types.CharacterUpdate:
		h.sheet = p
	case types.CombatStarted:
		h.enemy = &enemyHUD{Name: p.Enemy.Name, HP: p.Enemy.Health, MaxHP: p.Enemy.MaxHealth}
	case types.TurnResult:
		if h.enemy != nil && p.DefenderName == h.enemy.Name {
			e := *h.enemy
			e.HP = p.DefenderHP
			h.enemy = &e
		}
	case types.HealthUpdate:
		h.sheet.HP = p.TargetHealth
		if h.enemy != nil {
			e := *h.enemy
			e.HP = p.AttackerHealth
			h.enemy = &e
		}
	case types.CombatEnded:
		h.enemy = nil
	}
	return h
}

// roomDisplayName derives a human-readable name from a room ID.
// "great_hall" -> "Great Hall", "castle_gates" -> "Castle Gates".
func roomDisplayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func (m Model) roomName(id string) string {
	if room, ok := m.defs.Rooms[id]; ok && room.Name != "" {
		return room.Name
	}
	return roomDisplayName(id)
}

// renderStatusBar produces a full-width inverted status line showing the
// room and exits on the left, the character sheet and any enemy on the right.
func (m Model) renderStatusBar() string {
	s := m.hud.sheet
	loc := s.Location
	if loc == "" {
		loc = m.engine.Player.Location
	}

	exits := state.RoomExits(m.defs, loc)
	dirs := make([]string, 0, len(exits))
	for dir := range exits {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	left := fmt.Sprintf(" %s | Exits: %s", m.roomName(loc), strings.Join(dirs, ","))
	right := fmt.Sprintf("Lv%d HP %d/%d XP %d/%d ₪%d | T:%d ",
		s.Level, s.HP, s.MaxHP, s.XP, s.XPToNext, s.Currency, m.engine.TurnCount)

	enemy := ""
	if e := m.hud.enemy; e != nil {
		enemy = fmt.Sprintf("%s %d/%d | ", e.Name, e.HP, e.MaxHP)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(enemy) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return styleStatusBar.Render(left+strings.Repeat(" ", gap)) +
		styleStatusEnemy.Render(enemy) +
		styleStatusBar.Render(right)
}
