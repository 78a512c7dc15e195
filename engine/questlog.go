package engine

import (
	"fmt"
	"strings"

	"github.com/nathoo/templecore/engine/quest"
	"github.com/nathoo/templecore/engine/resolve"
	"github.com/nathoo/templecore/types"
)

// questID maps a typed quest name to an id. Unresolved names are returned
// unchanged so the quest manager narrates the miss.
func (e *Engine) questID(name string) string {
	name = strings.TrimSpace(name)
	if id, err := resolve.Quest(e.Quests, name); err == nil {
		return id
	}
	return name
}

func (e *Engine) cmdQuests(filter string) {
	if filter == "" {
		filter = "active"
	}
	lines := []string{"=== QUEST LOG ==="}

	if filter == "active" || filter == "all" {
		active := e.Quests.ActiveQuests()
		if len(active) == 0 {
			lines = append(lines, "No active quests.")
		} else {
			lines = append(lines, "Active Quests:")
			for _, q := range active {
				lines = append(lines, fmt.Sprintf("  • %s (Level %d)", q.Title(), q.Def.Level))
				lines = append(lines, objectiveLines(q, "    ")...)
			}
		}
	}

	if filter == "completed" || filter == "all" {
		completed := e.Quests.CompletedQuests()
		if len(completed) > 0 {
			lines = append(lines, "Completed Quests:")
			for _, q := range completed {
				lines = append(lines, "  ✓ "+q.Title())
			}
		} else if filter == "completed" {
			lines = append(lines, "No completed quests yet.")
		}
	}

	lines = append(lines, "Available Quests:")
	available := e.Quests.AvailableQuests()
	if len(available) == 0 {
		lines = append(lines, "  No new quests available.")
	}
	for _, q := range available {
		lines = append(lines,
			fmt.Sprintf("  • %s (Level %d)", q.Title(), q.Def.Level),
			fmt.Sprintf("    Type 'accept %s' to start", q.ID()))
	}

	e.text(types.StyleSystem, "%s", strings.Join(lines, "\n"))
}

func (e *Engine) cmdAccept(name string) {
	if strings.TrimSpace(name) == "" {
		e.text(types.StyleError, "Accept which quest? Use 'quests' to see available.")
		return
	}
	// Start narrates both success and failure.
	_, _ = e.Quests.Start(e.questID(name))
}

func (e *Engine) cmdAbandon(name string) {
	if strings.TrimSpace(name) == "" {
		e.text(types.StyleError, "Abandon which quest?")
		return
	}
	_ = e.Quests.Abandon(e.questID(name))
}

func (e *Engine) cmdQuestInfo(name string) {
	if strings.TrimSpace(name) == "" {
		e.text(types.StyleError, "Get info on which quest?")
		return
	}
	id := e.questID(name)
	q, ok := e.Quests.Quest(id)
	if !ok {
		e.text(types.StyleError, "Quest not found: %s", id)
		return
	}

	lines := []string{
		fmt.Sprintf("=== %s ===", q.Title()),
		fmt.Sprintf("Level: %d", q.Def.Level),
		fmt.Sprintf("Status: %s", strings.ToUpper(string(q.Status))),
		"",
		"Description:",
		q.Def.Description,
		"",
		"Objectives:",
	}
	lines = append(lines, objectiveLines(q, "  ")...)
	lines = append(lines,
		"",
		"Rewards:",
		fmt.Sprintf("  Experience: %d", q.Def.XPReward),
		fmt.Sprintf("  Currency: %d shekels", q.Def.CurrencyReward))
	if len(q.Def.ItemRewards) > 0 {
		lines = append(lines, "  Items: "+strings.Join(q.Def.ItemRewards, ", "))
	}

	e.text(types.StyleSystem, "%s", strings.Join(lines, "\n"))
}

func objectiveLines(q *quest.Quest, indent string) []string {
	view := q.View()
	out := make([]string, 0, len(view.Objectives))
	for _, o := range view.Objectives {
		mark := "○"
		if o.Completed {
			mark = "✓"
		}
		out = append(out, fmt.Sprintf("%s%s %s: %d/%d", indent, mark, o.Description, o.Current, o.Required))
	}
	return out
}
