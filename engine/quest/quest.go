// Package quest tracks quest templates, per-player quest instances and
// objective progress. Progress changes are the only path to completion and
// rewards.
package quest

import (
	"time"

	"github.com/nathoo/templecore/types"
)

// Quest is a per-player instance of a quest template.
type Quest struct {
	Def         types.QuestDef
	Status      types.QuestStatus
	Progress    map[string]int
	StartedAt   time.Time
	CompletedAt time.Time
}

func newQuest(def types.QuestDef) *Quest {
	q := &Quest{
		Def:      def,
		Status:   types.QuestAvailable,
		Progress: make(map[string]int, len(def.Objectives)),
	}
	for _, obj := range def.Objectives {
		q.Progress[obj.ID] = 0
	}
	return q
}

// ID returns the template id.
func (q *Quest) ID() string { return q.Def.ID }

// Title returns the template title.
func (q *Quest) Title() string { return q.Def.Title }

// Objective looks up an objective by id.
func (q *Quest) Objective(id string) (types.ObjectiveDef, bool) {
	for _, obj := range q.Def.Objectives {
		if obj.ID == id {
			return obj, true
		}
	}
	return types.ObjectiveDef{}, false
}

// IsComplete reports whether every objective has reached its required count.
func (q *Quest) IsComplete() bool {
	for _, obj := range q.Def.Objectives {
		if q.Progress[obj.ID] < required(obj) {
			return false
		}
	}
	return true
}

// Terminal reports whether the quest can no longer change status.
func (q *Quest) Terminal() bool {
	switch q.Status {
	case types.QuestCompleted, types.QuestFailed, types.QuestAbandoned:
		return true
	}
	return false
}

// Abandon moves an active quest to Abandoned. On any other status it does
// nothing and returns false.
func (q *Quest) Abandon() bool {
	if q.Status != types.QuestActive {
		return false
	}
	q.Status = types.QuestAbandoned
	return true
}

// View returns the client-facing snapshot of the quest.
func (q *Quest) View() types.QuestView {
	objs := make([]types.ObjectiveView, 0, len(q.Def.Objectives))
	for _, obj := range q.Def.Objectives {
		cur := q.Progress[obj.ID]
		objs = append(objs, types.ObjectiveView{
			ID:          obj.ID,
			Description: obj.Description,
			Type:        obj.Type,
			Required:    required(obj),
			Current:     cur,
			Completed:   cur >= required(obj),
		})
	}
	items := append([]string{}, q.Def.ItemRewards...)
	return types.QuestView{
		ID:          q.Def.ID,
		Title:       q.Def.Title,
		Description: q.Def.Description,
		Status:      q.Status,
		Level:       q.Def.Level,
		Objectives:  objs,
		Rewards: types.RewardView{
			XP:       q.Def.XPReward,
			Currency: q.Def.CurrencyReward,
			Items:    items,
		},
	}
}

func required(obj types.ObjectiveDef) int {
	if obj.Required < 1 {
		return 1
	}
	return obj.Required
}
