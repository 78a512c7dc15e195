package quest

import (
	"errors"
	"sort"
	"time"

	"github.com/nathoo/templecore/engine/events"
	"github.com/nathoo/templecore/logger"
	"github.com/nathoo/templecore/types"
	"github.com/sirupsen/logrus"
)

var (
	ErrQuestNotFound                 = errors.New("quest not found")
	ErrQuestAlreadyActiveOrCompleted = errors.New("quest is already active or completed")
	ErrQuestNotActive                = errors.New("quest is not active")
)

// Rewarder receives quest rewards.
type Rewarder interface {
	GainXP(amount int) int
	AddCurrency(amount int)
	AddItem(item string)
}

// Manager owns one player's quests. It is the only mutator of its
// instances and is not safe for concurrent use.
type Manager struct {
	catalog *Catalog
	player  Rewarder
	notify  events.Notifier
	log     *logrus.Entry

	// Now stamps start and completion times.
	Now func() time.Time

	available map[string]*Quest
	questLog  map[string]*Quest
}

// NewManager creates an empty manager.
func NewManager(c *Catalog, player Rewarder, n events.Notifier) *Manager {
	if n == nil {
		n = events.Discard
	}
	return &Manager{
		catalog:   c,
		player:    player,
		notify:    n,
		log:       logger.Component("quest"),
		Now:       time.Now,
		available: map[string]*Quest{},
		questLog:  map[string]*Quest{},
	}
}

func (m *Manager) text(style types.Style, format string, args ...any) {
	m.notify.Notify(events.Textf(style, format, args...))
}

func (m *Manager) update(q *Quest) {
	m.notify.Notify(types.Notification{
		Kind:    types.KindQuestUpdate,
		Payload: types.QuestUpdate{Quest: q.View()},
	})
}

// Add places an instance in the available map.
func (m *Manager) Add(q *Quest) {
	m.available[q.ID()] = q
	m.text(types.StyleSystem, "Quest available: %s", q.Title())
}

// Offer makes a catalog quest available. Offering a quest that is already
// available does nothing. A terminal quest is offered again as a fresh
// instance unless it was completed and is not repeatable.
func (m *Manager) Offer(id string) error {
	if _, ok := m.catalog.Def(id); !ok {
		return ErrQuestNotFound
	}
	if q, ok := m.available[id]; ok && q.Status == types.QuestAvailable {
		return nil
	}
	if q, ok := m.questLog[id]; ok {
		if q.Status == types.QuestActive {
			return ErrQuestAlreadyActiveOrCompleted
		}
		if q.Status == types.QuestCompleted && !q.Def.Repeatable {
			return ErrQuestAlreadyActiveOrCompleted
		}
	}
	q, _ := m.catalog.CreateInstance(id)
	m.Add(q)
	return nil
}

// Start activates an available quest and moves it into the quest log.
func (m *Manager) Start(id string) (*Quest, error) {
	q, ok := m.available[id]
	if !ok {
		m.text(types.StyleError, "Quest not found: %s", id)
		return nil, ErrQuestNotFound
	}
	if q.Status != types.QuestAvailable {
		m.text(types.StyleWarning, "Quest %s is already active or completed", q.Title())
		return nil, ErrQuestAlreadyActiveOrCompleted
	}

	q.Status = types.QuestActive
	q.StartedAt = m.Now()
	m.questLog[id] = q

	m.log.WithField("quest", id).Info("quest started")
	m.text(types.StyleSuccess, "Started quest: %s", q.Title())
	m.text(types.StyleNarrative, "%s", q.Def.Description)
	m.update(q)
	return q, nil
}

// UpdateProgress adds delta to an objective of an active quest in the log.
// It returns true only when this call completed the quest. Quests that are
// not in the log or not active, and unknown objectives, are left untouched
// and return false.
func (m *Manager) UpdateProgress(questID, objectiveID string, delta int) bool {
	q, ok := m.questLog[questID]
	if !ok || q.Status != types.QuestActive {
		return false
	}
	obj, ok := q.Objective(objectiveID)
	if !ok {
		return false
	}

	q.Progress[objectiveID] += delta
	m.text(types.StyleSystem, "[%s] %s: %d/%d", q.Title(), obj.Description, q.Progress[objectiveID], required(obj))

	if q.IsComplete() {
		return m.Complete(questID)
	}
	m.update(q)
	return false
}

// Complete moves an active quest to Completed and grants its rewards. It
// acts at most once per instance; any other status is a no-op returning
// false.
func (m *Manager) Complete(id string) bool {
	q, ok := m.questLog[id]
	if !ok || q.Status != types.QuestActive {
		return false
	}

	q.Status = types.QuestCompleted
	q.CompletedAt = m.Now()

	if m.player != nil {
		m.player.GainXP(q.Def.XPReward)
		m.player.AddCurrency(q.Def.CurrencyReward)
		for _, item := range q.Def.ItemRewards {
			m.player.AddItem(item)
		}
	}
	for _, item := range q.Def.ItemRewards {
		m.text(types.StyleSuccess, "Received: %s", item)
	}

	m.log.WithFields(logrus.Fields{
		"quest":    id,
		"xp":       q.Def.XPReward,
		"currency": q.Def.CurrencyReward,
	}).Info("quest completed")

	m.text(types.StyleSuccess, "Quest completed: %s!", q.Title())
	m.text(types.StyleSuccess, "Rewards: %d XP, %d shekels", q.Def.XPReward, q.Def.CurrencyReward)
	m.update(q)

	for _, item := range q.Def.ItemRewards {
		m.Advance(types.ObjectiveCollectItem, item, 1)
	}
	return true
}

// Abandon gives up an active quest. No rewards are granted.
func (m *Manager) Abandon(id string) error {
	q, ok := m.Quest(id)
	if !ok {
		m.text(types.StyleError, "Quest not found: %s", id)
		return ErrQuestNotFound
	}
	if !q.Abandon() {
		m.text(types.StyleWarning, "That quest is not active.")
		return ErrQuestNotActive
	}
	m.log.WithField("quest", id).Info("quest abandoned")
	m.text(types.StyleWarning, "Abandoned quest: %s", q.Title())
	m.update(q)
	return nil
}

// Fail moves an active quest to Failed.
func (m *Manager) Fail(id string) error {
	q, ok := m.questLog[id]
	if !ok {
		return ErrQuestNotFound
	}
	if q.Status != types.QuestActive {
		return ErrQuestNotActive
	}
	q.Status = types.QuestFailed
	m.text(types.StyleError, "Quest failed: %s", q.Title())
	m.update(q)
	return nil
}

// Advance routes a world event to every matching objective of every active
// quest. It returns the number of objectives updated.
func (m *Manager) Advance(objType types.ObjectiveType, target string, delta int) int {
	n := 0
	for _, q := range m.ActiveQuests() {
		for _, obj := range q.Def.Objectives {
			if obj.Type != objType || obj.Target != target {
				continue
			}
			m.UpdateProgress(q.ID(), obj.ID, delta)
			n++
		}
	}
	return n
}

// Quest returns an instance by id, searching the quest log first and then
// the available map.
func (m *Manager) Quest(id string) (*Quest, bool) {
	if q, ok := m.questLog[id]; ok {
		return q, true
	}
	q, ok := m.available[id]
	return q, ok
}

// ActiveQuests returns the active quests in the log, sorted by id.
func (m *Manager) ActiveQuests() []*Quest {
	return filter(m.questLog, types.QuestActive)
}

// CompletedQuests returns the completed quests in the log, sorted by id.
func (m *Manager) CompletedQuests() []*Quest {
	return filter(m.questLog, types.QuestCompleted)
}

// AvailableQuests returns the quests that can be started, sorted by id.
func (m *Manager) AvailableQuests() []*Quest {
	return filter(m.available, types.QuestAvailable)
}

func filter(src map[string]*Quest, status types.QuestStatus) []*Quest {
	var out []*Quest
	for _, q := range src {
		if q.Status == status {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Record is the saved form of one quest instance.
type Record struct {
	ID          string            `json:"id"`
	Status      types.QuestStatus `json:"status"`
	Progress    map[string]int    `json:"progress"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt time.Time         `json:"completed_at"`
	Available   bool              `json:"available,omitempty"`
	Logged      bool              `json:"logged,omitempty"`
}

// Snapshot returns one record per distinct instance, sorted by id with
// logged instances first.
func (m *Manager) Snapshot() []Record {
	var out []Record
	for id, q := range m.questLog {
		avail := m.available[id] == q
		out = append(out, record(q, avail, true))
	}
	for id, q := range m.available {
		if m.questLog[id] == q {
			continue
		}
		out = append(out, record(q, true, false))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].Logged && !out[j].Logged
	})
	return out
}

func record(q *Quest, avail, logged bool) Record {
	progress := make(map[string]int, len(q.Progress))
	for k, v := range q.Progress {
		progress[k] = v
	}
	return Record{
		ID:          q.ID(),
		Status:      q.Status,
		Progress:    progress,
		StartedAt:   q.StartedAt,
		CompletedAt: q.CompletedAt,
		Available:   avail,
		Logged:      logged,
	}
}

// Restore replaces the manager's quests with saved records. Records for
// quests missing from the catalog are skipped.
func (m *Manager) Restore(records []Record) {
	m.available = map[string]*Quest{}
	m.questLog = map[string]*Quest{}
	for _, r := range records {
		q, ok := m.catalog.CreateInstance(r.ID)
		if !ok {
			m.log.WithField("quest", r.ID).Warn("skipping saved quest missing from catalog")
			continue
		}
		q.Status = r.Status
		for k, v := range r.Progress {
			q.Progress[k] = v
		}
		q.StartedAt = r.StartedAt
		q.CompletedAt = r.CompletedAt
		if r.Logged {
			m.questLog[r.ID] = q
		}
		if r.Available {
			m.available[r.ID] = q
		}
	}
}
