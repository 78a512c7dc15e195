// Package types defines the shared data structures for the templecore engine.
// This package contains only type definitions, with no logic.
package types

// Intent is the parsed representation of a player command.
type Intent struct {
	Verb   string
	Object string // optional
	Target string // optional
	Args   string // everything after the verb, articles kept
}

// Style is the presentation category of a narrated line.
type Style string

const (
	StyleNarrative Style = "narrative"
	StyleSystem    Style = "system"
	StyleSuccess   Style = "success"
	StyleWarning   Style = "warning"
	StyleError     Style = "error"
	StyleCombat    Style = "combat"
)

// TextOutput is one narrated line plus its style tag.
type TextOutput struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

// NotificationKind identifies the payload carried by a Notification.
type NotificationKind string

const (
	KindText            NotificationKind = "text_output"
	KindCombatStarted   NotificationKind = "combat_started"
	KindCombatTurn      NotificationKind = "combat_turn"
	KindHealthUpdated   NotificationKind = "health_updated"
	KindCombatEnded     NotificationKind = "combat_ended"
	KindQuestUpdate     NotificationKind = "quest_update"
	KindCharacterUpdate NotificationKind = "character_update"
	KindAnnouncement    NotificationKind = "announcement"
)

// Notification is a client-visible state delta emitted by the core.
type Notification struct {
	Kind    NotificationKind `json:"type"`
	Payload any              `json:"payload"`
}

// EnemyInfo describes a spawned creature for display.
type EnemyInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CreatureType string `json:"creature_type"`
	Health       int    `json:"health"`
	MaxHealth    int    `json:"max_health"`
	Level        int    `json:"level"`
	Sprite       string `json:"sprite"`
}

// CombatStarted is emitted once when a combat session opens.
type CombatStarted struct {
	Enemy EnemyInfo `json:"enemy"`
}

// TurnResult is the atomic outcome of one attacker turn.
type TurnResult struct {
	AttackerName  string `json:"attacker_name"`
	DefenderName  string `json:"defender_name"`
	Hit           bool   `json:"hit"`
	Damage        int    `json:"damage,omitempty"`
	DefenderHP    int    `json:"defender_hp"`
	DefenderMaxHP int    `json:"defender_max_hp"`
	CombatEnded   bool   `json:"combat_ended,omitempty"`
	Victory       bool   `json:"victory,omitempty"`
	Message       string `json:"message"`
}

// HealthUpdate follows a creature retaliation.
type HealthUpdate struct {
	AttackerHealth int    `json:"attacker_health"`
	TargetHealth   int    `json:"target_health"`
	Message        string `json:"message"`
}

// CombatEnded is emitted when a session reaches Victory or Defeat.
type CombatEnded struct {
	Victory        bool   `json:"victory"`
	XPGained       int    `json:"xp_gained,omitempty"`
	CurrencyGained int    `json:"currency_gained,omitempty"`
	EnemyName      string `json:"enemy_name"`
}

// QuestStatus is the lifecycle state of a quest instance.
type QuestStatus string

const (
	QuestAvailable QuestStatus = "available"
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
	QuestFailed    QuestStatus = "failed"
	QuestAbandoned QuestStatus = "abandoned"
)

// ObjectiveType tags what world event advances an objective.
type ObjectiveType string

const (
	ObjectiveKillCreature     ObjectiveType = "kill_creature"
	ObjectiveCollectItem      ObjectiveType = "collect_item"
	ObjectiveReachLocation    ObjectiveType = "reach_location"
	ObjectiveTalkToNPC        ObjectiveType = "talk_to_npc"
	ObjectiveUseItem          ObjectiveType = "use_item"
	ObjectiveDiscoverLocation ObjectiveType = "discover_location"
)

// ObjectiveView is the per-objective part of a quest snapshot.
type ObjectiveView struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Type        ObjectiveType `json:"type"`
	Required    int           `json:"required"`
	Current     int           `json:"current"`
	Completed   bool          `json:"completed"`
}

// RewardView summarizes what completing a quest grants.
type RewardView struct {
	XP       int      `json:"xp"`
	Currency int      `json:"currency"`
	Items    []string `json:"items"`
}

// QuestView is the full client-facing snapshot of a quest instance.
type QuestView struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      QuestStatus     `json:"status"`
	Level       int             `json:"level"`
	Objectives  []ObjectiveView `json:"objectives"`
	Rewards     RewardView      `json:"rewards"`
}

// QuestUpdate wraps a quest snapshot.
type QuestUpdate struct {
	Quest QuestView `json:"quest"`
}

// CharacterUpdate is a compact character sheet for the status display.
type CharacterUpdate struct {
	Name     string `json:"name"`
	Class    string `json:"class"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
	XPToNext int    `json:"xp_to_next"`
	HP       int    `json:"hp"`
	MaxHP    int    `json:"max_hp"`
	Currency int    `json:"currency"`
	Location string `json:"location"`
}

// Announcement is a message broadcast to every connected player.
type Announcement struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// CreatureDef holds the level-1 stats of a creature type.
type CreatureDef struct {
	Type           string
	Name           string
	HP             int
	Damage         int
	Strength       int
	Courage        int
	XPReward       int
	CurrencyReward int
	Sprite         string
}

// EncounterDef is a room-scoped spawn definition.
type EncounterDef struct {
	ID          string
	Room        string
	Creatures   []string
	Frequency   float64 // 0.0–1.0 per check
	MinLevel    int
	MaxLevel    int
	Description string
	Unique      bool // disabled after the spawned creature is defeated
}

// ObjectiveDef is one trackable sub-goal of a quest template.
type ObjectiveDef struct {
	ID          string
	Description string
	Type        ObjectiveType
	Target      string // creature type, item, location or npc id
	Required    int
}

// QuestDef is an immutable quest template.
type QuestDef struct {
	ID             string
	Title          string
	Description    string
	Level          int
	Objectives     []ObjectiveDef
	XPReward       int
	CurrencyReward int
	ItemRewards    []string
	Giver          string
	Series         string
	Repeatable     bool
}

// Condition is a predicate that gates a dialogue topic.
type Condition struct {
	Type   string         // "quest_status", "min_level", "flag_set", "not"
	Params map[string]any // condition-specific parameters
	Inner  *Condition     // for Not(): the negated inner condition
}

// Effect is a single opaque call into the core made by dialogue.
type Effect struct {
	Type   string
	Params map[string]any
}

// TopicDef defines a single dialogue topic for an NPC.
type TopicDef struct {
	Text     string
	Requires []Condition
	Effects  []Effect
}

// NPCDef is a static non-player character.
type NPCDef struct {
	ID          string
	Name        string
	Location    string
	Description string
	Topics      map[string]TopicDef
}

// RoomDef is the base definition of a room.
type RoomDef struct {
	ID          string
	Name        string
	Description string
	Floor       int
	Exits       map[string]string // direction → room_id
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Start   string   // starting room ID
	Intro   string
	Quests  []string // offered to every new character
}

// Result is the output of a single game step.
type Result struct {
	Output        []TextOutput
	Notifications []Notification
}
