// Package save implements JSON serialization and deserialization of a
// player's game state.
package save

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nathoo/templecore/engine"
	"github.com/nathoo/templecore/engine/quest"
	"github.com/nathoo/templecore/engine/state"
)

// FormatVersion is bumped when SaveData changes incompatibly.
const FormatVersion = 1

// ErrInCombat is returned when saving mid-fight.
var ErrInCombat = errors.New("cannot save during combat")

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Format      int             `json:"format"`
	Version     string          `json:"version"`
	Game        string          `json:"game"`
	Turn        int             `json:"turn"`
	Character   state.Character `json:"character"`
	Quests      []quest.Record  `json:"quests"`
	Disabled    []string        `json:"disabled_encounters"`
	RNGSeed     int64           `json:"rng_seed"`
	RNGPosition int64           `json:"rng_position"`
	CommandLog  []string        `json:"command_log"`
}

// Save serializes an engine's player state to JSON bytes.
func Save(e *engine.Engine) ([]byte, error) {
	if e.Combat.InCombat() {
		return nil, ErrInCombat
	}
	data := SaveData{
		Format:      FormatVersion,
		Version:     e.Defs.Game.Version,
		Game:        e.Defs.Game.Title,
		Turn:        e.TurnCount,
		Character:   *e.Player,
		Quests:      e.Quests.Snapshot(),
		Disabled:    e.Encounters.Disabled(),
		RNGSeed:     e.RNG.Seed(),
		RNGPosition: e.RNG.Position(),
		CommandLog:  e.CommandLog,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if sd.Format > FormatVersion {
		return nil, fmt.Errorf("save format %d is newer than supported %d", sd.Format, FormatVersion)
	}
	// Ensure maps are never nil after load.
	if sd.Character.Flags == nil {
		sd.Character.Flags = map[string]bool{}
	}
	if sd.Character.Visited == nil {
		sd.Character.Visited = map[string]bool{}
	}
	if sd.CommandLog == nil {
		sd.CommandLog = []string{}
	}
	if sd.RNGSeed == 0 {
		sd.RNGSeed = 1
	}
	return &sd, nil
}

// ApplySave applies loaded save data onto an engine. Any fight in progress
// is dropped; the player record never carries a live combat link.
func ApplySave(e *engine.Engine, sd *SaveData) {
	c := sd.Character
	c.InCombat = false
	c.Defending = false
	c.CombatSession = ""
	*e.Player = c

	e.Quests.Restore(sd.Quests)
	for _, id := range sd.Disabled {
		e.Encounters.Disable(id)
	}
	e.TurnCount = sd.Turn
	e.CommandLog = sd.CommandLog
	e.RestoreRNG(sd.RNGSeed, sd.RNGPosition)
}
