// Package encounter decides whether a random encounter fires in a room and
// what it spawns.
package encounter

import (
	"fmt"
	"sort"
	"sync"

	"github.com/nathoo/templecore/types"
)

// Rand is the randomness a Check draws from. Each player worker supplies
// its own source.
type Rand interface {
	Float64() float64
	Intn(n int) int
	IntRange(lo, hi int) int
}

// CreatureSet reports whether a creature type exists.
type CreatureSet interface {
	Has(creatureType string) bool
}

// Spawn is the outcome of a successful encounter check.
type Spawn struct {
	EncounterID  string
	CreatureType string
	Level        int
	Description  string
	Unique       bool
}

// Registry holds the encounter table. Definitions are immutable after New;
// only the active flags change. Safe for concurrent use.
type Registry struct {
	defs   map[string]types.EncounterDef
	byRoom map[string][]string // room → encounter ids in definition order

	mu     sync.RWMutex
	active map[string]bool
}

// New builds a registry. Every encounter starts active. When two
// definitions share an id the first one wins.
func New(defs []types.EncounterDef) *Registry {
	r := &Registry{
		defs:   make(map[string]types.EncounterDef, len(defs)),
		byRoom: make(map[string][]string),
		active: make(map[string]bool, len(defs)),
	}
	for _, d := range defs {
		if _, dup := r.defs[d.ID]; dup {
			continue
		}
		r.byRoom[d.Room] = append(r.byRoom[d.Room], d.ID)
		r.defs[d.ID] = d
		r.active[d.ID] = true
	}
	return r
}

// Check runs one encounter check for a room. Each active encounter with a
// non-empty creature pool gets an independent trial at its frequency; one
// of the successes is picked uniformly, then a creature type and a level
// in [min, max].
func (r *Registry) Check(roomKey string, rnd Rand) (Spawn, bool) {
	ids := r.byRoom[roomKey]
	if len(ids) == 0 {
		return Spawn{}, false
	}

	r.mu.RLock()
	var hits []types.EncounterDef
	for _, id := range ids {
		if !r.active[id] {
			continue
		}
		def := r.defs[id]
		if len(def.Creatures) == 0 {
			continue
		}
		if rnd.Float64() < def.Frequency {
			hits = append(hits, def)
		}
	}
	r.mu.RUnlock()

	if len(hits) == 0 {
		return Spawn{}, false
	}

	chosen := hits[0]
	if len(hits) > 1 {
		chosen = hits[rnd.Intn(len(hits))]
	}

	creature := chosen.Creatures[rnd.Intn(len(chosen.Creatures))]
	level := rnd.IntRange(chosen.MinLevel, chosen.MaxLevel)
	if level < 1 {
		level = 1
	}

	return Spawn{
		EncounterID:  chosen.ID,
		CreatureType: creature,
		Level:        level,
		Description:  chosen.Description,
		Unique:       chosen.Unique,
	}, true
}

// Disable permanently deactivates an encounter. Unknown ids are ignored.
func (r *Registry) Disable(encounterID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.active[encounterID]; ok {
		r.active[encounterID] = false
	}
}

// Active reports whether an encounter exists and can still fire.
func (r *Registry) Active(encounterID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active[encounterID]
}

// Disabled returns the ids of all disabled encounters, sorted.
func (r *Registry) Disabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for id, on := range r.active {
		if !on {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Room returns the encounter definitions registered for a room.
func (r *Registry) Room(roomKey string) []types.EncounterDef {
	ids := r.byRoom[roomKey]
	out := make([]types.EncounterDef, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.defs[id])
	}
	return out
}

// Validate reports encounters with unknown creature types, frequencies
// outside [0,1] or inverted level ranges.
func (r *Registry) Validate(creatures CreatureSet) []error {
	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var errs []error
	for _, id := range ids {
		def := r.defs[id]
		if len(def.Creatures) == 0 {
			errs = append(errs, fmt.Errorf("encounter %q: empty creature pool", id))
		}
		for _, c := range def.Creatures {
			if !creatures.Has(c) {
				errs = append(errs, fmt.Errorf("encounter %q: unknown creature type %q", id, c))
			}
		}
		if def.Frequency < 0 || def.Frequency > 1 {
			errs = append(errs, fmt.Errorf("encounter %q: frequency %v outside [0,1]", id, def.Frequency))
		}
		if def.MinLevel < 1 || def.MaxLevel < def.MinLevel {
			errs = append(errs, fmt.Errorf("encounter %q: bad level range [%d,%d]", id, def.MinLevel, def.MaxLevel))
		}
	}
	return errs
}
