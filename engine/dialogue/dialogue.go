// Package dialogue implements the NPC topic system.
package dialogue

import (
	"sort"

	"github.com/nathoo/templecore/engine/rules"
	"github.com/nathoo/templecore/engine/state"
	"github.com/nathoo/templecore/types"
)

// AvailableTopics returns topic keys whose conditions are met, sorted.
func AvailableTopics(npcID string, defs *state.Defs, ctx rules.Context) []string {
	npc, ok := defs.NPCs[npcID]
	if !ok || npc.Topics == nil {
		return nil
	}

	var result []string
	for key, topic := range npc.Topics {
		if rules.EvalAllConditions(topic.Requires, ctx) {
			result = append(result, key)
		}
	}
	sort.Strings(result)
	return result
}

// SelectTopic returns the text and effects for a chosen topic.
// Returns empty text and nil effects if topic doesn't exist or conditions not met.
func SelectTopic(npcID, topicKey string, defs *state.Defs, ctx rules.Context) (string, []types.Effect) {
	npc, ok := defs.NPCs[npcID]
	if !ok || npc.Topics == nil {
		return "", nil
	}

	topic, ok := npc.Topics[topicKey]
	if !ok {
		return "", nil
	}

	if !rules.EvalAllConditions(topic.Requires, ctx) {
		return "", nil
	}

	return topic.Text, topic.Effects
}
