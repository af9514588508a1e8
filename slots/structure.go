package slots

import (
	"context"
	"fmt"

	"slotboard/models"
)

// ValidateStructure checks a roster tree before it is stored: every slot
// needs an id and slot ids must be unique within the match.
func ValidateStructure(g *models.SlotGroup) error {
	seen := make(map[string]bool)
	var walk func(*models.SlotGroup) error
	walk = func(n *models.SlotGroup) error {
		for i := range n.Slots {
			id := n.Slots[i].ID
			if id == "" {
				return fmt.Errorf("slot without id in group %q", n.Name)
			}
			if seen[id] {
				return fmt.Errorf("duplicate slot id %q", id)
			}
			seen[id] = true
		}
		for i := range n.Groups {
			if err := walk(&n.Groups[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(g)
}

// ReplaceStructure overwrites a match's roster tree wholesale. The payload is
// authoritative: occupants and reservations not carried over by the caller
// are gone afterwards, which is accepted behavior for admin edits. Runs under
// the match lock so it cannot interleave with claims.
func (e *Engine) ReplaceStructure(ctx context.Context, topicID, matchID, name string, structure models.SlotGroup) error {
	mu := e.lockMatch(topicID, matchID)
	defer mu.Unlock()

	m, err := e.load(ctx, topicID, matchID)
	if err != nil {
		return err
	}
	m.Structure = structure
	if name != "" {
		m.Name = name
	}
	m.UpdatedAt = e.now()
	return e.store.Update(ctx, m)
}
