package slots

import (
	"context"
	"fmt"
)

// Reserve marks a slot as intended for a specific user. The reservation is
// only meaningful while the slot is unoccupied; reserving an occupied slot is
// a conflict. Route gates restrict this to admins and thread owners.
func (e *Engine) Reserve(ctx context.Context, topicID, matchID, slotID, forUserID string) error {
	mu := e.lockMatch(topicID, matchID)
	defer mu.Unlock()

	m, err := e.load(ctx, topicID, matchID)
	if err != nil {
		return err
	}
	slot := findSlot(&m.Structure, slotID)
	if slot == nil {
		return fmt.Errorf("%w: slot %s", ErrNotFound, slotID)
	}
	if slot.OccupantUserID != "" {
		return fmt.Errorf("%w: slot already occupied", ErrConflict)
	}

	slot.ReservedForUserID = forUserID
	m.UpdatedAt = e.now()
	return e.store.Update(ctx, m)
}

// Unreserve clears a slot's reservation. Clearing an absent reservation is a
// no-op success.
func (e *Engine) Unreserve(ctx context.Context, topicID, matchID, slotID string) error {
	mu := e.lockMatch(topicID, matchID)
	defer mu.Unlock()

	m, err := e.load(ctx, topicID, matchID)
	if err != nil {
		return err
	}
	slot := findSlot(&m.Structure, slotID)
	if slot == nil {
		return fmt.Errorf("%w: slot %s", ErrNotFound, slotID)
	}
	if slot.ReservedForUserID == "" {
		return nil
	}

	slot.ReservedForUserID = ""
	m.UpdatedAt = e.now()
	return e.store.Update(ctx, m)
}
