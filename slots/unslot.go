package slots

import (
	"context"
	"errors"
)

// Removal records one slot a user was removed from during a batch unslot.
type Removal struct {
	MatchID string `json:"matchId"`
	SlotID  string `json:"slotId"`
}

// UnslotUser removes the user from every slot it occupies across every match
// of the topic, bypassing ownership checks. Removal is best effort: matches
// already written stay written when a later match fails, and the first error
// is returned alongside the removals that did commit.
func (e *Engine) UnslotUser(ctx context.Context, topicID, userID string) ([]Removal, error) {
	ms, err := e.store.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}

	var removals []Removal
	for i := range ms {
		matchID := ms[i].MatchID
		cleared, err := e.unslotFromMatch(ctx, topicID, matchID, userID)
		if err != nil {
			return removals, err
		}
		for _, slotID := range cleared {
			removals = append(removals, Removal{MatchID: matchID, SlotID: slotID})
		}
	}
	return removals, nil
}

func (e *Engine) unslotFromMatch(ctx context.Context, topicID, matchID, userID string) ([]string, error) {
	mu := e.lockMatch(topicID, matchID)
	defer mu.Unlock()

	// Reload under the lock; the listing snapshot may be stale.
	m, err := e.load(ctx, topicID, matchID)
	if errors.Is(err, ErrNotFound) {
		// Match deleted since the listing; nothing left to clear there.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cleared := removeUser(&m.Structure, userID)
	if len(cleared) == 0 {
		return nil, nil
	}
	m.UpdatedAt = e.now()
	if err := e.store.Update(ctx, m); err != nil {
		return nil, err
	}
	return cleared, nil
}
