// Package slots implements the atomic claim/release operations on individual
// slots within a match's roster. Claim and release on a given slot are
// linearizable: every mutation runs under a per-match lock around a
// load, check-and-mutate, store cycle.
package slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"slotboard/matches"
	"slotboard/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")
)

type Engine struct {
	store matches.Store
	locks sync.Map // "topicID/matchID" -> *sync.Mutex
	now   func() time.Time
}

func NewEngine(store matches.Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// lockMatch takes the mutex scoping all mutations of one match's slots.
func (e *Engine) lockMatch(topicID, matchID string) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(topicID+"/"+matchID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu
}

func (e *Engine) load(ctx context.Context, topicID, matchID string) (*models.Match, error) {
	m, err := e.store.Get(ctx, topicID, matchID)
	if errors.Is(err, matches.ErrNotFound) {
		return nil, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	return m, err
}

// Claim puts userID into the slot. It fails with ErrConflict when the slot is
// occupied, or when it is reserved for somebody else and the caller is not
// privileged. Claiming a slot reserved for yourself fulfills the reservation;
// a privileged claim over a foreign reservation clears it rather than leaving
// a stale intent behind.
func (e *Engine) Claim(ctx context.Context, topicID, matchID, slotID, userID string, privileged bool) error {
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
	if slot.ReservedForUserID != "" && slot.ReservedForUserID != userID && !privileged {
		return fmt.Errorf("%w: slot reserved for another user", ErrConflict)
	}

	slot.OccupantUserID = userID
	if slot.ReservedForUserID == userID || privileged {
		slot.ReservedForUserID = ""
	}
	m.UpdatedAt = e.now()
	return e.store.Update(ctx, m)
}

// Release clears the slot's occupant. Only the occupant itself, or a
// privileged caller (admin kick), may release. Releasing an empty slot
// reports ErrNotFound: whoever the caller thought was there is gone already.
func (e *Engine) Release(ctx context.Context, topicID, matchID, slotID, actingUserID string, privileged bool) error {
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
	if slot.OccupantUserID == "" {
		return fmt.Errorf("%w: slot is not occupied", ErrNotFound)
	}
	if slot.OccupantUserID != actingUserID && !privileged {
		return fmt.Errorf("%w: slot belongs to another user", ErrForbidden)
	}

	slot.OccupantUserID = ""
	m.UpdatedAt = e.now()
	return e.store.Update(ctx, m)
}

// GetSlot returns a copy of the slot for display purposes.
func (e *Engine) GetSlot(ctx context.Context, topicID, matchID, slotID string) (*models.Slot, error) {
	m, err := e.load(ctx, topicID, matchID)
	if err != nil {
		return nil, err
	}
	slot := findSlot(&m.Structure, slotID)
	if slot == nil {
		return nil, fmt.Errorf("%w: slot %s", ErrNotFound, slotID)
	}
	c := *slot
	return &c, nil
}

// ListSlots returns every leaf slot of a match in document order.
func (e *Engine) ListSlots(ctx context.Context, topicID, matchID string) ([]models.Slot, error) {
	m, err := e.load(ctx, topicID, matchID)
	if err != nil {
		return nil, err
	}
	return flatten(&m.Structure), nil
}

// OccupantUserIDs aggregates the occupants across every match of the topic,
// deduplicated and sorted. Used for notification fan-out and the "who is
// attending" display.
func (e *Engine) OccupantUserIDs(ctx context.Context, topicID string) ([]string, error) {
	ms, err := e.store.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	ids := []string{}
	for i := range ms {
		for _, uid := range occupants(&ms[i].Structure) {
			if !seen[uid] {
				seen[uid] = true
				ids = append(ids, uid)
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}
