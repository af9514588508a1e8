// Package autounslot reacts to attendance-change signals from outside the
// HTTP surface: when a user is no longer certain to attend, it removes them
// from every slot of the event and notifies downstream once per removal
// batch.
package autounslot

import (
	"context"
	"log"

	"slotboard/models"
	"slotboard/slots"
)

// Notifier delivers the single notification per attendance change that
// actually unslotted somebody.
type Notifier interface {
	NotifyUnslotted(ctx context.Context, topicID, userID string, count int) error
}

type Service struct {
	engine   *slots.Engine
	notifier Notifier
}

func New(engine *slots.Engine, notifier Notifier) *Service {
	return &Service{engine: engine, notifier: notifier}
}

// HandleAttendanceChange applies the unslot policy. Probability >= 1 means
// the user is certain to attend and nothing happens. Otherwise the user is
// removed from every occupied slot across the topic's matches; removal is
// best effort and already-committed removals stay committed when a later
// match fails. Exactly one notification is sent when at least one slot was
// cleared, even if a later removal failed.
func (s *Service) HandleAttendanceChange(ctx context.Context, ev models.AttendanceChangeEvent) (int, error) {
	if ev.Probability >= 1 {
		return 0, nil
	}

	removals, err := s.engine.UnslotUser(ctx, ev.TopicID, ev.UserID)
	count := len(removals)
	if count > 0 {
		if nerr := s.notifier.NotifyUnslotted(ctx, ev.TopicID, ev.UserID, count); nerr != nil {
			log.Printf("autounslot: notify failed for topic %s user %s: %v", ev.TopicID, ev.UserID, nerr)
			if err == nil {
				err = nerr
			}
		}
	}
	return count, err
}
