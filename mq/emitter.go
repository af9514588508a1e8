// Package mq moves the out-of-band traffic over Redis pub/sub: unslot
// notifications go out on one channel, attendance-change events come in on
// another.
package mq

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"slotboard/autounslot"
	"slotboard/models"
)

const (
	NotificationChannel = "slot-notifications"
	AttendanceChannel   = "attendance-events"
)

type Emitter struct {
	conn *redis.Client
}

func NewEmitter(conn *redis.Client) *Emitter {
	return &Emitter{conn: conn}
}

// NotifyUnslotted publishes one notification per removal batch.
func (e *Emitter) NotifyUnslotted(ctx context.Context, topicID, userID string, count int) error {
	data, err := json.Marshal(models.UnslotNotification{
		TopicID:      topicID,
		UserID:       userID,
		RemovalCount: count,
	})
	if err != nil {
		return err
	}
	return e.conn.Publish(ctx, NotificationChannel, data).Err()
}

// StartAttendanceWorker subscribes to attendance-change events and feeds them
// to the auto-unslot service. Runs until the context is cancelled; call it in
// its own goroutine.
func StartAttendanceWorker(ctx context.Context, conn *redis.Client, svc *autounslot.Service) {
	sub := conn.Subscribe(ctx, AttendanceChannel)
	defer sub.Close()

	log.Printf("mq: listening for attendance events on %q", AttendanceChannel)
	for msg := range sub.Channel() {
		var ev models.AttendanceChangeEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("mq: bad attendance event: %v", err)
			continue
		}
		count, err := svc.HandleAttendanceChange(ctx, ev)
		if err != nil {
			log.Printf("mq: unslot topic %s user %s: %v", ev.TopicID, ev.UserID, err)
			continue
		}
		if count > 0 {
			log.Printf("mq: unslotted user %s from %d slot(s) of topic %s", ev.UserID, count, ev.TopicID)
		}
	}
}
