package live

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterPublishUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "42",
	}
	hub.register <- client

	ev := Event{Action: "claim", TopicID: "42", MatchID: "m1", SlotID: "s1", UserID: "u1"}
	hub.Publish(ev)

	select {
	case got := <-client.Send:
		var decoded Event
		if err := json.Unmarshal(got, &decoded); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if decoded != ev {
			t.Fatalf("got %+v, want %+v", decoded, ev)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	hub.unregister <- client
}

func TestHubRoomsAreIsolated(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	other := &Client{
		Send: make(chan []byte, 10),
		Room: "7",
	}
	hub.register <- other

	hub.Publish(Event{Action: "claim", TopicID: "42", SlotID: "s1"})

	select {
	case msg := <-other.Send:
		t.Fatalf("room 7 received event for topic 42: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}
