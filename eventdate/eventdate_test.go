package eventdate

import (
	"testing"
	"time"
)

func TestParseClassification(t *testing.T) {
	cases := []struct {
		title string
		event bool
	}{
		{"Raid 2024-05-01 Night", true},
		{"Operation Redwood 2024-05-01", true},
		{"2024-05-01", true},
		{"[SUN] 2024-05-01, open slotting", true},
		{"no date at all", false},
		{"", false},
		{"build 2024-05-012 regression", false},
		{"patch2024-05-01x notes", false},
		{"patch2024-05-01 notes", false},
		{"build12024-05-01 rc", false},
		{"v1 2024-05-01 final", true},
		{"almost 2024-5-01 a date", false},
		{"bad calendar 2024-13-40 day", false},
		{"second try 2024-13-40 then 2024-06-15 works", true},
	}
	for _, tc := range cases {
		if _, ok := Parse(tc.title); ok != tc.event {
			t.Errorf("Parse(%q): event = %v, want %v", tc.title, ok, tc.event)
		}
	}
}

func TestParseBareDateFallsToNextMidnight(t *testing.T) {
	start, ok := Parse("Raid 2024-05-01 Night")
	if !ok {
		t.Fatal("expected an event")
	}
	want := time.Date(2024, 5, 2, 0, 0, 0, 0, time.Local)
	if !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
}

func TestParseWithTime(t *testing.T) {
	start, ok := Parse("Operation 2024-05-01 18:30 briefing at 17:45")
	if !ok {
		t.Fatal("expected an event")
	}
	want := time.Date(2024, 5, 1, 18, 30, 0, 0, time.Local)
	if !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
}

func TestParseWithTimeAndOffset(t *testing.T) {
	start, ok := Parse("Operation 2024-05-01 18:30 +02:00")
	if !ok {
		t.Fatal("expected an event")
	}
	want := time.Date(2024, 5, 1, 18, 30, 0, 0, time.FixedZone("", 2*3600))
	if !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
}

func TestParseInvalidTimeFallsBackToBareDate(t *testing.T) {
	start, ok := Parse("Raid 2024-05-01 29:99 nonsense")
	if !ok {
		t.Fatal("expected an event")
	}
	want := time.Date(2024, 5, 2, 0, 0, 0, 0, time.Local)
	if !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
}

func TestSecondsToEvent(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)

	if got := SecondsToEvent("not an event", now); got != -1 {
		t.Errorf("non-event: got %d, want -1", got)
	}

	// Bare date 2024-05-01 resolves to 2024-05-02T00:00 local, 12h ahead.
	if got := SecondsToEvent("Raid 2024-05-01 Night", now); got != 12*3600 {
		t.Errorf("future event: got %d, want %d", got, 12*3600)
	}

	// A date in the past yields a negative remainder.
	if got := SecondsToEvent("Raid 2024-04-01", now); got >= 0 {
		t.Errorf("past event: got %d, want negative", got)
	}

	// Negative the instant the start passes, even by a fraction of a second.
	justAfter := time.Date(2024, 5, 2, 0, 0, 0, 500_000_000, time.Local)
	if got := SecondsToEvent("Raid 2024-05-01 Night", justAfter); got >= 0 {
		t.Errorf("just-started event: got %d, want negative", got)
	}
}

func TestIsEvent(t *testing.T) {
	if !IsEvent("Raid 2024-05-01") {
		t.Error("expected event")
	}
	if IsEvent("Raid five-oh-one") {
		t.Error("expected non-event")
	}
}
