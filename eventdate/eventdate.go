// Package eventdate extracts an event start time from a topic title. A topic
// is an event iff its title carries a YYYY-MM-DD date bounded by a
// non-alphanumeric separator. Parsing lives here and nowhere else; request
// handlers never look at titles themselves.
package eventdate

import (
	"regexp"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"
)

var (
	dateRe   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	timeRe   = regexp.MustCompile(`^[\sT@,]*(\d{1,2}):(\d{2})`)
	offsetRe = regexp.MustCompile(`^\s*(?:UTC|GMT)?([+-])(\d{1,2}):?(\d{2})?`)
)

// Parse returns the event start instant for the given title. ok is false when
// the title is not an event.
//
// A bare date is read as "the event ends at the start of the next day": the
// returned instant is midnight local time of the day after the date. That is
// deliberate fallback policy, not a bug; callers that want "time until event"
// subtract now from this instant.
func Parse(title string) (time.Time, bool) {
	for _, loc := range dateRe.FindAllStringIndex(title, -1) {
		start, end := loc[0], loc[1]

		// The date must not run straight into a letter or digit on
		// either side.
		if start > 0 {
			prev, _ := utf8.DecodeLastRuneInString(title[:start])
			if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
				continue
			}
		}
		if end < len(title) {
			next, _ := utf8.DecodeRuneInString(title[end:])
			if unicode.IsLetter(next) || unicode.IsDigit(next) {
				continue
			}
		}

		day, err := time.ParseInLocation("2006-01-02", title[start:end], time.Local)
		if err != nil {
			continue
		}

		rest := title[end:]
		if tm := timeRe.FindStringSubmatch(rest); tm != nil {
			hour, _ := strconv.Atoi(tm[1])
			minute, _ := strconv.Atoi(tm[2])
			if hour < 24 && minute < 60 {
				zone := time.Local
				if off := offsetRe.FindStringSubmatch(rest[len(tm[0]):]); off != nil {
					oh, _ := strconv.Atoi(off[2])
					om := 0
					if off[3] != "" {
						om, _ = strconv.Atoi(off[3])
					}
					secs := oh*3600 + om*60
					if off[1] == "-" {
						secs = -secs
					}
					zone = time.FixedZone("", secs)
				}
				return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, zone), true
			}
		}

		// Bare date: start of the following day.
		return day.AddDate(0, 0, 1), true
	}
	return time.Time{}, false
}

// IsEvent reports whether the title carries a parseable event date.
func IsEvent(title string) bool {
	_, ok := Parse(title)
	return ok
}

// SecondsToEvent returns how many whole seconds remain until the event start,
// negative as soon as the start instant has passed. It returns -1 when the
// title is not an event; callers must treat that the same as "event not
// found" and use IsEvent to tell the cases apart.
func SecondsToEvent(title string, now time.Time) int64 {
	start, ok := Parse(title)
	if !ok {
		return -1
	}
	d := start.Sub(now)
	secs := int64(d / time.Second)
	// Integer division truncates toward zero; floor it so a start even a
	// fraction of a second ago already reads as past.
	if d < 0 && d%time.Second != 0 {
		secs--
	}
	return secs
}
