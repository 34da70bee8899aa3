// Package deadline computes the countdown to the daily funding cutoff
// and builds prefilled calendar links. Everything here is pure: safe to
// recompute on every request.
package deadline

import (
	"fmt"
	"net/url"
	"time"
)

// Countdown is the remaining time until the next cutoff occurrence.
type Countdown struct {
	Hours    int       `json:"hours"`
	Minutes  int       `json:"minutes"`
	Urgent   bool      `json:"urgent"`
	Deadline time.Time `json:"deadline"`
}

// ParseCutoff parses a "15:04" clock string.
func ParseCutoff(s string) (hour, min int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("parse cutoff %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Next computes the countdown from now to the next occurrence of the
// daily cutoff. Past today's cutoff the deadline rolls to tomorrow, so
// the remaining duration is never negative. Urgent is set when the
// remaining time is below urgentWithin.
func Next(now time.Time, cutoffHour, cutoffMin int, urgentWithin time.Duration) Countdown {
	deadline := time.Date(now.Year(), now.Month(), now.Day(),
		cutoffHour, cutoffMin, 0, 0, now.Location())
	if now.After(deadline) {
		deadline = deadline.Add(24 * time.Hour)
	}

	left := deadline.Sub(now)
	return Countdown{
		Hours:    int(left.Hours()),
		Minutes:  int(left.Minutes()) % 60,
		Urgent:   left < urgentWithin,
		Deadline: deadline,
	}
}

const calendarBase = "https://calendar.google.com/calendar/render?action=TEMPLATE"

// CalendarLink builds a prefilled Google Calendar event URL for a task:
// a one-hour block starting at the due time, in floating local time.
func CalendarLink(title string, due time.Time) string {
	const stamp = "20060102T150405"
	start := due.Format(stamp)
	end := due.Add(time.Hour).Format(stamp)
	return fmt.Sprintf("%s&text=%s&dates=%s/%s",
		calendarBase, url.QueryEscape(title), start, end)
}
