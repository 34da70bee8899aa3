package deadline

import (
	"strings"
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func TestNext_BeforeCutoff(t *testing.T) {
	cd := Next(at(9, 0), 12, 0, time.Hour)

	if cd.Hours != 3 || cd.Minutes != 0 {
		t.Errorf("remaining = %dh %dm, want 3h 0m", cd.Hours, cd.Minutes)
	}
	if cd.Urgent {
		t.Error("urgent = true three hours out, want false")
	}
	if !cd.Deadline.Equal(at(12, 0)) {
		t.Errorf("deadline = %v, want today 12:00", cd.Deadline)
	}
}

// Past today's cutoff the deadline rolls to tomorrow instead of going
// negative.
func TestNext_RollsToTomorrow(t *testing.T) {
	cd := Next(at(13, 0), 12, 0, time.Hour)

	want := at(12, 0).Add(24 * time.Hour)
	if !cd.Deadline.Equal(want) {
		t.Fatalf("deadline = %v, want tomorrow 12:00 (%v)", cd.Deadline, want)
	}
	if cd.Hours != 23 || cd.Minutes != 0 {
		t.Errorf("remaining = %dh %dm, want 23h 0m", cd.Hours, cd.Minutes)
	}
	if cd.Urgent {
		t.Error("urgent = true with 23h left, want false")
	}
}

func TestNext_UrgencyThreshold(t *testing.T) {
	testCases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"59 minutes left", at(11, 1), true},
		{"61 minutes left", at(10, 59), false},
		{"exactly at threshold", at(11, 0), false}, // 60m is not under the threshold
	}
	for _, tc := range testCases {
		cd := Next(tc.now, 12, 0, time.Hour)
		if cd.Urgent != tc.want {
			t.Errorf("%s: urgent = %v, want %v", tc.name, cd.Urgent, tc.want)
		}
	}
}

func TestParseCutoff(t *testing.T) {
	hour, min, err := ParseCutoff("12:00")
	if err != nil {
		t.Fatalf("ParseCutoff(\"12:00\") error = %v", err)
	}
	if hour != 12 || min != 0 {
		t.Errorf("ParseCutoff = %d:%d, want 12:00", hour, min)
	}

	for _, bad := range []string{"", "25:00", "noon", "12:61"} {
		if _, _, err := ParseCutoff(bad); err == nil {
			t.Errorf("ParseCutoff(%q) error = nil, want error", bad)
		}
	}
}

func TestCalendarLink(t *testing.T) {
	due := time.Date(2026, 3, 2, 11, 30, 0, 0, time.UTC)
	got := CalendarLink("Approve Wires", due)

	want := "https://calendar.google.com/calendar/render?action=TEMPLATE" +
		"&text=Approve+Wires&dates=20260302T113000/20260302T123000"
	if got != want {
		t.Errorf("CalendarLink = %q, want %q", got, want)
	}
}

func TestCalendarLink_EscapesTitle(t *testing.T) {
	due := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	got := CalendarLink("Q1 Review & Signoff", due)

	if want := "text=Q1+Review+%26+Signoff"; !strings.Contains(got, want) {
		t.Errorf("CalendarLink = %q, want it to contain %q", got, want)
	}
}
