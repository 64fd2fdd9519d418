package markethours

import (
	"testing"
	"time"
)

// et builds a time in the market timezone.
func et(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, Eastern)
}

// 2026-08-26 is a Wednesday, 2026-08-28 a Friday, 2026-08-29 a Saturday.

func TestAt_SessionBoundaries(t *testing.T) {
	cases := []struct {
		name string
		at   time.Time
		want Session
	}{
		{"overnight", et(2026, time.August, 26, 2, 0), SessionClosed},
		{"just before pre-market", et(2026, time.August, 26, 3, 59), SessionClosed},
		{"pre-market start", et(2026, time.August, 26, 4, 0), SessionPreMarket},
		{"just before open", et(2026, time.August, 26, 9, 29), SessionPreMarket},
		{"open", et(2026, time.August, 26, 9, 30), SessionOpen},
		{"midday", et(2026, time.August, 26, 12, 0), SessionOpen},
		{"last open minute", et(2026, time.August, 26, 15, 59), SessionOpen},
		{"close", et(2026, time.August, 26, 16, 0), SessionAfterHours},
		{"after hours", et(2026, time.August, 26, 19, 59), SessionAfterHours},
		{"after hours end", et(2026, time.August, 26, 20, 0), SessionClosed},
		{"saturday noon", et(2026, time.August, 29, 12, 0), SessionClosed},
		{"sunday noon", et(2026, time.August, 30, 12, 0), SessionClosed},
	}
	for _, tc := range cases {
		if got := At(tc.at).Session; got != tc.want {
			t.Errorf("%s: session=%s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestAt_WeekendDescribesMonday(t *testing.T) {
	status := At(et(2026, time.August, 29, 12, 0))

	if status.Session != SessionClosed {
		t.Fatalf("session=%s, want CLOSED", status.Session)
	}
	if status.NextSession != "Monday 9:30 AM ET" {
		t.Errorf("next=%q, want Monday open", status.NextSession)
	}
	if status.Message != "Market is closed for the weekend" {
		t.Errorf("message=%q", status.Message)
	}
	wantChange := et(2026, time.August, 31, 9, 30)
	if !status.NextChange.Equal(wantChange) {
		t.Errorf("next change=%v, want %v", status.NextChange, wantChange)
	}
}

func TestAt_FridayAfterHoursRollsToMonday(t *testing.T) {
	status := At(et(2026, time.August, 28, 17, 0))

	if status.Session != SessionAfterHours {
		t.Fatalf("session=%s, want AFTER_HOURS", status.Session)
	}
	if status.NextSession != "Monday 4:00 AM ET (Pre-Market)" {
		t.Errorf("next=%q, want Monday pre-market", status.NextSession)
	}
	wantChange := et(2026, time.August, 31, 4, 0)
	if !status.NextChange.Equal(wantChange) {
		t.Errorf("next change=%v, want %v", status.NextChange, wantChange)
	}
}

func TestAt_PreMarketAnnouncesRegularHours(t *testing.T) {
	status := At(et(2026, time.August, 26, 5, 0))
	if status.NextSession != "Today 9:30 AM ET (Regular Hours)" {
		t.Errorf("next=%q", status.NextSession)
	}
	if !status.IsTradingHours {
		t.Error("pre-market counts as extended trading hours")
	}
}

func TestAt_OvernightAnnouncesPreMarket(t *testing.T) {
	status := At(et(2026, time.August, 26, 2, 0))
	if status.NextSession != "Today 4:00 AM ET (Pre-Market)" {
		t.Errorf("next=%q", status.NextSession)
	}
	if status.IsTradingHours {
		t.Error("overnight is not trading hours")
	}
}

func TestAt_MidweekEveningAnnouncesTomorrow(t *testing.T) {
	status := At(et(2026, time.August, 26, 21, 0))
	if status.NextSession != "Tomorrow 4:00 AM ET (Pre-Market)" {
		t.Errorf("next=%q", status.NextSession)
	}
}

func TestIsOpen(t *testing.T) {
	cases := []struct {
		at   time.Time
		want bool
	}{
		{et(2026, time.August, 26, 9, 29), false},
		{et(2026, time.August, 26, 9, 30), true},
		{et(2026, time.August, 26, 15, 59), true},
		{et(2026, time.August, 26, 16, 0), false},
		{et(2026, time.August, 29, 12, 0), false},
	}
	for _, tc := range cases {
		if got := IsOpen(tc.at); got != tc.want {
			t.Errorf("IsOpen(%v)=%v, want %v", tc.at, got, tc.want)
		}
	}
}

func TestNextOpen(t *testing.T) {
	// Before today's open on a weekday: today.
	got := NextOpen(et(2026, time.August, 26, 7, 0))
	if want := et(2026, time.August, 26, 9, 30); !got.Equal(want) {
		t.Errorf("NextOpen early weekday=%v, want %v", got, want)
	}

	// After open: next weekday.
	got = NextOpen(et(2026, time.August, 26, 11, 0))
	if want := et(2026, time.August, 27, 9, 30); !got.Equal(want) {
		t.Errorf("NextOpen midday=%v, want %v", got, want)
	}

	// Friday midday: Monday.
	got = NextOpen(et(2026, time.August, 28, 11, 0))
	if want := et(2026, time.August, 31, 9, 30); !got.Equal(want) {
		t.Errorf("NextOpen friday=%v, want %v", got, want)
	}
}
