// Package markethours decides the current US equity market session and
// describes the next session boundary. All functions are pure over the
// supplied wall-clock time; the monitor loop uses them to gate polling.
package markethours

import (
	"fmt"
	"time"
)

// Session is the market session state.
type Session string

const (
	SessionClosed     Session = "CLOSED"
	SessionPreMarket  Session = "PRE_MARKET"
	SessionOpen       Session = "OPEN"
	SessionAfterHours Session = "AFTER_HOURS"
)

// Session boundaries in minutes since midnight, US Eastern.
const (
	preMarketStartMin = 4 * 60            // 04:00
	openMin           = 9*60 + 30         // 09:30
	closeMin          = 16 * 60           // 16:00
	afterHoursEndMin  = 20 * 60           // 20:00
)

// Eastern is the US market timezone. Falls back to a fixed EST offset when
// the tz database is unavailable (DST handling degrades in that case).
var Eastern = loadEastern()

func loadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*3600)
	}
	return loc
}

// Status is the full market status at a point in time.
type Status struct {
	Session        Session       `json:"session"`
	Message        string        `json:"message"`
	NextSession    string        `json:"next_session"`
	NextChange     time.Time     `json:"next_change"`
	UntilChange    time.Duration `json:"-"`
	IsTradingHours bool          `json:"is_trading_hours"`
}

// IsOpen reports whether t falls in regular trading hours
// (9:30 AM - 4:00 PM ET, Mon-Fri).
func IsOpen(t time.Time) bool {
	et := t.In(Eastern)
	if isWeekend(et) {
		return false
	}
	hm := et.Hour()*60 + et.Minute()
	return hm >= openMin && hm < closeMin
}

// At evaluates the session for t. Evaluation order: weekend, overnight,
// pre-market, regular hours, after-hours, overnight again.
func At(t time.Time) Status {
	et := t.In(Eastern)
	hm := et.Hour()*60 + et.Minute()

	if isWeekend(et) {
		next := nextOpenFrom(et)
		return Status{
			Session:     SessionClosed,
			Message:     "Market is closed for the weekend",
			NextSession: describeOpen(next),
			NextChange:  next,
			UntilChange: next.Sub(et),
		}
	}

	switch {
	case hm < preMarketStartMin:
		next := at(et, preMarketStartMin)
		return Status{
			Session:     SessionClosed,
			Message:     "Market is closed - opens at 4:00 AM ET for pre-market",
			NextSession: "Today 4:00 AM ET (Pre-Market)",
			NextChange:  next,
			UntilChange: next.Sub(et),
		}
	case hm < openMin:
		next := at(et, openMin)
		return Status{
			Session:        SessionPreMarket,
			Message:        "Pre-market trading session",
			NextSession:    "Today 9:30 AM ET (Regular Hours)",
			NextChange:     next,
			UntilChange:    next.Sub(et),
			IsTradingHours: true,
		}
	case hm < closeMin:
		next := at(et, closeMin)
		return Status{
			Session:        SessionOpen,
			Message:        "Market is open for regular trading",
			NextSession:    "Today 4:00 PM ET (Market Close)",
			NextChange:     next,
			UntilChange:    next.Sub(et),
			IsTradingHours: true,
		}
	case hm < afterHoursEndMin:
		next := nextPreMarketFrom(et)
		return Status{
			Session:        SessionAfterHours,
			Message:        "After-hours trading session",
			NextSession:    describePreMarket(next),
			NextChange:     next,
			UntilChange:    next.Sub(et),
			IsTradingHours: true,
		}
	default:
		next := nextPreMarketFrom(et)
		return Status{
			Session:     SessionClosed,
			Message:     "Market is closed until the next session",
			NextSession: describePreMarket(next),
			NextChange:  next,
			UntilChange: next.Sub(et),
		}
	}
}

// NextOpen returns the next regular-hours open (9:30 AM ET on the next
// weekday). If t is before today's open on a weekday, today's open.
func NextOpen(t time.Time) time.Time {
	return nextOpenFrom(t.In(Eastern))
}

func nextOpenFrom(et time.Time) time.Time {
	hm := et.Hour()*60 + et.Minute()
	if !isWeekend(et) && hm < openMin {
		return at(et, openMin)
	}
	d := et.AddDate(0, 0, 1)
	for isWeekend(d) {
		d = d.AddDate(0, 0, 1)
	}
	return at(d, openMin)
}

// nextPreMarketFrom returns the next 4:00 AM pre-market start, skipping
// weekends (Friday evening rolls to Monday).
func nextPreMarketFrom(et time.Time) time.Time {
	d := et.AddDate(0, 0, 1)
	for isWeekend(d) {
		d = d.AddDate(0, 0, 1)
	}
	return at(d, preMarketStartMin)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func at(day time.Time, minOfDay int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minOfDay/60, minOfDay%60, 0, 0, Eastern)
}

func describeOpen(open time.Time) string {
	return fmt.Sprintf("%s 9:30 AM ET", open.Weekday())
}

func describePreMarket(pre time.Time) string {
	if pre.Weekday() == time.Monday {
		return "Monday 4:00 AM ET (Pre-Market)"
	}
	return "Tomorrow 4:00 AM ET (Pre-Market)"
}
