package derive

import (
	"math"
	"strings"
	"time"
)

// Status classifies an inventory expiration date.
type Status int

const (
	StatusNone Status = iota
	StatusExpiringSoon
	StatusExpired
)

// ExpiringSoonDays is the inclusive window, in days, for StatusExpiringSoon.
const ExpiringSoonDays = 7

func (s Status) String() string {
	switch s {
	case StatusExpiringSoon:
		return "expiring soon"
	case StatusExpired:
		return "expired"
	default:
		return "none"
	}
}

// DaysUntil returns the whole number of days from now's calendar date to the
// given YYYY-MM-DD date, rounded down. ok is false for empty or invalid dates.
func DaysUntil(date string, now time.Time) (days int, ok bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return 0, false
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Floor(d.Sub(today).Hours() / 24)), true
}

// ExpirationStatus classifies date relative to now: expired before today,
// expiring soon from today through ExpiringSoonDays days ahead, otherwise
// none. Items without a usable date have no status.
func ExpirationStatus(date string, now time.Time) Status {
	days, ok := DaysUntil(date, now)
	if !ok {
		return StatusNone
	}
	switch {
	case days < 0:
		return StatusExpired
	case days <= ExpiringSoonDays:
		return StatusExpiringSoon
	default:
		return StatusNone
	}
}
