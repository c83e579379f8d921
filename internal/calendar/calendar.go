// Package calendar tracks the in-game date and derives the season from it.
// The simulation starts at March 1st, 2025 and advances one calendar day per
// in-game day; season is always a function of the current month, never set
// directly.
package calendar

import (
	"time"

	"github.com/ncruces/go-strftime"
)

// Season is one quarter of the growing year. Values match the names stored
// in save files.
type Season string

const (
	Spring Season = "SPRING"
	Summer Season = "SUMMER"
	Fall   Season = "FALL"
	Winter Season = "WINTER"
)

// Epoch is the calendar date of day 1.
var Epoch = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

// Label returns a display-cased season name.
func (s Season) Label() string {
	switch s {
	case Spring:
		return "Spring"
	case Summer:
		return "Summer"
	case Fall:
		return "Fall"
	case Winter:
		return "Winter"
	default:
		return "Unknown"
	}
}

// ParseSeason maps a stored season name back to a Season.
func ParseSeason(name string) (Season, bool) {
	switch Season(name) {
	case Spring, Summer, Fall, Winter:
		return Season(name), true
	default:
		return "", false
	}
}

// DateForDay returns the calendar date for a 1-based day counter.
func DateForDay(day int) time.Time {
	if day < 1 {
		day = 1
	}
	return Epoch.AddDate(0, 0, day-1)
}

// SeasonForMonth derives the season from a calendar month:
// Mar-May spring, Jun-Aug summer, Sep-Nov fall, Dec-Feb winter.
func SeasonForMonth(m time.Month) Season {
	switch m {
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	case time.September, time.October, time.November:
		return Fall
	default:
		return Winter
	}
}

// SeasonForDay derives the season for a day counter.
func SeasonForDay(day int) Season {
	return SeasonForMonth(DateForDay(day).Month())
}

// FormatDate renders a date for display, e.g. "March 01, 2025".
func FormatDate(t time.Time) string {
	return strftime.Format("%B %d, %Y", t)
}
