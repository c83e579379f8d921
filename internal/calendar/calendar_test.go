package calendar

import (
	"testing"
	"time"
)

func TestSeasonForMonth(t *testing.T) {
	cases := []struct {
		month time.Month
		want  Season
	}{
		{time.March, Spring},
		{time.April, Spring},
		{time.May, Spring},
		{time.June, Summer},
		{time.July, Summer},
		{time.August, Summer},
		{time.September, Fall},
		{time.October, Fall},
		{time.November, Fall},
		{time.December, Winter},
		{time.January, Winter},
		{time.February, Winter},
	}

	for _, tc := range cases {
		if got := SeasonForMonth(tc.month); got != tc.want {
			t.Errorf("SeasonForMonth(%s) = %s, want %s", tc.month, got, tc.want)
		}
	}
}

func TestDateForDay(t *testing.T) {
	if got := DateForDay(1); !got.Equal(Epoch) {
		t.Fatalf("day 1 should be the epoch, got %s", got)
	}
	if got := DateForDay(32); got.Month() != time.April || got.Day() != 1 {
		t.Fatalf("day 32 should be April 1st, got %s", got)
	}
	// Day counters below 1 clamp rather than walking before the epoch.
	if got := DateForDay(0); !got.Equal(Epoch) {
		t.Fatalf("day 0 should clamp to the epoch, got %s", got)
	}
}

func TestSeasonForDay(t *testing.T) {
	if got := SeasonForDay(1); got != Spring {
		t.Fatalf("day 1 should be spring, got %s", got)
	}
	// Mar+Apr+May = 92 days, so day 93 is June 1st.
	if got := SeasonForDay(93); got != Summer {
		t.Fatalf("day 93 should be summer, got %s", got)
	}
}

func TestParseSeason(t *testing.T) {
	if s, ok := ParseSeason("FALL"); !ok || s != Fall {
		t.Fatalf("ParseSeason(FALL) = %s, %v", s, ok)
	}
	if _, ok := ParseSeason("autumn"); ok {
		t.Fatal("expected lowercase/unknown season name to fail")
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(Epoch); got != "March 01, 2025" {
		t.Fatalf("FormatDate(epoch) = %q", got)
	}
}

func TestSeasonLabel(t *testing.T) {
	if Spring.Label() != "Spring" || Winter.Label() != "Winter" {
		t.Fatal("unexpected season labels")
	}
	if Season("BOGUS").Label() != "Unknown" {
		t.Fatal("expected Unknown for a bogus season")
	}
}
