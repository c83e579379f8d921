// Package weather picks a daily weather condition from season- and
// month-specific candidate tables, with a separate low-probability extreme
// weather override. The tables are tuned for central Illinois.
package weather

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"

	"github.com/talgya/field-station/internal/calendar"
)

// Condition is a daily weather state. Values match the names stored in
// save files.
type Condition string

const (
	Sunny   Condition = "SUNNY"
	Cloudy  Condition = "CLOUDY"
	Rainy   Condition = "RAINY"
	Snowy   Condition = "SNOWY"
	Drought Condition = "DROUGHT"
	Flood   Condition = "FLOOD"
	Storm   Condition = "STORM"
	Hail    Condition = "HAIL"
)

// Extreme weather policy.
const (
	ExtremeChance       = 0.05 // per-day roll once the cooldown has elapsed
	ExtremeCooldownDays = 7
)

// Per-tile effect tuning for extreme conditions, applied during the tile
// update rather than here.
const (
	HailDamageChance    = 0.30
	HailDamageMin       = 0.1
	HailDamageMax       = 0.3
	FloodKillChance     = 0.15
	FloodWaterlogged    = 0.9 // flood only kills above this moisture
	DroughtGrowthLoss   = 0.05
	DroughtDryThreshold = 0.2
)

var moistureDelta = map[Condition]float64{
	Sunny:   -0.02,
	Cloudy:  -0.01,
	Rainy:   0.05,
	Snowy:   0.02,
	Drought: -0.08, // severe moisture loss
	Flood:   0.15,  // excessive moisture
	Storm:   0.08,  // heavy rain
	Hail:    0.03,  // some moisture but crop damage
}

// MoistureDelta returns the daily soil moisture change for a condition.
func MoistureDelta(c Condition) float64 {
	return moistureDelta[c]
}

// Extreme reports whether the condition is a rare severe event rather than
// routine weather.
func (c Condition) Extreme() bool {
	switch c {
	case Drought, Flood, Storm, Hail:
		return true
	default:
		return false
	}
}

// Label returns a display-cased condition name.
func (c Condition) Label() string {
	switch c {
	case Sunny:
		return "Sunny"
	case Cloudy:
		return "Cloudy"
	case Rainy:
		return "Rainy"
	case Snowy:
		return "Snowy"
	case Drought:
		return "Drought"
	case Flood:
		return "Flood"
	case Storm:
		return "Storm"
	case Hail:
		return "Hail"
	default:
		return "Unknown"
	}
}

// Parse maps a stored condition name back to a Condition.
func Parse(name string) (Condition, bool) {
	switch Condition(name) {
	case Sunny, Cloudy, Rainy, Snowy, Drought, Flood, Storm, Hail:
		return Condition(name), true
	default:
		return "", false
	}
}

// Engine resolves one weather transition per day advance. It owns its PRNG;
// nothing here touches global random state.
type Engine struct {
	Current        Condition
	LastExtremeDay int

	rng *rand.Rand
}

// NewEngine creates an engine starting at sunny weather.
func NewEngine(seed int64) *Engine {
	return &Engine{
		Current: Sunny,
		rng:     seededRNG(seed),
	}
}

// Step resolves the weather for a newly advanced day, in priority order:
// extreme override, periodic re-roll, then persistence of yesterday's
// condition.
func (e *Engine) Step(day int, date time.Time, season calendar.Season) Condition {
	if day-e.LastExtremeDay > ExtremeCooldownDays && e.rng.Float64() < ExtremeChance {
		opts := ExtremeOptions(season)
		if len(opts) == 0 {
			// The roll still claims the day: no routine change either.
			return e.Current
		}
		e.Current = opts[e.rng.IntN(len(opts))]
		e.LastExtremeDay = day
		return e.Current
	}

	// Routine change every 3-5 days; the modulus is re-drawn each check so
	// the cadence drifts instead of locking to a fixed phase.
	if day%(3+e.rng.IntN(3)) == 0 {
		opts := Candidates(season, date.Month())
		e.Current = opts[e.rng.IntN(len(opts))]
	}

	return e.Current
}

// ExtremeOptions returns the extreme conditions possible in a season:
// drought and storms in the hot half of the year, floods and hail in the
// wet half. Winter has none.
func ExtremeOptions(season calendar.Season) []Condition {
	var opts []Condition
	if season == calendar.Summer || season == calendar.Fall {
		opts = append(opts, Drought, Storm)
	}
	if season == calendar.Spring || season == calendar.Summer {
		opts = append(opts, Flood, Hail)
	}
	return opts
}

// Candidates returns the weighted routine-weather list for a month.
// Duplicate entries act as weights. Tuned for the Champaign area: winter
// favors cloud and snow, summer runs sunny and dry into August.
func Candidates(season calendar.Season, month time.Month) []Condition {
	switch season {
	case calendar.Winter:
		switch month {
		case time.December: // early winter, less snow
			return []Condition{Cloudy, Cloudy, Snowy, Sunny}
		case time.January: // coldest, more snow
			return []Condition{Snowy, Cloudy, Cloudy, Sunny}
		default: // February - late winter, occasional snow
			return []Condition{Cloudy, Cloudy, Snowy, Sunny}
		}
	case calendar.Spring:
		switch month {
		case time.March: // cool, wet, unpredictable
			return []Condition{Cloudy, Rainy, Rainy, Sunny}
		case time.April: // wet, mild, good for planting
			return []Condition{Rainy, Cloudy, Sunny, Rainy}
		default: // May - warming, still rainy, peak planting
			return []Condition{Sunny, Rainy, Cloudy, Sunny}
		}
	case calendar.Summer:
		switch month {
		case time.June: // warm, frequent rain
			return []Condition{Sunny, Rainy, Cloudy, Sunny}
		case time.July: // hot, less rain, more sun
			return []Condition{Sunny, Sunny, Cloudy, Rainy}
		default: // August - hot and dry
			return []Condition{Sunny, Sunny, Sunny, Cloudy}
		}
	default: // Fall
		switch month {
		case time.September: // warm, dry, harvest weather
			return []Condition{Sunny, Sunny, Cloudy, Rainy}
		case time.October: // mild
			return []Condition{Sunny, Cloudy, Sunny, Rainy}
		default: // November - cooler, more clouds
			return []Condition{Cloudy, Sunny, Rainy, Cloudy}
		}
	}
}

func seededRNG(seed int64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for deterministic simulation.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%d:%s", seed, salt)
	return h.Sum64()
}
