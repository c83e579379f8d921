// Package sim owns the farm state and advances it one day at a time:
// weather-driven moisture, extreme-weather damage, crop growth, nitrogen
// balance, and the plant/harvest actions that bracket a crop's life.
package sim

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/field-station/internal/calendar"
	"github.com/talgya/field-station/internal/crop"
	"github.com/talgya/field-station/internal/market"
	"github.com/talgya/field-station/internal/weather"
)

// Farm is the complete simulation state. All access is single-threaded:
// exactly one logical thread reads or writes tile state, so there is no
// locking here. Callers that expose the farm to concurrent readers (the
// HTTP layer) serialize access themselves.
type Farm struct {
	ID       uuid.UUID
	Name     string
	Location string

	Money       int
	Day         int // 1-based, monotonic
	Season      calendar.Season
	CurrentDate time.Time
	AutoHarvest bool

	Grid    *Grid
	Weather *weather.Engine
	Market  *market.Market
	Tuning  GrowthTuning

	// Tile-level stochastic effects (hail damage rolls, flood kills) draw
	// from here, never from package-level randomness.
	rng *rand.Rand
}

// Config describes a new farm.
type Config struct {
	Name    string
	Profile LocationProfile
	Seed    int64
	Width   int // 0 = DefaultGridWidth
	Height  int // 0 = DefaultGridHeight
}

// New creates a farm at day 1 with a freshly generated grid.
func New(cfg Config) *Farm {
	if cfg.Width <= 0 {
		cfg.Width = DefaultGridWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultGridHeight
	}
	if cfg.Profile.Name == "" {
		cfg.Profile = Champaign
	}

	date := calendar.DateForDay(1)
	return &Farm{
		ID:          uuid.New(),
		Name:        cfg.Name,
		Location:    cfg.Profile.Name,
		Money:       DefaultTuning().StartingMoney,
		Day:         1,
		Season:      calendar.SeasonForMonth(date.Month()),
		CurrentDate: date,
		Grid:        NewGrid(cfg.Width, cfg.Height, cfg.Profile, cfg.Seed),
		Weather:     weather.NewEngine(cfg.Seed + 1),
		Market:      market.New(),
		Tuning:      DefaultTuning(),
		rng:         farmRNG(cfg.Seed + 2),
	}
}

// HarvestResult reports one completed harvest.
type HarvestResult struct {
	X, Y   int
	Crop   crop.ID
	Payout int
}

// DayReport summarizes what one AdvanceDay did, for logging and history.
type DayReport struct {
	Day     int
	Date    time.Time
	Season  calendar.Season
	Weather weather.Condition
	Extreme bool // today's condition came from the extreme-weather override

	Damaged  int // tiles with hail/drought growth knockback
	Killed   []crop.ID
	Harvests []HarvestResult // auto-harvest sweep results
}

// AdvanceDay moves the farm forward one in-game day. Call exactly once per
// day boundary.
func (f *Farm) AdvanceDay() DayReport {
	f.Day++
	f.CurrentDate = calendar.DateForDay(f.Day)
	f.Season = calendar.SeasonForMonth(f.CurrentDate.Month())

	wasExtremeDay := f.Weather.LastExtremeDay
	cond := f.Weather.Step(f.Day, f.CurrentDate, f.Season)

	report := DayReport{
		Day:     f.Day,
		Date:    f.CurrentDate,
		Season:  f.Season,
		Weather: cond,
		Extreme: f.Weather.LastExtremeDay == f.Day && f.Weather.LastExtremeDay != wasExtremeDay,
	}

	if report.Extreme {
		slog.Info("extreme weather",
			"day", f.Day,
			"condition", cond.Label(),
			"season", f.Season.Label(),
		)
	}

	f.Grid.Each(func(t *Tile) {
		killed, damaged := f.updateTile(t, cond)
		if killed != "" {
			report.Killed = append(report.Killed, killed)
		}
		if damaged {
			report.Damaged++
		}
	})

	if f.AutoHarvest {
		report.Harvests = f.autoHarvestSweep()
	}

	return report
}

// updateTile applies one day of weather, damage, growth, and nitrogen
// change to a tile. Order matters: moisture moves first so damage and
// growth see today's level.
func (f *Farm) updateTile(t *Tile, cond weather.Condition) (killed crop.ID, damaged bool) {
	t.Moisture = clamp01(t.Moisture + weather.MoistureDelta(cond))

	if t.Planted() {
		switch cond {
		case weather.Hail:
			if f.rng.Float64() < weather.HailDamageChance {
				loss := weather.HailDamageMin + f.rng.Float64()*(weather.HailDamageMax-weather.HailDamageMin)
				t.GrowthProgress = max(0, t.GrowthProgress-loss)
				damaged = true
			}
		case weather.Flood:
			if t.Moisture > weather.FloodWaterlogged && f.rng.Float64() < weather.FloodKillChance {
				killed = t.Crop
				t.clearCrop()
			}
		case weather.Drought:
			if t.Moisture < weather.DroughtDryThreshold {
				t.GrowthProgress = max(0, t.GrowthProgress-weather.DroughtGrowthLoss)
				damaged = true
			}
		}
	}

	if t.Planted() {
		def, ok := crop.Get(t.Crop)
		if !ok {
			// A save with a retired crop id; leave the tile alone.
			return killed, damaged
		}
		t.DaysPlanted++

		rate := 1.0 / float64(def.GrowthTime)
		if t.Moisture < def.WaterNeed*f.Tuning.DryThreshold {
			rate *= f.Tuning.DryPenalty
		} else if t.Moisture > def.WaterNeed*f.Tuning.WetThreshold {
			rate *= f.Tuning.WetPenalty
		}
		if t.Nitrogen < def.NitrogenNeed*f.Tuning.NitrogenThreshold {
			rate *= f.Tuning.NitrogenPenalty
		}
		if f.Season == calendar.Winter {
			rate *= f.Tuning.WinterPenalty
		}

		t.GrowthProgress = min(1, t.GrowthProgress+rate)

		// Negative need (soybean) adds nitrogen here.
		t.Nitrogen = clamp01(t.Nitrogen - def.NitrogenNeed*f.Tuning.NitrogenDraw)
	} else {
		t.Nitrogen = min(1, t.Nitrogen+f.Tuning.FallowRecovery)
	}

	return killed, damaged
}

// Plant puts a crop on an empty tile. It is a silent no-op (returns false,
// tile unchanged) when the tile is occupied or out of bounds, funds are
// short, the id is unknown, or the crop is out of season.
func (f *Farm) Plant(x, y int, id crop.ID) bool {
	t := f.Grid.At(x, y)
	if t == nil || t.Planted() {
		return false
	}
	def, ok := crop.Get(id)
	if !ok {
		return false
	}
	if f.Money < f.Tuning.SeedCost {
		return false
	}
	if !def.GrowsIn(f.Season) {
		return false
	}

	f.Money -= f.Tuning.SeedCost
	t.Crop = id
	t.GrowthProgress = 0
	t.DaysPlanted = 0

	slog.Debug("planted", "crop", def.ShortName(), "x", x, "y", y, "day", f.Day)
	return true
}

// Harvest collects a mature crop. Payout is the market price scaled by the
// tile's soil quality, rounded down; harvesting degrades soil quality by a
// fixed amount, floored. No-op (ok=false) for empty or immature tiles.
func (f *Farm) Harvest(x, y int) (HarvestResult, bool) {
	t := f.Grid.At(x, y)
	if t == nil || !t.Mature() {
		return HarvestResult{}, false
	}

	price, err := f.Market.Price(t.Crop, f.Season, f.Day)
	if err != nil {
		slog.Warn("harvest price lookup failed", "crop", t.Crop, "error", err)
		return HarvestResult{}, false
	}

	result := HarvestResult{
		X:      x,
		Y:      y,
		Crop:   t.Crop,
		Payout: int(float64(price) * t.SoilQuality),
	}

	f.Money += result.Payout
	t.HarvestedTimes++
	t.SoilQuality = max(f.Tuning.SoilFloor, t.SoilQuality-f.Tuning.HarvestSoilDamage)
	t.clearCrop()

	slog.Debug("harvested", "crop", result.Crop, "payout", result.Payout, "x", x, "y", y)
	return result, true
}

// autoHarvestSweep harvests every mature tile.
func (f *Farm) autoHarvestSweep() []HarvestResult {
	var results []HarvestResult
	f.Grid.Each(func(t *Tile) {
		if t.Mature() {
			if r, ok := f.Harvest(t.X, t.Y); ok {
				results = append(results, r)
			}
		}
	})
	return results
}

// EligibleCrops returns the crops plantable this season.
func (f *Farm) EligibleCrops() []crop.ID {
	return crop.EligibleFor(f.Season)
}

// PlantedTiles counts occupied tiles; MatureTiles counts those ready to
// harvest.
func (f *Farm) PlantedTiles() (planted, mature int) {
	f.Grid.Each(func(t *Tile) {
		if t.Planted() {
			planted++
			if t.Mature() {
				mature++
			}
		}
	})
	return planted, mature
}

func farmRNG(seed int64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for deterministic simulation.
	// #nosec G404
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "farm:%d", seed)
	word := h.Sum64()
	return rand.New(rand.NewPCG(word, word^0x9e3779b97f4a7c15))
}
