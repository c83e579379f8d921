// Package market computes crop prices from base value, a season-dependent
// modifier, and a deterministic daily fluctuation. Prices are reproducible:
// the same (crop, day) pair always yields the same fluctuation, in this
// process or the next, so a day can be re-rendered without persisting prices.
package market

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand/v2"

	"github.com/talgya/field-station/internal/calendar"
	"github.com/talgya/field-station/internal/crop"
)

// DailyVariance bounds the daily price fluctuation at ±15%.
const DailyVariance = 0.15

// ErrUnknownCrop is returned by Price for ids not in the catalog.
var ErrUnknownCrop = errors.New("market: unknown crop")

// Market derives crop prices. It is stateless apart from its fixed tables.
type Market struct {
	variance float64
	seasonal map[calendar.Season]map[crop.ID]float64
}

// New creates a market with the standard seasonal modifier table.
func New() *Market {
	return &Market{
		variance: DailyVariance,
		seasonal: map[calendar.Season]map[crop.ID]float64{
			calendar.Spring: {
				crop.WheatSoftRedWinter:  1.2,
				crop.CornSweet:           0.9,
				crop.PotatoRussetBurbank: 1.1,
				crop.CarrotImperator:     1.0,
				crop.Soybean:             1.0,
				crop.FieldCorn:           0.8,
				crop.PumpkinHowden:       0.7, // off season
				crop.TomatoBetterBoy:     0.9,
			},
			calendar.Summer: {
				crop.WheatSoftRedWinter:  0.8,
				crop.CornSweet:           1.3, // peak season
				crop.PotatoRussetBurbank: 0.9,
				crop.CarrotImperator:     1.1,
				crop.Soybean:             1.0,
				crop.FieldCorn:           1.0,
				crop.PumpkinHowden:       0.8,
				crop.TomatoBetterBoy:     1.4, // peak season
			},
			calendar.Fall: {
				crop.WheatSoftRedWinter:  1.0,
				crop.CornSweet:           0.7,
				crop.PotatoRussetBurbank: 1.2,
				crop.CarrotImperator:     1.3,
				crop.Soybean:             1.2,
				crop.FieldCorn:           1.3,
				crop.PumpkinHowden:       1.5, // peak season
				crop.TomatoBetterBoy:     0.8,
			},
			calendar.Winter: {
				crop.WheatSoftRedWinter:  1.1,
				crop.CornSweet:           1.0,
				crop.PotatoRussetBurbank: 1.0,
				crop.CarrotImperator:     0.9,
				crop.Soybean:             1.1,
				crop.PumpkinHowden:       0.6,
				crop.FieldCorn:           1.0,
				crop.TomatoBetterBoy:     1.1, // greenhouse premium
			},
		},
	}
}

// SeasonalModifier returns the per-crop, per-season price multiplier.
// Missing entries default to 1.0; that default is part of the contract.
func (m *Market) SeasonalModifier(season calendar.Season, id crop.ID) float64 {
	if mods, ok := m.seasonal[season]; ok {
		if mod, ok := mods[id]; ok {
			return mod
		}
	}
	return 1.0
}

// Price returns the current price for a crop, at least 1 dollar.
// Unknown crops return ErrUnknownCrop.
func (m *Market) Price(id crop.ID, season calendar.Season, day int) (int, error) {
	def, ok := crop.Get(id)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCrop, id)
	}

	price := int(float64(def.Value) * m.SeasonalModifier(season, id) * m.fluctuation(id, day))
	if price < 1 {
		price = 1
	}
	return price, nil
}

// PriceOrZero wraps Price with the historical 0 sentinel for unknown crops.
// Display paths that render a whole table use it; anything that pays out
// money should call Price and check the error.
func (m *Market) PriceOrZero(id crop.ID, season calendar.Season, day int) int {
	price, err := m.Price(id, season, day)
	if err != nil {
		return 0
	}
	return price
}

// Trend labels the seasonal modifier alone for display next to a price.
func (m *Market) Trend(id crop.ID, season calendar.Season) string {
	mod := m.SeasonalModifier(season, id)
	switch {
	case mod >= 1.2:
		return "↗ HIGH"
	case mod >= 1.1:
		return "↗ Good"
	case mod <= 0.8:
		return "↘ Low"
	case mod <= 0.9:
		return "↘ Poor"
	default:
		return "→ Fair"
	}
}

// fluctuation returns the daily multiplier in [1-variance, 1+variance].
// The generator is a pure function of (crop, day): FNV-1a seeds a PCG, so
// there is no global PRNG state to cross-contaminate other random draws.
func (m *Market) fluctuation(id crop.ID, day int) float64 {
	// Non-cryptographic PRNG is intentional for deterministic pricing.
	// #nosec G404
	rng := rand.New(rand.NewPCG(seedWord(id, day, "a"), seedWord(id, day, "b")))
	return 1.0 + (rng.Float64()*2-1)*m.variance
}

func seedWord(id crop.ID, day int, salt string) uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%s:%d:%s", id, day, salt)
	return h.Sum64()
}
