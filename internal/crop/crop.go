// Package crop defines the static crop catalog: growth durations, seasonal
// planting windows, nutrient needs, and base sale values. Entries are fixed
// at process start and never mutated.
package crop

import (
	"strings"

	"github.com/talgya/field-station/internal/calendar"
)

// ID is a stable catalog key, also used in save files.
type ID string

const (
	WheatSoftRedWinter  ID = "wheat_soft_red_winter"
	CornSweet           ID = "corn_sweet"
	PotatoRussetBurbank ID = "potato_russet_burbank"
	CarrotImperator     ID = "carrot_imperator"
	Soybean             ID = "soybean"
	FieldCorn           ID = "field_corn"
	PumpkinHowden       ID = "pumpkin_howden"
	TomatoBetterBoy     ID = "tomato_better_boy"
)

// Definition describes one crop. NitrogenNeed may be negative for
// nitrogen-fixing crops (soybean), which add nitrogen to the soil while
// growing instead of drawing it down.
type Definition struct {
	ID           ID
	Name         string
	GrowthTime   int // days from planting to maturity
	Seasons      []calendar.Season
	NitrogenNeed float64 // 0-1, negative = fixes nitrogen
	WaterNeed    float64 // 0-1
	Value        int     // base sale price in dollars
}

var ordered = []ID{
	WheatSoftRedWinter,
	CornSweet,
	PotatoRussetBurbank,
	CarrotImperator,
	Soybean,
	FieldCorn,
	PumpkinHowden,
	TomatoBetterBoy,
}

var catalog = map[ID]Definition{
	WheatSoftRedWinter: {
		ID:           WheatSoftRedWinter,
		Name:         "Wheat - Triticum aestivum 'Soft Red Winter'",
		GrowthTime:   90,
		Seasons:      []calendar.Season{calendar.Fall},
		NitrogenNeed: 0.4,
		WaterNeed:    0.3,
		Value:        25,
	},
	CornSweet: {
		ID:           CornSweet,
		Name:         "Corn - Zea mays var. saccharata",
		GrowthTime:   120,
		Seasons:      []calendar.Season{calendar.Spring},
		NitrogenNeed: 0.6,
		WaterNeed:    0.5,
		Value:        35,
	},
	PotatoRussetBurbank: {
		ID:           PotatoRussetBurbank,
		Name:         "Potato - Solanum tuberosum 'Russet Burbank'",
		GrowthTime:   70,
		Seasons:      []calendar.Season{calendar.Spring},
		NitrogenNeed: 0.3,
		WaterNeed:    0.4,
		Value:        20,
	},
	CarrotImperator: {
		ID:           CarrotImperator,
		Name:         "Carrot - Daucus carota 'Imperator'",
		GrowthTime:   60,
		Seasons:      []calendar.Season{calendar.Spring, calendar.Summer},
		NitrogenNeed: 0.2,
		WaterNeed:    0.3,
		Value:        15,
	},
	Soybean: {
		ID:           Soybean,
		Name:         "Soybean - Glycine max",
		GrowthTime:   95,
		Seasons:      []calendar.Season{calendar.Spring, calendar.Summer},
		NitrogenNeed: -0.3, // fixes nitrogen
		WaterNeed:    0.4,
		Value:        30,
	},
	FieldCorn: {
		ID:           FieldCorn,
		Name:         "Field Corn - Zea mays var. indentata",
		GrowthTime:   140,
		Seasons:      []calendar.Season{calendar.Spring},
		NitrogenNeed: 0.7,
		WaterNeed:    0.6,
		Value:        40,
	},
	PumpkinHowden: {
		ID:           PumpkinHowden,
		Name:         "Pumpkin - Cucurbita pepo 'Howden'",
		GrowthTime:   110,
		Seasons:      []calendar.Season{calendar.Spring},
		NitrogenNeed: 0.5,
		WaterNeed:    0.7,
		Value:        28,
	},
	TomatoBetterBoy: {
		ID:           TomatoBetterBoy,
		Name:         "Tomato - Solanum lycopersicum 'Better Boy'",
		GrowthTime:   75,
		Seasons:      []calendar.Season{calendar.Spring, calendar.Summer},
		NitrogenNeed: 0.6,
		WaterNeed:    0.8,
		Value:        45,
	},
}

// Get looks up a crop definition. The second return is false for unknown
// ids; callers must guard.
func Get(id ID) (Definition, bool) {
	def, ok := catalog[id]
	return def, ok
}

// All returns every definition in catalog order.
func All() []Definition {
	defs := make([]Definition, 0, len(ordered))
	for _, id := range ordered {
		defs = append(defs, catalog[id])
	}
	return defs
}

// EligibleFor returns the ids plantable in the given season, in catalog order.
func EligibleFor(season calendar.Season) []ID {
	var ids []ID
	for _, id := range ordered {
		if catalog[id].GrowsIn(season) {
			ids = append(ids, id)
		}
	}
	return ids
}

// GrowsIn reports whether the crop may be planted in the given season.
func (d Definition) GrowsIn(season calendar.Season) bool {
	for _, s := range d.Seasons {
		if s == season {
			return true
		}
	}
	return false
}

// ShortName returns the common name ahead of the botanical name,
// e.g. "Wheat" for "Wheat - Triticum aestivum 'Soft Red Winter'".
func (d Definition) ShortName() string {
	name, _, _ := strings.Cut(d.Name, " - ")
	return name
}
