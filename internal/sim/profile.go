package sim

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Range is an inclusive value band used when generating initial tile state.
type Range struct {
	Min, Max float64
}

func (r Range) at(n float64) float64 {
	return r.Min + n*(r.Max-r.Min)
}

// LocationProfile sets the initial soil/moisture/nitrogen bands for a new
// grid. Profiles correspond to farm locations the player can start at.
type LocationProfile struct {
	Name     string
	Soil     Range
	Moisture Range
	Nitrogen Range
}

// Champaign is the default location: worked farmland with mid-grade soil.
var Champaign = LocationProfile{
	Name:     "Champaign, Illinois, USA (40.1164°N, 88.2434°W)",
	Soil:     Range{0.4, 0.8},
	Moisture: Range{0.3, 0.6},
	Nitrogen: Range{0.3, 0.7},
}

// ChampaignPrairie is the new-farm setup variant: unbroken prairie with
// rich soil and good nitrogen reserves.
var ChampaignPrairie = LocationProfile{
	Name:     "Champaign, Illinois, USA (40.1164°N, 88.2434°W)",
	Soil:     Range{0.6, 0.9},
	Moisture: Range{0.4, 0.7},
	Nitrogen: Range{0.5, 0.8},
}

// noiseFrequency spaces tiles far enough apart in noise space that
// neighbors correlate without being identical.
const noiseFrequency = 0.35

// NewGrid generates a grid from a location profile. Simplex noise fields
// keep adjacent tiles similar, the way real soil varies; the same seed
// always produces the same field.
func NewGrid(width, height int, profile LocationProfile, seed int64) *Grid {
	soil := opensimplex.NewNormalized(seed)
	moisture := opensimplex.NewNormalized(seed + 1)
	nitrogen := opensimplex.NewNormalized(seed + 2)

	tiles := make([][]*Tile, height)
	for y := range tiles {
		row := make([]*Tile, width)
		for x := range row {
			fx := float64(x) * noiseFrequency
			fy := float64(y) * noiseFrequency
			row[x] = &Tile{
				X:           x,
				Y:           y,
				SoilQuality: profile.Soil.at(soil.Eval2(fx, fy)),
				Moisture:    profile.Moisture.at(moisture.Eval2(fx, fy)),
				Nitrogen:    profile.Nitrogen.at(nitrogen.Eval2(fx, fy)),
			}
		}
		tiles[y] = row
	}

	return &Grid{Width: width, Height: height, Tiles: tiles}
}
