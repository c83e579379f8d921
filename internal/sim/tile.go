package sim

import "github.com/talgya/field-station/internal/crop"

// Tile is one cell of the farm grid. SoilQuality, Moisture, Nitrogen, and
// GrowthProgress always stay within [0,1]; soil quality additionally never
// drops below the harvest-damage floor.
type Tile struct {
	X, Y int

	SoilQuality float64 // persistent, degraded by harvesting
	Moisture    float64 // driven by weather
	Nitrogen    float64 // driven by the planted crop and fallow recovery

	Crop           crop.ID // empty = fallow
	GrowthProgress float64 // 1.0 = harvestable
	DaysPlanted    int
	HarvestedTimes int
}

// Planted reports whether the tile has a crop.
func (t *Tile) Planted() bool {
	return t.Crop != ""
}

// Mature reports whether the tile's crop is ready to harvest.
func (t *Tile) Mature() bool {
	return t.Planted() && t.GrowthProgress >= 1.0
}

// clearCrop returns the tile to fallow.
func (t *Tile) clearCrop() {
	t.Crop = ""
	t.GrowthProgress = 0
	t.DaysPlanted = 0
}

// Grid is a fixed-size field of tiles, row-major. Size never changes after
// construction.
type Grid struct {
	Width, Height int
	Tiles         [][]*Tile // [y][x]
}

// Default field dimensions.
const (
	DefaultGridWidth  = 3
	DefaultGridHeight = 3
)

// At returns the tile at (x, y), or nil when out of bounds.
func (g *Grid) At(x, y int) *Tile {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return nil
	}
	return g.Tiles[y][x]
}

// Each visits every tile in row-major order.
func (g *Grid) Each(fn func(*Tile)) {
	for _, row := range g.Tiles {
		for _, t := range row {
			fn(t)
		}
	}
}

func clamp01(v float64) float64 {
	return min(1, max(0, v))
}
