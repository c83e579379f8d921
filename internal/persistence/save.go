// Package persistence stores farm state: JSON save files in the game's
// save schema, and a SQLite history log of daily records and notable
// events.
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/field-station/internal/calendar"
	"github.com/talgya/field-station/internal/crop"
	"github.com/talgya/field-station/internal/sim"
	"github.com/talgya/field-station/internal/weather"
)

// SaveVersion is written into every save file.
const SaveVersion = "0.1"

// TileRecord mirrors one tile in the save schema. Field names and types
// must stay compatible with existing save files.
type TileRecord struct {
	X              int     `json:"x"`
	Y              int     `json:"y"`
	SoilQuality    float64 `json:"soil_quality"`
	Moisture       float64 `json:"moisture"`
	Nitrogen       float64 `json:"nitrogen"`
	Crop           *string `json:"crop"` // null = fallow
	GrowthProgress float64 `json:"growth_progress"`
	DaysPlanted    int     `json:"days_planted"`
	HarvestedTimes int     `json:"harvested_times"`
}

// SaveFile is the full save schema. Grid is row-major: grid[y][x].
// farm_id is a later addition to the schema; older readers ignore it and
// older saves restore with a fresh id.
//
// Money is a pointer because $0 is a legal balance, so Restore must tell a
// saved zero apart from an absent field. Every other field's zero value is
// never a valid saved state (days are 1-based, seasons and weather are
// non-empty names), so absence checks read the zero value directly.
type SaveFile struct {
	Version      string         `json:"version"`
	FarmID       string         `json:"farm_id,omitempty"`
	FarmName     string         `json:"farm_name"`
	FarmLocation string         `json:"farm_location"`
	Money        *int           `json:"money"`
	Day          int            `json:"day"`
	Season       string         `json:"season"`
	Weather      string         `json:"weather"`
	CurrentDate  string         `json:"current_date"`
	AutoHarvest  bool           `json:"auto_harvest"`
	Grid         [][]TileRecord `json:"grid"`
}

// Snapshot captures a farm into the save schema.
func Snapshot(f *sim.Farm) SaveFile {
	money := f.Money
	sf := SaveFile{
		Version:      SaveVersion,
		FarmID:       f.ID.String(),
		FarmName:     f.Name,
		FarmLocation: f.Location,
		Money:        &money,
		Day:          f.Day,
		Season:       string(f.Season),
		Weather:      string(f.Weather.Current),
		CurrentDate:  f.CurrentDate.Format(time.RFC3339),
		AutoHarvest:  f.AutoHarvest,
		Grid:         make([][]TileRecord, 0, f.Grid.Height),
	}

	for _, row := range f.Grid.Tiles {
		records := make([]TileRecord, 0, len(row))
		for _, t := range row {
			rec := TileRecord{
				X:              t.X,
				Y:              t.Y,
				SoilQuality:    t.SoilQuality,
				Moisture:       t.Moisture,
				Nitrogen:       t.Nitrogen,
				GrowthProgress: t.GrowthProgress,
				DaysPlanted:    t.DaysPlanted,
				HarvestedTimes: t.HarvestedTimes,
			}
			if t.Planted() {
				id := string(t.Crop)
				rec.Crop = &id
			}
			records = append(records, rec)
		}
		sf.Grid = append(sf.Grid, records)
	}

	return sf
}

// Restore rebuilds a farm from a save. Missing or malformed fields fall
// back to new-game defaults rather than failing the load; seed re-anchors
// the weather and tile-effect generators, which the schema does not carry.
func Restore(sf SaveFile, seed int64) (*sim.Farm, error) {
	width, height := sim.DefaultGridWidth, sim.DefaultGridHeight
	if len(sf.Grid) > 0 && len(sf.Grid[0]) > 0 {
		height = len(sf.Grid)
		width = len(sf.Grid[0])
	}

	farm := sim.New(sim.Config{
		Name:   sf.FarmName,
		Seed:   seed,
		Width:  width,
		Height: height,
	})

	if sf.FarmLocation != "" {
		farm.Location = sf.FarmLocation
	}
	if id, err := uuid.Parse(sf.FarmID); err == nil {
		farm.ID = id
	}
	if sf.Money != nil {
		farm.Money = *sf.Money
	}
	if sf.Day > 0 {
		farm.Day = sf.Day
	}

	farm.CurrentDate = calendar.DateForDay(farm.Day)
	if t, err := time.Parse(time.RFC3339, sf.CurrentDate); err == nil {
		farm.CurrentDate = t
	}
	farm.Season = calendar.SeasonForMonth(farm.CurrentDate.Month())
	if season, ok := calendar.ParseSeason(sf.Season); ok {
		farm.Season = season
	}
	if cond, ok := weather.Parse(sf.Weather); ok {
		farm.Weather.Current = cond
	}
	farm.AutoHarvest = sf.AutoHarvest

	for y, row := range sf.Grid {
		for x, rec := range row {
			t := farm.Grid.At(x, y)
			if t == nil {
				continue
			}
			t.SoilQuality = rec.SoilQuality
			t.Moisture = rec.Moisture
			t.Nitrogen = rec.Nitrogen
			t.GrowthProgress = rec.GrowthProgress
			t.DaysPlanted = rec.DaysPlanted
			t.HarvestedTimes = rec.HarvestedTimes
			t.Crop = ""
			if rec.Crop != nil {
				t.Crop = crop.ID(*rec.Crop)
			}
		}
	}

	return farm, nil
}

// WriteFile writes a save to disk, creating the directory if needed.
func WriteFile(path string, sf SaveFile) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create save dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal save: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	return nil
}

// ReadFile loads a save from disk.
func ReadFile(path string) (SaveFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SaveFile{}, fmt.Errorf("read save: %w", err)
	}

	var sf SaveFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return SaveFile{}, fmt.Errorf("parse save: %w", err)
	}
	return sf, nil
}
