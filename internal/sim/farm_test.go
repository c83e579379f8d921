package sim

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/field-station/internal/calendar"
	"github.com/talgya/field-station/internal/crop"
	"github.com/talgya/field-station/internal/weather"
)

func newTestFarm(t *testing.T, seed int64) *Farm {
	t.Helper()
	f := New(Config{Name: "Test Farm", Seed: seed})
	require.NotNil(t, f)
	return f
}

func TestNewFarmDefaults(t *testing.T) {
	f := newTestFarm(t, 42)

	assert.NotEqual(t, uuid.Nil, f.ID)
	assert.Equal(t, 1, f.Day)
	assert.Equal(t, calendar.Spring, f.Season)
	assert.Equal(t, DefaultTuning().StartingMoney, f.Money)
	assert.Contains(t, f.Location, "Champaign")
	assert.Equal(t, DefaultGridWidth, f.Grid.Width)
	assert.Equal(t, DefaultGridHeight, f.Grid.Height)

	f.Grid.Each(func(tile *Tile) {
		assert.GreaterOrEqual(t, tile.SoilQuality, Champaign.Soil.Min)
		assert.LessOrEqual(t, tile.SoilQuality, Champaign.Soil.Max)
		assert.GreaterOrEqual(t, tile.Moisture, Champaign.Moisture.Min)
		assert.LessOrEqual(t, tile.Moisture, Champaign.Moisture.Max)
		assert.GreaterOrEqual(t, tile.Nitrogen, Champaign.Nitrogen.Min)
		assert.LessOrEqual(t, tile.Nitrogen, Champaign.Nitrogen.Max)
		assert.False(t, tile.Planted())
	})
}

func TestPlantRules(t *testing.T) {
	f := newTestFarm(t, 1)

	require.True(t, f.Plant(0, 0, crop.PotatoRussetBurbank))
	assert.Equal(t, DefaultTuning().StartingMoney-f.Tuning.SeedCost, f.Money)
	assert.True(t, f.Grid.At(0, 0).Planted())

	moneyBefore := f.Money

	// Occupied tile.
	assert.False(t, f.Plant(0, 0, crop.CarrotImperator))
	// Out of bounds.
	assert.False(t, f.Plant(5, 5, crop.CarrotImperator))
	assert.False(t, f.Plant(-1, 0, crop.CarrotImperator))
	// Unknown id.
	assert.False(t, f.Plant(1, 0, crop.ID("kale")))
	assert.Equal(t, moneyBefore, f.Money, "rejected plantings must not charge")

	// Out of season: wheat is fall-only.
	assert.False(t, f.Plant(1, 0, crop.WheatSoftRedWinter))

	// Insufficient funds.
	f.Money = f.Tuning.SeedCost - 1
	assert.False(t, f.Plant(1, 0, crop.CarrotImperator))
	assert.False(t, f.Grid.At(1, 0).Planted())
}

func TestPlantOutOfSeasonWinter(t *testing.T) {
	f := newTestFarm(t, 1)
	f.Season = calendar.Winter

	for _, def := range crop.All() {
		assert.Falsef(t, f.Plant(1, 1, def.ID), "nothing should plant in winter, but %s did", def.ID)
	}
	assert.Empty(t, f.EligibleCrops())
}

func TestHarvestImmature(t *testing.T) {
	f := newTestFarm(t, 1)
	require.True(t, f.Plant(0, 0, crop.CarrotImperator))

	_, ok := f.Harvest(0, 0)
	assert.False(t, ok, "immature crop must not harvest")

	_, ok = f.Harvest(9, 9)
	assert.False(t, ok, "out of bounds must not harvest")
}

func TestHarvestPayoutAndSoilDamage(t *testing.T) {
	f := newTestFarm(t, 1)

	tile := f.Grid.At(0, 0)
	tile.Crop = crop.CarrotImperator
	tile.GrowthProgress = 1.0
	tile.SoilQuality = 1.0

	price, err := f.Market.Price(crop.CarrotImperator, f.Season, f.Day)
	require.NoError(t, err)

	moneyBefore := f.Money
	res, ok := f.Harvest(0, 0)
	require.True(t, ok)

	assert.Equal(t, crop.CarrotImperator, res.Crop)
	assert.Equal(t, price, res.Payout, "full soil quality pays the full market price")
	assert.Equal(t, moneyBefore+price, f.Money)
	assert.InDelta(t, 1.0-f.Tuning.HarvestSoilDamage, tile.SoilQuality, 1e-9)
	assert.Equal(t, 1, tile.HarvestedTimes)
	assert.False(t, tile.Planted(), "harvest returns the tile to fallow")
}

func TestHarvestSoilFloor(t *testing.T) {
	f := newTestFarm(t, 1)

	tile := f.Grid.At(0, 0)
	tile.SoilQuality = 0.12
	tile.Crop = crop.CarrotImperator
	tile.GrowthProgress = 1.0

	_, ok := f.Harvest(0, 0)
	require.True(t, ok)
	assert.InDelta(t, f.Tuning.SoilFloor, tile.SoilQuality, 1e-9, "soil quality never degrades below the floor")
}

func TestAutoHarvestSweep(t *testing.T) {
	f := newTestFarm(t, 1)

	for _, pos := range [][2]int{{0, 0}, {2, 1}} {
		tile := f.Grid.At(pos[0], pos[1])
		tile.Crop = crop.CarrotImperator
		tile.GrowthProgress = 1.0
	}

	moneyBefore := f.Money
	results := f.autoHarvestSweep()

	require.Len(t, results, 2)
	assert.Greater(t, f.Money, moneyBefore)
	planted, mature := f.PlantedTiles()
	assert.Zero(t, planted)
	assert.Zero(t, mature)
}

// Growth with moisture held at a comfortable level runs at the full rate:
// a potato matures in exactly its catalog growth time.
func TestGrowthFullRateWhenIrrigated(t *testing.T) {
	f := newTestFarm(t, 1)
	def, _ := crop.Get(crop.PotatoRussetBurbank)

	tile := f.Grid.At(0, 0)
	tile.Crop = crop.PotatoRussetBurbank
	tile.Nitrogen = 0.6

	for i := 0; i < def.GrowthTime; i++ {
		tile.Moisture = 0.5
		f.updateTile(tile, weather.Sunny)
	}

	assert.GreaterOrEqual(t, tile.GrowthProgress, 0.99)
	assert.Equal(t, def.GrowthTime, tile.DaysPlanted)

	tile.Moisture = 0.5
	f.updateTile(tile, weather.Sunny)
	assert.True(t, tile.Mature())
}

// Without watering, sunny weather dries the tile below the stress
// threshold after a couple of weeks and growth drops to half rate, so the
// same potato is far from mature at its nominal growth time.
func TestGrowthSlowedByDrySoil(t *testing.T) {
	f := newTestFarm(t, 1)
	def, _ := crop.Get(crop.PotatoRussetBurbank)

	tile := f.Grid.At(0, 0)
	tile.Crop = crop.PotatoRussetBurbank
	tile.Moisture = 0.5
	tile.Nitrogen = 0.6

	for i := 0; i < def.GrowthTime; i++ {
		f.updateTile(tile, weather.Sunny)
	}

	assert.False(t, tile.Mature())
	assert.Greater(t, tile.GrowthProgress, 0.55)
	assert.Less(t, tile.GrowthProgress, 0.75)
}

func TestNitrogenDrawAndFixing(t *testing.T) {
	f := newTestFarm(t, 1)

	wheatTile := f.Grid.At(0, 0)
	wheatTile.Crop = crop.WheatSoftRedWinter
	wheatTile.Nitrogen = 0.5

	beanTile := f.Grid.At(1, 0)
	beanTile.Crop = crop.Soybean
	beanTile.Nitrogen = 0.5

	fallowTile := f.Grid.At(2, 0)
	fallowTile.Nitrogen = 0.5

	for i := 0; i < 50; i++ {
		f.updateTile(wheatTile, weather.Cloudy)
		f.updateTile(beanTile, weather.Cloudy)
		f.updateTile(fallowTile, weather.Cloudy)
	}

	assert.Less(t, wheatTile.Nitrogen, 0.5, "wheat draws nitrogen down")
	assert.Greater(t, beanTile.Nitrogen, 0.5, "soybean fixes nitrogen")
	assert.Greater(t, fallowTile.Nitrogen, 0.5, "fallow tiles recover nitrogen")
}

func TestDroughtKnockback(t *testing.T) {
	f := newTestFarm(t, 1)
	def, _ := crop.Get(crop.PotatoRussetBurbank)

	tile := f.Grid.At(0, 0)
	tile.Crop = crop.PotatoRussetBurbank
	tile.GrowthProgress = 0.5
	tile.Moisture = 0.1
	tile.Nitrogen = 0.6

	killed, damaged := f.updateTile(tile, weather.Drought)
	assert.Empty(t, killed)
	assert.True(t, damaged)

	// Knocked back by the drought loss, then one day of half-rate growth.
	want := 0.5 - weather.DroughtGrowthLoss + f.Tuning.DryPenalty/float64(def.GrowthTime)
	assert.InDelta(t, want, tile.GrowthProgress, 1e-9)
}

func TestFloodKillsWaterloggedCrop(t *testing.T) {
	f := newTestFarm(t, 1)
	tile := f.Grid.At(0, 0)

	killedOnce := false
	for i := 0; i < 200; i++ {
		tile.Crop = crop.PotatoRussetBurbank
		tile.GrowthProgress = 0.5
		tile.Moisture = 0.95

		if killed, _ := f.updateTile(tile, weather.Flood); killed != "" {
			killedOnce = true
			assert.Equal(t, crop.PotatoRussetBurbank, killed)
			assert.False(t, tile.Planted())
			break
		}
	}
	assert.True(t, killedOnce, "flood on waterlogged soil should kill within 200 days")
}

func TestHailDamagesGrowth(t *testing.T) {
	f := newTestFarm(t, 1)
	tile := f.Grid.At(0, 0)

	damagedOnce := false
	for i := 0; i < 200; i++ {
		tile.Crop = crop.PotatoRussetBurbank
		tile.GrowthProgress = 0.5
		tile.Moisture = 0.5

		if _, damaged := f.updateTile(tile, weather.Hail); damaged {
			damagedOnce = true
			loss := 0.5 - tile.GrowthProgress
			// The subsequent growth step adds a fraction of a day back.
			assert.Greater(t, loss, weather.HailDamageMin-0.05)
			assert.Less(t, loss, weather.HailDamageMax)
			break
		}
	}
	assert.True(t, damagedOnce, "hail should damage the crop within 200 days")
}

func TestAdvanceDayCalendarAndInvariants(t *testing.T) {
	f := newTestFarm(t, 7)
	f.AutoHarvest = true
	require.True(t, f.Plant(0, 0, crop.CarrotImperator))
	require.True(t, f.Plant(1, 1, crop.PotatoRussetBurbank))

	for f.Day < 400 {
		report := f.AdvanceDay()

		assert.Equal(t, f.Day, report.Day)
		assert.Equal(t, calendar.DateForDay(f.Day), f.CurrentDate)
		assert.Equal(t, calendar.SeasonForMonth(f.CurrentDate.Month()), f.Season)

		if f.Day == 93 {
			assert.Equal(t, calendar.Summer, f.Season)
			assert.Equal(t, "June", f.CurrentDate.Month().String())
		}

		f.Grid.Each(func(tile *Tile) {
			assert.GreaterOrEqual(t, tile.Moisture, 0.0)
			assert.LessOrEqual(t, tile.Moisture, 1.0)
			assert.GreaterOrEqual(t, tile.Nitrogen, 0.0)
			assert.LessOrEqual(t, tile.Nitrogen, 1.0)
			assert.GreaterOrEqual(t, tile.GrowthProgress, 0.0)
			assert.LessOrEqual(t, tile.GrowthProgress, 1.0)
			assert.GreaterOrEqual(t, tile.SoilQuality, f.Tuning.SoilFloor)
		})
	}
}

func TestSameSeedSameFarm(t *testing.T) {
	a := newTestFarm(t, 99)
	b := newTestFarm(t, 99)

	require.True(t, a.Plant(0, 0, crop.CarrotImperator))
	require.True(t, b.Plant(0, 0, crop.CarrotImperator))

	for i := 0; i < 120; i++ {
		ra := a.AdvanceDay()
		rb := b.AdvanceDay()
		assert.Equal(t, ra.Weather, rb.Weather)
	}

	for y := 0; y < a.Grid.Height; y++ {
		for x := 0; x < a.Grid.Width; x++ {
			assert.Equal(t, *a.Grid.At(x, y), *b.Grid.At(x, y))
		}
	}
	assert.Equal(t, a.Money, b.Money)
}
