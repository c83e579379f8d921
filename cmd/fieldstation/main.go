// Command fieldstation runs the farm simulation headless: a real-time day
// loop over the tile grid, with saves on disk, a SQLite history log, and an
// HTTP API standing in for the game UI.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/talgya/field-station/internal/api"
	"github.com/talgya/field-station/internal/calendar"
	"github.com/talgya/field-station/internal/crop"
	"github.com/talgya/field-station/internal/engine"
	"github.com/talgya/field-station/internal/persistence"
	"github.com/talgya/field-station/internal/sim"
)

func main() {
	// A .env file is optional; real env vars win either way.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))
	slog.SetDefault(logger)

	dbPath := envOr("FIELDSTATION_DB", "data/fieldstation.db")
	savePath := envOr("FIELDSTATION_SAVE", "saves/savegame.json")
	port := envInt("FIELDSTATION_PORT", 8080)
	seed := int64(envInt("FIELDSTATION_SEED", 42))
	adminKey := os.Getenv("FIELDSTATION_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("FIELDSTATION_ADMIN_KEY not set, POST endpoints disabled")
	}

	// ── History database ──────────────────────────────────────────────
	if err := os.MkdirAll("data", 0o755); err != nil {
		slog.Error("failed to create data dir", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── Load or create the farm ──────────────────────────────────────
	farm, fresh := loadOrCreateFarm(savePath, seed)
	slog.Info("farm ready",
		"farm", farm.Name,
		"location", farm.Location,
		"day", farm.Day,
		"date", calendar.FormatDate(farm.CurrentDate),
		"season", farm.Season.Label(),
		"weather", farm.Weather.Current.Label(),
		"money", "$"+humanize.Comma(int64(farm.Money)),
	)

	if fresh {
		if err := persistence.WriteFile(savePath, persistence.Snapshot(farm)); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	// ── Engine and API ───────────────────────────────────────────────
	eng := engine.New()
	eng.Speed = envFloat("FIELDSTATION_SPEED", 1.0)
	if secs := envInt("FIELDSTATION_DAY_SECONDS", 0); secs > 0 {
		eng.Interval = time.Duration(secs) * time.Second
	}

	srv := &api.Server{
		Farm:     farm,
		Eng:      eng,
		DB:       db,
		SavePath: savePath,
		Port:     port,
		AdminKey: adminKey,
	}

	eng.OnDay = func() {
		srv.Mu.Lock()
		report := farm.AdvanceDay()
		planted, mature := farm.PlantedTiles()
		money := farm.Money
		snapshot := persistence.Snapshot(farm)
		srv.Mu.Unlock()

		slog.Info("day advanced",
			"day", report.Day,
			"date", calendar.FormatDate(report.Date),
			"season", report.Season.Label(),
			"weather", report.Weather.Label(),
			"money", "$"+humanize.Comma(int64(money)),
			"planted", planted,
			"mature", mature,
		)

		db.SaveDay(farm.ID, persistence.DayRecord{
			Day:     report.Day,
			Date:    report.Date.Format(time.RFC3339),
			Season:  string(report.Season),
			Weather: string(report.Weather),
			Money:   money,
			Planted: planted,
			Mature:  mature,
		}, reportEvents(report))

		// Auto-save daily.
		if err := persistence.WriteFile(savePath, snapshot); err != nil {
			slog.Error("daily save failed", "error", err)
		}
	}

	srv.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\nField Station: %s - %s\n", farm.Name, farm.Location)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", port)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	// Final save on shutdown.
	srv.Mu.Lock()
	snapshot := persistence.Snapshot(farm)
	srv.Mu.Unlock()
	if err := persistence.WriteFile(savePath, snapshot); err != nil {
		slog.Error("final save failed", "error", err)
	}
	fmt.Println("Simulation stopped. Farm saved.")
}

// loadOrCreateFarm restores the save at path, or generates a new farm when
// none exists. The bool reports whether the farm is freshly generated.
func loadOrCreateFarm(savePath string, seed int64) (*sim.Farm, bool) {
	sf, err := persistence.ReadFile(savePath)
	switch {
	case err == nil:
		farm, rerr := persistence.Restore(sf, seed)
		if rerr != nil {
			slog.Error("failed to restore save", "path", savePath, "error", rerr)
			os.Exit(1)
		}
		slog.Info("save restored", "path", savePath, "day", farm.Day)
		return farm, false
	case errors.Is(err, os.ErrNotExist):
		slog.Info("no save found, starting a new farm", "path", savePath)
	default:
		slog.Error("failed to read save", "path", savePath, "error", err)
		os.Exit(1)
	}

	profile := sim.Champaign
	if envOr("FIELDSTATION_PROFILE", "") == "prairie" {
		profile = sim.ChampaignPrairie
	}

	return sim.New(sim.Config{
		Name:    envOr("FIELDSTATION_NAME", "Field Station"),
		Profile: profile,
		Seed:    seed,
	}), true
}

// reportEvents turns a day report into history events.
func reportEvents(report sim.DayReport) []persistence.Event {
	var events []persistence.Event

	if report.Extreme {
		events = append(events, persistence.Event{
			Day:         report.Day,
			Description: fmt.Sprintf("Extreme weather: %s", report.Weather.Label()),
			Category:    "weather",
		})
	}

	for _, id := range report.Killed {
		name := string(id)
		if def, ok := crop.Get(id); ok {
			name = def.ShortName()
		}
		events = append(events, persistence.Event{
			Day:         report.Day,
			Description: fmt.Sprintf("%s destroyed the %s crop", report.Weather.Label(), name),
			Category:    "crop",
		})
	}

	for _, h := range report.Harvests {
		name := string(h.Crop)
		if def, ok := crop.Get(h.Crop); ok {
			name = def.ShortName()
		}
		events = append(events, persistence.Event{
			Day:         report.Day,
			Description: fmt.Sprintf("Harvested %s for $%s", name, humanize.Comma(int64(h.Payout))),
			Category:    "harvest",
		})
	}

	return events
}

func logLevel() slog.Level {
	switch envOr("FIELDSTATION_LOG_LEVEL", "info") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
