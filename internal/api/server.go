// Package api serves the farm state over HTTP, standing in for the game's
// UI layer. GET endpoints are public (read-only observation). POST
// endpoints require a bearer token and carry the player intents: plant,
// harvest, auto-harvest, speed, save.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/field-station/internal/calendar"
	"github.com/talgya/field-station/internal/crop"
	"github.com/talgya/field-station/internal/engine"
	"github.com/talgya/field-station/internal/persistence"
	"github.com/talgya/field-station/internal/sim"
)

// Server serves the farm state over HTTP.
type Server struct {
	Farm     *sim.Farm
	Eng      *engine.Engine
	DB       *persistence.DB
	SavePath string
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// Serializes farm access between HTTP handlers and the tick loop.
	// The tick loop locks the same mutex around AdvanceDay.
	Mu sync.Mutex
}

// Handler builds the route table. Split from Start for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public endpoints, read-only.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/grid", s.handleGrid)
	mux.HandleFunc("/api/v1/market", s.handleMarket)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/history", s.handleHistory)

	// Player intents (POST, require bearer token).
	mux.HandleFunc("/api/v1/plant", s.adminOnly(s.handlePlant))
	mux.HandleFunc("/api/v1/harvest", s.adminOnly(s.handleHarvest))
	mux.HandleFunc("/api/v1/autoharvest", s.adminOnly(s.handleAutoHarvest))
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/save", s.adminOnly(s.handleSave))

	return mux
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through (for endpoints that support both).
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no FIELDSTATION_ADMIN_KEY set)", http.StatusForbidden)
				return
			}

			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}

		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	f := s.Farm
	writeJSON(w, map[string]any{
		"farm_id":       f.ID.String(),
		"farm_name":     f.Name,
		"farm_location": f.Location,
		"day":           f.Day,
		"date":          f.CurrentDate.Format(time.RFC3339),
		"date_display":  calendar.FormatDate(f.CurrentDate),
		"season":        f.Season.Label(),
		"weather":       f.Weather.Current.Label(),
		"money":         f.Money,
		"money_display": "$" + humanize.Comma(int64(f.Money)),
		"auto_harvest":  f.AutoHarvest,
		"speed":         s.Eng.Speed,
	})
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	type tileEntry struct {
		X              int     `json:"x"`
		Y              int     `json:"y"`
		SoilQuality    float64 `json:"soil_quality"`
		Moisture       float64 `json:"moisture"`
		Nitrogen       float64 `json:"nitrogen"`
		Crop           string  `json:"crop,omitempty"`
		CropName       string  `json:"crop_name,omitempty"`
		GrowthProgress float64 `json:"growth_progress"`
		DaysPlanted    int     `json:"days_planted"`
		HarvestedTimes int     `json:"harvested_times"`
		Mature         bool    `json:"mature"`
	}

	s.Mu.Lock()
	defer s.Mu.Unlock()

	tiles := make([]tileEntry, 0, s.Farm.Grid.Width*s.Farm.Grid.Height)
	s.Farm.Grid.Each(func(t *sim.Tile) {
		entry := tileEntry{
			X:              t.X,
			Y:              t.Y,
			SoilQuality:    t.SoilQuality,
			Moisture:       t.Moisture,
			Nitrogen:       t.Nitrogen,
			Crop:           string(t.Crop),
			GrowthProgress: t.GrowthProgress,
			DaysPlanted:    t.DaysPlanted,
			HarvestedTimes: t.HarvestedTimes,
			Mature:         t.Mature(),
		}
		if def, ok := crop.Get(t.Crop); ok {
			entry.CropName = def.ShortName()
		}
		tiles = append(tiles, entry)
	})

	writeJSON(w, map[string]any{
		"width":  s.Farm.Grid.Width,
		"height": s.Farm.Grid.Height,
		"tiles":  tiles,
	})
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	type marketEntry struct {
		Crop         string `json:"crop"`
		Name         string `json:"name"`
		Price        int    `json:"price"`
		PriceDisplay string `json:"price_display"`
		Trend        string `json:"trend"`
		Plantable    bool   `json:"plantable"`
	}

	s.Mu.Lock()
	defer s.Mu.Unlock()

	f := s.Farm
	entries := make([]marketEntry, 0, len(crop.All()))
	for _, def := range crop.All() {
		price := f.Market.PriceOrZero(def.ID, f.Season, f.Day)
		entries = append(entries, marketEntry{
			Crop:         string(def.ID),
			Name:         def.ShortName(),
			Price:        price,
			PriceDisplay: "$" + humanize.Comma(int64(price)),
			Trend:        f.Market.Trend(def.ID, f.Season),
			Plantable:    def.GrowsIn(f.Season),
		})
	}

	writeJSON(w, map[string]any{
		"season":  f.Season.Label(),
		"day":     f.Day,
		"entries": entries,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	events, err := s.DB.RecentEvents(s.Farm.ID, limit)
	if err != nil {
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []persistence.Event{}
	}
	writeJSON(w, events)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 90
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	records, err := s.DB.History(s.Farm.ID, limit)
	if err != nil {
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []persistence.DayRecord{}
	}
	writeJSON(w, records)
}

func (s *Server) handlePlant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		X    int    `json:"x"`
		Y    int    `json:"y"`
		Crop string `json:"crop"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.Mu.Lock()
	ok := s.Farm.Plant(req.X, req.Y, crop.ID(req.Crop))
	money := s.Farm.Money
	s.Mu.Unlock()

	writeJSON(w, map[string]any{"planted": ok, "money": money})
}

func (s *Server) handleHarvest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.Mu.Lock()
	result, ok := s.Farm.Harvest(req.X, req.Y)
	money := s.Farm.Money
	s.Mu.Unlock()

	writeJSON(w, map[string]any{
		"harvested": ok,
		"crop":      string(result.Crop),
		"payout":    result.Payout,
		"money":     money,
	})
}

func (s *Server) handleAutoHarvest(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Enabled bool `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		s.Mu.Lock()
		s.Farm.AutoHarvest = req.Enabled
		s.Mu.Unlock()
		slog.Info("auto-harvest toggled", "enabled", req.Enabled)
	}

	s.Mu.Lock()
	enabled := s.Farm.AutoHarvest
	s.Mu.Unlock()
	writeJSON(w, map[string]bool{"auto_harvest": enabled})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 100 {
			http.Error(w, "speed must be 0-100", http.StatusBadRequest)
			return
		}
		s.Eng.Speed = req.Speed
		slog.Info("speed changed", "speed", req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Eng.Speed})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.Mu.Lock()
	sf := persistence.Snapshot(s.Farm)
	s.Mu.Unlock()

	if err := persistence.WriteFile(s.SavePath, sf); err != nil {
		slog.Error("save failed", "path", s.SavePath, "error", err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"saved": true, "path": s.SavePath, "day": sf.Day})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
