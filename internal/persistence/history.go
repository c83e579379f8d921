package persistence

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for the farm history log.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		farm_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS days (
		farm_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		date TEXT NOT NULL,
		season TEXT NOT NULL,
		weather TEXT NOT NULL,
		money INTEGER NOT NULL,
		planted INTEGER NOT NULL,
		mature INTEGER NOT NULL,
		PRIMARY KEY (farm_id, day)
	);

	CREATE INDEX IF NOT EXISTS idx_events_farm_day ON events(farm_id, day);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Event is a notable occurrence on the farm.
type Event struct {
	Day         int    `db:"day" json:"day"`
	Description string `db:"description" json:"description"`
	Category    string `db:"category" json:"category"` // "weather", "harvest", "crop", etc.
}

// DayRecord is one row of the daily history.
type DayRecord struct {
	Day     int    `db:"day" json:"day"`
	Date    string `db:"date" json:"date"`
	Season  string `db:"season" json:"season"`
	Weather string `db:"weather" json:"weather"`
	Money   int    `db:"money" json:"money"`
	Planted int    `db:"planted" json:"planted"`
	Mature  int    `db:"mature" json:"mature"`
}

// RecordEvents appends events for a farm.
func (db *DB) RecordEvents(farmID uuid.UUID, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (farm_id, day, description, category) VALUES (?, ?, ?, ?)",
			farmID.String(), e.Day, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecordDay upserts the daily history row for a farm.
func (db *DB) RecordDay(farmID uuid.UUID, rec DayRecord) error {
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO days
		 (farm_id, day, date, season, weather, money, planted, mature)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		farmID.String(), rec.Day, rec.Date, rec.Season, rec.Weather,
		rec.Money, rec.Planted, rec.Mature,
	)
	if err != nil {
		return fmt.Errorf("record day %d: %w", rec.Day, err)
	}
	return nil
}

// RecentEvents returns the most recent N events for a farm, newest first.
func (db *DB) RecentEvents(farmID uuid.UUID, limit int) ([]Event, error) {
	var events []Event
	err := db.conn.Select(&events,
		"SELECT day, description, category FROM events WHERE farm_id = ? ORDER BY id DESC LIMIT ?",
		farmID.String(), limit,
	)
	return events, err
}

// History returns the most recent N daily records for a farm, newest first.
func (db *DB) History(farmID uuid.UUID, limit int) ([]DayRecord, error) {
	var records []DayRecord
	err := db.conn.Select(&records,
		`SELECT day, date, season, weather, money, planted, mature
		 FROM days WHERE farm_id = ? ORDER BY day DESC LIMIT ?`,
		farmID.String(), limit,
	)
	return records, err
}

// SaveDay writes a day's history row and events in one call, logging
// failures rather than surfacing them; a missed history row must not stop
// the simulation.
func (db *DB) SaveDay(farmID uuid.UUID, rec DayRecord, events []Event) {
	if err := db.RecordDay(farmID, rec); err != nil {
		slog.Error("history record failed", "day", rec.Day, "error", err)
	}
	if err := db.RecordEvents(farmID, events); err != nil {
		slog.Error("event record failed", "day", rec.Day, "error", err)
	}
}
