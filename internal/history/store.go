// Package history persists search events and per-city popularity counts in a
// local SQLite file using modernc.org/sqlite (pure Go, CGo-free).
//
// History is best-effort telemetry: the page flow never fails because a
// history write did. Both tables are created lazily and idempotently, so
// first use needs no separate migration step.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// CityCount is one row of the per-city popularity ranking. City strings are
// case-sensitive and not normalized.
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// Store owns the search_history and city_counts tables. Each operation opens
// its own short-lived connection; no handle is shared across requests.
type Store struct {
	path string
}

// New creates a Store over the SQLite file at path. The file is created on
// first write.
func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	return db, nil
}

// EnsureSchema creates both tables if absent. Called at startup and
// defensively before every read and write.
func (s *Store) EnsureSchema() error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()
	return ensureTables(db)
}

func ensureTables(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS search_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			city TEXT,
			search_date TIMESTAMP,
			user_id TEXT
		)
	`); err != nil {
		return fmt.Errorf("create search_history: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS city_counts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			city TEXT,
			count INTEGER
		)
	`); err != nil {
		return fmt.Errorf("create city_counts: %w", err)
	}
	return nil
}

// RecordSearch appends a history row and bumps the counter for the city.
// Failures are logged and swallowed so the caller is never blocked by a
// storage problem.
func (s *Store) RecordSearch(userID, city, timestamp string) {
	if err := s.recordSearch(userID, city, timestamp); err != nil {
		log.Printf("history: record search for %q failed: %v", city, err)
	}
}

func (s *Store) recordSearch(userID, city, timestamp string) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := ensureTables(db); err != nil {
		return err
	}

	if _, err := db.Exec(
		"INSERT INTO search_history (user_id, city, search_date) VALUES (?, ?, ?)",
		userID, city, timestamp,
	); err != nil {
		return fmt.Errorf("insert search_history: %w", err)
	}

	// Select-then-update, not an atomic upsert: concurrent searches for the
	// same city can lose an increment.
	var count int
	err = db.QueryRow("SELECT count FROM city_counts WHERE city = ?", city).Scan(&count)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.Exec("INSERT INTO city_counts (city, count) VALUES (?, 1)", city)
	case err == nil:
		_, err = db.Exec("UPDATE city_counts SET count = ? WHERE city = ?", count+1, city)
	}
	if err != nil {
		return fmt.Errorf("update city_counts: %w", err)
	}
	return nil
}

// LastSearchedCity returns the most recent city for the user, ordered by
// insertion id descending. The second return is false when the user has no
// history or the store is unavailable.
func (s *Store) LastSearchedCity(userID string) (string, bool) {
	db, err := s.open()
	if err != nil {
		log.Printf("history: last city lookup failed: %v", err)
		return "", false
	}
	defer db.Close()

	if err := ensureTables(db); err != nil {
		log.Printf("history: last city lookup failed: %v", err)
		return "", false
	}

	var city string
	err = db.QueryRow(
		"SELECT city FROM search_history WHERE user_id = ? ORDER BY id DESC LIMIT 1",
		userID,
	).Scan(&city)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("history: last city lookup failed: %v", err)
		}
		return "", false
	}
	return city, true
}

// TopCities returns up to limit cities ordered by search count descending.
func (s *Store) TopCities(limit int) ([]CityCount, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := ensureTables(db); err != nil {
		return nil, err
	}

	rows, err := db.Query(
		"SELECT city, count FROM city_counts ORDER BY count DESC, city ASC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query city_counts: %w", err)
	}
	defer rows.Close()

	var result []CityCount
	for rows.Next() {
		var cc CityCount
		if err := rows.Scan(&cc.City, &cc.Count); err != nil {
			return nil, err
		}
		result = append(result, cc)
	}
	return result, rows.Err()
}
