// Package storage provides SQLite-based persistence for concluded battles.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for battle history.
type Store struct {
	db *sql.DB
}

// BattleRecord is the summary of one concluded battle.
type BattleRecord struct {
	ID        string // UUID, assigned on save when empty
	Scenario  string
	Seed      int64
	Winner    string // Empty on a draw or round limit
	Reason    string // "victory", "draw", "round_limit"
	Rounds    int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS battles (
			id TEXT PRIMARY KEY,
			scenario TEXT NOT NULL,
			seed INTEGER NOT NULL,
			winner TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL,
			rounds INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_battles_scenario ON battles(scenario);
		CREATE INDEX IF NOT EXISTS idx_battles_recent ON battles(scenario, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveBattle records a concluded battle and returns its ID.
func (s *Store) SaveBattle(r BattleRecord) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO battles (id, scenario, seed, winner, reason, rounds, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Scenario, r.Seed, r.Winner, r.Reason, r.Rounds,
		r.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save battle: %w", err)
	}

	return r.ID, nil
}

// BattleByID retrieves a battle by its ID. Returns nil if it does not exist.
func (s *Store) BattleByID(id string) (*BattleRecord, error) {
	var r BattleRecord
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, scenario, seed, winner, reason, rounds, created_at
		 FROM battles
		 WHERE id = ?`,
		id,
	).Scan(&r.ID, &r.Scenario, &r.Seed, &r.Winner, &r.Reason, &r.Rounds, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query battle: %w", err)
	}

	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

// RecentBattles retrieves the most recent battles, newest first.
// An empty scenario matches every scenario.
func (s *Store) RecentBattles(scenario string, limit int) ([]BattleRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, scenario, seed, winner, reason, rounds, created_at
		 FROM battles
		 WHERE ? = '' OR scenario = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		scenario, scenario, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query battles: %w", err)
	}
	defer rows.Close()

	var records []BattleRecord
	for rows.Next() {
		var r BattleRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Scenario, &r.Seed, &r.Winner, &r.Reason, &r.Rounds, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// ClearBattles deletes the history of a scenario, or everything when
// scenario is empty.
func (s *Store) ClearBattles(scenario string) error {
	_, err := s.db.Exec("DELETE FROM battles WHERE ? = '' OR scenario = ?", scenario, scenario)
	if err != nil {
		return fmt.Errorf("storage: cannot clear battles: %w", err)
	}
	return nil
}

// ScenarioStats contains aggregated statistics for a scenario.
type ScenarioStats struct {
	Scenario    string
	Battles     int
	Draws       int
	RoundLimits int
	AvgRounds   float64
	Wins        map[string]int // Victories per agent name
	LastPlayed  time.Time
}

// GetScenarioStats retrieves aggregated statistics for a specific scenario.
func (s *Store) GetScenarioStats(scenario string) (*ScenarioStats, error) {
	stats := &ScenarioStats{Scenario: scenario, Wins: make(map[string]int)}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN reason = 'draw' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN reason = 'round_limit' THEN 1 ELSE 0 END), 0),
		        COALESCE(AVG(rounds), 0),
		        MAX(created_at)
		 FROM battles WHERE scenario = ?`,
		scenario,
	).Scan(&stats.Battles, &stats.Draws, &stats.RoundLimits, &stats.AvgRounds, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scenario stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	rows, err := s.db.Query(
		`SELECT winner, COUNT(*)
		 FROM battles
		 WHERE scenario = ? AND winner != ''
		 GROUP BY winner`,
		scenario,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get wins: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var winner string
		var n int
		if err := rows.Scan(&winner, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan wins row: %w", err)
		}
		stats.Wins[winner] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// GetAllScenarioStats retrieves statistics for every scenario with history.
func (s *Store) GetAllScenarioStats() (map[string]*ScenarioStats, error) {
	rows, err := s.db.Query(`SELECT DISTINCT scenario FROM battles`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list scenarios: %w", err)
	}

	defer rows.Close()

	var scenarios []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: cannot scan scenario: %w", err)
		}
		scenarios = append(scenarios, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	// Release the connection before the per-scenario queries.
	rows.Close()

	stats := make(map[string]*ScenarioStats, len(scenarios))
	for _, id := range scenarios {
		st, err := s.GetScenarioStats(id)
		if err != nil {
			return nil, err
		}
		stats[id] = st
	}

	return stats, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
