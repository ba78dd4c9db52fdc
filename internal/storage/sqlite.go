// Package storage provides SQLite-based persistence for match results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-brawl/internal/core"
)

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// MatchResult is one finished match. Winner is 1 or 2, or 0 for a draw.
// EndReason is one of the core.End* values.
type MatchResult struct {
	ID        int64
	Mode      string
	P1Kind    string
	P2Kind    string
	P1HP      int
	P2HP      int
	Winner    int
	EndReason string
	Ticks     int
	Seed      int64
	CreatedAt time.Time
}

// FighterStats aggregates results for one fighter kind across both sides.
type FighterStats struct {
	Kind       string
	Matches    int
	Wins       int
	Losses     int
	Draws      int
	LastPlayed time.Time
}

// WinRate returns wins over matches, or 0 when none were played.
func (f FighterStats) WinRate() float64 {
	if f.Matches == 0 {
		return 0
	}
	return float64(f.Wins) / float64(f.Matches)
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

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
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
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			p1_kind TEXT NOT NULL,
			p2_kind TEXT NOT NULL,
			p1_hp INTEGER NOT NULL DEFAULT 0,
			p2_hp INTEGER NOT NULL DEFAULT 0,
			winner INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_mode ON matches(mode);
		CREATE INDEX IF NOT EXISTS idx_matches_p1 ON matches(p1_kind);
		CREATE INDEX IF NOT EXISTS idx_matches_p2 ON matches(p2_kind);
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

// FromSummary converts a finished match summary to a storable result.
func FromSummary(s core.MatchSummary) MatchResult {
	return MatchResult{
		Mode:      s.Mode,
		P1Kind:    s.P1Kind,
		P2Kind:    s.P2Kind,
		P1HP:      s.P1HP,
		P2HP:      s.P2HP,
		Winner:    int(s.Winner),
		EndReason: s.EndReason,
		Ticks:     s.Ticks,
		Seed:      s.Seed,
	}
}

// SaveMatch records a finished match and returns its ID.
func (s *Store) SaveMatch(m MatchResult) (int64, error) {
	if m.Winner < 0 || m.Winner > 2 {
		return 0, fmt.Errorf("storage: invalid winner %d", m.Winner)
	}
	res, err := s.db.Exec(
		`INSERT INTO matches
		 (mode, p1_kind, p2_kind, p1_hp, p2_hp, winner, end_reason, ticks, seed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Mode, m.P1Kind, m.P2Kind, m.P1HP, m.P2HP, m.Winner, m.EndReason, m.Ticks, m.Seed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const matchColumns = `id, mode, p1_kind, p2_kind, p1_hp, p2_hp, winner, end_reason, ticks, seed, created_at`

// MatchByID returns the match with the given ID, or nil when there is none.
func (s *Store) MatchByID(id int64) (*MatchResult, error) {
	row := s.db.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE id = ?`, id)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &m, nil
}

// RecentMatches returns the newest matches first. An empty mode matches all
// modes.
func (s *Store) RecentMatches(mode string, limit int) ([]MatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE ? = '' OR mode = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		mode, mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// ClearMatches deletes the history of one mode, or everything when mode is
// empty.
func (s *Store) ClearMatches(mode string) error {
	_, err := s.db.Exec("DELETE FROM matches WHERE ? = '' OR mode = ?", mode, mode)
	if err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	return nil
}

// FighterStats returns the record of every fighter kind that has played,
// best win count first.
func (s *Store) FighterStats() ([]FighterStats, error) {
	rows, err := s.db.Query(
		`SELECT kind, COUNT(*), SUM(win), SUM(loss), SUM(draw), MAX(created_at)
		 FROM (
			SELECT p1_kind AS kind, winner = 1 AS win, winner = 2 AS loss, winner = 0 AS draw, created_at FROM matches
			UNION ALL
			SELECT p2_kind, winner = 2, winner = 1, winner = 0, created_at FROM matches
		 )
		 GROUP BY kind
		 ORDER BY SUM(win) DESC, kind`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get fighter stats: %w", err)
	}
	defer rows.Close()

	var stats []FighterStats
	for rows.Next() {
		var f FighterStats
		var lastPlayed any
		if err := rows.Scan(&f.Kind, &f.Matches, &f.Wins, &f.Losses, &f.Draws, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		f.LastPlayed = parseTime(lastPlayed)
		stats = append(stats, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(sc scanner) (MatchResult, error) {
	var m MatchResult
	var createdAt any
	err := sc.Scan(
		&m.ID,
		&m.Mode,
		&m.P1Kind,
		&m.P2Kind,
		&m.P1HP,
		&m.P2HP,
		&m.Winner,
		&m.EndReason,
		&m.Ticks,
		&m.Seed,
		&createdAt,
	)
	m.CreatedAt = parseTime(createdAt)
	return m, err
}

// parseTime handles both time.Time and the string form SQLite returns for
// aggregated DATETIME columns.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
