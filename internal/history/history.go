// Package history records one row per completed build in a local SQLite
// database, so `symdex status` can show recent build activity. History is
// best-effort bookkeeping: failures here never fail a build.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"symdex/internal/logging"
)

const schemaVersion = 1

// BuildRecord is one completed build.
type BuildRecord struct {
	BuildID       string
	StartedAt     time.Time
	Duration      time.Duration
	Forced        bool
	FilesIndexed  int
	FilesSkipped  int
	FilesRemoved  int
	SymbolsFound  int
	UniqueSymbols int
}

// Store persists build records.
type Store struct {
	conn   *sql.DB
	logger *logging.Logger
}

// Open opens or creates the history database at dir/history.db.
func Open(dir string, logger *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	conn, err := sql.Open("sqlite", filepath.Join(dir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	s := &Store{conn: conn, logger: logger}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS builds (
			build_id       TEXT PRIMARY KEY,
			started_at     INTEGER NOT NULL,
			duration_ms    INTEGER NOT NULL,
			forced         INTEGER NOT NULL,
			files_indexed  INTEGER NOT NULL,
			files_skipped  INTEGER NOT NULL,
			files_removed  INTEGER NOT NULL,
			symbols_found  INTEGER NOT NULL,
			unique_symbols INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("creating history schema: %w", err)
	}

	var stored string
	err = s.conn.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&stored)
	if err == sql.ErrNoRows {
		_, err = s.conn.Exec(`INSERT INTO meta (key, value) VALUES ('schema_version', ?)`,
			fmt.Sprintf("%d", schemaVersion))
		if err != nil {
			return fmt.Errorf("recording schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	if stored != fmt.Sprintf("%d", schemaVersion) {
		// Old history is not worth migrating; start over.
		if _, err := s.conn.Exec(`DELETE FROM builds`); err != nil {
			return fmt.Errorf("clearing stale history: %w", err)
		}
		if _, err := s.conn.Exec(`UPDATE meta SET value = ? WHERE key = 'schema_version'`,
			fmt.Sprintf("%d", schemaVersion)); err != nil {
			return fmt.Errorf("updating schema version: %w", err)
		}
	}
	return nil
}

// RecordBuild appends one build row.
func (s *Store) RecordBuild(rec BuildRecord) error {
	_, err := s.conn.Exec(`
		INSERT OR REPLACE INTO builds
			(build_id, started_at, duration_ms, forced,
			 files_indexed, files_skipped, files_removed, symbols_found, unique_symbols)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.BuildID, rec.StartedAt.Unix(), rec.Duration.Milliseconds(), boolToInt(rec.Forced),
		rec.FilesIndexed, rec.FilesSkipped, rec.FilesRemoved, rec.SymbolsFound, rec.UniqueSymbols)
	if err != nil {
		return fmt.Errorf("recording build: %w", err)
	}
	return nil
}

// RecentBuilds returns up to limit builds, newest first.
func (s *Store) RecentBuilds(limit int) ([]BuildRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.conn.Query(`
		SELECT build_id, started_at, duration_ms, forced,
		       files_indexed, files_skipped, files_removed, symbols_found, unique_symbols
		FROM builds
		ORDER BY started_at DESC, build_id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying builds: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Best effort cleanup

	var out []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		var startedAt, durationMs int64
		var forced int
		if err := rows.Scan(&rec.BuildID, &startedAt, &durationMs, &forced,
			&rec.FilesIndexed, &rec.FilesSkipped, &rec.FilesRemoved,
			&rec.SymbolsFound, &rec.UniqueSymbols); err != nil {
			return nil, fmt.Errorf("scanning build row: %w", err)
		}
		rec.StartedAt = time.Unix(startedAt, 0).UTC()
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		rec.Forced = forced != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
