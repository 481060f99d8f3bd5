package report

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// StateDB tracks which months have been rendered and the content hash of the
// document, so the report CLI can skip months whose data has not changed.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS rendered_reports (
		month       TEXT PRIMARY KEY,
		hash        TEXT NOT NULL,
		rendered_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// Hash returns the content hash used for change detection.
func Hash(doc []byte) string {
	sum := sha256.Sum256(doc)
	return hex.EncodeToString(sum[:])
}

// IsCurrent reports whether the month was already rendered with this hash.
func (s *StateDB) IsCurrent(month time.Time, hash string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM rendered_reports WHERE month = ? AND hash = ?`,
		month.Format("2006-01"), hash,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkRendered records that the month was rendered with the given hash.
func (s *StateDB) MarkRendered(month time.Time, hash string) error {
	_, err := s.db.Exec(
		`INSERT INTO rendered_reports (month, hash) VALUES (?, ?)
		 ON CONFLICT(month) DO UPDATE SET hash = excluded.hash, rendered_at = CURRENT_TIMESTAMP`,
		month.Format("2006-01"), hash,
	)
	return err
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}
