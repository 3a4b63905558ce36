// Package storage persists analyses and bus events on the local disk.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dohr-michael/promptdna/internal/dna"
)

// ErrNotFound is returned when an analysis id is unknown.
var ErrNotFound = errors.New("analysis not found")

// DefaultListLimit caps List when no positive limit is given.
const DefaultListLimit = 20

// Record is one stored analysis. Profile is nil when the analysis failed.
type Record struct {
	ID        string       `json:"id" yaml:"id"`
	Text      string       `json:"text" yaml:"text"`
	Profile   *dna.Profile `json:"profile,omitempty" yaml:"profile,omitempty"`
	Error     string       `json:"error,omitempty" yaml:"error,omitempty"`
	Provider  string       `json:"provider" yaml:"provider"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
}

// OK reports whether the analysis succeeded.
func (r Record) OK() bool { return r.Profile != nil }

// History is a SQLite-backed log of analyses.
type History struct {
	db *sql.DB
}

// OpenHistory opens (or creates) the history database at path.
// Use ":memory:" for an ephemeral store.
func OpenHistory(path string) (*History, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across queries.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id         TEXT PRIMARY KEY,
		text       TEXT NOT NULL,
		profile    TEXT,
		error      TEXT NOT NULL DEFAULT '',
		provider   TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}

// Save stores rec, assigning an id and timestamp when missing. The stored
// record is returned.
func (h *History) Save(rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC().Truncate(time.Millisecond)

	var profile sql.NullString
	if rec.Profile != nil {
		data, err := json.Marshal(rec.Profile)
		if err != nil {
			return Record{}, fmt.Errorf("marshal profile: %w", err)
		}
		profile = sql.NullString{String: string(data), Valid: true}
	}

	_, err := h.db.Exec(
		`INSERT OR REPLACE INTO analyses (id, text, profile, error, provider, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Text, profile, rec.Error, rec.Provider, rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return Record{}, fmt.Errorf("save analysis: %w", err)
	}
	return rec, nil
}

// Get returns the analysis with the given id.
func (h *History) Get(id string) (Record, error) {
	row := h.db.QueryRow(
		`SELECT id, text, profile, error, provider, created_at FROM analyses WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// List returns the most recent analyses, newest first.
func (h *History) List(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := h.db.Query(
		`SELECT id, text, profile, error, provider, created_at FROM analyses
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var (
		rec     Record
		profile sql.NullString
		created int64
	)
	if err := s.Scan(&rec.ID, &rec.Text, &profile, &rec.Error, &rec.Provider, &created); err != nil {
		return Record{}, err
	}
	rec.CreatedAt = time.UnixMilli(created).UTC()

	if profile.Valid && profile.String != "" {
		var p dna.Profile
		if err := json.Unmarshal([]byte(profile.String), &p); err != nil {
			return Record{}, fmt.Errorf("decode profile %s: %w", rec.ID, err)
		}
		rec.Profile = &p
	}
	return rec, nil
}
