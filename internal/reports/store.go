// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package reports keeps an anonymous history of derived capability profiles so the
// profiler thresholds can be tuned against real traffic. No visitor identifiers are
// stored: a row is the profile, the rules that fired and a timestamp.
package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ManuGH/studioedge/internal/capability"
	"github.com/ManuGH/studioedge/internal/metrics"
	"github.com/ManuGH/studioedge/internal/persistence/sqlite"
)

const schemaVersion = 1

var ErrClosed = errors.New("report store closed")

// Report is one stored beacon outcome.
type Report struct {
	At      time.Time          `json:"at"`
	Profile capability.Profile `json:"profile"`
	Rules   []string           `json:"rules,omitempty"`
	Source  string             `json:"source"` // hints or beacon
}

// Summary aggregates reports recorded at or after Since.
type Summary struct {
	Since          time.Time      `json:"since"`
	Total          int            `json:"total"`
	ByMediaType    map[string]int `json:"byMediaType"`
	ByQuality      map[string]int `json:"byQuality"`
	ByRule         map[string]int `json:"byRule"`
	Mobile         int            `json:"mobile"`
	LowEnd         int            `json:"lowEnd"`
	PoorConnection int            `json:"poorConnection"`
}

// Store is a SQLite-backed report log.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (and migrates) the store at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlite.Open(ctx, path, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}
	s := &Store{db: db, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("report store: migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return err
	}
	if current >= schemaVersion {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	schema := `
	CREATE TABLE IF NOT EXISTS capability_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at_ms INTEGER NOT NULL,
		media_type TEXT NOT NULL,
		quality TEXT NOT NULL,
		mobile INTEGER NOT NULL,
		low_end INTEGER NOT NULL,
		good_connection INTEGER NOT NULL,
		can_video INTEGER NOT NULL,
		can_animate INTEGER NOT NULL,
		rules TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_capability_reports_at ON capability_reports(recorded_at_ms);
	`
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

// Record stores r. A zero At is stamped with the current time.
func (s *Store) Record(ctx context.Context, r Report) (err error) {
	defer func() { metrics.RecordReportWrite(err) }()
	if s == nil || s.db == nil {
		return ErrClosed
	}
	if r.At.IsZero() {
		r.At = s.now()
	}
	p := r.Profile
	_, err = s.db.ExecContext(ctx, `
	INSERT INTO capability_reports
		(recorded_at_ms, media_type, quality, mobile, low_end, good_connection, can_video, can_animate, rules, source)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.At.UnixMilli(), string(p.RecommendedMediaType), string(p.MaxVideoQuality),
		p.IsMobile, p.IsLowEndDevice, p.HasGoodConnection, p.CanHandleVideo, p.CanHandleComplexAnimations,
		strings.Join(r.Rules, ","), r.Source,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// Summary counts reports recorded at or after since.
func (s *Store) Summary(ctx context.Context, since time.Time) (Summary, error) {
	sum := Summary{
		Since:       since.UTC(),
		ByMediaType: map[string]int{},
		ByQuality:   map[string]int{},
		ByRule:      map[string]int{},
	}
	if s == nil || s.db == nil {
		return sum, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT media_type, quality, mobile, low_end, good_connection, rules
	FROM capability_reports WHERE recorded_at_ms >= ?`, since.UnixMilli())
	if err != nil {
		return sum, fmt.Errorf("query reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			mediaType, quality, rules string
			mobile, lowEnd, good      bool
		)
		if err := rows.Scan(&mediaType, &quality, &mobile, &lowEnd, &good, &rules); err != nil {
			return sum, fmt.Errorf("scan report: %w", err)
		}
		sum.Total++
		sum.ByMediaType[mediaType]++
		sum.ByQuality[quality]++
		if mobile {
			sum.Mobile++
		}
		if lowEnd {
			sum.LowEnd++
		}
		if !good {
			sum.PoorConnection++
		}
		for _, rule := range strings.Split(rules, ",") {
			if rule != "" {
				sum.ByRule[rule]++
			}
		}
	}
	if err := rows.Err(); err != nil {
		return sum, fmt.Errorf("iterate reports: %w", err)
	}
	return sum, nil
}

// Prune deletes reports older than before and returns how many were removed.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, ErrClosed
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM capability_reports WHERE recorded_at_ms < ?`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune reports: %w", err)
	}
	return res.RowsAffected()
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
