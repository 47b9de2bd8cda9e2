// ABOUTME: Training catalog persistence over SQLite
// ABOUTME: Records runs with per-sample outcomes so bad files stay traceable
package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sample statuses.
const (
	SampleOK     = "ok"
	SampleFailed = "failed"
)

// TrainingRun summarizes one training invocation for a category.
type TrainingRun struct {
	RunID        string
	Category     string
	Tier         string
	SampleCount  int
	FailureCount int
	Duration     time.Duration
	CreatedAt    time.Time
}

// SampleRecord is one audio file examined during a run. Failed samples
// keep the decode or extraction error so the offending file can be
// found later.
type SampleRecord struct {
	SampleID    string
	RunID       string
	Category    string
	Path        string
	Status      string
	Error       string
	ClipSeconds float64
	CreatedAt   time.Time
}

// Catalog handles training history persistence
type Catalog struct {
	db *DB
}

// NewCatalog creates a new Catalog instance
func NewCatalog(db *DB) *Catalog {
	return &Catalog{db: db}
}

// NewRunID generates a unique training run identifier.
func NewRunID() string {
	return fmt.Sprintf("run_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}

// RecordRun stores a run and its sample outcomes in one transaction.
// Sample IDs are assigned here; the caller only fills in the outcomes.
func (c *Catalog) RecordRun(run *TrainingRun, samples []SampleRecord) error {
	if run == nil {
		return fmt.Errorf("run cannot be nil")
	}
	if run.RunID == "" {
		run.RunID = NewRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := c.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO training_runs (id, category, tier, sample_count, failure_count, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.RunID, run.Category, run.Tier, run.SampleCount, run.FailureCount,
		run.Duration.Milliseconds(), run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i := range samples {
		s := &samples[i]
		if s.SampleID == "" {
			s.SampleID = fmt.Sprintf("sample_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
		}
		s.RunID = run.RunID
		if s.CreatedAt.IsZero() {
			s.CreatedAt = run.CreatedAt
		}
		_, err = tx.Exec(`
			INSERT INTO training_samples (id, run_id, category, path, status, error, clip_seconds, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, s.SampleID, s.RunID, s.Category, s.Path, s.Status, s.Error, s.ClipSeconds, s.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert sample %s: %w", s.Path, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns all runs, newest first.
func (c *Catalog) ListRuns() ([]TrainingRun, error) {
	return c.queryRuns(`
		SELECT id, category, tier, sample_count, failure_count, duration_ms, created_at
		FROM training_runs
		ORDER BY created_at DESC, id DESC
	`)
}

// RunsForCategory returns a category's runs, newest first.
func (c *Catalog) RunsForCategory(category string) ([]TrainingRun, error) {
	return c.queryRuns(`
		SELECT id, category, tier, sample_count, failure_count, duration_ms, created_at
		FROM training_runs
		WHERE category = ?
		ORDER BY created_at DESC, id DESC
	`, category)
}

func (c *Catalog) queryRuns(query string, args ...interface{}) ([]TrainingRun, error) {
	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []TrainingRun
	for rows.Next() {
		var run TrainingRun
		var durationMS int64
		var tier sql.NullString
		if err := rows.Scan(&run.RunID, &run.Category, &tier, &run.SampleCount,
			&run.FailureCount, &durationMS, &run.CreatedAt); err != nil {
			return nil, err
		}
		run.Tier = tier.String
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// SamplesForRun returns every sample examined during a run.
func (c *Catalog) SamplesForRun(runID string) ([]SampleRecord, error) {
	return c.querySamples(`
		SELECT id, run_id, category, path, status, error, clip_seconds, created_at
		FROM training_samples
		WHERE run_id = ?
		ORDER BY path ASC
	`, runID)
}

// SamplesForCategory returns every sample ever examined for a category.
func (c *Catalog) SamplesForCategory(category string) ([]SampleRecord, error) {
	return c.querySamples(`
		SELECT id, run_id, category, path, status, error, clip_seconds, created_at
		FROM training_samples
		WHERE category = ?
		ORDER BY created_at DESC, path ASC
	`, category)
}

// FailedSamples returns every sample that could not be decoded or
// analyzed, newest first.
func (c *Catalog) FailedSamples() ([]SampleRecord, error) {
	return c.querySamples(`
		SELECT id, run_id, category, path, status, error, clip_seconds, created_at
		FROM training_samples
		WHERE status = ?
		ORDER BY created_at DESC, path ASC
	`, SampleFailed)
}

func (c *Catalog) querySamples(query string, args ...interface{}) ([]SampleRecord, error) {
	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var samples []SampleRecord
	for rows.Next() {
		var s SampleRecord
		var errMsg sql.NullString
		if err := rows.Scan(&s.SampleID, &s.RunID, &s.Category, &s.Path,
			&s.Status, &errMsg, &s.ClipSeconds, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Error = errMsg.String
		samples = append(samples, s)
	}

	return samples, rows.Err()
}

// CategoryStats aggregates training history per category.
type CategoryStats struct {
	Category    string
	RunCount    int
	SampleCount int
	FailedCount int
	LastTrained time.Time
}

// Stats returns per-category aggregates over all recorded runs.
func (c *Catalog) Stats() ([]CategoryStats, error) {
	rows, err := c.db.Query(`
		SELECT r.category,
		       COUNT(DISTINCT r.id),
		       COALESCE(SUM(r.sample_count), 0),
		       COALESCE(SUM(r.failure_count), 0),
		       MAX(r.created_at)
		FROM training_runs r
		GROUP BY r.category
		ORDER BY r.category ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []CategoryStats
	for rows.Next() {
		var cs CategoryStats
		var lastTrained string
		if err := rows.Scan(&cs.Category, &cs.RunCount, &cs.SampleCount,
			&cs.FailedCount, &lastTrained); err != nil {
			return nil, err
		}
		// MAX() strips the column's declared type, so the driver hands
		// back text here rather than a time.Time.
		cs.LastTrained = parseStoredTime(lastTrained)
		stats = append(stats, cs)
	}

	return stats, rows.Err()
}

func parseStoredTime(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
