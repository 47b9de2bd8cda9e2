// ABOUTME: SQLite schema for the training catalog
// ABOUTME: Tracks training runs and per-sample extraction outcomes
package catalog

// Schema contains all SQL statements for database initialization
const Schema = `
-- One row per training invocation of a category
CREATE TABLE IF NOT EXISTS training_runs (
    id TEXT PRIMARY KEY,
    category TEXT NOT NULL,
    tier TEXT,
    sample_count INTEGER DEFAULT 0,
    failure_count INTEGER DEFAULT 0,
    duration_ms INTEGER DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- One row per audio file examined during a run
CREATE TABLE IF NOT EXISTS training_samples (
    id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL REFERENCES training_runs(id) ON DELETE CASCADE,
    category TEXT NOT NULL,
    path TEXT NOT NULL,
    status TEXT NOT NULL,
    error TEXT,
    clip_seconds REAL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_runs_category ON training_runs(category);
CREATE INDEX IF NOT EXISTS idx_samples_run ON training_samples(run_id);
CREATE INDEX IF NOT EXISTS idx_samples_category ON training_samples(category);
CREATE INDEX IF NOT EXISTS idx_samples_status ON training_samples(status);
`
