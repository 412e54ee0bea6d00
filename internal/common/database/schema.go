package database

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaStatements create the tables the repositories read and write.
// Every statement is idempotent.
var SchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS scholarships (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		provider TEXT NOT NULL DEFAULT '',
		amount INTEGER NOT NULL,
		deadline DATE NOT NULL,
		gpa_min NUMERIC(3,2),
		sat_min INTEGER,
		act_min INTEGER,
		income_min INTEGER,
		income_max INTEGER,
		majors TEXT[] NOT NULL DEFAULT '{}',
		demographics TEXT[] NOT NULL DEFAULT '{}',
		required_activities TEXT[] NOT NULL DEFAULT '{}',
		states TEXT[] NOT NULL DEFAULT '{}',
		grade_levels INTEGER[] NOT NULL DEFAULT '{}',
		competitiveness TEXT NOT NULL DEFAULT 'medium',
		is_local BOOLEAN NOT NULL DEFAULT FALSE,
		tags TEXT[] NOT NULL DEFAULT '{}',
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS student_profiles (
		id TEXT PRIMARY KEY,
		gpa NUMERIC(3,2),
		sat_score INTEGER,
		act_score INTEGER,
		intended_majors TEXT[] NOT NULL DEFAULT '{}',
		ethnicity TEXT NOT NULL DEFAULT '',
		gender TEXT NOT NULL DEFAULT '',
		household_income_band TEXT NOT NULL DEFAULT '',
		need_based_aid BOOLEAN NOT NULL DEFAULT FALSE,
		extracurriculars TEXT[] NOT NULL DEFAULT '{}',
		state TEXT NOT NULL DEFAULT '',
		grade_level INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS scholarship_matches (
		id UUID NOT NULL,
		student_id TEXT NOT NULL,
		scholarship_id TEXT NOT NULL,
		score INTEGER NOT NULL,
		reasons TEXT[] NOT NULL DEFAULT '{}',
		run_id UUID NOT NULL,
		computed_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (student_id, scholarship_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scholarships_active_deadline ON scholarships (active, deadline)`,
}

// Migrate applies SchemaStatements in one transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range SchemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d: %w", i, err)
		}
	}
	return tx.Commit()
}
