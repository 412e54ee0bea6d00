package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"scholarship-workers/internal/models"
)

const upsertMatchSQL = `
	INSERT INTO scholarship_matches (id, student_id, scholarship_id, score, reasons, run_id, computed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (student_id, scholarship_id) DO UPDATE SET
		score = EXCLUDED.score,
		reasons = EXCLUDED.reasons,
		run_id = EXCLUDED.run_id,
		computed_at = EXCLUDED.computed_at`

const pruneMatchesSQL = `DELETE FROM scholarship_matches WHERE student_id = $1 AND run_id <> $2`

// PostgresMatchStore keeps one row per (student, scholarship). Each save
// replaces the student's previous run.
type PostgresMatchStore struct {
	db *sql.DB
}

func NewPostgresMatchStore(db *sql.DB) *PostgresMatchStore {
	return &PostgresMatchStore{db: db}
}

func (s *PostgresMatchStore) SaveMatches(ctx context.Context, out *models.MatchOutput) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin match save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range out.Matches {
		reasons := m.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		_, err := tx.ExecContext(ctx, upsertMatchSQL,
			uuid.NewString(), out.StudentID, m.Listing.ID, m.Score,
			pq.Array(reasons), out.RunID, out.ComputedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert match %s/%s: %w", out.StudentID, m.Listing.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, pruneMatchesSQL, out.StudentID, out.RunID); err != nil {
		return fmt.Errorf("prune stale matches for %s: %w", out.StudentID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match save: %w", err)
	}
	return nil
}
