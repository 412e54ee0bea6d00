package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"scholarship-workers/internal/models"
)

const listingColumns = `id, title, provider, amount, deadline, gpa_min, sat_min, act_min,
	income_min, income_max, majors, demographics, required_activities, states,
	grade_levels, competitiveness, is_local, tags`

type PostgresListingRepository struct {
	db *sql.DB
}

func NewPostgresListingRepository(db *sql.DB) *PostgresListingRepository {
	return &PostgresListingRepository{db: db}
}

// buildListingQuery narrows on state and deadline only; major matching is
// fuzzy and stays in the engine.
func buildListingQuery(q models.ListingQuery) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString("SELECT " + listingColumns + " FROM scholarships WHERE active = TRUE")

	args := []interface{}{}
	if q.DeadlineAfter != "" {
		args = append(args, q.DeadlineAfter)
		fmt.Fprintf(&sb, " AND deadline >= $%d", len(args))
	}
	if q.State != "" {
		args = append(args, q.State)
		fmt.Fprintf(&sb, " AND (cardinality(states) = 0 OR $%d ILIKE ANY(states))", len(args))
	}
	sb.WriteString(" ORDER BY deadline, id")
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	return sb.String(), args
}

func (r *PostgresListingRepository) ListActive(ctx context.Context, q models.ListingQuery) ([]models.ScholarshipListing, error) {
	query, args := buildListingQuery(q)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scholarships: %w", err)
	}
	defer rows.Close()

	listings := []models.ScholarshipListing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scholarships: %w", err)
	}
	return listings, nil
}

func scanListing(rows *sql.Rows) (models.ScholarshipListing, error) {
	var (
		l                          models.ScholarshipListing
		deadline                   time.Time
		gpaMin                     sql.NullFloat64
		satMin, actMin             sql.NullInt64
		incomeMin, incomeMax       sql.NullInt64
		gradeLevels                pq.Int64Array
		competitiveness            string
		majors, demographics, tags pq.StringArray
		activities, states         pq.StringArray
	)

	err := rows.Scan(
		&l.ID, &l.Title, &l.Provider, &l.Amount, &deadline,
		&gpaMin, &satMin, &actMin, &incomeMin, &incomeMax,
		&majors, &demographics, &activities, &states,
		&gradeLevels, &competitiveness, &l.IsLocal, &tags,
	)
	if err != nil {
		return l, fmt.Errorf("scan scholarship: %w", err)
	}

	l.Deadline = deadline.Format(models.DeadlineLayout)
	l.GPAMin = nullFloat(gpaMin)
	l.SATMin = nullInt(satMin)
	l.ACTMin = nullInt(actMin)
	l.IncomeMin = nullInt(incomeMin)
	l.IncomeMax = nullInt(incomeMax)
	l.Majors = []string(majors)
	l.Demographics = []string(demographics)
	l.RequiredActivities = []string(activities)
	l.States = []string(states)
	l.Tags = []string(tags)
	l.Competitiveness = models.Competitiveness(competitiveness)
	for _, g := range gradeLevels {
		l.GradeLevels = append(l.GradeLevels, int(g))
	}
	return l, nil
}

// textArray binds nil as an empty array so NOT NULL columns accept it.
func textArray(v []string) interface{} {
	if v == nil {
		v = []string{}
	}
	return pq.Array(v)
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

// UpsertListings writes seed listings so the postgres source can be primed
// from the same files the static source reads.
func (r *PostgresListingRepository) UpsertListings(ctx context.Context, listings []models.ScholarshipListing) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin listing upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, l := range listings {
		grades := make([]int64, len(l.GradeLevels))
		for i, g := range l.GradeLevels {
			grades[i] = int64(g)
		}
		comp := l.Competitiveness
		if comp == "" {
			comp = models.CompetitivenessMedium
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO scholarships (`+listingColumns+`, active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, TRUE)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title, provider = EXCLUDED.provider, amount = EXCLUDED.amount,
				deadline = EXCLUDED.deadline, gpa_min = EXCLUDED.gpa_min, sat_min = EXCLUDED.sat_min,
				act_min = EXCLUDED.act_min, income_min = EXCLUDED.income_min, income_max = EXCLUDED.income_max,
				majors = EXCLUDED.majors, demographics = EXCLUDED.demographics,
				required_activities = EXCLUDED.required_activities, states = EXCLUDED.states,
				grade_levels = EXCLUDED.grade_levels, competitiveness = EXCLUDED.competitiveness,
				is_local = EXCLUDED.is_local, tags = EXCLUDED.tags, active = TRUE`,
			l.ID, l.Title, l.Provider, l.Amount, l.Deadline,
			l.GPAMin, l.SATMin, l.ACTMin, l.IncomeMin, l.IncomeMax,
			textArray(l.Majors), textArray(l.Demographics), textArray(l.RequiredActivities),
			textArray(l.States), pq.Array(grades), string(comp), l.IsLocal, textArray(l.Tags),
		)
		if err != nil {
			return fmt.Errorf("upsert scholarship %s: %w", l.ID, err)
		}
	}
	return tx.Commit()
}
