package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"scholarship-workers/internal/models"
)

type PostgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, gpa, sat_score, act_score, intended_majors, ethnicity, gender,
		       household_income_band, need_based_aid, extracurriculars, state, grade_level
		FROM student_profiles WHERE id = $1`, studentID)

	var (
		p                        models.StudentProfile
		gpa                      sql.NullFloat64
		sat, act, grade          sql.NullInt64
		majors, extracurriculars pq.StringArray
		band                     string
	)
	err := row.Scan(&p.ID, &gpa, &sat, &act, &majors, &p.Ethnicity, &p.Gender,
		&band, &p.NeedBasedAid, &extracurriculars, &p.State, &grade)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan student profile %s: %w", studentID, err)
	}

	p.GPA = nullFloat(gpa)
	p.SATScore = nullInt(sat)
	p.ACTScore = nullInt(act)
	p.GradeLevel = nullInt(grade)
	p.IncomeBand = models.IncomeBand(band)
	p.IntendedMajors = []string(majors)
	p.Extracurriculars = []string(extracurriculars)
	return &p, nil
}
