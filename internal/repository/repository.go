// Package repository holds the storage ports the workers depend on and their
// Postgres, Redis, Elasticsearch and seed-file implementations.
package repository

import (
	"context"
	"errors"

	"scholarship-workers/internal/models"
)

var ErrProfileNotFound = errors.New("student profile not found")

// ListingRepository returns the listings a matching run should consider.
// Implementations may narrow by query but the engine still applies every
// eligibility rule itself.
type ListingRepository interface {
	ListActive(ctx context.Context, q models.ListingQuery) ([]models.ScholarshipListing, error)
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, studentID string) (*models.StudentProfile, error)
}

// MatchStore persists match results. Saving the same run twice is a no-op.
type MatchStore interface {
	SaveMatches(ctx context.Context, out *models.MatchOutput) error
}

// MatchCache keeps the latest output per student for fast reads.
type MatchCache interface {
	Get(ctx context.Context, studentID string) (*models.MatchOutput, error)
	Set(ctx context.Context, out *models.MatchOutput) error
}
