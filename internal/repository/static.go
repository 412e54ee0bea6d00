package repository

import (
	"context"
	"fmt"
	"strings"

	"scholarship-workers/internal/models"
	"scholarship-workers/pkg/registry"
)

// StaticListingRepository serves read-only listings loaded once from a seed file.
type StaticListingRepository struct {
	listings []models.ScholarshipListing
}

func NewStaticListingRepository(listings []models.ScholarshipListing) *StaticListingRepository {
	cp := make([]models.ScholarshipListing, len(listings))
	copy(cp, listings)
	return &StaticListingRepository{listings: cp}
}

// LoadStaticListingRepository reads a JSON or YAML seed file.
func LoadStaticListingRepository(path string) (*StaticListingRepository, error) {
	listings, err := registry.LoadListings(path)
	if err != nil {
		return nil, fmt.Errorf("load seed listings from %s: %w", path, err)
	}
	return NewStaticListingRepository(listings), nil
}

func (r *StaticListingRepository) ListActive(ctx context.Context, q models.ListingQuery) ([]models.ScholarshipListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]models.ScholarshipListing, 0, len(r.listings))
	for _, l := range r.listings {
		if q.State != "" && len(l.States) > 0 && !containsFold(l.States, q.State) {
			continue
		}
		// ISO dates compare lexically; malformed ones are left for validation.
		if q.DeadlineAfter != "" && len(l.Deadline) >= len(models.DeadlineLayout) &&
			l.Deadline[:len(models.DeadlineLayout)] < q.DeadlineAfter {
			continue
		}
		out = append(out, l)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}
