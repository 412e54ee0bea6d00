// pkg/registry/schema.go
package registry

import "scholarship-workers/internal/models"

// ListingRegistry is the on-disk seed format for scholarship listings.
type ListingRegistry struct {
	Version      string                      `json:"version" yaml:"version"`
	LastUpdated  string                      `json:"lastUpdated" yaml:"lastUpdated"`
	Scholarships []models.ScholarshipListing `json:"scholarships" yaml:"scholarships"`
}
