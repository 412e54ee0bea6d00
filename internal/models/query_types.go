// internal/models/query_types.go
package models

// ListingSource selects where scholarship listings are read from.
type ListingSource string

const (
	ListingSourceStatic        ListingSource = "static"
	ListingSourcePostgres      ListingSource = "postgres"
	ListingSourceElasticsearch ListingSource = "elasticsearch"
)

// ListingQuery narrows the listing set before matching. Sources that cannot
// filter server-side return everything and leave filtering to the engine.
type ListingQuery struct {
	State         string   `json:"state,omitempty"`
	Majors        []string `json:"majors,omitempty"`
	DeadlineAfter string   `json:"deadlineAfter,omitempty"`
	Limit         int      `json:"limit,omitempty"`
}
