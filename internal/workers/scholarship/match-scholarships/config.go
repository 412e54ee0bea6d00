// internal/workers/scholarship/match-scholarships/config.go
package matchscholarships

import "time"

type Config struct {
	Timeout       time.Duration
	ListingSource string
	ListingLimit  int
	// UseCache serves the last stored run for a student looked up by ID.
	UseCache bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       30 * time.Second,
		ListingSource: "static",
		UseCache:      true,
	}
}
