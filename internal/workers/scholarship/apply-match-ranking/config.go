// internal/workers/scholarship/apply-match-ranking/config.go
package applymatchranking

import "time"

type Config struct {
	MaxItems    int
	SummaryTopN int
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MaxItems:    100,
		SummaryTopN: 5,
		Timeout:     10 * time.Second,
	}
}
