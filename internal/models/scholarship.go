// internal/models/scholarship.go
package models

import (
	"fmt"
	"strings"
	"time"
)

type Competitiveness string

const (
	CompetitivenessLow           Competitiveness = "low"
	CompetitivenessMedium        Competitiveness = "medium"
	CompetitivenessHigh          Competitiveness = "high"
	CompetitivenessExtremelyHigh Competitiveness = "extremely_high"
)

// Rank orders competitiveness from low (0) to extremely_high (3).
// Unknown values rank as medium.
func (c Competitiveness) Rank() int {
	switch c {
	case CompetitivenessLow:
		return 0
	case CompetitivenessHigh:
		return 2
	case CompetitivenessExtremelyHigh:
		return 3
	default:
		return 1
	}
}

// DemographicAny disables the demographic restriction on a listing.
const DemographicAny = "any"

// DeadlineLayout is the ISO date format listings use for deadlines.
const DeadlineLayout = "2006-01-02"

type ScholarshipListing struct {
	ID                 string          `json:"id" yaml:"id"`
	Title              string          `json:"title" yaml:"title"`
	Provider           string          `json:"provider,omitempty" yaml:"provider"`
	Amount             int             `json:"amount" yaml:"amount"`
	Deadline           string          `json:"deadline" yaml:"deadline"`
	GPAMin             *float64        `json:"gpaMin,omitempty" yaml:"gpaMin"`
	SATMin             *int            `json:"satMin,omitempty" yaml:"satMin"`
	ACTMin             *int            `json:"actMin,omitempty" yaml:"actMin"`
	IncomeMin          *int            `json:"incomeMin,omitempty" yaml:"incomeMin"`
	IncomeMax          *int            `json:"incomeMax,omitempty" yaml:"incomeMax"`
	Majors             []string        `json:"majors,omitempty" yaml:"majors"`
	Demographics       []string        `json:"demographics,omitempty" yaml:"demographics"`
	RequiredActivities []string        `json:"requiredActivities,omitempty" yaml:"requiredActivities"`
	States             []string        `json:"states,omitempty" yaml:"states"`
	GradeLevels        []int           `json:"gradeLevels,omitempty" yaml:"gradeLevels"`
	Competitiveness    Competitiveness `json:"competitiveness,omitempty" yaml:"competitiveness"`
	IsLocal            bool            `json:"isLocal" yaml:"isLocal"`
	Tags               []string        `json:"tags,omitempty" yaml:"tags"`
}

// DeadlineTime parses the deadline as an ISO date. A full RFC3339
// timestamp is accepted and truncated to its date part.
func (l *ScholarshipListing) DeadlineTime() (time.Time, error) {
	d := strings.TrimSpace(l.Deadline)
	if len(d) > len(DeadlineLayout) {
		d = d[:len(DeadlineLayout)]
	}
	t, err := time.Parse(DeadlineLayout, d)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse deadline %q: %w", l.Deadline, err)
	}
	return t, nil
}

func (l *ScholarshipListing) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if strings.EqualFold(strings.TrimSpace(t), tag) {
			return true
		}
	}
	return false
}
