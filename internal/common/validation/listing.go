// Package validation checks scholarship listings against a JSON schema and
// student profiles against their struct tags.
package validation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/models"
)

// ListingSchema lists the fields a listing must carry before it can be
// matched. Competitiveness may be omitted but must be a known value when set.
const ListingSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "title", "amount", "deadline"],
  "properties": {
    "id":       {"type": "string", "minLength": 1},
    "title":    {"type": "string", "minLength": 1, "pattern": "\\S"},
    "amount":   {"type": "integer", "minimum": 1},
    "deadline": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}"},
    "gpaMin":   {"type": "number", "minimum": 0, "maximum": 4},
    "satMin":   {"type": "integer", "minimum": 0},
    "actMin":   {"type": "integer", "minimum": 0},
    "incomeMin": {"type": "integer", "minimum": 0},
    "incomeMax": {"type": "integer", "minimum": 0},
    "competitiveness": {"enum": ["", "low", "medium", "high", "extremely_high"]},
    "gradeLevels": {"type": "array", "items": {"type": "integer"}}
  }
}`

var (
	listingSchemaOnce sync.Once
	listingSchema     *gojsonschema.Schema
	listingSchemaErr  error
)

func compiledListingSchema() (*gojsonschema.Schema, error) {
	listingSchemaOnce.Do(func() {
		listingSchema, listingSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(ListingSchema))
	})
	return listingSchema, listingSchemaErr
}

// ValidateListing returns an INVALID_LISTING_DATA error describing every
// problem found, or nil when the listing can be matched.
func ValidateListing(listing models.ScholarshipListing) error {
	schema, err := compiledListingSchema()
	if err != nil {
		return fmt.Errorf("compile listing schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(listing))
	if err != nil {
		return errors.NewInvalidListingDataError(listing.ID, []string{err.Error()})
	}

	var problems []string
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		problems = append(problems, fmt.Sprintf("%s: %s", field, desc.Description()))
	}

	// The pattern only checks shape; 2025-02-30 still has to fail.
	if listing.Deadline != "" {
		if _, err := listing.DeadlineTime(); err != nil {
			problems = append(problems, fmt.Sprintf("deadline: %s", err.Error()))
		}
	}

	if listing.IncomeMin != nil && listing.IncomeMax != nil && *listing.IncomeMin > *listing.IncomeMax {
		problems = append(problems, "incomeMin: must not exceed incomeMax")
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return errors.NewInvalidListingDataError(listing.ID, problems)
}
