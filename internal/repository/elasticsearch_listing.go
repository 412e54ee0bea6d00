package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"scholarship-workers/internal/models"
)

const defaultSearchSize = 1000

type ElasticsearchListingRepository struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchListingRepository(client *elasticsearch.Client, index string) *ElasticsearchListingRepository {
	return &ElasticsearchListingRepository{client: client, index: index}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string                    `json:"_id"`
			Source models.ScholarshipListing `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// BuildListingSearch produces the search body. State and deadline are hard
// filters; majors only boost relevance because the engine owns the fuzzy
// major rule. States match ignoring case, like the eligibility rule.
func BuildListingSearch(q models.ListingQuery) map[string]interface{} {
	filter := []interface{}{}

	if q.DeadlineAfter != "" {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{
				"deadline": map[string]interface{}{"gte": q.DeadlineAfter},
			},
		})
	}

	if q.State != "" {
		filter = append(filter, map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{
						"states": map[string]interface{}{"value": q.State, "case_insensitive": true},
					}},
					map[string]interface{}{"bool": map[string]interface{}{
						"must_not": map[string]interface{}{"exists": map[string]interface{}{"field": "states"}},
					}},
				},
				"minimum_should_match": 1,
			},
		})
	}

	should := []interface{}{}
	for _, major := range q.Majors {
		should = append(should, map[string]interface{}{
			"match": map[string]interface{}{"majors": major},
		})
	}

	boolQuery := map[string]interface{}{
		"must": []interface{}{map[string]interface{}{"match_all": map[string]interface{}{}}},
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}
	if len(should) > 0 {
		boolQuery["should"] = should
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"deadline": map[string]interface{}{"order": "asc"}},
		},
	}
}

func (r *ElasticsearchListingRepository) ListActive(ctx context.Context, q models.ListingQuery) ([]models.ScholarshipListing, error) {
	body, err := json.Marshal(BuildListingSearch(q))
	if err != nil {
		return nil, fmt.Errorf("encode listing search: %w", err)
	}

	size := defaultSearchSize
	if q.Limit > 0 {
		size = q.Limit
	}

	req := esapi.SearchRequest{
		Index: []string{r.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", r.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("search %s: %s: %s", r.index, res.Status(), bytes.TrimSpace(msg))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	listings := make([]models.ScholarshipListing, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		l := hit.Source
		if l.ID == "" {
			l.ID = hit.ID
		}
		listings = append(listings, l)
	}
	return listings, nil
}
