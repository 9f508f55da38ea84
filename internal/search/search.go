package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/foodfinder/foodfinder-api/internal/models"
)

// Locations runs a fuzzy multi_match over location names and addresses.
func Locations(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Location, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "address"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source models.Location `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	locations := make([]models.Location, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		locations[i] = hit.Source
	}
	return r.Hits.Total.Value, locations, nil
}

// SyncLocations upserts every location into the index. Runs at startup so
// documents created while ES was unavailable still become searchable.
func SyncLocations(ctx context.Context, es *elasticsearch.Client, index string, locations []models.Location) error {
	for _, location := range locations {
		if err := IndexLocation(ctx, es, index, location); err != nil {
			return fmt.Errorf("sync location %d: %w", location.ID, err)
		}
	}
	return nil
}

// IndexLocation upserts one location document.
func IndexLocation(ctx context.Context, es *elasticsearch.Client, index string, location models.Location) error {
	data, err := json.Marshal(location)
	if err != nil {
		return fmt.Errorf("encode location: %w", err)
	}

	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(location.ID), 10)),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index location: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index location: %s", res.Status())
	}
	return nil
}
