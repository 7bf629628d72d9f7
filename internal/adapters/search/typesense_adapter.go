package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	tsclient "github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/clients/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

// TypesenseAdapter implements trail search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements TrailSearchRepository
var _ repositories.TrailSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a trail document
func (a *TypesenseAdapter) Index(ctx context.Context, trail *entities.Trail) error {
	_, err := a.client.Client().Collection(tsclient.TrailsCollection).Documents().Upsert(ctx, trailDocument(trail))
	if err != nil {
		return fmt.Errorf("failed to index trail: %w", err)
	}
	return nil
}

// Search returns ids of trails matching query on name, location and tags
func (a *TypesenseAdapter) Search(ctx context.Context, query string, limit int) ([]int64, error) {
	if limit <= 0 {
		limit = 20
	}

	params := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,location,tags"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.TrailsCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search trails: %w", err)
	}
	if result.Hits == nil {
		return []int64{}, nil
	}

	docs := make([]map[string]interface{}, 0, len(*result.Hits))
	for _, hit := range *result.Hits {
		if hit.Document != nil {
			docs = append(docs, *hit.Document)
		}
	}
	return hitIDs(docs), nil
}

func trailDocument(trail *entities.Trail) map[string]interface{} {
	doc := map[string]interface{}{
		"id":          strconv.FormatInt(trail.ID, 10),
		"name":        trail.Name,
		"location":    trail.Location,
		"trail_type":  string(trail.Type),
		"distance_km": trail.DistanceKm,
		"tags":        buildTrailTags(trail),
	}
	if trail.Description != nil {
		doc["description"] = *trail.Description
	}
	return doc
}

// hitIDs keeps hit order and skips documents whose id is not numeric
func hitIDs(docs []map[string]interface{}) []int64 {
	ids := make([]int64, 0, len(docs))
	for _, doc := range docs {
		raw, ok := doc["id"].(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func buildTrailTags(trail *entities.Trail) []string {
	if trail == nil {
		return nil
	}

	seen := make(map[string]struct{})
	tags := make([]string, 0, 4)
	add := func(values ...string) {
		for _, v := range values {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			tags = append(tags, v)
		}
	}

	add(trail.Name, string(trail.Type))
	add(strings.Fields(trail.Location)...)
	return tags
}
