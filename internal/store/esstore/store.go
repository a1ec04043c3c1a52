// Package esstore reads the club's collections from Elasticsearch indices
// named <prefix>-<kind plural>, e.g. bitsa-events.
package esstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/models"
)

// searchFields and recencyField mirror the relational columns.
var (
	searchFields = map[models.Kind][]string{
		models.KindBlog:    {"title", "content", "category"},
		models.KindEvent:   {"title", "description", "locationName"},
		models.KindProject: {"title", "description"},
		models.KindLeader:  {"fullName", "position"},
		models.KindReport:  {"title", "content"},
	}
	recencyField = map[models.Kind]string{
		models.KindBlog:    "createdAt",
		models.KindEvent:   "startDate",
		models.KindProject: "createdAt",
		models.KindLeader:  "createdAt",
		models.KindReport:  "createdAt",
	}
)

type Store struct {
	client *elasticsearch.Client
	prefix string
	logger logger.Logger
}

func New(client *elasticsearch.Client, prefix string, log logger.Logger) *Store {
	if prefix == "" {
		prefix = "bitsa"
	}
	return &Store{
		client: client,
		prefix: prefix,
		logger: log.With(map[string]interface{}{"component": "esstore"}),
	}
}

func (s *Store) Index(kind models.Kind) string {
	return s.prefix + "-" + kind.Plural()
}

// BuildQuery returns the search body. Targeted queries use a phrase match
// across the kind's text fields, which is the analyzed-text counterpart of
// a case-insensitive substring match. Listings sort by recency.
func BuildQuery(kind models.Kind, p models.SearchParams) map[string]interface{} {
	body := map[string]interface{}{
		"size": p.Limit,
	}
	if p.Recent || strings.TrimSpace(p.Term) == "" {
		body["query"] = map[string]interface{}{"match_all": map[string]interface{}{}}
		body["sort"] = []interface{}{
			map[string]interface{}{recencyField[kind]: map[string]interface{}{"order": "desc"}},
		}
		return body
	}
	body["query"] = map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query":  p.Term,
			"fields": searchFields[kind],
			"type":   "phrase_prefix",
		},
	}
	return body
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func search[T any](ctx context.Context, s *Store, kind models.Kind, p models.SearchParams) ([]T, error) {
	index := s.Index(kind)
	body, err := json.Marshal(BuildQuery(kind, p))
	if err != nil {
		return nil, fmt.Errorf("encode %s query: %w", index, err)
	}

	req := esapi.SearchRequest{
		Index: []string{index},
		Body:  strings.NewReader(string(body)),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search %s failed: %s", index, res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", index, err)
	}

	out := make([]T, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		var doc T
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			s.logger.Warn("Skipping undecodable document", map[string]interface{}{
				"index": index,
				"error": err.Error(),
			})
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *Store) SearchBlogs(ctx context.Context, p models.SearchParams) ([]models.Blog, error) {
	return search[models.Blog](ctx, s, models.KindBlog, p)
}

func (s *Store) SearchEvents(ctx context.Context, p models.SearchParams) ([]models.Event, error) {
	return search[models.Event](ctx, s, models.KindEvent, p)
}

func (s *Store) SearchProjects(ctx context.Context, p models.SearchParams) ([]models.Project, error) {
	return search[models.Project](ctx, s, models.KindProject, p)
}

func (s *Store) SearchLeaders(ctx context.Context, p models.SearchParams) ([]models.Leader, error) {
	return search[models.Leader](ctx, s, models.KindLeader, p)
}

func (s *Store) SearchReports(ctx context.Context, p models.SearchParams) ([]models.Report, error) {
	return search[models.Report](ctx, s, models.KindReport, p)
}
