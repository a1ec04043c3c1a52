// Package memstore is an in-memory RecordStore loaded from YAML fixtures.
// The assistant CLI uses it to exercise the pipeline without a database.
package memstore

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"bitsa-assistant/internal/models"
)

type Store struct {
	Blogs    []models.Blog    `yaml:"blogs"`
	Events   []models.Event   `yaml:"events"`
	Projects []models.Project `yaml:"projects"`
	Leaders  []models.Leader  `yaml:"leaders"`
	Reports  []models.Report  `yaml:"reports"`
}

// Load reads a fixture file with one top-level list per kind.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var s Store
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	return &s, nil
}

func contains(term string, fields ...string) bool {
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// search applies the Term filter or the Recent ordering, then the limit.
func search[T any](ctx context.Context, rows []T, p models.SearchParams, fields func(T) []string, recency func(T) time.Time) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if p.Term != "" && !p.Recent && !contains(p.Term, fields(row)...) {
			continue
		}
		out = append(out, row)
	}
	if p.Recent {
		sort.SliceStable(out, func(i, j int) bool { return recency(out[i]).After(recency(out[j])) })
	}
	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

func (s *Store) SearchBlogs(ctx context.Context, p models.SearchParams) ([]models.Blog, error) {
	return search(ctx, s.Blogs, p,
		func(b models.Blog) []string { return []string{b.Title, b.Content, b.Category} },
		func(b models.Blog) time.Time { return b.CreatedAt })
}

func (s *Store) SearchEvents(ctx context.Context, p models.SearchParams) ([]models.Event, error) {
	return search(ctx, s.Events, p,
		func(e models.Event) []string { return []string{e.Title, e.Description, e.LocationName} },
		func(e models.Event) time.Time { return e.StartDate })
}

func (s *Store) SearchProjects(ctx context.Context, p models.SearchParams) ([]models.Project, error) {
	return search(ctx, s.Projects, p,
		func(pr models.Project) []string { return []string{pr.Title, pr.Description} },
		func(pr models.Project) time.Time { return pr.CreatedAt })
}

func (s *Store) SearchLeaders(ctx context.Context, p models.SearchParams) ([]models.Leader, error) {
	return search(ctx, s.Leaders, p,
		func(l models.Leader) []string { return []string{l.FullName, l.Position} },
		func(l models.Leader) time.Time { return l.CreatedAt })
}

func (s *Store) SearchReports(ctx context.Context, p models.SearchParams) ([]models.Report, error) {
	return search(ctx, s.Reports, p,
		func(r models.Report) []string { return []string{r.Title, r.Content} },
		func(r models.Report) time.Time { return r.CreatedAt })
}
