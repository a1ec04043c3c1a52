// Package retriever fans a RetrievalQuery out across the five record collections.
package retriever

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/common/metrics"
	"bitsa-assistant/internal/models"
)

// RecordStore is the read-only query surface over the club's collections.
// Each method honours either SearchParams.Term (substring match) or
// SearchParams.Recent (most recent first), bounded by SearchParams.Limit.
type RecordStore interface {
	SearchBlogs(ctx context.Context, p models.SearchParams) ([]models.Blog, error)
	SearchEvents(ctx context.Context, p models.SearchParams) ([]models.Event, error)
	SearchProjects(ctx context.Context, p models.SearchParams) ([]models.Project, error)
	SearchLeaders(ctx context.Context, p models.SearchParams) ([]models.Leader, error)
	SearchReports(ctx context.Context, p models.SearchParams) ([]models.Report, error)
}

type Config struct {
	TargetedLimit int
	BroadLimit    int
	ReportLimit   int
	// QueryTimeout bounds each per-kind query; zero inherits the caller's deadline.
	QueryTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		TargetedLimit: 5,
		BroadLimit:    10,
		ReportLimit:   3,
	}
}

type Retriever struct {
	store  RecordStore
	config Config
	logger logger.Logger
}

func New(store RecordStore, config Config, log logger.Logger) *Retriever {
	def := DefaultConfig()
	if config.TargetedLimit <= 0 {
		config.TargetedLimit = def.TargetedLimit
	}
	if config.BroadLimit <= 0 {
		config.BroadLimit = def.BroadLimit
	}
	if config.ReportLimit <= 0 {
		config.ReportLimit = def.ReportLimit
	}
	return &Retriever{
		store:  store,
		config: config,
		logger: log.With(map[string]interface{}{"component": "retriever"}),
	}
}

// Params returns the per-kind search parameters for q.
func (r *Retriever) Params(q models.RetrievalQuery) map[models.Kind]models.SearchParams {
	params := make(map[models.Kind]models.SearchParams, len(models.Kinds))
	for _, kind := range models.Kinds {
		limit := r.config.TargetedLimit
		if q.IsBroad {
			limit = r.config.BroadLimit
		}
		if kind == models.KindReport {
			limit = r.config.ReportLimit
		}
		if q.IsBroad {
			params[kind] = models.SearchParams{Recent: true, Limit: limit}
		} else {
			params[kind] = models.SearchParams{Term: strings.TrimSpace(q.RawText), Limit: limit}
		}
	}
	return params
}

// Retrieve queries every kind concurrently. A failing kind yields an empty
// slice and an entry in Failed; it never fails the whole retrieval.
func (r *Retriever) Retrieve(ctx context.Context, q models.RetrievalQuery) models.Retrieval {
	params := r.Params(q)
	result := models.Retrieval{
		Query:  q,
		Items:  make(map[models.Kind][]models.Item, len(models.Kinds)),
		Limits: make(map[models.Kind]int, len(models.Kinds)),
		Failed: make(map[models.Kind]error),
	}

	mode := "targeted"
	if q.IsBroad {
		mode = "broad"
	}

	var mu sync.Mutex
	var g errgroup.Group
	for _, kind := range models.Kinds {
		kind := kind
		p := params[kind]
		g.Go(func() error {
			items, err := r.fetch(ctx, kind, p)

			mu.Lock()
			defer mu.Unlock()
			result.Limits[kind] = p.Limit
			if err != nil {
				result.Items[kind] = []models.Item{}
				result.Failed[kind] = err
				metrics.RetrievalFailures.WithLabelValues(string(kind)).Inc()
				r.logger.Warn("retrieval failed for kind, continuing with empty result", map[string]interface{}{
					"kind":  string(kind),
					"mode":  mode,
					"error": err.Error(),
				})
				return nil
			}
			result.Items[kind] = items
			metrics.RetrievedItems.WithLabelValues(string(kind), mode).Observe(float64(len(items)))
			return nil
		})
	}
	_ = g.Wait()

	r.logger.Debug("retrieval completed", map[string]interface{}{
		"mode":   mode,
		"total":  result.Total(),
		"failed": len(result.Failed),
	})

	return result
}

func (r *Retriever) fetch(ctx context.Context, kind models.Kind, p models.SearchParams) (items []models.Item, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			items, err = nil, fmt.Errorf("%s query panicked: %v", kind, rec)
		}
	}()

	if r.config.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.QueryTimeout)
		defer cancel()
	}

	switch kind {
	case models.KindBlog:
		rows, err := r.store.SearchBlogs(ctx, p)
		return toItems(rows), err
	case models.KindEvent:
		rows, err := r.store.SearchEvents(ctx, p)
		return toItems(rows), err
	case models.KindProject:
		rows, err := r.store.SearchProjects(ctx, p)
		return toItems(rows), err
	case models.KindLeader:
		rows, err := r.store.SearchLeaders(ctx, p)
		return toItems(rows), err
	case models.KindReport:
		rows, err := r.store.SearchReports(ctx, p)
		return toItems(rows), err
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

func toItems[T models.Item](rows []T) []models.Item {
	items := make([]models.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row)
	}
	return items
}
