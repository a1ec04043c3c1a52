// Package sqlstore reads the club's collections from a relational database.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/models"
)

type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  logger.Logger
}

func New(db *sql.DB, dialect Dialect, log logger.Logger) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		logger:  log.With(map[string]interface{}{"component": "sqlstore", "dialect": dialect.Name}),
	}
}

// query runs the search or recency statement for t and scans each row.
func (s *Store) query(ctx context.Context, t table, p models.SearchParams, scan func(*sql.Rows) error) error {
	var (
		stmt string
		args []interface{}
	)
	if p.Recent || p.Term == "" {
		stmt = s.dialect.recentSQL(t)
		args = []interface{}{p.Limit}
	} else {
		stmt = s.dialect.searchSQL(t)
		args = []interface{}{likePattern(p.Term), p.Limit}
	}

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("query %s: %w", t.name, err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan %s: %w", t.name, err)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", t.name, err)
	}

	s.logger.Debug("Query completed", map[string]interface{}{
		"table":    t.name,
		"rows":     n,
		"duration": time.Since(start).String(),
	})
	return nil
}

func (s *Store) SearchBlogs(ctx context.Context, p models.SearchParams) ([]models.Blog, error) {
	out := []models.Blog{}
	err := s.query(ctx, blogsTable, p, func(rows *sql.Rows) error {
		var b models.Blog
		var content, category sql.NullString
		var created sql.NullTime
		if err := rows.Scan(&b.Title, &content, &category, &created); err != nil {
			return err
		}
		b.Content, b.Category, b.CreatedAt = content.String, category.String, created.Time
		out = append(out, b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) SearchEvents(ctx context.Context, p models.SearchParams) ([]models.Event, error) {
	out := []models.Event{}
	err := s.query(ctx, eventsTable, p, func(rows *sql.Rows) error {
		var e models.Event
		var description, location sql.NullString
		var start, end sql.NullTime
		if err := rows.Scan(&e.Title, &description, &location, &start, &end); err != nil {
			return err
		}
		e.Description, e.LocationName, e.StartDate = description.String, location.String, start.Time
		if end.Valid {
			t := end.Time
			e.EndDate = &t
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) SearchProjects(ctx context.Context, p models.SearchParams) ([]models.Project, error) {
	out := []models.Project{}
	err := s.query(ctx, projectsTable, p, func(rows *sql.Rows) error {
		var pr models.Project
		var description, status sql.NullString
		var created sql.NullTime
		if err := rows.Scan(&pr.Title, &description, &status, &created); err != nil {
			return err
		}
		pr.Description, pr.Status, pr.CreatedAt = description.String, status.String, created.Time
		out = append(out, pr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) SearchLeaders(ctx context.Context, p models.SearchParams) ([]models.Leader, error) {
	out := []models.Leader{}
	err := s.query(ctx, leadersTable, p, func(rows *sql.Rows) error {
		var l models.Leader
		var position, year sql.NullString
		var current sql.NullBool
		var created sql.NullTime
		if err := rows.Scan(&l.FullName, &position, &year, &current, &created); err != nil {
			return err
		}
		l.Position, l.AcademicYear, l.IsCurrent, l.CreatedAt = position.String, year.String, current.Bool, created.Time
		out = append(out, l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) SearchReports(ctx context.Context, p models.SearchParams) ([]models.Report, error) {
	out := []models.Report{}
	err := s.query(ctx, reportsTable, p, func(rows *sql.Rows) error {
		var r models.Report
		var content sql.NullString
		var created sql.NullTime
		if err := rows.Scan(&r.Title, &content, &created); err != nil {
			return err
		}
		r.Content, r.CreatedAt = content.String, created.Time
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
