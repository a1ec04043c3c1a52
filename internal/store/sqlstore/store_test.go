package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/models"
)

func setupMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, Postgres, logger.NewTestLogger(t)), mock
}

func TestSearchSQL(t *testing.T) {
	assert.Equal(t,
		`SELECT "title", "content", "category", "createdAt" FROM blogs WHERE ("title" ILIKE $1 ESCAPE '\' OR "content" ILIKE $1 ESCAPE '\' OR "category" ILIKE $1 ESCAPE '\') ORDER BY "createdAt" DESC LIMIT $2`,
		Postgres.searchSQL(blogsTable))
	assert.Equal(t,
		`SELECT "fullName", "position", "academicYear", "isCurrent", "createdAt" FROM leaders ORDER BY "createdAt" DESC LIMIT ?1`,
		SQLite.recentSQL(leadersTable))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%hackathon%`, likePattern("hackathon"))
	assert.Equal(t, `%100\% club\_night%`, likePattern("100% club_night"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("sqlite")
	require.NoError(t, err)
	assert.Equal(t, "LIKE", d.Like)

	_, err = DialectFor("mysql")
	assert.Error(t, err)
}

func TestSearchBlogs_Targeted(t *testing.T) {
	store, mock := setupMock(t)
	created := time.Date(2026, 9, 20, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(Postgres.searchSQL(blogsTable))).
		WithArgs("%hackathon%", 5).
		WillReturnRows(sqlmock.NewRows([]string{"title", "content", "category", "createdAt"}).
			AddRow("Hackathon recap", "Twelve teams", nil, created))

	got, err := store.SearchBlogs(context.Background(), models.SearchParams{Term: "hackathon", Limit: 5})

	require.NoError(t, err)
	assert.Equal(t, []models.Blog{{Title: "Hackathon recap", Content: "Twelve teams", CreatedAt: created}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchEvents_Recent(t *testing.T) {
	store, mock := setupMock(t)
	start := time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM events ORDER BY "startDate" DESC LIMIT $1`)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"title", "description", "locationName", "startDate", "endDate"}).
			AddRow("Hack Day", "Build things", "Lab 3", start, end).
			AddRow("Meetup", "Talks", "Hall", start.Add(-48*time.Hour), nil))

	got, err := store.SearchEvents(context.Background(), models.SearchParams{Recent: true, Limit: 10})

	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].EndDate)
	assert.Equal(t, end, *got[0].EndDate)
	assert.Nil(t, got[1].EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchBlogs_NullCreatedAtKeepsRows(t *testing.T) {
	store, mock := setupMock(t)
	created := time.Date(2026, 9, 20, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(Postgres.recentSQL(blogsTable))).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"title", "content", "category", "createdAt"}).
			AddRow("Hackathon recap", "Twelve teams", "Events", created).
			AddRow("Imported draft", nil, nil, nil))

	got, err := store.SearchBlogs(context.Background(), models.SearchParams{Recent: true, Limit: 10})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, created, got[0].CreatedAt)
	assert.Equal(t, "Imported draft", got[1].Title)
	assert.True(t, got[1].CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchLeaders_NullPositionAndStart(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM leaders`)).
		WillReturnRows(sqlmock.NewRows([]string{"fullName", "position", "academicYear", "isCurrent", "createdAt"}).
			AddRow("Amani Otieno", nil, "2026/2027", true, nil))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM events`)).
		WillReturnRows(sqlmock.NewRows([]string{"title", "description", "locationName", "startDate", "endDate"}).
			AddRow("TBA social", nil, nil, nil, nil))

	leaders, err := store.SearchLeaders(context.Background(), models.SearchParams{Recent: true, Limit: 5})
	require.NoError(t, err)
	require.Len(t, leaders, 1)
	assert.Empty(t, leaders[0].Position)
	assert.True(t, leaders[0].IsCurrent)

	events, err := store.SearchEvents(context.Background(), models.SearchParams{Recent: true, Limit: 5})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].StartDate.IsZero())
	assert.Nil(t, events[0].EndDate)
}

func TestSearchLeaders_QueryError(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM leaders`)).
		WillReturnError(errors.New("relation \"leaders\" does not exist"))

	got, err := store.SearchLeaders(context.Background(), models.SearchParams{Term: "president", Limit: 5})

	assert.Nil(t, got)
	assert.ErrorContains(t, err, "query leaders")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchProjects_ScanError(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM projects`)).
		WillReturnRows(sqlmock.NewRows([]string{"title", "description", "status", "createdAt"}).
			AddRow("Campus Map", "Indoor map", "active", "not a time"))

	_, err := store.SearchProjects(context.Background(), models.SearchParams{Recent: true, Limit: 10})

	assert.ErrorContains(t, err, "scan projects")
}

func TestSearchReports_EmptyIsNotNil(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM reports`)).
		WithArgs("%budget%", 3).
		WillReturnRows(sqlmock.NewRows([]string{"title", "content", "createdAt"}))

	got, err := store.SearchReports(context.Background(), models.SearchParams{Term: "budget", Limit: 3})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

const sqliteSchema = `
CREATE TABLE blogs ("title" TEXT NOT NULL, "content" TEXT, "category" TEXT, "createdAt" DATETIME NOT NULL);
CREATE TABLE leaders ("fullName" TEXT NOT NULL, "position" TEXT NOT NULL, "academicYear" TEXT, "isCurrent" BOOLEAN, "createdAt" DATETIME NOT NULL);
`

func TestSQLite_RoundTrip(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(sqliteSchema)
	require.NoError(t, err)

	older := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	_, err = db.Exec(`INSERT INTO blogs VALUES (?, ?, ?, ?), (?, ?, ?, ?)`,
		"Intro to Go", "goroutines", "Tutorials", older,
		"100% uptime", "ops notes", "Ops", newer)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO leaders VALUES (?, ?, ?, ?, ?)`, "Amani Otieno", "President", "2026/2027", true, newer)
	require.NoError(t, err)

	store := New(db, SQLite, logger.NewTestLogger(t))
	ctx := context.Background()

	hits, err := store.SearchBlogs(ctx, models.SearchParams{Term: "GOROUTINES", Limit: 5})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Intro to Go", hits[0].Title)

	// % is matched literally
	pct, err := store.SearchBlogs(ctx, models.SearchParams{Term: "100%", Limit: 5})
	require.NoError(t, err)
	require.Len(t, pct, 1)
	assert.Equal(t, "100% uptime", pct[0].Title)

	recent, err := store.SearchBlogs(ctx, models.SearchParams{Recent: true, Limit: 1})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "100% uptime", recent[0].Title)

	leaders, err := store.SearchLeaders(ctx, models.SearchParams{Term: "president", Limit: 5})
	require.NoError(t, err)
	require.Len(t, leaders, 1)
	assert.True(t, leaders[0].IsCurrent)
}
