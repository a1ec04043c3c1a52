package sqlstore

import (
	"fmt"
	"strings"
)

// Dialect captures the differences between the supported SQL engines.
type Dialect struct {
	Name string
	// Like is the case-insensitive match operator.
	Like        string
	placeholder func(n int) string
}

var (
	Postgres = Dialect{
		Name:        "postgres",
		Like:        "ILIKE",
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	}
	// SQLite's LIKE is already case-insensitive for ASCII.
	SQLite = Dialect{
		Name:        "sqlite",
		Like:        "LIKE",
		placeholder: func(n int) string { return fmt.Sprintf("?%d", n) },
	}
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres":
		return Postgres, nil
	case "sqlite":
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("unsupported sql driver %q", driver)
}

type table struct {
	name    string
	columns []string
	search  []string
	recency string
}

var (
	blogsTable    = table{"blogs", []string{"title", "content", "category", "createdAt"}, []string{"title", "content", "category"}, "createdAt"}
	eventsTable   = table{"events", []string{"title", "description", "locationName", "startDate", "endDate"}, []string{"title", "description", "locationName"}, "startDate"}
	projectsTable = table{"projects", []string{"title", "description", "status", "createdAt"}, []string{"title", "description"}, "createdAt"}
	leadersTable  = table{"leaders", []string{"fullName", "position", "academicYear", "isCurrent", "createdAt"}, []string{"fullName", "position"}, "createdAt"}
	reportsTable  = table{"reports", []string{"title", "content", "createdAt"}, []string{"title", "content"}, "createdAt"}
)

func quote(col string) string {
	return `"` + col + `"`
}

func quoteAll(cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = quote(c)
	}
	return strings.Join(out, ", ")
}

// searchSQL matches the term against every search column. $1 is the
// pattern and $2 the limit.
func (d Dialect) searchSQL(t table) string {
	conds := make([]string, len(t.search))
	for i, c := range t.search {
		conds[i] = fmt.Sprintf(`%s %s %s ESCAPE '\'`, quote(c), d.Like, d.placeholder(1))
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE (%s) ORDER BY %s DESC LIMIT %s",
		quoteAll(t.columns), t.name, strings.Join(conds, " OR "), quote(t.recency), d.placeholder(2))
}

// recentSQL lists the newest rows. $1 is the limit.
func (d Dialect) recentSQL(t table) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s DESC LIMIT %s",
		quoteAll(t.columns), t.name, quote(t.recency), d.placeholder(1))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps term for a substring match with wildcards escaped.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
