package models

import "time"

// Item is a read-only snapshot of one retrieved record.
type Item interface {
	Kind() Kind
	Headline() string
}

type Blog struct {
	Title     string    `json:"title" db:"title" yaml:"title"`
	Content   string    `json:"content" db:"content" yaml:"content"`
	Category  string    `json:"category" db:"category" yaml:"category"`
	CreatedAt time.Time `json:"createdAt" db:"createdAt" yaml:"createdAt"`
}

func (Blog) Kind() Kind { return KindBlog }
func (b Blog) Headline() string { return b.Title }

type Event struct {
	Title        string     `json:"title" db:"title" yaml:"title"`
	Description  string     `json:"description" db:"description" yaml:"description"`
	LocationName string     `json:"locationName" db:"locationName" yaml:"locationName"`
	StartDate    time.Time  `json:"startDate" db:"startDate" yaml:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty" db:"endDate" yaml:"endDate,omitempty"`
}

func (Event) Kind() Kind { return KindEvent }
func (e Event) Headline() string { return e.Title }

type Project struct {
	Title       string    `json:"title" db:"title" yaml:"title"`
	Description string    `json:"description" db:"description" yaml:"description"`
	Status      string    `json:"status" db:"status" yaml:"status"`
	CreatedAt   time.Time `json:"createdAt" db:"createdAt" yaml:"createdAt"`
}

func (Project) Kind() Kind { return KindProject }
func (p Project) Headline() string { return p.Title }

type Leader struct {
	FullName     string    `json:"fullName" db:"fullName" yaml:"fullName"`
	Position     string    `json:"position" db:"position" yaml:"position"`
	AcademicYear string    `json:"academicYear" db:"academicYear" yaml:"academicYear"`
	IsCurrent    bool      `json:"isCurrent" db:"isCurrent" yaml:"isCurrent"`
	CreatedAt    time.Time `json:"createdAt" db:"createdAt" yaml:"createdAt"`
}

func (Leader) Kind() Kind { return KindLeader }
func (l Leader) Headline() string { return l.FullName }

type Report struct {
	Title     string    `json:"title" db:"title" yaml:"title"`
	Content   string    `json:"content" db:"content" yaml:"content"`
	CreatedAt time.Time `json:"createdAt" db:"createdAt" yaml:"createdAt"`
}

func (Report) Kind() Kind { return KindReport }
func (r Report) Headline() string { return r.Title }

// RetrievalQuery is derived once per request; IsBroad never changes afterwards.
type RetrievalQuery struct {
	RawText string `json:"rawText"`
	IsBroad bool   `json:"isBroad"`
}

// SearchParams selects either substring search (Term set) or most-recent listing (Recent).
type SearchParams struct {
	Term   string
	Recent bool
	Limit  int
}

// Retrieval holds the per-kind results of one fan-out.
type Retrieval struct {
	Query  RetrievalQuery
	Items  map[Kind][]Item
	Limits map[Kind]int
	Failed map[Kind]error
}

// Count returns the number of items retrieved for kind.
func (r Retrieval) Count(kind Kind) int {
	return len(r.Items[kind])
}

func (r Retrieval) Total() int {
	total := 0
	for _, items := range r.Items {
		total += len(items)
	}
	return total
}

// Unavailable reports whether the kind's query failed rather than returning nothing.
func (r Retrieval) Unavailable(kind Kind) bool {
	_, failed := r.Failed[kind]
	return failed
}
