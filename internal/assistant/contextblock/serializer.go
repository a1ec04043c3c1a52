// Package contextblock renders retrieved records into the text block that is
// the model's only source of facts.
package contextblock

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"bitsa-assistant/internal/models"
)

const (
	// ExcerptLength caps the long-text field of every rendered item, in characters.
	ExcerptLength = 200
	Ellipsis      = "..."

	header    = "BITSA Website Database Context:"
	dateStyle = "2006-01-02"
)

type Section struct {
	Kind models.Kind
	// Count always equals the number of items rendered in Text.
	Count int
	// Truncated is set when Count reached the kind's cap, so more records may exist.
	Truncated   bool
	Unavailable bool
	Text        string
}

// Block is immutable once built; String is what gets injected into the prompt.
type Block struct {
	Sections []Section
	Total    int
}

func (b Block) String() string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n\n")
	for _, s := range b.Sections {
		sb.WriteString(s.Text)
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "TOTAL ITEMS FOUND: %d", b.Total)
	return sb.String()
}

// Section returns the section for kind.
func (b Block) Section(kind models.Kind) (Section, bool) {
	for _, s := range b.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

// Serialize renders one section per kind, in models.Kinds order, whether or not
// the kind has results.
func Serialize(r models.Retrieval) Block {
	block := Block{Sections: make([]Section, 0, len(models.Kinds))}
	for _, kind := range models.Kinds {
		section := renderSection(kind, r.Items[kind], r.Limits[kind], r.Unavailable(kind))
		block.Total += section.Count
		block.Sections = append(block.Sections, section)
	}
	return block
}

func renderSection(kind models.Kind, items []models.Item, limit int, unavailable bool) Section {
	s := Section{Kind: kind, Count: len(items), Unavailable: unavailable}

	var sb strings.Builder
	switch {
	case unavailable:
		fmt.Fprintf(&sb, "%s\n%s data could not be loaded right now; do not assume there are none.", kind.Heading(), kind.Title())
	case len(items) == 0:
		fmt.Fprintf(&sb, "%s\nNo %s found in database.", kind.Heading(), kind.Plural())
	default:
		fmt.Fprintf(&sb, "%s (%d found)", kind.Heading(), len(items))
		if limit > 0 && len(items) >= limit {
			s.Truncated = true
			fmt.Fprintf(&sb, "\nOnly the first %d are listed; more %s may exist.", limit, kind.Plural())
		}
		for _, item := range items {
			sb.WriteString("\n")
			sb.WriteString(renderItem(item))
		}
	}

	s.Text = sb.String()
	return s
}

func renderItem(item models.Item) string {
	switch v := item.(type) {
	case models.Blog:
		line := fmt.Sprintf("- %s", v.Title)
		if v.Category != "" {
			line += fmt.Sprintf(" (Category: %s)", v.Category)
		}
		line += "\n  " + Excerpt(v.Content)
		if !v.CreatedAt.IsZero() {
			line += "\n  Published: " + v.CreatedAt.Format(dateStyle)
		}
		return line

	case models.Event:
		line := fmt.Sprintf("- %s", v.Title)
		if v.LocationName != "" {
			line += " at " + v.LocationName
		}
		line += "\n  " + Excerpt(v.Description)
		if !v.StartDate.IsZero() {
			line += "\n  Date: " + formatRange(v.StartDate, v.EndDate)
		}
		return line

	case models.Project:
		line := fmt.Sprintf("- %s", v.Title)
		if v.Status != "" {
			line += fmt.Sprintf(" (Status: %s)", v.Status)
		}
		return line + "\n  " + Excerpt(v.Description)

	case models.Leader:
		line := fmt.Sprintf("- %s - %s", v.FullName, v.Position)
		if v.AcademicYear != "" {
			line += fmt.Sprintf(" (%s)", v.AcademicYear)
		}
		if v.IsCurrent {
			line += " [current]"
		}
		return line

	case models.Report:
		return fmt.Sprintf("- %s\n  %s", v.Title, Excerpt(v.Content))
	}

	return "- " + item.Headline()
}

func formatRange(start time.Time, end *time.Time) string {
	if end == nil || end.IsZero() || end.Format(dateStyle) == start.Format(dateStyle) {
		return start.Format(dateStyle)
	}
	return start.Format(dateStyle) + " to " + end.Format(dateStyle)
}

// Excerpt flattens whitespace and cuts text to ExcerptLength characters,
// appending Ellipsis when anything was dropped.
func Excerpt(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(flat) <= ExcerptLength {
		return flat
	}
	runes := []rune(flat)
	return strings.TrimRight(string(runes[:ExcerptLength]), " ") + Ellipsis
}
