package models

import "strings"

// Kind identifies one of the record collections the assistant reads from.
type Kind string

const (
	KindBlog    Kind = "blog"
	KindEvent   Kind = "event"
	KindProject Kind = "project"
	KindLeader  Kind = "leader"
	KindReport  Kind = "report"
)

// Kinds lists every collection in the order sections are rendered.
var Kinds = []Kind{KindBlog, KindEvent, KindProject, KindLeader, KindReport}

// Plural returns the lower-case collection name, e.g. "events".
func (k Kind) Plural() string {
	return string(k) + "s"
}

// Heading returns the upper-case section heading, e.g. "EVENTS".
func (k Kind) Heading() string {
	return strings.ToUpper(k.Plural())
}

// Title returns the capitalised collection name, e.g. "Events".
func (k Kind) Title() string {
	p := k.Plural()
	return strings.ToUpper(p[:1]) + p[1:]
}

func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}
