package models

type BlogDraft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Slug    string `json:"slug"`
}

type Translation struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ProjectFeedback.Rating is always within [0, 10].
type ProjectFeedback struct {
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
	Rating      float64  `json:"rating"`
}

type RelevantItem struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Relevance string `json:"relevance"`
}

type SearchSummary struct {
	Summary       string         `json:"summary"`
	RelevantItems []RelevantItem `json:"relevantItems"`
	Suggestions   []string       `json:"suggestions"`
}
