package generateblogcontent

type Input struct {
	Topic    string `json:"topic"`
	Category string `json:"category"`
	Language string `json:"language,omitempty"`
	Tone     string `json:"tone,omitempty"`
}

type Output struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Slug    string `json:"slug"`
}

func (o *Output) Variables() map[string]interface{} {
	return map[string]interface{}{
		"blogTitle":   o.Title,
		"blogContent": o.Content,
		"blogSlug":    o.Slug,
	}
}
