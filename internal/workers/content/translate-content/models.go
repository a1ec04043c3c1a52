package translatecontent

type Input struct {
	Title          string `json:"title"`
	Body           string `json:"body"`
	TargetLanguage string `json:"targetLanguage"`
}

type Output struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (o *Output) Variables() map[string]interface{} {
	return map[string]interface{}{
		"translatedTitle": o.Title,
		"translatedBody":  o.Body,
	}
}
