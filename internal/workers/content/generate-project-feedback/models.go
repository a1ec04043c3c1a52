package generateprojectfeedback

type Input struct {
	ProjectTitle       string `json:"projectTitle"`
	ProjectDescription string `json:"projectDescription"`
	TechStack          string `json:"techStack,omitempty"`
}

type Output struct {
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
	Rating      float64  `json:"rating"`
}

func (o *Output) Variables() map[string]interface{} {
	return map[string]interface{}{
		"feedback":            o.Feedback,
		"feedbackSuggestions": o.Suggestions,
		"feedbackRating":      o.Rating,
	}
}
