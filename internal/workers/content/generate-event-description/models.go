package generateeventdescription

type Input struct {
	EventTitle     string `json:"eventTitle"`
	EventType      string `json:"eventType"`
	TargetAudience string `json:"targetAudience"`
	Language       string `json:"language,omitempty"`
}

type Output struct {
	Description string `json:"description"`
}

func (o *Output) Variables() map[string]interface{} {
	return map[string]interface{}{
		"eventDescription": o.Description,
	}
}
