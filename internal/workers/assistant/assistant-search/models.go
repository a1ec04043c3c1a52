package assistantsearch

import "bitsa-assistant/internal/models"

type Input struct {
	Query string `json:"query"`
}

type Output struct {
	Summary       string                `json:"summary"`
	RelevantItems []models.RelevantItem `json:"relevantItems"`
	Suggestions   []string              `json:"suggestions"`
}

func (o *Output) Variables() map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(o.RelevantItems))
	for _, it := range o.RelevantItems {
		items = append(items, map[string]interface{}{
			"type":      it.Type,
			"title":     it.Title,
			"relevance": it.Relevance,
		})
	}
	return map[string]interface{}{
		"searchSummary": o.Summary,
		"relevantItems": items,
		"suggestions":   o.Suggestions,
	}
}
