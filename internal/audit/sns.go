package audit

import (
	"context"
	"fmt"

	"bitsa-assistant/internal/common/aws"
)

type SNSSink struct {
	client   *aws.SNSClient
	topicARN string
}

func NewSNSSink(client *aws.SNSClient, topicARN string) *SNSSink {
	return &SNSSink{client: client, topicARN: topicARN}
}

func (s *SNSSink) Record(ctx context.Context, event Event) error {
	_, err := s.client.PublishJSON(ctx, s.topicARN, "audit."+string(event.Action), event, map[string]string{
		"action":       string(event.Action),
		"resourceType": event.ResourceType,
	})
	if err != nil {
		return fmt.Errorf("publish audit event %s: %w", event.ID, err)
	}
	return nil
}
