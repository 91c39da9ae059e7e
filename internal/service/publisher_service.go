package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/molinerisit/wa-bot-sheets/internal/dto"
)

type IPublisherService interface {
	Publish(ctx context.Context, msg dto.InboundMessage) error
}

type publisherService struct {
	publisher message.Publisher
	topicName string
}

func NewPublisherService(publisher message.Publisher, topicName string) IPublisherService {
	return &publisherService{publisher: publisher, topicName: topicName}
}

func (p *publisherService) Publish(ctx context.Context, msg dto.InboundMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal inbound message: %w", err)
	}
	m := message.NewMessage(watermill.NewUUID(), payload)
	m.SetContext(ctx)
	m.Metadata.Set("user_id", msg.UserID)
	if err := p.publisher.Publish(p.topicName, m); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topicName, err)
	}
	return nil
}
