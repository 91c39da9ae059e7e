package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"golang.org/x/sync/errgroup"

	"github.com/molinerisit/wa-bot-sheets/internal/dto"
	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
	// Wait blocks until the subscription closed and in-flight turns finished.
	Wait()
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	chatbot     IChatbotService
	concurrency int
	log         logger.ILogger
	done        sync.WaitGroup
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	chatbot IChatbotService,
	concurrency int,
	log logger.ILogger,
) IConsumerService {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		chatbot:     chatbot,
		concurrency: concurrency,
		log:         log,
	}
}

// Consume dispatches each message to a bounded worker pool. Messages are
// acked on dispatch, so the in-memory channel keeps flowing while turns run.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(cs.concurrency)

	cs.done.Add(1)
	go func() {
		defer cs.done.Done()
		for msg := range messages {
			var payload dto.InboundMessage
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				cs.log.Error("Consumer", "Failed to unmarshal inbound message", map[string]interface{}{
					"message_uuid": msg.UUID,
					"error":        err.Error(),
				})
				msg.Ack()
				continue
			}
			msg.Ack()

			g.Go(func() error {
				cs.process(ctx, payload)
				return nil
			})
		}
		_ = g.Wait()
		cs.log.Info("Consumer", "Inbound subscription closed", map[string]interface{}{"topic": cs.topicName})
	}()

	cs.log.Info("Consumer", "Consuming inbound messages", map[string]interface{}{
		"topic":       cs.topicName,
		"concurrency": cs.concurrency,
	})
	return nil
}

func (cs *consumerService) process(ctx context.Context, payload dto.InboundMessage) {
	defer func() {
		if r := recover(); r != nil {
			cs.log.Error("Consumer", "Turn panicked", map[string]interface{}{"user_id": payload.UserID, "panic": r})
		}
	}()
	if err := cs.chatbot.HandleInbound(ctx, payload); err != nil {
		cs.log.Warn("Consumer", "Inbound message not handled", map[string]interface{}{
			"user_id": payload.UserID,
			"error":   err.Error(),
		})
	}
}

func (cs *consumerService) Wait() {
	cs.done.Wait()
}
