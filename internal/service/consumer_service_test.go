package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molinerisit/wa-bot-sheets/internal/dto"
)

type recordingChatbot struct {
	mu       sync.Mutex
	inbound  []dto.InboundMessage
	release  chan struct{}
	inFlight int
	peak     int
}

func (c *recordingChatbot) Reply(context.Context, *dto.BotMessageRequest) (*dto.BotMessageResponse, error) {
	return &dto.BotMessageResponse{}, nil
}

func (c *recordingChatbot) HandleInbound(_ context.Context, msg dto.InboundMessage) error {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.peak {
		c.peak = c.inFlight
	}
	c.mu.Unlock()

	if c.release != nil {
		<-c.release
	}

	c.mu.Lock()
	c.inFlight--
	c.inbound = append(c.inbound, msg)
	c.mu.Unlock()
	return nil
}

func (c *recordingChatbot) snapshot() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inbound), c.peak
}

func TestConsumerDispatchesWithBoundedConcurrency(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	bot := &recordingChatbot{release: make(chan struct{})}
	consumer := NewConsumerService(pubSub, "INBOUND", bot, 2, nopLog)
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService(pubSub, "INBOUND")
	for _, user := range []string{"a", "b", "c", "d"} {
		require.NoError(t, publisher.Publish(ctx, dto.InboundMessage{UserID: user, Text: "hola"}))
	}

	require.Eventually(t, func() bool {
		_, peak := bot.snapshot()
		return peak == 2
	}, 2*time.Second, 10*time.Millisecond)

	close(bot.release)
	require.Eventually(t, func() bool {
		n, _ := bot.snapshot()
		return n == 4
	}, 2*time.Second, 10*time.Millisecond)

	_, peak := bot.snapshot()
	assert.Equal(t, 2, peak)

	require.NoError(t, pubSub.Close())
	consumer.Wait()
}

func TestConsumerSkipsMalformedPayload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	bot := &recordingChatbot{}
	consumer := NewConsumerService(pubSub, "INBOUND", bot, 1, nopLog)
	require.NoError(t, consumer.Consume(ctx))

	require.NoError(t, pubSub.Publish("INBOUND", message.NewMessage(watermill.NewUUID(), []byte("not json"))))
	require.NoError(t, NewPublisherService(pubSub, "INBOUND").Publish(ctx, dto.InboundMessage{UserID: "a"}))

	require.Eventually(t, func() bool {
		n, _ := bot.snapshot()
		return n == 1
	}, 2*time.Second, 10*time.Millisecond)
}
