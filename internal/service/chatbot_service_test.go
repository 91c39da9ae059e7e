package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molinerisit/wa-bot-sheets/internal/dto"
	"github.com/molinerisit/wa-bot-sheets/pkg/chatbot"
)

type scriptedEngine struct {
	result chatbot.Result
	delay  time.Duration

	active, peak int32
	calls        []chatbot.Inbound
	mu           sync.Mutex
}

func (e *scriptedEngine) Handle(_ context.Context, in chatbot.Inbound) chatbot.Result {
	n := atomic.AddInt32(&e.active, 1)
	for {
		p := atomic.LoadInt32(&e.peak)
		if n <= p || atomic.CompareAndSwapInt32(&e.peak, p, n) {
			break
		}
	}
	time.Sleep(e.delay)
	atomic.AddInt32(&e.active, -1)

	e.mu.Lock()
	e.calls = append(e.calls, in)
	e.mu.Unlock()
	return e.result
}

func TestHandleInboundDeliversAndLogs(t *testing.T) {
	ctx := context.Background()
	f := newTestFactory(t)
	engine := &scriptedEngine{result: chatbot.Result{Stage: chatbot.StageAgent, Reply: &chatbot.Reply{
		Text:  "Opciones en Carnes:",
		Media: &chatbot.Media{ImageURL: "https://img/milanesa.jpg", Caption: "Milanesa"},
	}}}
	sender := &recordingSender{}
	observer := &recordingObserver{}
	svc := NewChatbotService(engine, f, sender, nopLog, WithTurnObserver(observer))

	require.NoError(t, svc.HandleInbound(ctx, dto.InboundMessage{UserID: "549351", MessageID: "m1", Text: "tenés carnes?"}))

	require.Len(t, engine.calls, 1)
	assert.Equal(t, ChannelWhatsApp, engine.calls[0].Channel)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, sentMessage{to: "549351", text: "Opciones en Carnes:"}, sender.sent[0])
	assert.Equal(t, "https://img/milanesa.jpg", sender.sent[1].media)

	conv, err := f.NewUnitOfWork(ctx).ConversationRepository().FindByUser(ctx, ChannelWhatsApp, "549351")
	require.NoError(t, err)
	require.NotNil(t, conv)
	msgs, err := f.NewUnitOfWork(ctx).ConversationRepository().RecentMessages(ctx, conv.Id, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	require.Len(t, observer.events, 1)
	assert.True(t, observer.events[0].Delivered)
	assert.Equal(t, chatbot.StageAgent, observer.events[0].Stage)
}

func TestHandleInboundDropped(t *testing.T) {
	ctx := context.Background()
	f := newTestFactory(t)
	sender := &recordingSender{}
	svc := NewChatbotService(&scriptedEngine{result: chatbot.Result{Stage: chatbot.StageDedup, Dropped: true}}, f, sender, nopLog)

	require.NoError(t, svc.HandleInbound(ctx, dto.InboundMessage{UserID: "549351", MessageID: "m1", Text: "hola"}))
	assert.Empty(t, sender.sent)

	conv, err := f.NewUnitOfWork(ctx).ConversationRepository().FindByUser(ctx, ChannelWhatsApp, "549351")
	require.NoError(t, err)
	assert.Nil(t, conv)

	assert.Error(t, svc.HandleInbound(ctx, dto.InboundMessage{Text: "sin remitente"}))
}

func TestReplyWebChannel(t *testing.T) {
	f := newTestFactory(t)
	engine := &scriptedEngine{result: chatbot.Result{Stage: chatbot.StageHours, Reply: &chatbot.Reply{Text: "Nuestro horario: ..."}}}
	sender := &recordingSender{}
	svc := NewChatbotService(engine, f, sender, nopLog)

	resp, err := svc.Reply(context.Background(), &dto.BotMessageRequest{UserID: " web-1 ", Text: "horario?"})
	require.NoError(t, err)
	assert.Equal(t, "Nuestro horario: ...", resp.Reply)
	assert.Equal(t, chatbot.StageHours, resp.Stage)
	assert.Equal(t, ChannelWeb, engine.calls[0].Channel)
	assert.Equal(t, "web-1", engine.calls[0].UserID)
	assert.Empty(t, sender.sent, "web replies are returned, not sent")
}

func TestSerializedTurnsPerUser(t *testing.T) {
	f := newTestFactory(t)
	engine := &scriptedEngine{delay: 20 * time.Millisecond, result: chatbot.Result{Stage: chatbot.StageDedup, Dropped: true}}
	svc := NewChatbotService(engine, f, nil, nopLog)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.HandleInbound(context.Background(), dto.InboundMessage{UserID: "same-user"})
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&engine.peak))
}

func TestSerializedTurnsAcrossChannels(t *testing.T) {
	f := newTestFactory(t)
	engine := &scriptedEngine{delay: 20 * time.Millisecond, result: chatbot.Result{Stage: chatbot.StageDedup, Dropped: true}}
	svc := NewChatbotService(engine, f, nil, nopLog)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = svc.HandleInbound(context.Background(), dto.InboundMessage{UserID: "5493510000000"})
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.Reply(context.Background(), &dto.BotMessageRequest{Channel: ChannelWeb, UserID: "5493510000000", Text: "hola"})
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&engine.peak))
	assert.Len(t, engine.calls, 4)
}

func TestConversationTurnCounter(t *testing.T) {
	ctx := context.Background()
	f := newTestFactory(t)
	counter := NewConversationTurnCounter(f)
	since := time.Now().Add(-time.Hour)

	n, err := counter.CountSince(ctx, ChannelWhatsApp, "549351", since)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	svc := NewChatbotService(&scriptedEngine{result: chatbot.Result{Reply: &chatbot.Reply{Text: "ok"}}}, f, nil, nopLog)
	require.NoError(t, svc.HandleInbound(ctx, dto.InboundMessage{UserID: "549351", Text: "hola"}))

	n, err = counter.CountSince(ctx, ChannelWhatsApp, "549351", since)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	k := newKeyedMutex()
	unlock := k.Lock("a")
	assert.Equal(t, 1, k.size())
	unlock()
	assert.Equal(t, 0, k.size())
}
