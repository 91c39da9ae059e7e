package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/molinerisit/wa-bot-sheets/internal/dto"
	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/unitofwork"
	"github.com/molinerisit/wa-bot-sheets/pkg/chatbot"
	"github.com/molinerisit/wa-bot-sheets/pkg/evolution"
	"github.com/molinerisit/wa-bot-sheets/pkg/store"
)

const (
	ChannelWhatsApp = "whatsapp"
	ChannelWeb      = "web"
)

// TurnHandler is the part of chatbot.Engine the service drives.
type TurnHandler interface {
	Handle(ctx context.Context, in chatbot.Inbound) chatbot.Result
}

// TurnObserver receives one event per handled message (the live monitor).
type TurnObserver interface {
	PublishTurn(ev dto.TurnEvent)
}

type IChatbotService interface {
	// Reply answers synchronously, used by the web channel.
	Reply(ctx context.Context, req *dto.BotMessageRequest) (*dto.BotMessageResponse, error)
	// HandleInbound answers a queued message and delivers the reply.
	HandleInbound(ctx context.Context, msg dto.InboundMessage) error
}

type ChatbotServiceOption func(*chatbotService)

func WithTurnObserver(o TurnObserver) ChatbotServiceOption {
	return func(s *chatbotService) { s.observer = o }
}

// WithSerializedTurns runs turns of the same user one at a time.
func WithSerializedTurns(enabled bool) ChatbotServiceOption {
	return func(s *chatbotService) { s.serialize = enabled }
}

type chatbotService struct {
	engine     TurnHandler
	uowFactory unitofwork.RepositoryFactory
	sender     evolution.Sender
	observer   TurnObserver
	serialize  bool
	locks      *keyedMutex
	log        logger.ILogger
	now        func() time.Time
}

func NewChatbotService(
	engine TurnHandler,
	uowFactory unitofwork.RepositoryFactory,
	sender evolution.Sender,
	log logger.ILogger,
	opts ...ChatbotServiceOption,
) IChatbotService {
	s := &chatbotService{
		engine:     engine,
		uowFactory: uowFactory,
		sender:     sender,
		serialize:  true,
		locks:      newKeyedMutex(),
		log:        log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *chatbotService) Reply(ctx context.Context, req *dto.BotMessageRequest) (*dto.BotMessageResponse, error) {
	channel := strings.TrimSpace(req.Channel)
	if channel == "" {
		channel = ChannelWeb
	}
	in := chatbot.Inbound{Channel: channel, UserID: strings.TrimSpace(req.UserID), MessageID: req.MessageID, Text: req.Text}

	res, elapsed := s.run(ctx, in)
	s.observe(in, res, false, elapsed)

	resp := &dto.BotMessageResponse{Stage: res.Stage, Dropped: res.Dropped}
	if res.Reply != nil {
		resp.Reply = res.Reply.Text
		if m := res.Reply.Media; m != nil {
			resp.Media = &dto.BotMediaResponse{ImageURL: m.ImageURL, Caption: m.Caption}
		}
	}
	return resp, nil
}

// HandleInbound never fails on delivery; the error is returned only when the
// payload cannot be handled at all.
func (s *chatbotService) HandleInbound(ctx context.Context, msg dto.InboundMessage) error {
	if strings.TrimSpace(msg.UserID) == "" {
		return fmt.Errorf("inbound message without user id")
	}
	channel := msg.Channel
	if channel == "" {
		channel = ChannelWhatsApp
	}
	in := chatbot.Inbound{Channel: channel, UserID: msg.UserID, MessageID: msg.MessageID, Text: msg.Text}

	res, elapsed := s.run(ctx, in)

	delivered := false
	if res.Reply != nil {
		delivered = s.deliver(ctx, in.UserID, *res.Reply)
	}
	s.observe(in, res, delivered, elapsed)
	return nil
}

func (s *chatbotService) run(ctx context.Context, in chatbot.Inbound) (chatbot.Result, time.Duration) {
	if s.serialize {
		// Sessions are keyed by user id only, so channels share the lock.
		unlock := s.locks.Lock(in.UserID)
		defer unlock()
	}

	start := s.now()
	res := s.engine.Handle(ctx, in)
	elapsed := s.now().Sub(start)

	if !res.Dropped && res.Reply != nil {
		s.logExchange(ctx, in, res.Reply.Text)
	}

	s.log.Info("Chatbot", "Turn handled", map[string]interface{}{
		"channel":     in.Channel,
		"user_id":     in.UserID,
		"stage":       res.Stage,
		"dropped":     res.Dropped,
		"duration_ms": elapsed.Milliseconds(),
	})
	return res, elapsed
}

// logExchange appends the turn to the audit log. Failures never reach the
// customer.
func (s *chatbotService) logExchange(ctx context.Context, in chatbot.Inbound, reply string) {
	repo := s.uowFactory.NewUnitOfWork(ctx).ConversationRepository()

	conv, err := repo.FindOrCreate(ctx, in.Channel, in.UserID)
	if err != nil {
		s.log.Warn("Chatbot", "Conversation log unavailable", map[string]interface{}{"user_id": in.UserID, "error": err.Error()})
		return
	}

	for _, m := range []*entity.Message{
		{ConversationId: conv.Id, Role: store.RoleUser, Content: in.Text},
		{ConversationId: conv.Id, Role: store.RoleAssistant, Content: reply},
	} {
		if err := repo.AppendMessage(ctx, m); err != nil {
			s.log.Warn("Chatbot", "Failed to log message", map[string]interface{}{"user_id": in.UserID, "role": m.Role, "error": err.Error()})
			return
		}
	}
}

func (s *chatbotService) deliver(ctx context.Context, to string, r chatbot.Reply) bool {
	if s.sender == nil {
		return false
	}
	ok := true
	if strings.TrimSpace(r.Text) != "" {
		if err := s.sender.SendText(ctx, to, r.Text); err != nil {
			ok = false
			s.log.Warn("Chatbot", "Reply delivery failed", map[string]interface{}{"to": to, "error": err.Error()})
		}
	}
	if r.Media != nil && r.Media.ImageURL != "" {
		if err := s.sender.SendMedia(ctx, to, r.Media.ImageURL, r.Media.Caption); err != nil {
			ok = false
			s.log.Warn("Chatbot", "Media delivery failed", map[string]interface{}{"to": to, "error": err.Error()})
		}
	}
	return ok
}

func (s *chatbotService) observe(in chatbot.Inbound, res chatbot.Result, delivered bool, elapsed time.Duration) {
	if s.observer == nil {
		return
	}
	ev := dto.TurnEvent{
		Channel:    in.Channel,
		UserID:     in.UserID,
		MessageID:  in.MessageID,
		Text:       in.Text,
		Stage:      res.Stage,
		Dropped:    res.Dropped,
		Delivered:  delivered,
		DurationMs: elapsed.Milliseconds(),
		At:         s.now(),
	}
	if res.Reply != nil {
		ev.Reply = res.Reply.Text
	}
	s.observer.PublishTurn(ev)
}

// ConversationTurnCounter counts logged messages for the turn limit. The
// message being handled is not logged yet, so it is added to the count.
type ConversationTurnCounter struct {
	uowFactory unitofwork.RepositoryFactory
}

var _ chatbot.TurnCounter = &ConversationTurnCounter{}

func NewConversationTurnCounter(uowFactory unitofwork.RepositoryFactory) *ConversationTurnCounter {
	return &ConversationTurnCounter{uowFactory: uowFactory}
}

func (c *ConversationTurnCounter) CountSince(ctx context.Context, channel, userID string, since time.Time) (int, error) {
	repo := c.uowFactory.NewUnitOfWork(ctx).ConversationRepository()
	conv, err := repo.FindByUser(ctx, channel, userID)
	if err != nil {
		return 0, err
	}
	if conv == nil {
		return 1, nil
	}
	n, err := repo.CountMessagesSince(ctx, conv.Id, since)
	if err != nil {
		return 0, err
	}
	return int(n) + 1, nil
}
