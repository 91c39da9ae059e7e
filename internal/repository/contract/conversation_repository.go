package contract

import (
	"context"
	"time"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	FindOrCreate(ctx context.Context, channel, userID string) (*entity.Conversation, error)
	FindByUser(ctx context.Context, channel, userID string) (*entity.Conversation, error)
	AppendMessage(ctx context.Context, msg *entity.Message) error
	CountMessagesSince(ctx context.Context, conversationID uuid.UUID, since time.Time) (int64, error)
	RecentMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]*entity.Message, error)
}
