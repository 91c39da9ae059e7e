package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/mapper"
	"github.com/molinerisit/wa-bot-sheets/internal/model"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/contract"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewConversationRepository(db *gorm.DB) contract.ConversationRepository {
	return &ConversationRepositoryImpl{db: db, mapper: mapper.NewConversationMapper()}
}

func (r *ConversationRepositoryImpl) FindOrCreate(ctx context.Context, channel, userID string) (*entity.Conversation, error) {
	var m model.Conversation
	err := r.db.WithContext(ctx).
		Where(model.Conversation{Channel: channel, UserId: userID}).
		FirstOrCreate(&m).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ConversationRepositoryImpl) FindByUser(ctx context.Context, channel, userID string) (*entity.Conversation, error) {
	var m model.Conversation
	err := r.db.WithContext(ctx).Where("channel = ? AND user_id = ?", channel, userID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ConversationRepositoryImpl) AppendMessage(ctx context.Context, msg *entity.Message) error {
	m := r.mapper.MessageToModel(msg)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*msg = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *ConversationRepositoryImpl) CountMessagesSince(ctx context.Context, conversationID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("conversation_id = ?", conversationID).
		Scopes(scope.Since(since)).
		Count(&count).Error
	return count, err
}

// RecentMessages returns the last limit messages, oldest first.
func (r *ConversationRepositoryImpl) RecentMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]*entity.Message, error) {
	if limit <= 0 {
		limit = 20
	}
	var models []*model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Scopes(scope.OrderByCreatedDesc).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Message, len(models))
	for i, m := range models {
		out[len(models)-1-i] = r.mapper.MessageToEntity(m)
	}
	return out, nil
}
