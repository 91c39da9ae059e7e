package mapper

import (
	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/model"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(e *model.Conversation) *entity.Conversation {
	if e == nil {
		return nil
	}
	return &entity.Conversation{Id: e.Id, Channel: e.Channel, UserId: e.UserId, CreatedAt: e.CreatedAt}
}

func (m *ConversationMapper) MessageToEntity(e *model.Message) *entity.Message {
	if e == nil {
		return nil
	}
	return &entity.Message{
		Id:             e.Id,
		ConversationId: e.ConversationId,
		Role:           e.Role,
		Content:        e.Content,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *ConversationMapper) MessageToModel(e *entity.Message) *model.Message {
	if e == nil {
		return nil
	}
	return &model.Message{
		Id:             e.Id,
		ConversationId: e.ConversationId,
		Role:           e.Role,
		Content:        e.Content,
		CreatedAt:      e.CreatedAt,
	}
}
