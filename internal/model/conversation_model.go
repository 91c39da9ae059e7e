package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Conversation struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Channel   string    `gorm:"size:32;not null;uniqueIndex:idx_conversation_user"`
	UserId    string    `gorm:"size:64;not null;uniqueIndex:idx_conversation_user"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (m *Conversation) BeforeCreate(*gorm.DB) error {
	assignID(&m.Id)
	return nil
}

// Message rows are append-only.
type Message struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;index:idx_message_conversation_time"`
	Role           string    `gorm:"size:16;not null"`
	Content        string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_message_conversation_time"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(*gorm.DB) error {
	assignID(&m.Id)
	return nil
}
