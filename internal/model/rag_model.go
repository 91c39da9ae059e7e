package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultEmbeddingDimension is the column width created by AutoMigrate;
// cmd/migrate alters it when EMBEDDING_DIMENSION differs.
const DefaultEmbeddingDimension = 1536

type RagDocument struct {
	Id        uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Title     string                      `gorm:"size:255;not null"`
	Tags      datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	CreatedAt time.Time                   `gorm:"autoCreateTime"`
	Chunks    []RagChunk                  `gorm:"foreignKey:DocumentId;constraint:OnDelete:CASCADE"`
}

func (RagDocument) TableName() string {
	return "rag_documents"
}

func (m *RagDocument) BeforeCreate(*gorm.DB) error {
	assignID(&m.Id)
	return nil
}

type RagChunk struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DocumentId uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChunkIndex int             `gorm:"not null;default:0"`
	Text       string          `gorm:"type:text;not null"`
	Embedding  pgvector.Vector `gorm:"type:vector(1536)"`
}

func (RagChunk) TableName() string {
	return "rag_chunks"
}

func (m *RagChunk) BeforeCreate(*gorm.DB) error {
	assignID(&m.Id)
	return nil
}
