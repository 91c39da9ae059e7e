package contract

import (
	"context"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"

	"github.com/google/uuid"
)

type RagDocumentRepository interface {
	Create(ctx context.Context, doc *entity.RagDocument) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RagDocument, error)
	// FindAll fills ChunkCount for every document.
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RagDocument, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RagChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.RagChunk) error
	DeleteByDocumentId(ctx context.Context, documentID uuid.UUID) error
	CountByDocumentId(ctx context.Context, documentID uuid.UUID) (int64, error)
	// SearchNearest orders chunks by cosine distance to the vector, nearest first.
	SearchNearest(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredRagChunk, error)
}
