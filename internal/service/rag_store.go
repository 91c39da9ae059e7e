package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/unitofwork"
	"github.com/molinerisit/wa-bot-sheets/pkg/rag"
)

// RagStore persists rag documents through the unit of work.
type RagStore struct {
	uowFactory unitofwork.RepositoryFactory
}

var _ rag.Store = &RagStore{}

func NewRagStore(uowFactory unitofwork.RepositoryFactory) *RagStore {
	return &RagStore{uowFactory: uowFactory}
}

func (s *RagStore) CreateDocument(ctx context.Context, doc rag.Document, chunks []rag.Chunk) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.RagDocumentRepository().Create(ctx, &entity.RagDocument{
		Id:        doc.ID,
		Title:     doc.Title,
		Tags:      doc.Tags,
		CreatedAt: doc.CreatedAt,
	}); err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	rows := make([]*entity.RagChunk, len(chunks))
	for i, c := range chunks {
		rows[i] = &entity.RagChunk{
			Id:         uuid.New(),
			DocumentId: doc.ID,
			ChunkIndex: c.Index,
			Text:       c.Text,
			Embedding:  c.Embedding,
		}
	}
	if err := uow.RagChunkRepository().CreateBulk(ctx, rows); err != nil {
		return fmt.Errorf("create chunks: %w", err)
	}

	return uow.Commit()
}

func (s *RagStore) SearchNearest(ctx context.Context, vector []float32, k int) ([]rag.Hit, error) {
	scored, err := s.uowFactory.NewUnitOfWork(ctx).RagChunkRepository().SearchNearest(ctx, vector, k)
	if err != nil {
		return nil, err
	}
	hits := make([]rag.Hit, 0, len(scored))
	for _, sc := range scored {
		hits = append(hits, rag.Hit{
			DocumentID: sc.Chunk.DocumentId,
			ChunkIndex: sc.Chunk.ChunkIndex,
			Text:       sc.Chunk.Text,
			Distance:   sc.Distance,
		})
	}
	return hits, nil
}

func (s *RagStore) ListDocuments(ctx context.Context) ([]rag.Document, error) {
	docs, err := s.uowFactory.NewUnitOfWork(ctx).RagDocumentRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]rag.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, rag.Document{
			ID:         d.Id,
			Title:      d.Title,
			Tags:       d.Tags,
			ChunkCount: d.ChunkCount,
			CreatedAt:  d.CreatedAt,
		})
	}
	return out, nil
}

func (s *RagStore) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.RagDocumentRepository().Delete(ctx, id); err != nil {
		return err
	}
	return uow.Commit()
}
