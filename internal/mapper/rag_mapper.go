package mapper

import (
	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/model"

	"github.com/pgvector/pgvector-go"
)

type RagMapper struct{}

func NewRagMapper() *RagMapper {
	return &RagMapper{}
}

func (m *RagMapper) DocumentToEntity(e *model.RagDocument) *entity.RagDocument {
	if e == nil {
		return nil
	}
	return &entity.RagDocument{
		Id:         e.Id,
		Title:      e.Title,
		Tags:       []string(e.Tags),
		ChunkCount: len(e.Chunks),
		CreatedAt:  e.CreatedAt,
	}
}

func (m *RagMapper) DocumentToModel(e *entity.RagDocument) *model.RagDocument {
	if e == nil {
		return nil
	}
	return &model.RagDocument{Id: e.Id, Title: e.Title, Tags: e.Tags, CreatedAt: e.CreatedAt}
}

func (m *RagMapper) ChunkToEntity(e *model.RagChunk) *entity.RagChunk {
	if e == nil {
		return nil
	}
	return &entity.RagChunk{
		Id:         e.Id,
		DocumentId: e.DocumentId,
		ChunkIndex: e.ChunkIndex,
		Text:       e.Text,
		Embedding:  e.Embedding.Slice(),
	}
}

func (m *RagMapper) ChunkToModel(e *entity.RagChunk) *model.RagChunk {
	if e == nil {
		return nil
	}
	return &model.RagChunk{
		Id:         e.Id,
		DocumentId: e.DocumentId,
		ChunkIndex: e.ChunkIndex,
		Text:       e.Text,
		Embedding:  pgvector.NewVector(e.Embedding),
	}
}

func (m *RagMapper) ChunksToModels(chunks []*entity.RagChunk) []*model.RagChunk {
	models := make([]*model.RagChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ChunkToModel(c)
	}
	return models
}
