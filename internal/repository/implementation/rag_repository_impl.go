package implementation

import (
	"context"
	"errors"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/mapper"
	"github.com/molinerisit/wa-bot-sheets/internal/model"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/contract"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type RagDocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RagMapper
}

func NewRagDocumentRepository(db *gorm.DB) contract.RagDocumentRepository {
	return &RagDocumentRepositoryImpl{db: db, mapper: mapper.NewRagMapper()}
}

func (r *RagDocumentRepositoryImpl) Create(ctx context.Context, doc *entity.RagDocument) error {
	m := r.mapper.DocumentToModel(doc)
	if err := r.db.WithContext(ctx).Omit("Chunks").Create(m).Error; err != nil {
		return err
	}
	count := doc.ChunkCount
	*doc = *r.mapper.DocumentToEntity(m)
	doc.ChunkCount = count
	return nil
}

func (r *RagDocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RagDocument, error) {
	var m model.RagDocument
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	docs, err := r.withCounts(ctx, []*model.RagDocument{&m})
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

func (r *RagDocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RagDocument, error) {
	if len(specs) == 0 {
		specs = []specification.Specification{specification.OrderBy{Field: "created_at", Desc: true}}
	}
	var models []*model.RagDocument
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.withCounts(ctx, models)
}

func (r *RagDocumentRepositoryImpl) withCounts(ctx context.Context, models []*model.RagDocument) ([]*entity.RagDocument, error) {
	out := make([]*entity.RagDocument, len(models))
	if len(models) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(models))
	for i, m := range models {
		ids[i] = m.Id
	}

	type countRow struct {
		DocumentId uuid.UUID
		N          int
	}
	var rows []countRow
	err := r.db.WithContext(ctx).Model(&model.RagChunk{}).
		Select("document_id, count(*) AS n").
		Where("document_id IN ?", ids).
		Group("document_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.DocumentId] = row.N
	}

	for i, m := range models {
		out[i] = r.mapper.DocumentToEntity(m)
		out[i].ChunkCount = counts[m.Id]
	}
	return out, nil
}

// Delete removes the document and its chunks. The FK cascades on Postgres;
// the explicit chunk delete covers stores without enforced foreign keys.
func (r *RagDocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("document_id = ?", id).Delete(&model.RagChunk{}).Error; err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&model.RagDocument{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrNotFound
	}
	return nil
}

type RagChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RagMapper
}

func NewRagChunkRepository(db *gorm.DB) contract.RagChunkRepository {
	return &RagChunkRepositoryImpl{db: db, mapper: mapper.NewRagMapper()}
}

func (r *RagChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.RagChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ChunksToModels(chunks)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ChunkToEntity(m)
	}
	return nil
}

func (r *RagChunkRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentID).Delete(&model.RagChunk{}).Error
}

func (r *RagChunkRepositoryImpl) CountByDocumentId(ctx context.Context, documentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RagChunk{}).Where("document_id = ?", documentID).Count(&count).Error
	return count, err
}

func (r *RagChunkRepositoryImpl) SearchNearest(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredRagChunk, error) {
	if limit <= 0 {
		limit = 6
	}

	// pgvector cosine distance: 0 is identical, similarity is 1 - distance.
	type result struct {
		model.RagChunk
		Distance float64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Table("rag_chunks").
		Select("rag_chunks.*, (embedding <=> ?) AS distance", pgvector.NewVector(embedding)).
		Order("distance ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredRagChunk, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredRagChunk{
			Chunk:    r.mapper.ChunkToEntity(&res.RagChunk),
			Distance: res.Distance,
		}
	}
	return scored, nil
}
