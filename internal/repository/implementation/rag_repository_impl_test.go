package implementation

import (
	"context"
	"testing"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/contract"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRagRepositories(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	docs := NewRagDocumentRepository(db)
	chunks := NewRagChunkRepository(db)

	doc := &entity.RagDocument{Title: "Envíos", Tags: []string{"faq"}}
	require.NoError(t, docs.Create(ctx, doc))

	require.NoError(t, chunks.CreateBulk(ctx, []*entity.RagChunk{
		{DocumentId: doc.Id, ChunkIndex: 0, Text: "Hacemos envíos en CABA.", Embedding: []float32{1, 0, 0}},
		{DocumentId: doc.Id, ChunkIndex: 1, Text: "Los envíos salen los martes.", Embedding: []float32{0, 1, 0}},
	}))

	all, err := docs.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].ChunkCount)
	assert.Equal(t, []string{"faq"}, all[0].Tags)

	one, err := docs.FindOne(ctx, specification.ByID{ID: doc.Id})
	require.NoError(t, err)
	assert.Equal(t, "Envíos", one.Title)

	require.NoError(t, docs.Delete(ctx, doc.Id))
	n, err := chunks.CountByDocumentId(ctx, doc.Id)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.ErrorIs(t, docs.Delete(ctx, doc.Id), contract.ErrNotFound)
}

func TestRagChunkSearchNearestPostgres(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	docs := NewRagDocumentRepository(db)
	chunks := NewRagChunkRepository(db)

	vec := func(hot int) []float32 {
		v := make([]float32, 1536)
		v[hot] = 1
		return v
	}

	doc := &entity.RagDocument{Title: "search-nearest-test"}
	require.NoError(t, docs.Create(ctx, doc))
	t.Cleanup(func() { _ = docs.Delete(context.Background(), doc.Id) })

	require.NoError(t, chunks.CreateBulk(ctx, []*entity.RagChunk{
		{DocumentId: doc.Id, ChunkIndex: 0, Text: "far", Embedding: vec(1)},
		{DocumentId: doc.Id, ChunkIndex: 1, Text: "near", Embedding: vec(0)},
	}))

	hits, err := chunks.SearchNearest(ctx, vec(0), 2)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "near", hits[0].Chunk.Text)
	assert.InDelta(t, 0, hits[0].Distance, 1e-6)
}
