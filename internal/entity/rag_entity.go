package entity

import (
	"time"

	"github.com/google/uuid"
)

type RagDocument struct {
	Id         uuid.UUID
	Title      string
	Tags       []string
	ChunkCount int
	CreatedAt  time.Time
}

type RagChunk struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	ChunkIndex int
	Text       string
	Embedding  []float32
}

// ScoredRagChunk is a chunk with its cosine distance to the query vector.
type ScoredRagChunk struct {
	Chunk    *RagChunk
	Distance float64
}
