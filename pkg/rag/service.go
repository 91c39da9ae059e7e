package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
	"github.com/molinerisit/wa-bot-sheets/pkg/embedding"
	"github.com/molinerisit/wa-bot-sheets/pkg/llm"
)

var (
	ErrEmptyDocument     = errors.New("rag: document has no text")
	ErrDimensionMismatch = errors.New("rag: embedding dimension mismatch")
)

const DefaultTopK = 6

type Document struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Tags       []string  `json:"tags"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type Chunk struct {
	DocumentID uuid.UUID
	Index      int
	Text       string
	Embedding  []float32
}

// Hit is a stored chunk with its cosine distance to the query vector.
type Hit struct {
	DocumentID uuid.UUID
	ChunkIndex int
	Text       string
	Distance   float64
}

type Snippet struct {
	Text       string    `json:"text"`
	Score      float64   `json:"score"`
	DocumentID uuid.UUID `json:"document_id"`
	ChunkIndex int       `json:"chunk_index"`
}

// Store persists documents and answers nearest neighbour queries.
// CreateDocument must write the document and its chunks atomically.
type Store interface {
	CreateDocument(ctx context.Context, doc Document, chunks []Chunk) error
	SearchNearest(ctx context.Context, vector []float32, k int) ([]Hit, error)
	ListDocuments(ctx context.Context) ([]Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

type Config struct {
	TopK      int
	MinScore  float64
	ChunkSize int
	// Dimension is the vector size of the store column; 0 disables the check.
	Dimension int
	BotName   string
}

type IngestRequest struct {
	Title string   `json:"title" validate:"required"`
	Tags  []string `json:"tags"`
	Text  string   `json:"text" validate:"required"`
}

type IngestResult struct {
	DocumentID uuid.UUID `json:"document_id"`
	ChunkCount int       `json:"chunk_count"`
}

type Option func(*Service)

func WithLogger(l logger.ILogger) Option {
	return func(s *Service) { s.log = l }
}

// AnswerOption customizes a single Answer call.
type AnswerOption func(*answerOptions)

type answerOptions struct {
	botName string
}

// WithBotName overrides Config.BotName for one answer.
func WithBotName(name string) AnswerOption {
	return func(o *answerOptions) { o.botName = name }
}

type Service struct {
	store    Store
	embedder embedding.EmbeddingProvider
	llm      llm.LLMProvider
	cfg      Config
	log      logger.ILogger
}

func NewService(store Store, embedder embedding.EmbeddingProvider, provider llm.LLMProvider, cfg Config, opts ...Option) *Service {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	s := &Service{store: store, embedder: embedder, llm: provider, cfg: cfg, log: logger.NewNopLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) embed(ctx context.Context, text, task string) ([]float32, error) {
	res, err := s.embedder.Generate(ctx, text, task)
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("rag: empty embedding")
	}
	return res.Embedding.Values, nil
}

// Ingest chunks and embeds the whole document before writing anything.
func (s *Service) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	pieces := SplitText(req.Text, s.cfg.ChunkSize)
	if len(pieces) == 0 {
		return nil, ErrEmptyDocument
	}

	dim := s.cfg.Dimension
	chunks := make([]Chunk, len(pieces))
	for i, p := range pieces {
		vec, err := s.embed(ctx, p, embedding.TaskRetrievalDocument)
		if err != nil {
			return nil, fmt.Errorf("rag: embed chunk %d: %w", i, err)
		}
		if dim == 0 {
			dim = len(vec)
		}
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: chunk %d has %d values, want %d", ErrDimensionMismatch, i, len(vec), dim)
		}
		chunks[i] = Chunk{Index: i, Text: p, Embedding: vec}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Documento"
	}
	doc := Document{ID: uuid.New(), Title: title, Tags: req.Tags, ChunkCount: len(chunks), CreatedAt: time.Now()}
	for i := range chunks {
		chunks[i].DocumentID = doc.ID
	}

	if err := s.store.CreateDocument(ctx, doc, chunks); err != nil {
		return nil, fmt.Errorf("rag: store document: %w", err)
	}

	s.log.Info("RAG", "Document ingested", map[string]interface{}{
		"document_id": doc.ID.String(),
		"title":       title,
		"chunks":      len(chunks),
	})
	return &IngestResult{DocumentID: doc.ID, ChunkCount: len(chunks)}, nil
}

// Search returns up to k snippets ordered by similarity, best first.
func (s *Service) Search(ctx context.Context, query string, k int) ([]Snippet, error) {
	if strings.TrimSpace(query) == "" {
		return []Snippet{}, nil
	}
	if k <= 0 {
		k = s.cfg.TopK
	}

	vec, err := s.embed(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("rag: embed query: %w", err)
	}
	if s.cfg.Dimension > 0 && len(vec) != s.cfg.Dimension {
		return nil, fmt.Errorf("%w: query has %d values, want %d", ErrDimensionMismatch, len(vec), s.cfg.Dimension)
	}

	hits, err := s.store.SearchNearest(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("rag: nearest search: %w", err)
	}

	out := make([]Snippet, 0, len(hits))
	for _, h := range hits {
		out = append(out, Snippet{Text: h.Text, Score: 1 - h.Distance, DocumentID: h.DocumentID, ChunkIndex: h.ChunkIndex})
	}
	return out, nil
}

// Answer composes a grounded reply. Without usable snippets it returns
// Sentinel and the model is not called.
func (s *Service) Answer(ctx context.Context, query string, snippets []Snippet, opts ...AnswerOption) (string, error) {
	o := answerOptions{botName: s.cfg.BotName}
	for _, opt := range opts {
		opt(&o)
	}

	kept := make([]Snippet, 0, len(snippets))
	for _, sn := range snippets {
		if sn.Score >= s.cfg.MinScore && strings.TrimSpace(sn.Text) != "" {
			kept = append(kept, sn)
		}
	}
	if len(kept) == 0 {
		return Sentinel, nil
	}

	system, user := BuildGroundedPrompt(o.botName, query, kept)
	out, err := s.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, llm.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("rag: grounded answer: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return Sentinel, nil
	}
	return out, nil
}

func (s *Service) ListDocuments(ctx context.Context) ([]Document, error) {
	return s.store.ListDocuments(ctx)
}

func (s *Service) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteDocument(ctx, id)
}
