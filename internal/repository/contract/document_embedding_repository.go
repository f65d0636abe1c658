package contract

import (
	"context"

	"company-research-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredDocumentEmbedding wraps DocumentEmbedding with its similarity score
type ScoredDocumentEmbedding struct {
	Embedding  *entity.DocumentEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.DocumentEmbedding) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	// SearchSimilar returns the closest chunks by cosine distance
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*ScoredDocumentEmbedding, error)
}
