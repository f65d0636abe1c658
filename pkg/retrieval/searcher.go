package retrieval

import (
	"context"
	"fmt"

	"company-research-be/internal/repository/contract"
	"company-research-be/pkg/embedding"
)

// Searcher is the retrieval collaborator contract consumed by the research
// core: top-k snippet texts for a query, empty result on no matches.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]string, error)
}

// VectorSearcher embeds the query and runs a pgvector cosine search over the
// ingested document chunks.
type VectorSearcher struct {
	embedder embedding.EmbeddingProvider
	repo     contract.DocumentEmbeddingRepository
	// Chunks scoring below this similarity are dropped from the context
	MinSimilarity float64
}

var _ Searcher = &VectorSearcher{}

func NewVectorSearcher(embedder embedding.EmbeddingProvider, repo contract.DocumentEmbeddingRepository) *VectorSearcher {
	return &VectorSearcher{
		embedder:      embedder,
		repo:          repo,
		MinSimilarity: 0.3,
	}
}

func (s *VectorSearcher) Search(ctx context.Context, query string, topK int) ([]string, error) {
	if topK <= 0 {
		topK = 5
	}

	queryEmbedding, err := s.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := s.repo.SearchSimilar(ctx, queryEmbedding.Embedding.Values, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	snippets := make([]string, 0, len(scored))
	for _, item := range scored {
		if item.Similarity < s.MinSimilarity {
			continue
		}
		snippets = append(snippets, item.Embedding.Content)
	}
	return snippets, nil
}
