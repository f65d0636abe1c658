package service

import (
	"context"
	"encoding/json"
	"time"

	"company-research-be/internal/dto"
	"company-research-be/internal/entity"
	"company-research-be/internal/repository/contract"
	"company-research-be/pkg/retrieval"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Ingest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	List(ctx context.Context, limit, offset int) (*dto.ListDocumentsResponse, error)
	SemanticSearch(ctx context.Context, query string, topK int) (*dto.SemanticSearchResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentService struct {
	documentRepo     contract.DocumentRepository
	embeddingRepo    contract.DocumentEmbeddingRepository
	publisherService IPublisherService
	searcher         retrieval.Searcher
}

func NewDocumentService(
	documentRepo contract.DocumentRepository,
	embeddingRepo contract.DocumentEmbeddingRepository,
	publisherService IPublisherService,
	searcher retrieval.Searcher,
) IDocumentService {
	return &documentService{
		documentRepo:     documentRepo,
		embeddingRepo:    embeddingRepo,
		publisherService: publisherService,
		searcher:         searcher,
	}
}

func (s *documentService) Ingest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	document := entity.Document{
		Id:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		Source:    req.Source,
		Metadata:  req.Metadata,
		CreatedAt: time.Now(),
	}

	if err := s.documentRepo.Create(ctx, &document); err != nil {
		return nil, err
	}

	// Embedding runs async; the document is searchable once the consumer
	// finishes the job
	payload, err := json.Marshal(dto.PublishEmbedDocumentMessage{DocumentId: document.Id})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, err
	}

	return &dto.IngestDocumentResponse{Id: document.Id}, nil
}

func (s *documentService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	document, err := s.documentRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, nil // Not found
	}

	res := toShowDocumentResponse(document)
	return &res, nil
}

func (s *documentService) List(ctx context.Context, limit, offset int) (*dto.ListDocumentsResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	documents, err := s.documentRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	res := dto.ListDocumentsResponse{Documents: make([]dto.ShowDocumentResponse, 0, len(documents))}
	for _, document := range documents {
		res.Documents = append(res.Documents, toShowDocumentResponse(document))
	}
	return &res, nil
}

func (s *documentService) SemanticSearch(ctx context.Context, query string, topK int) (*dto.SemanticSearchResponse, error) {
	if topK <= 0 || topK > 20 {
		topK = 5
	}
	snippets, err := s.searcher.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	if snippets == nil {
		snippets = []string{}
	}
	return &dto.SemanticSearchResponse{Query: query, Snippets: snippets}, nil
}

func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.embeddingRepo.DeleteByDocumentId(ctx, id); err != nil {
		return err
	}
	return s.documentRepo.Delete(ctx, id)
}

func toShowDocumentResponse(document *entity.Document) dto.ShowDocumentResponse {
	return dto.ShowDocumentResponse{
		Id:        document.Id,
		Title:     document.Title,
		Source:    document.Source,
		Metadata:  document.Metadata,
		CreatedAt: document.CreatedAt,
	}
}
