package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestDocumentRequest struct {
	Title    string                 `json:"title" validate:"required"`
	Content  string                 `json:"content" validate:"required"`
	Source   string                 `json:"source"`
	Metadata map[string]interface{} `json:"metadata"`
}

type IngestDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowDocumentResponse struct {
	Id        uuid.UUID              `json:"id"`
	Title     string                 `json:"title"`
	Source    string                 `json:"source"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

type ListDocumentsResponse struct {
	Documents []ShowDocumentResponse `json:"documents"`
}

type SemanticSearchResponse struct {
	Query    string   `json:"query"`
	Snippets []string `json:"snippets"`
}

// PublishEmbedDocumentMessage is the async embed job payload
type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
