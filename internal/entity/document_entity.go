package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is one ingested corpus document used for retrieval grounding
type Document struct {
	Id        uuid.UUID
	Title     string
	Content   string
	Source    string
	Metadata  map[string]interface{}
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// DocumentEmbedding is one embedded chunk of a document
type DocumentEmbedding struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	ChunkIndex int
	Content    string
	Embedding  []float32
	CreatedAt  time.Time
}
