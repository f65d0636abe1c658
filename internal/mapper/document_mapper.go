package mapper

import (
	"encoding/json"
	"time"

	"company-research-be/internal/entity"
	"company-research-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(d.Metadata) > 0 {
		// Malformed metadata is dropped rather than failing the read
		_ = json.Unmarshal(d.Metadata, &metadata)
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Document{
		Id:        d.Id,
		Title:     d.Title,
		Content:   d.Content,
		Source:    d.Source,
		Metadata:  metadata,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	var metadata datatypes.JSON
	if d.Metadata != nil {
		if raw, err := json.Marshal(d.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.Document{
		Id:       d.Id,
		Title:    d.Title,
		Content:  d.Content,
		Source:   d.Source,
		Metadata: metadata,
	}
}

type DocumentEmbeddingMapper struct{}

func NewDocumentEmbeddingMapper() *DocumentEmbeddingMapper {
	return &DocumentEmbeddingMapper{}
}

func (m *DocumentEmbeddingMapper) ToEntity(e *model.DocumentEmbedding) *entity.DocumentEmbedding {
	if e == nil {
		return nil
	}
	return &entity.DocumentEmbedding{
		Id:         e.Id,
		DocumentId: e.DocumentId,
		ChunkIndex: e.ChunkIndex,
		Content:    e.Content,
		Embedding:  e.EmbeddingValue.Slice(),
		CreatedAt:  e.CreatedAt,
	}
}

func (m *DocumentEmbeddingMapper) ToModel(e *entity.DocumentEmbedding) *model.DocumentEmbedding {
	if e == nil {
		return nil
	}
	return &model.DocumentEmbedding{
		Id:             e.Id,
		DocumentId:     e.DocumentId,
		ChunkIndex:     e.ChunkIndex,
		Content:        e.Content,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
	}
}
