package contract

import (
	"context"

	"company-research-be/internal/entity"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
