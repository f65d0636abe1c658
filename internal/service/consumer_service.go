package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"company-research-be/internal/dto"
	"company-research-be/internal/entity"
	"company-research-be/internal/pkg/logger"
	"company-research-be/internal/repository/contract"
	"company-research-be/pkg/embedding"
	"company-research-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const (
	// ~375 tokens per chunk keeps every chunk well inside embedding context limits
	embedChunkSize    = 1500
	embedChunkOverlap = 200
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	documentRepo      contract.DocumentRepository
	embeddingRepo     contract.DocumentEmbeddingRepository
	embeddingProvider embedding.EmbeddingProvider
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	documentRepo contract.DocumentRepository,
	embeddingRepo contract.DocumentEmbeddingRepository,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		documentRepo:      documentRepo,
		embeddingRepo:     embeddingRepo,
		embeddingProvider: embeddingProvider,
		log:               log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer_service", "failed to unmarshal embed message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	document, err := cs.documentRepo.FindById(ctx, payload.DocumentId)
	if err != nil {
		cs.log.Error("consumer_service", "failed to load document", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
			"error":       err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}
	if document == nil {
		// Document deleted between publish and consume
		msg.Ack()
		return
	}

	content := fmt.Sprintf("Document Title: %s\nSource: %s\n\n%s", document.Title, document.Source, document.Content)
	chunks := utils.SplitText(content, embedChunkSize, embedChunkOverlap)
	cs.log.Info("consumer_service", "embedding document", map[string]interface{}{
		"document_id": document.Id.String(),
		"chunks":      len(chunks),
	})

	newEmbeddings := make([]*entity.DocumentEmbedding, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			cs.log.Error("consumer_service", "failed to embed chunk", map[string]interface{}{
				"document_id": document.Id.String(),
				"chunk":       i,
				"error":       err.Error(),
			})
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.DocumentEmbedding{
			Id:         uuid.New(),
			DocumentId: document.Id,
			ChunkIndex: i,
			Content:    chunk,
			Embedding:  res.Embedding.Values,
			CreatedAt:  time.Now(),
		})
	}

	// Re-embedding replaces all prior chunks for the document
	if err := cs.embeddingRepo.DeleteByDocumentId(ctx, document.Id); err != nil {
		cs.log.Error("consumer_service", "failed to delete old embeddings", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}
	if len(newEmbeddings) > 0 {
		if err := cs.embeddingRepo.CreateBulk(ctx, newEmbeddings); err != nil {
			cs.log.Error("consumer_service", "failed to store embeddings", map[string]interface{}{"error": err.Error()})
			msg.Nack()
			return
		}
	}

	cs.log.Info("consumer_service", "document embedded", map[string]interface{}{
		"document_id": document.Id.String(),
		"chunks":      len(newEmbeddings),
	})
	msg.Ack()
}
