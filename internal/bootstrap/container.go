package bootstrap

import (
	"log"

	"company-research-be/internal/config"
	"company-research-be/internal/controller"
	"company-research-be/internal/pkg/logger"
	"company-research-be/internal/repository/implementation"
	"company-research-be/internal/repository/memory"
	"company-research-be/internal/service"
	"company-research-be/internal/websocket"
	"company-research-be/pkg/embedding"
	"company-research-be/pkg/llm/factory"
	"company-research-be/pkg/research/chat"
	"company-research-be/pkg/research/prompt"
	"company-research-be/pkg/research/stream"
	"company-research-be/pkg/retrieval"
	"company-research-be/pkg/websearch"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ResearchController controller.IResearchController
	DocumentController controller.IDocumentController

	// WebSocket research stream
	StreamHandler *websocket.StreamHandler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// A missing model credential is fatal: every operation depends on the LLM
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GroqBaseURL,
		cfg.Keys.Groq,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	webClient := websearch.NewSerperClient(cfg.Keys.Serper)

	// 4. Repositories
	documentRepo := implementation.NewDocumentRepository(db)
	embeddingRepo := implementation.NewDocumentEmbeddingRepository(db)
	conversationStore := memory.NewConversationRepository()

	// 5. Research Core
	searcher := retrieval.NewVectorSearcher(embeddingProvider, embeddingRepo)
	promptBuilder := prompt.NewBuilder(searcher, webClient, cfg.Ai.RetrievalTopK)
	chatRouter := chat.NewRouter(llmProvider, webClient)
	orchestrator := stream.NewOrchestrator(promptBuilder, llmProvider)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopic,
		documentRepo,
		embeddingRepo,
		embeddingProvider,
		sysLogger,
	)

	researchService := service.NewResearchService(
		promptBuilder,
		llmProvider,
		chatRouter,
		orchestrator,
		conversationStore,
		sysLogger,
	)
	documentService := service.NewDocumentService(documentRepo, embeddingRepo, publisherService, searcher)

	streamHandler := websocket.NewStreamHandler(researchService, sysLogger)

	return &Container{
		ResearchController: controller.NewResearchController(researchService),
		DocumentController: controller.NewDocumentController(documentService),
		StreamHandler:      streamHandler,
		ConsumerService:    consumerService,
	}
}
