package factory

import (
	"fmt"

	"company-research-be/pkg/llm"
	"company-research-be/pkg/llm/groq"
	"company-research-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, ollamaBaseURL, groqBaseURL, groqAPIKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "groq":
		// Missing credential here is fatal upstream: every operation
		// depends on the model being reachable.
		return groq.NewGroqProvider(groqAPIKey, groqBaseURL, modelName)
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
