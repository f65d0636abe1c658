package groq

import (
	"context"
	"errors"
	"io"

	"company-research-be/pkg/llm"

	openai "github.com/sashabaranov/go-openai"
)

// GroqProvider talks to the Groq API through its OpenAI-compatible surface.
type GroqProvider struct {
	client    *openai.Client
	ModelName string
}

// Ensure GroqProvider implements LLMProvider
var _ llm.LLMProvider = &GroqProvider{}

func NewGroqProvider(apiKey, baseURL, modelName string) (*GroqProvider, error) {
	if apiKey == "" {
		return nil, errors.New("groq: API key is missing")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &GroqProvider{
		client:    openai.NewClientWithConfig(cfg),
		ModelName: modelName,
	}, nil
}

func (g *GroqProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	resp, err := g.client.CreateChatCompletion(ctx, g.buildRequest(history, options, false))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("groq: empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *GroqProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return g.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (g *GroqProvider) Stream(ctx context.Context, history []llm.Message, opts ...llm.Option) (<-chan string, error) {
	options := &llm.Options{
		Temperature: 0.7,
	}
	for _, opt := range opts {
		opt(options)
	}

	stream, err := g.client.CreateChatCompletionStream(ctx, g.buildRequest(history, options, true))
	if err != nil {
		return nil, err
	}

	chunks := make(chan string)
	go func() {
		defer close(chunks)
		defer stream.Close()
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				// Mid-stream failures terminate the sequence
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case chunks <- delta:
			case <-ctx.Done():
				return
			}
		}
	}()
	return chunks, nil
}

func (g *GroqProvider) buildRequest(history []llm.Message, options *llm.Options, stream bool) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = openai.ChatMessageRoleAssistant
		}
		messages[i] = openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	model := g.ModelName
	if options.Model != "" {
		model = options.Model
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
		Stream:      stream,
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}
	return req
}
