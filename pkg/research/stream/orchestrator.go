package stream

import (
	"context"
	"fmt"
	"strings"

	"company-research-be/internal/constant"
	"company-research-be/pkg/llm"
	"company-research-be/pkg/research/prompt"
)

// Event names the UI subscribes to
const (
	EventStatus = "status"
	EventToken  = "token"
	EventDone   = "done"
)

// Frame renders one server-sent event. Newlines in the data are collapsed to
// spaces so a chunk can never break the SSE framing.
func Frame(event, data string) string {
	clean := strings.ReplaceAll(data, "\n", " ")
	return fmt.Sprintf("event: %s\ndata: %s\n\n", event, clean)
}

// Orchestrator replays the synthesis pipeline as an ordered frame sequence:
// status frames for each stage, one token frame per model chunk, then a final
// status pair and a terminal done frame.
type Orchestrator struct {
	builder  *prompt.Builder
	provider llm.LLMProvider
}

func NewOrchestrator(builder *prompt.Builder, provider llm.LLMProvider) *Orchestrator {
	return &Orchestrator{
		builder:  builder,
		provider: provider,
	}
}

// Run emits the full frame sequence for one research request. The returned
// channel closes after the done frame; abandoning it cancels nothing beyond
// the consumer's own teardown.
func (o *Orchestrator) Run(ctx context.Context, input prompt.ResearchInput) <-chan string {
	frames := make(chan string)

	go func() {
		defer close(frames)

		frames <- Frame(EventStatus, "Understanding intent and preparing research pipeline.")
		frames <- Frame(EventStatus, "Searching internal RAG documents.")

		research := o.builder.BuildResearchPrompt(ctx, input)

		frames <- Frame(EventStatus, fmt.Sprintf(
			"RAG search complete. %d internal chunks found.", len(research.RagSnippets),
		))

		frames <- Frame(EventStatus, "Running external web search.")
		if research.WebSummary != "" {
			frames <- Frame(EventStatus, "Web search complete.")
		} else {
			frames <- Frame(EventStatus, "Web search unavailable. Continuing with RAG and LLM synthesis.")
		}

		frames <- Frame(EventStatus, "Synthesizing account plan with LLM and checking for conflicts.")

		history := []llm.Message{
			{Role: constant.ResearchRoleSystem, Content: research.SystemPrompt},
			{Role: constant.ResearchRoleUser, Content: research.UserPrompt},
		}
		chunks, err := o.provider.Stream(ctx, history)
		if err != nil {
			frames <- Frame(EventToken, fmt.Sprintf("LLM error: %v", err))
		} else {
			for chunk := range chunks {
				if strings.TrimSpace(chunk) == "" {
					continue
				}
				frames <- Frame(EventToken, chunk)
			}
		}

		frames <- Frame(EventStatus, "Research synthesis complete. Checking for data conflicts.")
		frames <- Frame(EventStatus, "Plan ready. Conversation starting.")
		frames <- Frame(EventDone, "true")
	}()

	return frames
}
