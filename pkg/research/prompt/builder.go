package prompt

import (
	"context"
	"encoding/json"
	"fmt"

	"company-research-be/internal/constant"
	"company-research-be/internal/entity"
	"company-research-be/pkg/retrieval"
	"company-research-be/pkg/websearch"
)

const maxPromptSnippets = 5

// ResearchInput carries the request parameters the synthesis prompt embeds.
type ResearchInput struct {
	CompanyName       string
	Depth             entity.ResearchDepth
	ExtraInstructions string
}

// ResearchContext is the gathered material for one synthesis run. RagSnippets
// and WebSummary stay empty when the respective collaborator failed, the
// prompt marks them as unavailable instead of failing the run.
type ResearchContext struct {
	SystemPrompt string
	UserPrompt   string
	RagSnippets  []string
	WebSummary   string
}

// Builder gathers retrieval and web context and renders the synthesis prompt.
type Builder struct {
	searcher  retrieval.Searcher
	webClient websearch.Client
	topK      int
}

func NewBuilder(searcher retrieval.Searcher, webClient websearch.Client, topK int) *Builder {
	if topK <= 0 {
		topK = maxPromptSnippets
	}
	return &Builder{
		searcher:  searcher,
		webClient: webClient,
		topK:      topK,
	}
}

// BuildResearchPrompt runs both retrieval queries and renders the full
// synthesis prompt. Collaborator failures degrade to empty context.
func (b *Builder) BuildResearchPrompt(ctx context.Context, input ResearchInput) ResearchContext {
	ragQuery := fmt.Sprintf(constant.ResearchRagQueryTemplate, input.CompanyName)
	ragSnippets, err := b.searcher.Search(ctx, ragQuery, b.topK)
	if err != nil {
		ragSnippets = nil
	}

	webQuery := fmt.Sprintf(constant.ResearchWebQueryTemplate, input.CompanyName)
	webSummary, err := b.webClient.Search(ctx, webQuery, 0)
	if err != nil {
		webSummary = ""
	}

	return ResearchContext{
		SystemPrompt: constant.ResearchBaseSystemPrompt,
		UserPrompt:   renderUserPrompt(input, ragSnippets, webSummary),
		RagSnippets:  ragSnippets,
		WebSummary:   webSummary,
	}
}

func renderUserPrompt(input ResearchInput, ragSnippets []string, webSummary string) string {
	extra := input.ExtraInstructions
	if extra == "" {
		extra = "None provided"
	}

	snippetBlock := "[]"
	if len(ragSnippets) > 0 {
		limit := len(ragSnippets)
		if limit > maxPromptSnippets {
			limit = maxPromptSnippets
		}
		if encoded, err := json.Marshal(ragSnippets[:limit]); err == nil {
			snippetBlock = string(encoded)
		}
	}

	webBlock := webSummary
	if webBlock == "" {
		webBlock = "(no web data available)"
	}

	return fmt.Sprintf(
		constant.ResearchSynthesisPromptTemplate,
		input.CompanyName,
		input.Depth,
		extra,
		snippetBlock,
		webBlock,
	)
}

// BuildResolutionPrompt renders the one-shot conflict resolution prompt.
func BuildResolutionPrompt(companyName, topic, newWebData string) string {
	if newWebData == "" {
		newWebData = "No new data found."
	}
	return fmt.Sprintf(constant.ResearchResolutionPromptTemplate, companyName, topic, newWebData)
}

// BuildChatPrompt renders the grounded follow-up prompt from plan snippets
// and the transcript so far.
func BuildChatPrompt(plan *entity.AccountPlan, transcript string, userMessage string) string {
	planSnippets := fmt.Sprintf(
		"    Company: %s\n    Overview: %s\n    Competitors: %s\n    Market Analysis: %s\n    Financials: %s",
		plan.CompanyName,
		truncate(plan.Overview, 500),
		truncate(plan.Competitors, 500),
		truncate(plan.MarketAnalysis, 500),
		truncate(plan.FinancialHighlights, 500),
	)
	if transcript == "" {
		transcript = "(no prior turns)"
	}
	return fmt.Sprintf(constant.ResearchChatPromptTemplate, planSnippets, transcript, userMessage)
}

// BuildFeedbackPrompt renders the plan review prompt.
func BuildFeedbackPrompt(plan *entity.AccountPlan, transcript string) string {
	sectionsText := ""
	for _, section := range plan.Sections {
		sectionsText += fmt.Sprintf("%s:\n%s\n\n", section.Title, truncate(section.Content, 500))
	}
	return fmt.Sprintf(
		constant.ResearchFeedbackPromptTemplate,
		plan.CompanyName,
		truncate(plan.Overview, 500),
		sectionsText,
		transcript,
	)
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
