package service

import (
	"context"
	"fmt"
	"strings"

	"company-research-be/internal/constant"
	"company-research-be/internal/dto"
	"company-research-be/internal/entity"
	"company-research-be/internal/pkg/logger"
	"company-research-be/internal/repository/contract"
	"company-research-be/pkg/llm"
	"company-research-be/pkg/research/chat"
	"company-research-be/pkg/research/plan"
	"company-research-be/pkg/research/prompt"
	"company-research-be/pkg/research/stream"

	"github.com/google/uuid"
)

type IResearchService interface {
	StartResearch(ctx context.Context, req *dto.StartResearchRequest) (*dto.StartResearchResponse, error)
	Chat(ctx context.Context, req *dto.ChatMessageRequest) (*dto.ChatMessageResponse, error)
	GenerateFeedback(ctx context.Context, req *dto.FeedbackRequest) (*dto.FeedbackResponse, error)
	EditSection(ctx context.Context, req *dto.EditSectionRequest) (*dto.EditSectionResponse, error)
	GetConversation(ctx context.Context, conversationId string) (*dto.ConversationStateResponse, error)
	StreamResearch(ctx context.Context, req *dto.StartResearchRequest) <-chan string
	BuildReport(ctx context.Context, conversationId string) (string, string, error)
}

type researchService struct {
	builder      *prompt.Builder
	provider     llm.LLMProvider
	router       *chat.Router
	orchestrator *stream.Orchestrator
	store        contract.ConversationStore
	log          logger.ILogger
}

func NewResearchService(
	builder *prompt.Builder,
	provider llm.LLMProvider,
	router *chat.Router,
	orchestrator *stream.Orchestrator,
	store contract.ConversationStore,
	log logger.ILogger,
) IResearchService {
	return &researchService{
		builder:      builder,
		provider:     provider,
		router:       router,
		orchestrator: orchestrator,
		store:        store,
		log:          log,
	}
}

func (s *researchService) StartResearch(ctx context.Context, req *dto.StartResearchRequest) (*dto.StartResearchResponse, error) {
	input := prompt.ResearchInput{
		CompanyName:       req.CompanyName,
		Depth:             entity.ResearchDepth(req.Depth),
		ExtraInstructions: req.ExtraInstructions,
	}

	research := s.builder.BuildResearchPrompt(ctx, input)
	s.log.Info("research_service", "research context gathered", map[string]interface{}{
		"company":    req.CompanyName,
		"rag_chunks": len(research.RagSnippets),
		"web":        research.WebSummary != "",
	})

	raw := s.complete(ctx, research.SystemPrompt, research.UserPrompt)

	accountPlan, conflicts := plan.Synthesize(raw, req.CompanyName, input.Depth, research.RagSnippets, research.WebSummary)

	conversationId := uuid.New().String()
	conversation := entity.NewConversation(conversationId, accountPlan, conflicts)
	conversation.SeedHistory(pipelineHistory(accountPlan, conflicts))

	s.store.Save(conversation)

	return &dto.StartResearchResponse{
		ConversationId: conversationId,
		AccountPlan:    accountPlan,
	}, nil
}

func (s *researchService) Chat(ctx context.Context, req *dto.ChatMessageRequest) (*dto.ChatMessageResponse, error) {
	conversation, found := s.store.Get(req.ConversationId)
	if !found {
		// Contract reply, not an error: unknown ids get a fixed message and no state
		return &dto.ChatMessageResponse{Reply: constant.ReplyInvalidConversation}, nil
	}

	reply := s.router.Route(ctx, conversation, req.Message)
	return &dto.ChatMessageResponse{Reply: reply}, nil
}

func (s *researchService) GenerateFeedback(ctx context.Context, req *dto.FeedbackRequest) (*dto.FeedbackResponse, error) {
	conversation, found := s.store.Get(req.ConversationId)
	if !found {
		return &dto.FeedbackResponse{FeedbackSummary: "Invalid conversation ID."}, nil
	}

	transcript := chat.RenderTranscript(conversation.History())
	feedbackPrompt := prompt.BuildFeedbackPrompt(conversation.Plan, transcript)
	if req.OverallNotes != "" {
		feedbackPrompt += "\nReviewer notes to take into account:\n" + req.OverallNotes + "\n"
	}

	feedback := s.complete(ctx, constant.ResearchBaseSystemPrompt, feedbackPrompt)
	conversation.AppendTurn("System Feedback Request", feedback)

	return &dto.FeedbackResponse{FeedbackSummary: feedback}, nil
}

func (s *researchService) EditSection(ctx context.Context, req *dto.EditSectionRequest) (*dto.EditSectionResponse, error) {
	conversation, found := s.store.Get(req.ConversationId)
	if !found {
		return nil, contract.ErrConversationNotFound
	}

	updated := conversation.EditSection(req.SectionTitle, req.NewContent)
	return &dto.EditSectionResponse{Updated: updated}, nil
}

func (s *researchService) GetConversation(ctx context.Context, conversationId string) (*dto.ConversationStateResponse, error) {
	conversation, found := s.store.Get(conversationId)
	if !found {
		return nil, contract.ErrConversationNotFound
	}

	return &dto.ConversationStateResponse{
		ConversationId: conversation.Id,
		AccountPlan:    conversation.Plan,
		History:        conversation.History(),
		PendingCount:   conversation.PendingConflicts(),
	}, nil
}

func (s *researchService) StreamResearch(ctx context.Context, req *dto.StartResearchRequest) <-chan string {
	return s.orchestrator.Run(ctx, prompt.ResearchInput{
		CompanyName:       req.CompanyName,
		Depth:             entity.ResearchDepth(req.Depth),
		ExtraInstructions: req.ExtraInstructions,
	})
}

// BuildReport renders the plan as a plain-text report for download. Returns
// the suggested file name and the report body.
func (s *researchService) BuildReport(ctx context.Context, conversationId string) (string, string, error) {
	conversation, found := s.store.Get(conversationId)
	if !found {
		return "", "", contract.ErrConversationNotFound
	}

	p := conversation.Plan
	lines := []string{
		fmt.Sprintf("Company Research Report: %s", p.CompanyName),
		"",
		p.Overview,
		"",
	}
	for _, section := range p.Sections {
		lines = append(lines, fmt.Sprintf("## %s", section.Title), section.Content, "")
	}

	fileName := fmt.Sprintf("%s_report.txt", p.CompanyName)
	return fileName, strings.Join(lines, "\n"), nil
}

// complete runs one blocking model call, degrading transport failures to an
// error-describing string so the synthesis fallback path can absorb them.
func (s *researchService) complete(ctx context.Context, systemPrompt, userPrompt string) string {
	history := []llm.Message{
		{Role: constant.ResearchRoleSystem, Content: systemPrompt},
		{Role: constant.ResearchRoleUser, Content: userPrompt},
	}
	raw, err := s.provider.Chat(ctx, history)
	if err != nil {
		s.log.Error("research_service", "llm call failed", map[string]interface{}{"error": err.Error()})
		return fmt.Sprintf("LLM error: %v", err)
	}
	return raw
}

// pipelineHistory seeds the transcript with turns narrating the research
// pipeline, ending with a proactive prompt about conflicts or next actions.
func pipelineHistory(p *entity.AccountPlan, conflicts []entity.Conflict) []entity.ChatTurn {
	turns := []entity.ChatTurn{
		{
			User:      "System Initiated Pipeline",
			Assistant: fmt.Sprintf("Starting research pipeline for **%s** at %s depth.", p.CompanyName, p.Depth),
		},
	}

	webDetail := "Skipped or failed to execute external web search."
	ragDetail := "No RAG process initiated."
	if p.Metadata != nil {
		for _, step := range p.Metadata.Steps {
			if step.Id == "web_search" && step.Status == entity.StepComplete {
				webDetail = "Web search executed via Serper."
			}
			if step.Id == "rag_search" {
				ragDetail = step.Detail
			}
		}
	}

	turns = append(turns,
		entity.ChatTurn{
			User:      "System Initiated Pipeline",
			Assistant: "Step 1 of 4: Searching external web sources and news. Status: " + webDetail,
		},
		entity.ChatTurn{
			User:      "System Initiated Pipeline",
			Assistant: "Step 2 of 4: Querying internal RAG documents/data sources. Status: " + ragDetail,
		},
		entity.ChatTurn{
			User:      "System Initiated Pipeline",
			Assistant: "Step 3 of 4: Accessing financial and competitor MCP server tools.",
		},
		entity.ChatTurn{
			User:      "System Initiated Pipeline",
			Assistant: "Step 4 of 4: Synthesizing all findings and detecting conflicts using the core LLM.",
		},
	)

	var intro string
	if p.Metadata != nil && p.Metadata.ConflictsDetected && len(conflicts) > 0 {
		topic := conflicts[0].Topic
		if topic == "" {
			topic = "key company information"
		}
		details := conflicts[0].Details
		if details == "" {
			details = "Differing reports detected between sources."
		}
		intro = "Research synthesis is complete. However, a significant conflict was found regarding **" +
			topic + "**. Details: " + details +
			". This data discrepancy means the plan's confidence is lower. To proceed, should I: " +
			"1) Ignore the less-detailed source and continue, or " +
			"2) Conduct a deep-dive search specifically on this topic? " +
			"For example, you can say: **deep-dive on " + topic + "**."
	} else {
		confidence := 0.0
		if p.Metadata != nil {
			confidence = p.Metadata.ConfidenceScore
		}
		intro = fmt.Sprintf(
			"Research for **%s** is complete, and the account plan has been generated. "+
				"Current confidence estimate: %d percent. "+
				"What would you like to do next? For example, you can ask to **'Show me the Competitor Pie Chart'**, "+
				"**'Show me SWOT Analysis graph'**, or **'Edit the 30-60-90 Day Plan'**.",
			p.CompanyName,
			int(confidence*100),
		)
	}

	turns = append(turns, entity.ChatTurn{User: "System Initiated Research", Assistant: intro})
	return turns
}
