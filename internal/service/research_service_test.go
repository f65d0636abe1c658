package service

import (
	"context"
	"strings"
	"testing"

	"company-research-be/internal/constant"
	"company-research-be/internal/dto"
	"company-research-be/internal/pkg/logger"
	"company-research-be/internal/repository/memory"
	"company-research-be/pkg/llm"
	"company-research-be/pkg/research/chat"
	"company-research-be/pkg/research/prompt"
	"company-research-be/pkg/research/stream"
)

type stubProvider struct {
	reply string
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.reply, nil
}

func (s *stubProvider) Generate(ctx context.Context, p string, options ...llm.Option) (string, error) {
	return s.reply, nil
}

func (s *stubProvider) Stream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan string, error) {
	ch := make(chan string, 1)
	ch <- s.reply
	close(ch)
	return ch, nil
}

type stubSearcher struct {
	snippets []string
}

func (s *stubSearcher) Search(ctx context.Context, query string, topK int) ([]string, error) {
	return s.snippets, nil
}

type stubWebClient struct {
	summary string
}

func (s *stubWebClient) Search(ctx context.Context, query string, maxResults int) (string, error) {
	return s.summary, nil
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

var _ logger.ILogger = noopLogger{}

func newTestService(modelReply string) IResearchService {
	provider := &stubProvider{reply: modelReply}
	web := &stubWebClient{summary: "web summary"}
	builder := prompt.NewBuilder(&stubSearcher{snippets: []string{"chunk"}}, web, 5)
	return NewResearchService(
		builder,
		provider,
		chat.NewRouter(provider, web),
		stream.NewOrchestrator(builder, provider),
		memory.NewConversationRepository(),
		noopLogger{},
	)
}

func TestStartResearchFallbackPlan(t *testing.T) {
	svc := newTestService("not json")

	res, err := svc.StartResearch(context.Background(), &dto.StartResearchRequest{
		CompanyName: "Acme Corp",
		Depth:       "quick_summary",
	})
	if err != nil {
		t.Fatalf("StartResearch error: %v", err)
	}
	if res.ConversationId == "" {
		t.Fatal("empty conversation id")
	}
	if !strings.HasPrefix(res.AccountPlan.Overview, "Acme Corp") {
		t.Errorf("overview = %q, want Acme Corp prefix", res.AccountPlan.Overview)
	}
	if len(res.AccountPlan.Sections) != 1 || res.AccountPlan.Sections[0].Title != "Full Research Output" {
		t.Fatalf("sections = %+v, want single Full Research Output", res.AccountPlan.Sections)
	}
	if !strings.Contains(res.AccountPlan.Sections[0].Content, "not json") {
		t.Error("raw model text missing from fallback section")
	}
}

func TestStartResearchSeedsPipelineHistory(t *testing.T) {
	svc := newTestService(`{"overview": "A summary.", "confidence_score": 0.8}`)

	res, err := svc.StartResearch(context.Background(), &dto.StartResearchRequest{
		CompanyName: "Acme Corp",
		Depth:       "deep_research",
	})
	if err != nil {
		t.Fatalf("StartResearch error: %v", err)
	}

	state, err := svc.GetConversation(context.Background(), res.ConversationId)
	if err != nil {
		t.Fatalf("GetConversation error: %v", err)
	}
	if len(state.History) != 6 {
		t.Fatalf("seeded history length = %d, want 6", len(state.History))
	}
	if state.History[0].User != "System Initiated Pipeline" {
		t.Errorf("first turn user = %q", state.History[0].User)
	}
	if !strings.Contains(state.History[0].Assistant, "Starting research pipeline for **Acme Corp** at deep_research depth.") {
		t.Errorf("first turn assistant = %q", state.History[0].Assistant)
	}
	last := state.History[5]
	if last.User != "System Initiated Research" {
		t.Errorf("final turn user = %q", last.User)
	}
	if !strings.Contains(last.Assistant, "Current confidence estimate: 80 percent.") {
		t.Errorf("final turn assistant = %q", last.Assistant)
	}
}

func TestStartResearchConflictIntro(t *testing.T) {
	svc := newTestService(`{
		"overview": "A summary.",
		"conflicts": [{"topic": "Revenue", "details": "Sources disagree.", "needs_deep_dive": true}],
		"confidence_score": 0.6
	}`)

	res, err := svc.StartResearch(context.Background(), &dto.StartResearchRequest{
		CompanyName: "Acme Corp",
		Depth:       "deep_research",
	})
	if err != nil {
		t.Fatalf("StartResearch error: %v", err)
	}

	state, _ := svc.GetConversation(context.Background(), res.ConversationId)
	last := state.History[len(state.History)-1]
	if !strings.Contains(last.Assistant, "a significant conflict was found regarding **Revenue**") {
		t.Errorf("conflict intro missing: %q", last.Assistant)
	}
	if state.PendingCount != 1 {
		t.Errorf("PendingCount = %d, want 1", state.PendingCount)
	}
}

func TestChatUnknownConversation(t *testing.T) {
	svc := newTestService("irrelevant")

	res, err := svc.Chat(context.Background(), &dto.ChatMessageRequest{
		ConversationId: "xyz",
		Message:        "hello",
	})
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if res.Reply != constant.ReplyInvalidConversation {
		t.Errorf("reply = %q, want fixed invalid-conversation message", res.Reply)
	}

	// No state may be created for unknown ids
	if _, err := svc.GetConversation(context.Background(), "xyz"); err == nil {
		t.Error("GetConversation(xyz) succeeded, want not found")
	}
}

func TestChatSequentialTurns(t *testing.T) {
	svc := newTestService(`{"overview": "A summary."}`)

	res, err := svc.StartResearch(context.Background(), &dto.StartResearchRequest{
		CompanyName: "Acme Corp",
		Depth:       "quick_summary",
	})
	if err != nil {
		t.Fatalf("StartResearch error: %v", err)
	}

	before, _ := svc.GetConversation(context.Background(), res.ConversationId)
	seeded := len(before.History)

	for i := 0; i < 3; i++ {
		if _, err := svc.Chat(context.Background(), &dto.ChatMessageRequest{
			ConversationId: res.ConversationId,
			Message:        "tell me about the market",
		}); err != nil {
			t.Fatalf("Chat error: %v", err)
		}
	}

	after, _ := svc.GetConversation(context.Background(), res.ConversationId)
	if len(after.History) != seeded+3 {
		t.Errorf("history length = %d, want %d", len(after.History), seeded+3)
	}
}

func TestEditSectionAndUnknownConversation(t *testing.T) {
	svc := newTestService(`{"overview": "A summary.", "risks": "Risk text."}`)

	res, _ := svc.StartResearch(context.Background(), &dto.StartResearchRequest{
		CompanyName: "Acme Corp",
		Depth:       "full_account_plan",
	})

	edit, err := svc.EditSection(context.Background(), &dto.EditSectionRequest{
		ConversationId: res.ConversationId,
		SectionTitle:   "Risks",
		NewContent:     "Updated risk narrative.",
	})
	if err != nil {
		t.Fatalf("EditSection error: %v", err)
	}
	if !edit.Updated {
		t.Error("Updated = false, want true")
	}

	state, _ := svc.GetConversation(context.Background(), res.ConversationId)
	if got := state.AccountPlan.Section("Risks").Content; got != "Updated risk narrative." {
		t.Errorf("section content = %q", got)
	}

	if _, err := svc.EditSection(context.Background(), &dto.EditSectionRequest{
		ConversationId: "xyz",
		SectionTitle:   "Risks",
		NewContent:     "x",
	}); err == nil {
		t.Error("EditSection on unknown id succeeded, want error")
	}
}

func TestGenerateFeedback(t *testing.T) {
	svc := newTestService(`{"overview": "A summary."}`)

	res, _ := svc.StartResearch(context.Background(), &dto.StartResearchRequest{
		CompanyName: "Acme Corp",
		Depth:       "quick_summary",
	})

	feedback, err := svc.GenerateFeedback(context.Background(), &dto.FeedbackRequest{
		ConversationId: res.ConversationId,
	})
	if err != nil {
		t.Fatalf("GenerateFeedback error: %v", err)
	}
	if feedback.FeedbackSummary == "" {
		t.Error("empty feedback summary")
	}

	unknown, err := svc.GenerateFeedback(context.Background(), &dto.FeedbackRequest{ConversationId: "xyz"})
	if err != nil {
		t.Fatalf("GenerateFeedback error: %v", err)
	}
	if unknown.FeedbackSummary != "Invalid conversation ID." {
		t.Errorf("unknown id feedback = %q", unknown.FeedbackSummary)
	}
}

func TestBuildReport(t *testing.T) {
	svc := newTestService(`{"overview": "A summary.", "risks": "Risk text."}`)

	res, _ := svc.StartResearch(context.Background(), &dto.StartResearchRequest{
		CompanyName: "Acme Corp",
		Depth:       "quick_summary",
	})

	fileName, report, err := svc.BuildReport(context.Background(), res.ConversationId)
	if err != nil {
		t.Fatalf("BuildReport error: %v", err)
	}
	if fileName != "Acme Corp_report.txt" {
		t.Errorf("fileName = %q", fileName)
	}
	if !strings.HasPrefix(report, "Company Research Report: Acme Corp") {
		t.Errorf("report header = %q", report[:50])
	}
	if !strings.Contains(report, "## Risks") {
		t.Error("report missing section heading")
	}

	if _, _, err := svc.BuildReport(context.Background(), "xyz"); err == nil {
		t.Error("BuildReport on unknown id succeeded, want error")
	}
}
