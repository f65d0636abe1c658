package chat

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"company-research-be/internal/constant"
	"company-research-be/internal/entity"
	"company-research-be/pkg/llm"
)

type fakeProvider struct {
	reply   string
	prompts []string
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	for _, m := range history {
		if m.Role == constant.ResearchRoleUser {
			f.prompts = append(f.prompts, m.Content)
		}
	}
	return f.reply, nil
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: constant.ResearchRoleUser, Content: prompt}}, options...)
}

func (f *fakeProvider) Stream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan string, error) {
	ch := make(chan string, 1)
	ch <- f.reply
	close(ch)
	return ch, nil
}

type fakeWebClient struct {
	summary string
	queries []string
}

func (f *fakeWebClient) Search(ctx context.Context, query string, maxResults int) (string, error) {
	f.queries = append(f.queries, query)
	return f.summary, nil
}

func newTestConversation(conflicts []entity.Conflict) *entity.Conversation {
	plan := &entity.AccountPlan{
		CompanyName:         "Acme Corp",
		Depth:               entity.DepthDeepResearch,
		Overview:            "Overview text.",
		Competitors:         "Competitor text.",
		MarketAnalysis:      "Market text.",
		FinancialHighlights: "Financial text.",
		KpiSummary:          []entity.KPI{{Name: "Revenue", Value: 12.5}},
		Sources: map[string]interface{}{
			entity.SourceCompetitorChartData: []interface{}{
				map[string]interface{}{"name": "Rival", "share_percent": 60.0},
			},
			entity.SourceSwotRadarScores: map[string]interface{}{"Strength": 9.0},
		},
		Sections: []*entity.CompanySection{
			{Title: "Competitors", Content: "Competitor text."},
		},
	}
	return entity.NewConversation("conv-1", plan, conflicts)
}

func TestRouteCompetitorChartPrecedence(t *testing.T) {
	router := NewRouter(&fakeProvider{}, &fakeWebClient{})
	conv := newTestConversation(nil)

	// Message matches both the competitor and the KPI rule; competitor wins
	reply := router.Route(context.Background(), conv, "Show me the competitor pie and show kpi chart")

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(reply), &payload); err != nil {
		t.Fatalf("reply is not JSON: %v", err)
	}
	if payload["reply_type"] != "chart_request" {
		t.Errorf("reply_type = %v, want chart_request", payload["reply_type"])
	}
	if payload["chart_type"] != "pie" {
		t.Errorf("chart_type = %v, want pie", payload["chart_type"])
	}
	if payload["title"] != "Competitor Share Breakdown" {
		t.Errorf("title = %v", payload["title"])
	}

	history := conv.History()
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if history[0].Assistant != reply {
		t.Error("stored assistant turn differs from returned reply")
	}
}

func TestRouteSwotRadar(t *testing.T) {
	router := NewRouter(&fakeProvider{}, &fakeWebClient{})
	conv := newTestConversation(nil)

	reply := router.Route(context.Background(), conv, "Show me SWOT Analysis graph")

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(reply), &payload); err != nil {
		t.Fatalf("reply is not JSON: %v", err)
	}
	if payload["chart_type"] != "radar" {
		t.Errorf("chart_type = %v, want radar", payload["chart_type"])
	}
	if payload["title"] != "SWOT Analysis Scores" {
		t.Errorf("title = %v", payload["title"])
	}
}

func TestRouteKpiReply(t *testing.T) {
	router := NewRouter(&fakeProvider{}, &fakeWebClient{})
	conv := newTestConversation(nil)

	reply := router.Route(context.Background(), conv, "show the kpi data")

	if !strings.Contains(reply, "Revenue") {
		t.Errorf("kpi reply missing data: %q", reply)
	}
	if !strings.Contains(reply, "```json") {
		t.Errorf("kpi reply missing fenced dump: %q", reply)
	}
}

func TestRouteKpiUnavailable(t *testing.T) {
	router := NewRouter(&fakeProvider{}, &fakeWebClient{})
	conv := newTestConversation(nil)
	conv.Plan.KpiSummary = nil

	reply := router.Route(context.Background(), conv, "show the kpi data")
	if reply != constant.ReplyKpiUnavailable {
		t.Errorf("reply = %q, want fixed unavailable message", reply)
	}
}

func TestRouteDeepDiveDrainsQueue(t *testing.T) {
	provider := &fakeProvider{reply: `{"resolution_summary": "Revenue figure confirmed at 12.5B."}`}
	web := &fakeWebClient{summary: "fresh data"}
	router := NewRouter(provider, web)
	conv := newTestConversation([]entity.Conflict{
		{Topic: "Revenue", Details: "Sources disagree.", NeedsDeepDive: true},
		{Topic: "Headcount", Details: "Stale numbers.", NeedsDeepDive: true},
	})

	reply := router.Route(context.Background(), conv, "Please deep-dive on Revenue")

	if !strings.Contains(reply, "Conflict resolution for topic 'Revenue' is complete.") {
		t.Errorf("reply = %q", reply)
	}
	if !strings.Contains(reply, "Revenue figure confirmed at 12.5B.") {
		t.Errorf("reply missing resolution summary: %q", reply)
	}
	if !strings.Contains(reply, "There are 1 remaining conflicts.") {
		t.Errorf("reply missing remaining count: %q", reply)
	}
	if conv.PendingConflicts() != 1 {
		t.Errorf("PendingConflicts = %d, want 1", conv.PendingConflicts())
	}
	if len(web.queries) != 1 || web.queries[0] != "Acme Corp Revenue official report" {
		t.Errorf("web queries = %v", web.queries)
	}
	if conv.HistoryLen() != 1 {
		t.Errorf("history length = %d, want 1", conv.HistoryLen())
	}

	// Second dive drains the queue to zero
	router.Route(context.Background(), conv, "dig deeper")
	if conv.PendingConflicts() != 0 {
		t.Errorf("PendingConflicts = %d, want 0", conv.PendingConflicts())
	}
	if conv.HistoryLen() != 2 {
		t.Errorf("history length = %d, want 2", conv.HistoryLen())
	}
}

func TestRouteDeepDiveResolutionFallback(t *testing.T) {
	provider := &fakeProvider{reply: "not json"}
	router := NewRouter(provider, &fakeWebClient{})
	conv := newTestConversation([]entity.Conflict{{Topic: "Revenue"}})

	reply := router.Route(context.Background(), conv, "deep-dive on Revenue")
	if !strings.Contains(reply, constant.ReplyResolutionFallback) {
		t.Errorf("reply = %q, want fallback summary", reply)
	}
}

func TestRouteDeepDiveWithoutConflictsFallsThrough(t *testing.T) {
	provider := &fakeProvider{reply: "General answer."}
	router := NewRouter(provider, &fakeWebClient{})
	conv := newTestConversation(nil)

	reply := router.Route(context.Background(), conv, "deep-dive on financials")
	if reply != "General answer." {
		t.Errorf("reply = %q, want grounded model answer", reply)
	}
}

func TestRouteEditInstructions(t *testing.T) {
	router := NewRouter(&fakeProvider{}, &fakeWebClient{})
	conv := newTestConversation(nil)

	reply := router.Route(context.Background(), conv, "How do I edit a section?")
	if reply != constant.ReplyEditInstructions {
		t.Errorf("reply = %q, want fixed instructions", reply)
	}
	if conv.HistoryLen() != 1 {
		t.Errorf("history length = %d, want 1", conv.HistoryLen())
	}
}

func TestRouteGroundedDefault(t *testing.T) {
	provider := &fakeProvider{reply: "Acme leads in widget share."}
	router := NewRouter(provider, &fakeWebClient{})
	conv := newTestConversation(nil)
	conv.AppendTurn("earlier question", "earlier answer")

	reply := router.Route(context.Background(), conv, "What is their market position?")

	if reply != "Acme leads in widget share." {
		t.Errorf("reply = %q", reply)
	}
	if len(provider.prompts) != 1 {
		t.Fatalf("prompt count = %d, want 1", len(provider.prompts))
	}
	prompt := provider.prompts[0]
	if !strings.Contains(prompt, "Company: Acme Corp") {
		t.Error("prompt missing plan snippet")
	}
	if !strings.Contains(prompt, "User: earlier question\nAssistant: earlier answer") {
		t.Error("prompt missing transcript")
	}
	if conv.HistoryLen() != 2 {
		t.Errorf("history length = %d, want 2", conv.HistoryLen())
	}
}

func TestRenderTranscriptEmpty(t *testing.T) {
	if got := RenderTranscript(nil); got != "" {
		t.Errorf("RenderTranscript(nil) = %q, want empty", got)
	}
}
