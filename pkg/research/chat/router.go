package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"company-research-be/internal/constant"
	"company-research-be/internal/entity"
	"company-research-be/pkg/llm"
	"company-research-be/pkg/research/parser"
	"company-research-be/pkg/research/prompt"
	"company-research-be/pkg/websearch"
)

const deepDiveResults = 3

// chartRequest is the structured reply the UI renders as a chart instead of prose
type chartRequest struct {
	ReplyType string      `json:"reply_type"`
	ChartType string      `json:"chart_type"`
	Data      interface{} `json:"data"`
	Title     string      `json:"title"`
	Narrative string      `json:"narrative"`
}

// Router dispatches a chat message against one conversation. Rule order is a
// contract: a message matching several rules always takes the first one.
type Router struct {
	provider  llm.LLMProvider
	webClient websearch.Client
}

func NewRouter(provider llm.LLMProvider, webClient websearch.Client) *Router {
	return &Router{
		provider:  provider,
		webClient: webClient,
	}
}

// Route produces the assistant reply for one user message and appends the
// exchange to the conversation transcript. The caller has already resolved
// the conversation id; unknown ids never reach the router.
func (r *Router) Route(ctx context.Context, conv *entity.Conversation, userMessage string) string {
	message := strings.TrimSpace(userMessage)
	lower := strings.ToLower(message)
	plan := conv.Plan

	if reply, ok := r.chartReply(plan, lower); ok {
		conv.AppendTurn(message, reply)
		return reply
	}

	if strings.Contains(lower, "show") && containsAny(lower, "kpi", "chart", "graph") {
		reply := kpiReply(plan)
		conv.AppendTurn(message, reply)
		return reply
	}

	if conv.PendingConflicts() > 0 && containsAny(lower, "deep-dive", "dig deeper") {
		reply := r.resolveConflict(ctx, conv)
		conv.AppendTurn(message, reply)
		return reply
	}

	if strings.Contains(lower, "edit") && strings.Contains(lower, "section") {
		conv.AppendTurn(message, constant.ReplyEditInstructions)
		return constant.ReplyEditInstructions
	}

	reply := r.groundedReply(ctx, conv, message)
	conv.AppendTurn(message, reply)
	return reply
}

// chartReply handles the competitor pie and SWOT radar requests. Competitor
// matching runs first, so a message naming both always gets the pie chart.
func (r *Router) chartReply(plan *entity.AccountPlan, lower string) (string, bool) {
	var (
		data      interface{}
		ok        bool
		chartType string
		title     string
	)

	switch {
	case strings.Contains(lower, "competitor") && containsAny(lower, "pie", "chart"):
		data, ok = plan.ChartData(entity.SourceCompetitorChartData)
		chartType = "pie"
		title = "Competitor Share Breakdown"
	case strings.Contains(lower, "swot") && containsAny(lower, "graph", "radar", "chart"):
		data, ok = plan.ChartData(entity.SourceSwotRadarScores)
		chartType = "radar"
		title = "SWOT Analysis Scores"
	}

	if !ok {
		return "", false
	}

	payload := chartRequest{
		ReplyType: "chart_request",
		ChartType: chartType,
		Data:      data,
		Title:     title,
		Narrative: fmt.Sprintf(
			"Here is the visual breakdown of the %s data, available for rendering as a chart in the workspace.",
			title,
		),
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", false
	}
	return string(encoded), true
}

func kpiReply(plan *entity.AccountPlan) string {
	if len(plan.KpiSummary) == 0 {
		return constant.ReplyKpiUnavailable
	}
	kpiData, err := json.MarshalIndent(plan.KpiSummary, "", "  ")
	if err != nil {
		return constant.ReplyKpiUnavailable
	}
	return fmt.Sprintf(
		"Here is the structured KPI data required for visualization: ```json\n%s\n``` "+
			"You can use this to render a chart (e.g., bar chart for Revenue/Growth). "+
			"Next Step: Would you like to review the updated competitors section or discuss the risks?",
		string(kpiData),
	)
}

// resolveConflict pops the oldest conflict, runs one targeted web search and
// one model call, and reports the outcome with the remaining queue size.
func (r *Router) resolveConflict(ctx context.Context, conv *entity.Conversation) string {
	conflict, ok := conv.PopConflict()
	if !ok {
		return constant.ReplyResolutionFallback
	}
	topic := conflict.Topic
	if topic == "" {
		topic = "data discrepancy"
	}

	deepDiveQuery := fmt.Sprintf("%s %s official report", conv.Plan.CompanyName, topic)
	newWebData, err := r.webClient.Search(ctx, deepDiveQuery, deepDiveResults)
	if err != nil {
		newWebData = ""
	}

	resolutionPrompt := prompt.BuildResolutionPrompt(conv.Plan.CompanyName, topic, newWebData)
	raw, err := r.complete(ctx, resolutionPrompt)
	summary := constant.ReplyResolutionFallback
	if err == nil {
		if s := parser.GetString(parser.ParseLLMJson(raw), "resolution_summary"); s != "" {
			summary = s
		}
	}

	return fmt.Sprintf(
		"Conflict resolution for topic '%s' is complete. Summary: %s "+
			"There are %d remaining conflicts. You can also ask to review updated sections such as competitors or market analysis.",
		topic,
		summary,
		conv.PendingConflicts(),
	)
}

func (r *Router) groundedReply(ctx context.Context, conv *entity.Conversation, message string) string {
	transcript := RenderTranscript(conv.History())
	chatPrompt := prompt.BuildChatPrompt(conv.Plan, transcript, message)

	reply, err := r.complete(ctx, chatPrompt)
	if err != nil {
		return fmt.Sprintf("LLM error: %v", err)
	}
	return reply
}

func (r *Router) complete(ctx context.Context, userPrompt string) (string, error) {
	history := []llm.Message{
		{Role: constant.ResearchRoleSystem, Content: constant.ResearchBaseSystemPrompt},
		{Role: constant.ResearchRoleUser, Content: userPrompt},
	}
	return r.provider.Chat(ctx, history)
}

// RenderTranscript flattens turns into the "User:"/"Assistant:" line format
// the prompts embed.
func RenderTranscript(turns []entity.ChatTurn) string {
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, fmt.Sprintf("User: %s\nAssistant: %s", turn.User, turn.Assistant))
	}
	return strings.Join(lines, "\n")
}

func containsAny(text string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
