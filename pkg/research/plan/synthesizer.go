package plan

import (
	"fmt"
	"time"

	"company-research-be/internal/constant"
	"company-research-be/internal/entity"
	"company-research-be/pkg/research/parser"
)

const fallbackOverviewLimit = 700

// Synthesize turns raw model output into a complete AccountPlan. A mapping
// that failed to parse degrades to a minimal fallback plan carrying the raw
// text, never an error. The returned conflicts are the model-reported queue
// for later deep-dive resolution.
func Synthesize(raw string, companyName string, depth entity.ResearchDepth, ragSnippets []string, webSummary string) (*entity.AccountPlan, []entity.Conflict) {
	data := parser.ParseLLMJson(raw)
	if len(data) == 0 {
		return fallbackPlan(raw, companyName, depth, ragSnippets, webSummary), nil
	}

	profile := parser.GetString(data, "company_profile")
	market := parser.GetString(data, "market_analysis")
	financials := parser.GetString(data, "financial_highlights")
	products := parser.GetString(data, "product_portfolio")
	techStack := parser.GetString(data, "technology_stack")
	competitors := parser.GetString(data, "competitors")
	swot := parser.GetString(data, "swot")
	risks := parser.GetString(data, "risks")

	opportunities := joinPoints(parser.GetStringSlice(data, "opportunities_points"))

	overview := parser.GetString(data, "overview")
	if overview == "" {
		overview = fmt.Sprintf(
			"%s – Executive Snapshot:\n\n%s\n\n%s",
			companyName,
			truncate(profile, 400),
			truncate(market, 400),
		)
	}

	conflicts := extractConflicts(data)

	meta := &entity.ResearchMetadata{
		GeneratedAt:       nowIso(),
		Depth:             depth,
		SourcesUsed:       sourcesUsed(ragSnippets, webSummary, true),
		Steps:             buildSteps(ragSnippets, webSummary),
		ConflictsDetected: len(conflicts) > 0,
		ConfidenceScore:   parser.GetFloat(data, "confidence_score"),
	}

	sections := []*entity.CompanySection{
		{Title: "Company Profile", Content: profile},
		{Title: "Market Analysis", Content: market},
		{Title: "Financial Highlights", Content: financials},
		{Title: "Product Portfolio", Content: products},
		{Title: "Technology Stack", Content: techStack},
		{Title: "Competitors", Content: competitors},
		{Title: "SWOT Analysis", Content: swot},
		{Title: "Opportunities", Content: opportunities},
		{Title: "Risks", Content: risks},
		{Title: "30-60-90 Day Plan", Content: constant.ResearchPlanTableSummary},
	}

	return &entity.AccountPlan{
		CompanyName:         companyName,
		Depth:               depth,
		Overview:            overview,
		CompanyProfile:      profile,
		MarketAnalysis:      market,
		FinancialHighlights: financials,
		ProductPortfolio:    products,
		TechnologyStack:     techStack,
		Competitors:         competitors,
		Swot:                swot,
		Opportunities:       opportunities,
		Risks:               risks,
		AccountPlan306090:   constant.ResearchPlanTableSummary,
		KpiSummary:          extractKpis(data),
		Sources: map[string]interface{}{
			entity.SourceSwotRadarScores:     data["swot_radar_scores"],
			entity.SourceCompetitorChartData: data["competitor_chart_data"],
			entity.SourcePlanTable:           data["plan_table"],
		},
		Metadata: meta,
		Sections: sections,
	}, conflicts
}

func fallbackPlan(raw string, companyName string, depth entity.ResearchDepth, ragSnippets []string, webSummary string) *entity.AccountPlan {
	meta := &entity.ResearchMetadata{
		GeneratedAt:       nowIso(),
		Depth:             depth,
		SourcesUsed:       sourcesUsed(ragSnippets, webSummary, false),
		Steps:             buildSteps(ragSnippets, webSummary),
		ConflictsDetected: false,
		ConfidenceScore:   0.0,
	}

	return &entity.AccountPlan{
		CompanyName: companyName,
		Depth:       depth,
		Overview:    fmt.Sprintf("%s – Executive Snapshot:\n\n%s", companyName, truncate(raw, fallbackOverviewLimit)),
		Metadata:    meta,
		Sections: []*entity.CompanySection{
			{Title: "Full Research Output", Content: raw},
		},
	}
}

func buildSteps(ragSnippets []string, webSummary string) []entity.ResearchStep {
	steps := []entity.ResearchStep{
		{
			Id:     "intent",
			Label:  "Understand user intent and depth",
			Status: entity.StepComplete,
			Detail: "Parsed company name and research depth.",
		},
	}

	ragStep := entity.ResearchStep{
		Id:     "rag_search",
		Label:  "RAG search on internal PDFs",
		Status: entity.StepSkipped,
		Detail: "No RAG documents found.",
	}
	if len(ragSnippets) > 0 {
		ragStep.Status = entity.StepComplete
		ragStep.Detail = fmt.Sprintf("Retrieved %d internal chunks.", len(ragSnippets))
	}
	steps = append(steps, ragStep)

	webStep := entity.ResearchStep{
		Id:     "web_search",
		Label:  "External web search",
		Status: entity.StepSkipped,
		Detail: "Web search unavailable or failed.",
	}
	if webSummary != "" {
		webStep.Status = entity.StepComplete
		webStep.Detail = "Web search executed via Serper."
	}
	steps = append(steps, webStep)

	steps = append(steps, entity.ResearchStep{
		Id:     "llm_synthesis",
		Label:  "LLM synthesis of account plan",
		Status: entity.StepComplete,
		Detail: "LLM combined all signals into structured account plan.",
	})
	return steps
}

func sourcesUsed(ragSnippets []string, webSummary string, includeLLM bool) []string {
	sources := []string{}
	if len(ragSnippets) > 0 {
		sources = append(sources, "rag")
	}
	if webSummary != "" {
		sources = append(sources, "web")
	}
	if includeLLM {
		sources = append(sources, "llm")
	}
	return sources
}

func extractConflicts(data map[string]interface{}) []entity.Conflict {
	raw, ok := data["conflicts"].([]interface{})
	if !ok {
		return nil
	}
	conflicts := make([]entity.Conflict, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		needsDeepDive, _ := entry["needs_deep_dive"].(bool)
		conflicts = append(conflicts, entity.Conflict{
			Topic:         parser.GetString(entry, "topic"),
			Details:       parser.GetString(entry, "details"),
			NeedsDeepDive: needsDeepDive,
		})
	}
	return conflicts
}

func extractKpis(data map[string]interface{}) []entity.KPI {
	raw, ok := data["kpi_summary"].([]interface{})
	if !ok {
		return nil
	}
	kpis := make([]entity.KPI, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		kpis = append(kpis, entity.KPI{
			Name:  parser.GetString(entry, "name"),
			Value: entry["value"],
		})
	}
	return kpis
}

func joinPoints(points []string) string {
	out := ""
	for i, p := range points {
		if i > 0 {
			out += "\n\n"
		}
		out += p
	}
	return out
}

func nowIso() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000") + "Z"
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
