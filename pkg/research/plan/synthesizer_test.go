package plan

import (
	"strings"
	"testing"

	"company-research-be/internal/entity"
)

func TestSynthesizeFallback(t *testing.T) {
	raw := "not json"

	got, conflicts := Synthesize(raw, "Acme Corp", entity.DepthQuickSummary, nil, "")

	if conflicts != nil {
		t.Errorf("conflicts = %v, want nil on parse failure", conflicts)
	}
	if !strings.HasPrefix(got.Overview, "Acme Corp") {
		t.Errorf("Overview = %q, want prefix %q", got.Overview, "Acme Corp")
	}
	if !strings.Contains(got.Overview, raw) {
		t.Errorf("Overview = %q, want raw text included", got.Overview)
	}
	if len(got.Sections) != 1 {
		t.Fatalf("Sections count = %d, want 1", len(got.Sections))
	}
	if got.Sections[0].Title != "Full Research Output" {
		t.Errorf("Section title = %q, want %q", got.Sections[0].Title, "Full Research Output")
	}
	if got.Sections[0].Content != raw {
		t.Errorf("Section content = %q, want full raw text", got.Sections[0].Content)
	}
	if got.Metadata.ConfidenceScore != 0.0 {
		t.Errorf("ConfidenceScore = %v, want 0.0", got.Metadata.ConfidenceScore)
	}
	if got.Metadata.ConflictsDetected {
		t.Error("ConflictsDetected = true, want false")
	}
}

func TestSynthesizeFallbackTruncatesOverview(t *testing.T) {
	raw := strings.Repeat("x", 900)
	got, _ := Synthesize(raw, "Acme Corp", entity.DepthQuickSummary, nil, "")

	wantPrefix := "Acme Corp – Executive Snapshot:\n\n"
	if !strings.HasPrefix(got.Overview, wantPrefix) {
		t.Fatalf("Overview prefix = %q", got.Overview[:40])
	}
	if body := strings.TrimPrefix(got.Overview, wantPrefix); len(body) != 700 {
		t.Errorf("overview body length = %d, want 700", len(body))
	}
}

func TestSynthesizeStructured(t *testing.T) {
	raw := `{
		"overview": "A summary.",
		"company_profile": "Profile text.",
		"market_analysis": "Market text.",
		"financial_highlights": "Financial text.",
		"product_portfolio": "Product text.",
		"technology_stack": "Tech text.",
		"competitors": "Competitor text.",
		"swot": "SWOT text.",
		"risks": "Risk text.",
		"opportunities_points": ["First one.", "Second one."],
		"plan_table": [{"period": "30 days", "focus": "Launch", "metric": "Meetings"}],
		"swot_radar_scores": {"Strength": 9, "Weakness": 4, "Opportunity": 8, "Threat": 6},
		"competitor_chart_data": [{"name": "Rival", "share_percent": 60.0}],
		"kpi_summary": [{"name": "Revenue", "value": 12.5}],
		"conflicts": [{"topic": "Revenue", "details": "Sources disagree.", "needs_deep_dive": true}],
		"confidence_score": 0.86
	}`

	got, conflicts := Synthesize(raw, "Acme Corp", entity.DepthDeepResearch, []string{"chunk"}, "web summary")

	if len(conflicts) != 1 || conflicts[0].Topic != "Revenue" || !conflicts[0].NeedsDeepDive {
		t.Fatalf("conflicts = %+v, want one Revenue conflict", conflicts)
	}
	if got.Overview != "A summary." {
		t.Errorf("Overview = %q", got.Overview)
	}
	if got.Opportunities != "First one.\n\nSecond one." {
		t.Errorf("Opportunities = %q", got.Opportunities)
	}
	if len(got.Sections) != 10 {
		t.Fatalf("Sections count = %d, want 10", len(got.Sections))
	}

	wantSections := map[string]string{
		"Company Profile":      "Profile text.",
		"Market Analysis":      "Market text.",
		"Financial Highlights": "Financial text.",
		"Product Portfolio":    "Product text.",
		"Technology Stack":     "Tech text.",
		"Competitors":          "Competitor text.",
		"SWOT Analysis":        "SWOT text.",
		"Opportunities":        "First one.\n\nSecond one.",
		"Risks":                "Risk text.",
	}
	for title, content := range wantSections {
		section := got.Section(title)
		if section == nil {
			t.Errorf("missing section %q", title)
			continue
		}
		if section.Content != content {
			t.Errorf("section %q content = %q, want %q", title, section.Content, content)
		}
	}

	if section := got.Section("30-60-90 Day Plan"); section == nil || section.Content == "" {
		t.Error("30-60-90 Day Plan section missing or empty")
	}
	if got.AccountPlan306090 == "" {
		t.Error("AccountPlan306090 is empty, want fixed table summary")
	}

	if got.Metadata.ConfidenceScore != 0.86 {
		t.Errorf("ConfidenceScore = %v, want 0.86", got.Metadata.ConfidenceScore)
	}
	if !got.Metadata.ConflictsDetected {
		t.Error("ConflictsDetected = false, want true")
	}
	wantSources := []string{"rag", "web", "llm"}
	if len(got.Metadata.SourcesUsed) != len(wantSources) {
		t.Fatalf("SourcesUsed = %v, want %v", got.Metadata.SourcesUsed, wantSources)
	}
	for i, s := range wantSources {
		if got.Metadata.SourcesUsed[i] != s {
			t.Errorf("SourcesUsed[%d] = %q, want %q", i, got.Metadata.SourcesUsed[i], s)
		}
	}

	if _, ok := got.ChartData(entity.SourceCompetitorChartData); !ok {
		t.Error("competitor chart data missing from Sources")
	}
	if _, ok := got.ChartData(entity.SourceSwotRadarScores); !ok {
		t.Error("swot radar scores missing from Sources")
	}
	if len(got.KpiSummary) != 1 || got.KpiSummary[0].Name != "Revenue" {
		t.Errorf("KpiSummary = %+v", got.KpiSummary)
	}
}

func TestSynthesizeOverviewFromProfileWhenMissing(t *testing.T) {
	raw := `{"company_profile": "` + strings.Repeat("z", 450) + `", "market_analysis": "market body"}`

	got, _ := Synthesize(raw, "Acme Corp", entity.DepthQuickSummary, nil, "")

	if !strings.HasPrefix(got.Overview, "Acme Corp – Executive Snapshot:") {
		t.Fatalf("Overview = %q", got.Overview)
	}
	if strings.Count(got.Overview, "z") != 400 {
		t.Errorf("profile part not truncated to 400, overview length %d", len(got.Overview))
	}
	if !strings.Contains(got.Overview, "market body") {
		t.Error("overview missing market analysis text")
	}
}

func TestSynthesizeConfidenceCoercion(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"numeric string", `{"overview": "x", "confidence_score": "0.5"}`, 0.5},
		{"garbage string", `{"overview": "x", "confidence_score": "high"}`, 0.0},
		{"missing", `{"overview": "x"}`, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Synthesize(tt.raw, "Acme Corp", entity.DepthQuickSummary, nil, "")
			if got.Metadata.ConfidenceScore != tt.want {
				t.Errorf("ConfidenceScore = %v, want %v", got.Metadata.ConfidenceScore, tt.want)
			}
		})
	}
}
