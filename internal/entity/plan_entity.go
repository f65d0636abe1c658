package entity

// ResearchDepth controls how much detail a research run requests from the model
type ResearchDepth string

const (
	DepthQuickSummary    ResearchDepth = "quick_summary"
	DepthDeepResearch    ResearchDepth = "deep_research"
	DepthFullAccountPlan ResearchDepth = "full_account_plan"
)

// StepStatus describes one pipeline stage outcome
type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepRunning  StepStatus = "running"
	StepComplete StepStatus = "complete"
	StepSkipped  StepStatus = "skipped"
	StepError    StepStatus = "error"
)

// ResearchStep is created once per plan and never mutated afterward
type ResearchStep struct {
	Id     string     `json:"id"`
	Label  string     `json:"label"`
	Status StepStatus `json:"status"`
	Detail string     `json:"detail,omitempty"`
}

// ResearchMetadata is immutable once created
type ResearchMetadata struct {
	GeneratedAt       string         `json:"generated_at"`
	Depth             ResearchDepth  `json:"depth"`
	SourcesUsed       []string       `json:"sources_used"`
	Steps             []ResearchStep `json:"steps"`
	ConflictsDetected bool           `json:"conflicts_detected"`
	ConfidenceScore   float64        `json:"confidence_score"`
}

// CompanySection is one UI card. The ordered section list is the
// authoritative editable view of the plan.
type CompanySection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// KPI is one named metric from the model's kpi_summary
type KPI struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// Keys under AccountPlan.Sources for structured chart data
const (
	SourceSwotRadarScores     = "swot_radar_scores"
	SourceCompetitorChartData = "competitor_chart_data"
	SourcePlanTable           = "plan_table"
)

// AccountPlan is the structured research output for one company
type AccountPlan struct {
	CompanyName string        `json:"company_name"`
	Depth       ResearchDepth `json:"depth"`

	// Core narrative pieces
	Overview            string `json:"overview"`
	CompanyProfile      string `json:"company_profile"`
	MarketAnalysis      string `json:"market_analysis"`
	FinancialHighlights string `json:"financial_highlights"`
	ProductPortfolio    string `json:"product_portfolio"`
	TechnologyStack     string `json:"technology_stack"`
	Competitors         string `json:"competitors"`
	Swot                string `json:"swot"`
	Opportunities       string `json:"opportunities"`
	Risks               string `json:"risks"`
	AccountPlan306090   string `json:"account_plan_30_60_90"`

	// For charts / stats (pie, radar, bar)
	KpiSummary []KPI `json:"kpi_summary,omitempty"`

	// Structured chart data keyed by the Source* constants
	Sources map[string]interface{} `json:"sources,omitempty"`

	Metadata *ResearchMetadata `json:"metadata,omitempty"`

	// Flattened list for UI rendering (right column cards)
	Sections []*CompanySection `json:"sections"`
}

// Section returns the display section with the exact title, or nil
func (p *AccountPlan) Section(title string) *CompanySection {
	for _, s := range p.Sections {
		if s.Title == title {
			return s
		}
	}
	return nil
}

// ChartData returns the structured data stored under the given Sources key
func (p *AccountPlan) ChartData(key string) (interface{}, bool) {
	if p.Sources == nil {
		return nil, false
	}
	v, ok := p.Sources[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
