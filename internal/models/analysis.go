package models

import "time"

// Level grades complexity and competition on a three-step scale.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// CostRange is an estimated cost bracket. Low <= High whenever present.
type CostRange struct {
	Low        float64 `json:"low"`
	High       float64 `json:"high"`
	Confidence float64 `json:"confidence"`
}

// OpportunityAnalysis is the AI-generated assessment of a permit as a lead for
// a given contractor. Derived and ephemeral; recomputed on every call.
type OpportunityAnalysis struct {
	OpportunityScore     float64    `json:"opportunity_score"`
	ComplexityScore      float64    `json:"complexity_score"`
	RiskFactors          []string   `json:"risk_factors"`
	ProjectComplexity    Level      `json:"project_complexity"`
	CompetitionLevel     Level      `json:"competition_level"`
	TimelineEstimateDays int        `json:"timeline_estimate_days"`
	KeyRequirements      []string   `json:"key_requirements,omitempty"`
	Recommendations      []string   `json:"recommendations"`
	CostRange            *CostRange `json:"cost_range,omitempty"`
}

// EnrichedPermit is a permit plus its analysis. Never mutated after
// construction and never cached across calls.
type EnrichedPermit struct {
	Permit
	Analysis     OpportunityAnalysis `json:"analysis"`
	AnalysisDate time.Time           `json:"analysis_date"`
}

// CostEstimate is the result of the cost-estimation prompt.
type CostEstimate struct {
	Low         float64  `json:"low"`
	High        float64  `json:"high"`
	Confidence  float64  `json:"confidence"`
	CostDrivers []string `json:"cost_drivers,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// ProfileMatch is the result of the profile-match prompt: how well a
// contractor's capabilities line up with a specific permit.
type ProfileMatch struct {
	MatchScore     float64  `json:"match_score"`
	Strengths      []string `json:"strengths,omitempty"`
	Gaps           []string `json:"gaps,omitempty"`
	Recommendation string   `json:"recommendation"`
}

// ContractorActivity is one row of the market-intelligence contractor
// leaderboard.
type ContractorActivity struct {
	Name        string `json:"name"`
	PermitCount int    `json:"permit_count"`
}

// MarketIntelligence is a local reduction over a fetched permit window.
// No AI involved. When no permits match the window, DataAvailable is false
// and the numeric fields are zero; callers check the flag, not an error.
type MarketIntelligence struct {
	City             string               `json:"city"`
	State            string               `json:"state"`
	Window           string               `json:"window"`
	PermitCount      int                  `json:"permit_count"`
	TotalValuation   float64              `json:"total_valuation"`
	AverageValuation float64              `json:"average_valuation"`
	MostCommonType   string               `json:"most_common_type"`
	TypeHistogram    map[string]int       `json:"type_histogram"`
	TopContractors   []ContractorActivity `json:"top_contractors"`
	DataAvailable    bool                 `json:"data_available"`
	Message          string               `json:"message,omitempty"`
}
