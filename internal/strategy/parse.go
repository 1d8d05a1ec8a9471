package strategy

import (
	"encoding/json"
)

// Sections holds the eleven named parts of a generated strategy. The executive
// summary is plain text; every other section stays raw JSON so the handler can
// persist it into the corresponding jsonb column unmodified.
type Sections struct {
	ExecutiveSummary    string          `json:"executive_summary"`
	MarketAnalysis      json.RawMessage `json:"market_analysis"`
	CompetitiveAnalysis json.RawMessage `json:"competitive_analysis"`
	PositioningStrategy json.RawMessage `json:"positioning_strategy"`
	PricingStrategy     json.RawMessage `json:"pricing_strategy"`
	MarketingChannels   json.RawMessage `json:"marketing_channels"`
	SalesStrategy       json.RawMessage `json:"sales_strategy"`
	BudgetAllocation    json.RawMessage `json:"budget_allocation"`
	Timeline            json.RawMessage `json:"timeline"`
	Kpis                json.RawMessage `json:"kpis"`
	Recommendations     json.RawMessage `json:"recommendations"`
}

const fallbackSummaryLimit = 500

// ParseSections interprets the model output as a structured strategy. Models
// sometimes answer with prose instead of the requested JSON, and that is not
// an error: when the content does not decode, the named Fallback branch
// provides a usable substitute. The second return reports which branch ran.
func ParseSections(content string) (Sections, bool) {
	var sections Sections
	if err := json.Unmarshal([]byte(content), &sections); err != nil {
		return Fallback(content), false
	}
	return sections, true
}

// Fallback wraps unstructured model output into the fixed section layout: the
// executive summary is a truncated prefix of the raw text and the remaining
// sections are placeholder summaries.
func Fallback(content string) Sections {
	summary := content
	if len(summary) > fallbackSummaryLimit {
		summary = summary[:fallbackSummaryLimit]
	}

	return Sections{
		ExecutiveSummary:    summary + "...",
		MarketAnalysis:      placeholder("Detailed market analysis provided in strategy content"),
		CompetitiveAnalysis: placeholder("Competitive landscape analysis included"),
		PositioningStrategy: placeholder("Strategic positioning recommendations"),
		PricingStrategy:     placeholder("Pricing recommendations based on market research"),
		MarketingChannels:   placeholder("Multi-channel marketing approach"),
		SalesStrategy:       placeholder("Sales process and methodology"),
		BudgetAllocation:    placeholder("Budget distribution across channels"),
		Timeline:            placeholder("90-day implementation roadmap"),
		Kpis:                placeholder("Key metrics to track success"),
		Recommendations:     placeholder("Strategic recommendations for growth"),
	}
}

func placeholder(summary string) json.RawMessage {
	b, _ := json.Marshal(map[string]string{"summary": summary})
	return b
}
