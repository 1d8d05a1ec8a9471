package strategy

import (
	"fmt"
	"strings"

	"gtm-backend/internal/database"
)

// SystemPrompt frames the model as a GTM consultant for generation calls.
const SystemPrompt = "You are an expert business consultant specializing in go-to-market strategies. Provide detailed, actionable, and data-driven recommendations."

// BuildPrompt renders the generation prompt for a business profile. The output
// is deterministic for a given profile; the section outline is fixed so the
// model's JSON keys line up with the gtm_strategies columns.
func BuildPrompt(profile database.BusinessProfile) string {
	var b strings.Builder

	b.WriteString("Generate a comprehensive Go-to-Market (GTM) strategy for the following business:\n\n")
	fmt.Fprintf(&b, "Business Name: %s\n", profile.BusinessName)
	fmt.Fprintf(&b, "Industry: %s\n", profile.Industry)
	fmt.Fprintf(&b, "Business Model: %s\n", profile.BusinessModel)
	fmt.Fprintf(&b, "Primary Challenge: %s\n", profile.PrimaryChallenge)
	fmt.Fprintf(&b, "Primary Goal: %s\n", profile.PrimaryGoal)
	fmt.Fprintf(&b, "Budget Range: %s\n", profile.BudgetRange)
	fmt.Fprintf(&b, "Target Market: %s\n", profile.TargetMarket)

	b.WriteString(`
Please provide a detailed strategy including:
1. Executive Summary
2. Market Analysis
3. Competitive Analysis
4. Positioning Strategy
5. Pricing Strategy
6. Marketing Channels
7. Sales Strategy
8. Budget Allocation
9. Timeline (90-day plan)
10. Key Performance Indicators (KPIs)
11. Recommendations

Format the response as a structured JSON object with these sections.
`)

	return b.String()
}
