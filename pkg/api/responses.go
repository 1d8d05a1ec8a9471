package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Account struct {
	Id                 uuid.UUID  `json:"id"`
	Email              string     `json:"email"`
	FullName           string     `json:"full_name,omitempty"`
	CompanyName        string     `json:"company_name,omitempty"`
	JobTitle           string     `json:"job_title,omitempty"`
	SubscriptionTier   string     `json:"subscription_tier"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
	CreditsRemaining   int        `json:"credits_remaining"`
}

type BusinessProfile struct {
	Id               uuid.UUID       `json:"id"`
	BusinessName     string          `json:"business_name"`
	Industry         string          `json:"industry"`
	BusinessModel    string          `json:"business_model"`
	PrimaryChallenge string          `json:"primary_challenge,omitempty"`
	PrimaryGoal      string          `json:"primary_goal,omitempty"`
	BudgetRange      string          `json:"budget_range,omitempty"`
	TargetMarket     string          `json:"target_market,omitempty"`
	AdditionalData   json.RawMessage `json:"additional_data,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

type Strategy struct {
	Id                uuid.UUID `json:"id"`
	BusinessProfileId uuid.UUID `json:"business_profile_id"`
	Title             string    `json:"title"`
	Status            string    `json:"status"`

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

	CreatedAt time.Time `json:"created_at"`
}

type GenerateStrategyResponse struct {
	Success          bool     `json:"success"`
	Strategy         Strategy `json:"strategy"`
	CreditsRemaining int      `json:"credits_remaining"`
}

type ConsultResponse struct {
	Success   bool      `json:"success"`
	Response  string    `json:"response"`
	SessionId uuid.UUID `json:"session_id"`
}

type Session struct {
	Id         uuid.UUID  `json:"id"`
	StrategyId *uuid.UUID `json:"strategy_id,omitempty"`
	Title      string     `json:"title"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type Message struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type UsageEntry struct {
	Id           uuid.UUID  `json:"id"`
	Action       string     `json:"action"`
	ResourceType string     `json:"resource_type,omitempty"`
	ResourceId   *uuid.UUID `json:"resource_id,omitempty"`
	CreditsUsed  int        `json:"credits_used"`
	CreatedAt    time.Time  `json:"created_at"`
}
