package api

import (
	"encoding/json"

	"github.com/google/uuid"
)

type CreateProfileRequest struct {
	BusinessName     string          `json:"business_name"`
	Industry         string          `json:"industry"`
	BusinessModel    string          `json:"business_model"`
	PrimaryChallenge string          `json:"primary_challenge"`
	PrimaryGoal      string          `json:"primary_goal"`
	BudgetRange      string          `json:"budget_range"`
	TargetMarket     string          `json:"target_market"`
	AdditionalData   json.RawMessage `json:"additional_data,omitempty"`
}

type GenerateStrategyRequest struct {
	BusinessProfileId uuid.UUID `json:"business_profile_id"`
}

type ConsultRequest struct {
	Message    string     `json:"message"`
	SessionId  *uuid.UUID `json:"session_id,omitempty"`
	StrategyId *uuid.UUID `json:"strategy_id,omitempty"`
}

type ListQuery struct {
	Limit  int `schema:"limit"`
	Offset int `schema:"offset"`
}
