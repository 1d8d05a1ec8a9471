package api

import (
	"encoding/json"

	"github.com/google/uuid"

	"gtm-backend/internal/database"
	"gtm-backend/pkg/api"
)

func convertAccount(profile database.UserProfile) api.Account {
	return api.Account{
		Id:                 profile.Id,
		Email:              profile.Email,
		FullName:           profile.FullName,
		CompanyName:        profile.CompanyName,
		JobTitle:           profile.JobTitle,
		SubscriptionTier:   profile.SubscriptionTier,
		SubscriptionEndsAt: profile.SubscriptionEndsAt,
		CreditsRemaining:   profile.CreditsRemaining,
	}
}

func convertProfile(profile database.BusinessProfile) api.BusinessProfile {
	return api.BusinessProfile{
		Id:               profile.Id,
		BusinessName:     profile.BusinessName,
		Industry:         profile.Industry,
		BusinessModel:    profile.BusinessModel,
		PrimaryChallenge: profile.PrimaryChallenge,
		PrimaryGoal:      profile.PrimaryGoal,
		BudgetRange:      profile.BudgetRange,
		TargetMarket:     profile.TargetMarket,
		AdditionalData:   json.RawMessage(profile.AdditionalData),
		CreatedAt:        profile.CreatedAt,
	}
}

func convertStrategy(st database.GtmStrategy) api.Strategy {
	return api.Strategy{
		Id:                  st.Id,
		BusinessProfileId:   st.BusinessProfileId,
		Title:               st.Title,
		Status:              st.Status,
		ExecutiveSummary:    st.ExecutiveSummary,
		MarketAnalysis:      json.RawMessage(st.MarketAnalysis),
		CompetitiveAnalysis: json.RawMessage(st.CompetitiveAnalysis),
		PositioningStrategy: json.RawMessage(st.PositioningStrategy),
		PricingStrategy:     json.RawMessage(st.PricingStrategy),
		MarketingChannels:   json.RawMessage(st.MarketingChannels),
		SalesStrategy:       json.RawMessage(st.SalesStrategy),
		BudgetAllocation:    json.RawMessage(st.BudgetAllocation),
		Timeline:            json.RawMessage(st.Timeline),
		Kpis:                json.RawMessage(st.Kpis),
		Recommendations:     json.RawMessage(st.Recommendations),
		CreatedAt:           st.CreatedAt,
	}
}

func convertSession(session database.ChatSession) api.Session {
	var strategyId *uuid.UUID
	if session.StrategyId.Valid {
		id := session.StrategyId.UUID
		strategyId = &id
	}
	return api.Session{
		Id:         session.Id,
		StrategyId: strategyId,
		Title:      session.Title,
		CreatedAt:  session.CreatedAt,
		UpdatedAt:  session.UpdatedAt,
	}
}

func convertMessage(msg database.ChatMessage) api.Message {
	return api.Message{
		Id:        msg.Id,
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

func convertUsage(entry database.UsageLog) api.UsageEntry {
	var resourceId *uuid.UUID
	if entry.ResourceId.Valid {
		id := entry.ResourceId.UUID
		resourceId = &id
	}
	return api.UsageEntry{
		Id:           entry.Id,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceId:   resourceId,
		CreditsUsed:  entry.CreditsUsed,
		CreatedAt:    entry.CreatedAt,
	}
}
