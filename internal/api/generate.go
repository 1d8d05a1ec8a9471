package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gtm-backend/internal/database"
	"gtm-backend/internal/strategy"
	"gtm-backend/pkg/api"
)

// GenerateStrategy runs the full generation flow: credit gate, profile lookup,
// model gateway call, parse-or-fallback, then a single transaction covering
// the strategy insert, the conditional credit decrement, and the usage log
// append. No rows are written before the gateway call succeeds, and a caller
// racing themselves down to zero credits rolls the whole transaction back.
func (s *BackendService) GenerateStrategy(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.GenerateStrategyRequest](r)
	if err != nil {
		return nil, err
	}
	if req.BusinessProfileId == uuid.Nil {
		return nil, CodedErrorf(http.StatusBadRequest, "missing required field: business_profile_id")
	}

	ctx := r.Context()

	// Cheap read gate so a caller with no credits never consumes a model call.
	// The authoritative check is the conditional decrement below.
	account, err := database.GetUserProfile(ctx, s.db, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusForbidden, "insufficient credits")
		}
		slog.Error("error getting user profile", "user_id", userId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving user profile")
	}
	if account.CreditsRemaining <= 0 {
		return nil, CodedErrorf(http.StatusForbidden, "insufficient credits")
	}

	var profile database.BusinessProfile
	if err := s.db.WithContext(ctx).
		First(&profile, "id = ? AND user_id = ?", req.BusinessProfileId, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "business profile not found")
		}
		slog.Error("error getting business profile", "profile_id", req.BusinessProfileId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving business profile")
	}

	content, err := s.llm.Complete(ctx, strategy.SystemPrompt, strategy.BuildPrompt(profile))
	if err != nil {
		slog.Error("error generating strategy", "profile_id", profile.Id, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to generate strategy")
	}

	sections, parsed := strategy.ParseSections(content)
	if !parsed {
		slog.Warn("model output was not structured, using fallback sections", "profile_id", profile.Id)
	}

	row := database.GtmStrategy{
		Id:                  uuid.New(),
		UserId:              userId,
		BusinessProfileId:   profile.Id,
		Title:               fmt.Sprintf("GTM Strategy for %s", profile.BusinessName),
		Status:              database.StrategyCompleted,
		ExecutiveSummary:    sections.ExecutiveSummary,
		MarketAnalysis:      sectionColumn(sections.MarketAnalysis),
		CompetitiveAnalysis: sectionColumn(sections.CompetitiveAnalysis),
		PositioningStrategy: sectionColumn(sections.PositioningStrategy),
		PricingStrategy:     sectionColumn(sections.PricingStrategy),
		MarketingChannels:   sectionColumn(sections.MarketingChannels),
		SalesStrategy:       sectionColumn(sections.SalesStrategy),
		BudgetAllocation:    sectionColumn(sections.BudgetAllocation),
		Timeline:            sectionColumn(sections.Timeline),
		Kpis:                sectionColumn(sections.Kpis),
		Recommendations:     sectionColumn(sections.Recommendations),
	}

	err = s.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := txn.Create(&row).Error; err != nil {
			return err
		}
		if err := database.ConsumeCredit(ctx, txn, userId); err != nil {
			return err
		}
		return database.LogUsage(ctx, txn, userId, "generate_gtm_strategy", "gtm_strategy", row.Id, 1)
	})
	if err != nil {
		if errors.Is(err, database.ErrInsufficientCredits) {
			return nil, CodedErrorf(http.StatusForbidden, "insufficient credits")
		}
		slog.Error("error saving strategy", "profile_id", profile.Id, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to save strategy")
	}

	account, err = database.GetUserProfile(ctx, s.db, userId)
	if err != nil {
		slog.Error("error reloading user profile after generation", "user_id", userId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving user profile")
	}

	slog.Info("generated gtm strategy", "strategy_id", row.Id, "profile_id", profile.Id, "structured", parsed)

	return api.GenerateStrategyResponse{
		Success:          true,
		Strategy:         convertStrategy(row),
		CreditsRemaining: account.CreditsRemaining,
	}, nil
}

// sectionColumn defaults a missing section to an empty object so the jsonb
// columns never hold NULL.
func sectionColumn(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}
