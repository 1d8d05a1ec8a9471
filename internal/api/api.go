package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gtm-backend/internal/database"
	"gtm-backend/internal/strategy"
	"gtm-backend/pkg/api"
)

type BackendService struct {
	db  *gorm.DB
	llm strategy.Completer
}

func NewBackendService(db *gorm.DB, llm strategy.Completer) *BackendService {
	return &BackendService{db: db, llm: llm}
}

func (s *BackendService) AddRoutes(r chi.Router) {
	r.Route("/account", func(r chi.Router) {
		r.Get("/", RestHandler(s.GetAccount))
		r.Get("/usage", RestHandler(s.GetUsage))
	})
	r.Route("/profiles", func(r chi.Router) {
		r.Post("/", RestHandler(s.CreateProfile))
		r.Get("/", RestHandler(s.ListProfiles))
		r.Get("/{profile_id}", RestHandler(s.GetProfile))
	})
	r.Route("/strategies", func(r chi.Router) {
		r.Post("/generate", RestHandler(s.GenerateStrategy))
		r.Get("/", RestHandler(s.ListStrategies))
		r.Get("/{strategy_id}", RestHandler(s.GetStrategy))
		r.Post("/{strategy_id}/archive", RestHandler(s.ArchiveStrategy))
	})
}

func (s *BackendService) GetAccount(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	profile, err := database.GetUserProfile(r.Context(), s.db, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "user profile not found")
		}
		slog.Error("error getting user profile", "user_id", userId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving user profile")
	}

	return convertAccount(profile), nil
}

func (s *BackendService) GetUsage(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	query, err := ParseRequestQueryParams[api.ListQuery](r)
	if err != nil {
		return nil, err
	}
	limit := query.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var entries []database.UsageLog
	if err := s.db.WithContext(r.Context()).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Limit(limit).
		Offset(query.Offset).
		Find(&entries).Error; err != nil {
		slog.Error("error listing usage logs", "user_id", userId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving usage logs")
	}

	usage := make([]api.UsageEntry, 0, len(entries))
	for _, entry := range entries {
		usage = append(usage, convertUsage(entry))
	}
	return usage, nil
}

func (s *BackendService) CreateProfile(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.CreateProfileRequest](r)
	if err != nil {
		return nil, err
	}

	if req.BusinessName == "" || req.Industry == "" || req.BusinessModel == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "missing required fields: business_name, industry, business_model")
	}

	profile := database.BusinessProfile{
		Id:               uuid.New(),
		UserId:           userId,
		BusinessName:     req.BusinessName,
		Industry:         req.Industry,
		BusinessModel:    req.BusinessModel,
		PrimaryChallenge: req.PrimaryChallenge,
		PrimaryGoal:      req.PrimaryGoal,
		BudgetRange:      req.BudgetRange,
		TargetMarket:     req.TargetMarket,
		AdditionalData:   datatypes.JSON(req.AdditionalData),
	}

	if err := s.db.WithContext(r.Context()).Create(&profile).Error; err != nil {
		slog.Error("error creating business profile", "user_id", userId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to create business profile")
	}

	return convertProfile(profile), nil
}

func (s *BackendService) ListProfiles(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	var rows []database.BusinessProfile
	if err := s.db.WithContext(r.Context()).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		slog.Error("error listing business profiles", "user_id", userId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving business profiles")
	}

	profiles := make([]api.BusinessProfile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, convertProfile(row))
	}
	return profiles, nil
}

func (s *BackendService) GetProfile(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	profileId, err := URLParamUUID(r, "profile_id")
	if err != nil {
		return nil, err
	}

	var profile database.BusinessProfile
	if err := s.db.WithContext(r.Context()).
		First(&profile, "id = ? AND user_id = ?", profileId, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "business profile not found")
		}
		slog.Error("error getting business profile", "profile_id", profileId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving business profile")
	}

	return convertProfile(profile), nil
}

func (s *BackendService) ListStrategies(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	var rows []database.GtmStrategy
	if err := s.db.WithContext(r.Context()).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		slog.Error("error listing strategies", "user_id", userId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving strategies")
	}

	strategies := make([]api.Strategy, 0, len(rows))
	for _, row := range rows {
		strategies = append(strategies, convertStrategy(row))
	}
	return strategies, nil
}

func (s *BackendService) GetStrategy(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	strategyId, err := URLParamUUID(r, "strategy_id")
	if err != nil {
		return nil, err
	}

	var st database.GtmStrategy
	if err := s.db.WithContext(r.Context()).
		First(&st, "id = ? AND user_id = ?", strategyId, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "strategy not found")
		}
		slog.Error("error getting strategy", "strategy_id", strategyId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving strategy")
	}

	return convertStrategy(st), nil
}

// ArchiveStrategy is the one permitted mutation of a completed strategy.
func (s *BackendService) ArchiveStrategy(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	strategyId, err := URLParamUUID(r, "strategy_id")
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(r.Context()).
		Model(&database.GtmStrategy{}).
		Where("id = ? AND user_id = ?", strategyId, userId).
		Updates(map[string]any{"status": database.StrategyArchived, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		slog.Error("error archiving strategy", "strategy_id", strategyId, "error", res.Error)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to archive strategy")
	}
	if res.RowsAffected == 0 {
		return nil, CodedErrorf(http.StatusNotFound, "strategy not found")
	}

	return nil, nil
}
