package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	backend "gtm-backend/internal/api"
	"gtm-backend/internal/auth"
	"gtm-backend/internal/database"
	"gtm-backend/pkg/api"
)

const testSecret = "test-secret"

func createDB(t *testing.T, create ...any) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, database.GetMigrator(db).Migrate())

	for _, c := range create {
		require.NoError(t, db.Create(c).Error)
	}

	return db
}

type fakeCompleter struct {
	content string
	err     error

	calls      int
	lastSystem string
	lastPrompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastPrompt = userPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

type fakeChatModel struct {
	reply string
	err   error

	received [][]llms.MessageContent
}

func (f *fakeChatModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.received = append(f.received, messages)
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func newRouter(db *gorm.DB, llm *fakeCompleter, chatModel *fakeChatModel) chi.Router {
	router := chi.NewRouter()
	router.Use(backend.AuthMiddleware(testSecret))
	backend.NewBackendService(db, llm).AddRoutes(router)
	backend.NewConsultService(db, chatModel).AddRoutes(router)
	return router
}

func doRequest(t *testing.T, router chi.Router, method, url string, payload any, userId uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	if userId != uuid.Nil {
		token, err := auth.GenerateToken(testSecret, userId, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "received response: "+rec.Body.String())
	return out
}

func TestMissingTokenRejected(t *testing.T) {
	db := createDB(t)
	router := newRouter(db, &fakeCompleter{}, &fakeChatModel{})

	rec := doRequest(t, router, http.MethodGet, "/account", nil, uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInvalidTokenRejected(t *testing.T) {
	db := createDB(t)
	router := newRouter(db, &fakeCompleter{}, &fakeChatModel{})

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetAccount(t *testing.T) {
	userId := uuid.New()
	db := createDB(t, &database.UserProfile{
		Id:               userId,
		Email:            "founder@acme.com",
		FullName:         "Ada Founder",
		SubscriptionTier: database.TierProfessional,
		CreditsRemaining: 7,
	})
	router := newRouter(db, &fakeCompleter{}, &fakeChatModel{})

	rec := doRequest(t, router, http.MethodGet, "/account", nil, userId)
	assert.Equal(t, http.StatusOK, rec.Code)

	account := decode[api.Account](t, rec)
	assert.Equal(t, userId, account.Id)
	assert.Equal(t, "founder@acme.com", account.Email)
	assert.Equal(t, database.TierProfessional, account.SubscriptionTier)
	assert.Equal(t, 7, account.CreditsRemaining)
}

func TestCreateAndGetProfile(t *testing.T) {
	userId := uuid.New()
	db := createDB(t, &database.UserProfile{Id: userId, Email: "founder@acme.com", CreditsRemaining: 3})
	router := newRouter(db, &fakeCompleter{}, &fakeChatModel{})

	payload := api.CreateProfileRequest{
		BusinessName:     "Acme",
		Industry:         "technology",
		BusinessModel:    "b2b_saas",
		PrimaryChallenge: "low conversion",
		PrimaryGoal:      "grow ARR",
		BudgetRange:      "10k-50k",
		TargetMarket:     "mid-market ops teams",
	}
	rec := doRequest(t, router, http.MethodPost, "/profiles", payload, userId)
	assert.Equal(t, http.StatusOK, rec.Code, "received response: "+rec.Body.String())

	created := decode[api.BusinessProfile](t, rec)
	assert.NotEqual(t, uuid.Nil, created.Id)
	assert.Equal(t, "Acme", created.BusinessName)

	rec = doRequest(t, router, http.MethodGet, "/profiles/"+created.Id.String(), nil, userId)
	assert.Equal(t, http.StatusOK, rec.Code)
	fetched := decode[api.BusinessProfile](t, rec)
	assert.Equal(t, created.Id, fetched.Id)
	assert.Equal(t, "10k-50k", fetched.BudgetRange)
}

func TestCreateProfileMissingFields(t *testing.T) {
	userId := uuid.New()
	db := createDB(t, &database.UserProfile{Id: userId, Email: "founder@acme.com"})
	router := newRouter(db, &fakeCompleter{}, &fakeChatModel{})

	rec := doRequest(t, router, http.MethodPost, "/profiles", api.CreateProfileRequest{Industry: "technology"}, userId)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfilesScopedToCaller(t *testing.T) {
	owner, other := uuid.New(), uuid.New()
	profileId := uuid.New()
	db := createDB(t,
		&database.UserProfile{Id: owner, Email: "owner@acme.com"},
		&database.UserProfile{Id: other, Email: "other@acme.com"},
		&database.BusinessProfile{Id: profileId, UserId: owner, BusinessName: "Acme", Industry: "technology", BusinessModel: "b2b_saas"},
	)
	router := newRouter(db, &fakeCompleter{}, &fakeChatModel{})

	rec := doRequest(t, router, http.MethodGet, "/profiles/"+profileId.String(), nil, other)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/profiles", nil, other)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]api.BusinessProfile](t, rec))
}

func TestListProfilesNewestFirst(t *testing.T) {
	userId := uuid.New()
	now := time.Now().UTC()
	db := createDB(t,
		&database.UserProfile{Id: userId, Email: "founder@acme.com"},
		&database.BusinessProfile{Id: uuid.New(), UserId: userId, BusinessName: "Old", Industry: "retail", BusinessModel: "d2c", CreatedAt: now.Add(-time.Hour)},
		&database.BusinessProfile{Id: uuid.New(), UserId: userId, BusinessName: "New", Industry: "retail", BusinessModel: "d2c", CreatedAt: now},
	)
	router := newRouter(db, &fakeCompleter{}, &fakeChatModel{})

	rec := doRequest(t, router, http.MethodGet, "/profiles", nil, userId)
	assert.Equal(t, http.StatusOK, rec.Code)

	profiles := decode[[]api.BusinessProfile](t, rec)
	require.Len(t, profiles, 2)
	assert.Equal(t, "New", profiles[0].BusinessName)
	assert.Equal(t, "Old", profiles[1].BusinessName)
}

func TestGetUsage(t *testing.T) {
	userId := uuid.New()
	now := time.Now().UTC()
	db := createDB(t,
		&database.UserProfile{Id: userId, Email: "founder@acme.com"},
		&database.UsageLog{Id: uuid.New(), UserId: userId, Action: "generate_gtm_strategy", ResourceType: "gtm_strategy", CreditsUsed: 1, CreatedAt: now.Add(-time.Minute)},
		&database.UsageLog{Id: uuid.New(), UserId: userId, Action: "generate_gtm_strategy", ResourceType: "gtm_strategy", CreditsUsed: 1, CreatedAt: now},
		&database.UsageLog{Id: uuid.New(), UserId: uuid.New(), Action: "generate_gtm_strategy", CreditsUsed: 1},
	)
	router := newRouter(db, &fakeCompleter{}, &fakeChatModel{})

	rec := doRequest(t, router, http.MethodGet, "/account/usage?limit=10", nil, userId)
	assert.Equal(t, http.StatusOK, rec.Code)

	usage := decode[[]api.UsageEntry](t, rec)
	require.Len(t, usage, 2)
	assert.Equal(t, "generate_gtm_strategy", usage[0].Action)
	assert.True(t, !usage[0].CreatedAt.Before(usage[1].CreatedAt))
}

func TestArchiveStrategy(t *testing.T) {
	userId := uuid.New()
	strategyId := uuid.New()
	db := createDB(t,
		&database.UserProfile{Id: userId, Email: "founder@acme.com"},
		&database.GtmStrategy{Id: strategyId, UserId: userId, BusinessProfileId: uuid.New(), Title: "GTM Strategy for Acme", Status: database.StrategyCompleted},
	)
	router := newRouter(db, &fakeCompleter{}, &fakeChatModel{})

	rec := doRequest(t, router, http.MethodPost, "/strategies/"+strategyId.String()+"/archive", nil, userId)
	assert.Equal(t, http.StatusOK, rec.Code)

	var st database.GtmStrategy
	require.NoError(t, db.First(&st, "id = ?", strategyId).Error)
	assert.Equal(t, database.StrategyArchived, st.Status)

	// Another caller cannot archive it.
	rec = doRequest(t, router, http.MethodPost, "/strategies/"+strategyId.String()+"/archive", nil, uuid.New())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
