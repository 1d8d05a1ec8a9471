package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gtm-backend/internal/chat"
	"gtm-backend/internal/database"
	"gtm-backend/pkg/api"
)

type ConsultService struct {
	db  *gorm.DB
	llm chat.Model
}

func NewConsultService(db *gorm.DB, llm chat.Model) *ConsultService {
	return &ConsultService{db: db, llm: llm}
}

func (s *ConsultService) AddRoutes(r chi.Router) {
	r.Route("/consult", func(r chi.Router) {
		r.Post("/", RestHandler(s.Consult))
		r.Get("/sessions", RestHandler(s.GetSessions))
		r.Get("/sessions/{session_id}/messages", RestHandler(s.GetMessages))
	})
}

// Consult handles one consultation turn. A missing session id starts a new
// session, optionally grounded on a strategy; the transcript is only written
// after the model call succeeds.
func (s *ConsultService) Consult(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.ConsultRequest](r)
	if err != nil {
		return nil, err
	}
	if req.Message == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "missing required field: message")
	}

	ctx := r.Context()

	var session database.ChatSession
	if req.SessionId != nil {
		session, err = chat.GetSession(ctx, s.db, *req.SessionId, userId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, CodedErrorf(http.StatusNotFound, "chat session not found")
			}
			slog.Error("error getting chat session", "session_id", *req.SessionId, "error", err)
			return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving chat session")
		}
	} else {
		session = database.ChatSession{
			Id:     uuid.New(),
			UserId: userId,
			Title:  "AI Consultation",
		}
		if req.StrategyId != nil {
			session.StrategyId = uuid.NullUUID{UUID: *req.StrategyId, Valid: true}
		}
		if err := chat.CreateSession(ctx, s.db, &session); err != nil {
			slog.Error("error creating chat session", "user_id", userId, "error", err)
			return nil, CodedErrorf(http.StatusInternalServerError, "failed to create chat session")
		}
	}

	strategyContext, err := s.strategyContext(r, session, req.StrategyId)
	if err != nil {
		return nil, err
	}

	consult := chat.NewConsultSession(s.db, session, s.llm, strategyContext)
	reply, err := consult.Consult(ctx, req.Message)
	if err != nil {
		slog.Error("error running consultation turn", "session_id", session.Id, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to get AI response")
	}

	return api.ConsultResponse{Success: true, Response: reply, SessionId: session.Id}, nil
}

// strategyContext resolves the strategy grounding for a turn: an explicit
// strategy id on the request wins over the session's stored link. A dangling
// reference yields no context rather than an error.
func (s *ConsultService) strategyContext(r *http.Request, session database.ChatSession, requested *uuid.UUID) (string, error) {
	userId, err := UserId(r)
	if err != nil {
		return "", err
	}

	strategyId := uuid.Nil
	if requested != nil {
		strategyId = *requested
	} else if session.StrategyId.Valid {
		strategyId = session.StrategyId.UUID
	}
	if strategyId == uuid.Nil {
		return "", nil
	}

	var st database.GtmStrategy
	if err := s.db.WithContext(r.Context()).
		First(&st, "id = ? AND user_id = ?", strategyId, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		slog.Error("error getting strategy for consultation context", "strategy_id", strategyId, "error", err)
		return "", CodedErrorf(http.StatusInternalServerError, "error retrieving strategy")
	}

	return chat.StrategyContext(st), nil
}

func (s *ConsultService) GetSessions(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	rows, err := chat.GetSessions(r.Context(), s.db, userId)
	if err != nil {
		slog.Error("error listing chat sessions", "user_id", userId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving chat sessions")
	}

	sessions := make([]api.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, convertSession(row))
	}
	return sessions, nil
}

func (s *ConsultService) GetMessages(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	sessionId, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	if _, err := chat.GetSession(r.Context(), s.db, sessionId, userId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "chat session not found")
		}
		slog.Error("error getting chat session", "session_id", sessionId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving chat session")
	}

	rows, err := chat.GetMessages(r.Context(), s.db, sessionId)
	if err != nil {
		slog.Error("error listing chat messages", "session_id", sessionId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving chat messages")
	}

	messages := make([]api.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, convertMessage(row))
	}
	return messages, nil
}
