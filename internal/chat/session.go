package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"gorm.io/gorm"

	"gtm-backend/internal/database"
)

const baseInstructions = `You are an expert AI business consultant specializing in go-to-market strategies.
You provide strategic advice, explain rationale behind recommendations, and help businesses
optimize their market entry and growth strategies. Be concise, actionable, and data-driven.

%s

Guidelines:
- Provide specific, actionable advice
- Reference industry best practices
- Suggest measurable metrics when relevant
- Ask clarifying questions when needed
- Be professional yet approachable`

// Model is the slice of the langchaingo LLM surface the consultation flow
// needs. *openai.LLM satisfies it; tests inject a canned implementation.
type Model interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// ConsultSession handles one consultation turn against a persisted transcript.
type ConsultSession struct {
	db              *gorm.DB
	session         database.ChatSession
	llm             Model
	strategyContext string
}

func NewConsultSession(db *gorm.DB, session database.ChatSession, llm Model, strategyContext string) *ConsultSession {
	return &ConsultSession{
		db:              db,
		session:         session,
		llm:             llm,
		strategyContext: strategyContext,
	}
}

// StrategyContext renders the short strategy summary folded into the system
// instructions when a session is grounded on a generated strategy.
func StrategyContext(st database.GtmStrategy) string {
	return fmt.Sprintf(`Current GTM Strategy Context:
Business: %s
Executive Summary: %s
Primary Goals: %s`, st.Title, st.ExecutiveSummary, string(st.Recommendations))
}

// Consult sends the replayed history plus the new user message to the model
// and appends both sides of the exchange to the transcript. Nothing is
// persisted for the turn if the model call fails.
func (s *ConsultSession) Consult(ctx context.Context, userMessage string) (string, error) {
	history, err := RecentMessages(ctx, s.db, s.session.Id)
	if err != nil {
		return "", fmt.Errorf("error loading chat history: %w", err)
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, fmt.Sprintf(baseInstructions, s.strategyContext)),
	}
	for _, msg := range history {
		role := llms.ChatMessageTypeHuman
		if msg.Role == database.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, msg.Content))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userMessage))

	resp, err := s.llm.GenerateContent(ctx, messages, llms.WithTemperature(0.7), llms.WithMaxTokens(1000))
	if err != nil {
		return "", fmt.Errorf("error calling model gateway: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model gateway returned no choices")
	}
	reply := resp.Choices[0].Content

	if err := SaveMessage(ctx, s.db, &database.ChatMessage{
		Id:        uuid.New(),
		SessionId: s.session.Id,
		Role:      database.RoleUser,
		Content:   userMessage,
	}); err != nil {
		return "", fmt.Errorf("error saving user message: %w", err)
	}

	if err := SaveMessage(ctx, s.db, &database.ChatMessage{
		Id:        uuid.New(),
		SessionId: s.session.Id,
		Role:      database.RoleAssistant,
		Content:   reply,
	}); err != nil {
		return "", fmt.Errorf("error saving assistant message: %w", err)
	}

	if err := database.TouchSession(ctx, s.db, s.session.Id); err != nil {
		return "", fmt.Errorf("error updating session: %w", err)
	}

	return reply, nil
}
