package chat

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gtm-backend/internal/database"
)

// historyWindow caps how many prior messages are replayed as context.
const historyWindow = 20

func GetSessions(ctx context.Context, db *gorm.DB, userId uuid.UUID) ([]database.ChatSession, error) {
	var sessions []database.ChatSession
	err := db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("updated_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func CreateSession(ctx context.Context, db *gorm.DB, session *database.ChatSession) error {
	return db.WithContext(ctx).Create(session).Error
}

func GetSession(ctx context.Context, db *gorm.DB, sessionId, userId uuid.UUID) (database.ChatSession, error) {
	var session database.ChatSession
	err := db.WithContext(ctx).
		First(&session, "id = ? AND user_id = ?", sessionId, userId).Error
	return session, err
}

func GetMessages(ctx context.Context, db *gorm.DB, sessionId uuid.UUID) ([]database.ChatMessage, error) {
	var messages []database.ChatMessage
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// RecentMessages returns up to the historyWindow most recent messages of a
// session in chronological order.
func RecentMessages(ctx context.Context, db *gorm.DB, sessionId uuid.UUID) ([]database.ChatMessage, error) {
	var messages []database.ChatMessage
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Order("created_at DESC").
		Limit(historyWindow).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func SaveMessage(ctx context.Context, db *gorm.DB, message *database.ChatMessage) error {
	return db.WithContext(ctx).Create(message).Error
}
