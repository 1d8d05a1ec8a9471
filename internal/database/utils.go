package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInsufficientCredits is returned by ConsumeCredit when the caller's balance
// is already zero. Callers inside a transaction must roll back on it.
var ErrInsufficientCredits = errors.New("insufficient credits")

// ConsumeCredit applies an atomic decrement-if-positive on the user's balance.
// The check and the write are a single conditional UPDATE, so two overlapping
// requests holding one credit between them can never both succeed.
func ConsumeCredit(ctx context.Context, txn *gorm.DB, userId uuid.UUID) error {
	res := txn.WithContext(ctx).
		Model(&UserProfile{}).
		Where("id = ? AND credits_remaining > 0", userId).
		UpdateColumn("credits_remaining", gorm.Expr("credits_remaining - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientCredits
	}
	return nil
}

func GetUserProfile(ctx context.Context, db *gorm.DB, userId uuid.UUID) (UserProfile, error) {
	var profile UserProfile
	err := db.WithContext(ctx).First(&profile, "id = ?", userId).Error
	return profile, err
}

func LogUsage(ctx context.Context, txn *gorm.DB, userId uuid.UUID, action, resourceType string, resourceId uuid.UUID, credits int) error {
	entry := UsageLog{
		Id:           uuid.New(),
		UserId:       userId,
		Action:       action,
		ResourceType: resourceType,
		ResourceId:   uuid.NullUUID{UUID: resourceId, Valid: resourceId != uuid.Nil},
		CreditsUsed:  credits,
	}
	return txn.WithContext(ctx).Create(&entry).Error
}

func TouchSession(ctx context.Context, txn *gorm.DB, sessionId uuid.UUID) error {
	return txn.WithContext(ctx).
		Model(&ChatSession{Id: sessionId}).
		Update("updated_at", time.Now().UTC()).Error
}
