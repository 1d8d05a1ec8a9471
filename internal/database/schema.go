package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TierStarter      string = "starter"
	TierProfessional string = "professional"
	TierEnterprise   string = "enterprise"
)

type UserProfile struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Email       string `gorm:"not null;uniqueIndex"`
	FullName    string
	CompanyName string
	JobTitle    string

	SubscriptionTier   string `gorm:"size:20;not null;default:starter"`
	SubscriptionEndsAt *time.Time
	CreditsRemaining   int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type BusinessProfile struct {
	Id     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId uuid.UUID `gorm:"type:uuid;not null;index"`

	BusinessName     string `gorm:"not null"`
	Industry         string `gorm:"not null"`
	BusinessModel    string `gorm:"not null"`
	PrimaryChallenge string
	PrimaryGoal      string
	BudgetRange      string
	TargetMarket     string

	AdditionalData datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	StrategyDraft     string = "draft"
	StrategyCompleted string = "completed"
	StrategyArchived  string = "archived"
)

// GtmStrategy rows are immutable after creation except for the archive
// transition on Status.
type GtmStrategy struct {
	Id     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId uuid.UUID `gorm:"type:uuid;not null;index"`

	BusinessProfileId uuid.UUID        `gorm:"type:uuid;not null"`
	BusinessProfile   *BusinessProfile `gorm:"foreignKey:BusinessProfileId"`

	Title  string `gorm:"not null"`
	Status string `gorm:"size:20;not null;default:draft"`

	ExecutiveSummary    string
	MarketAnalysis      datatypes.JSON `gorm:"type:jsonb"`
	CompetitiveAnalysis datatypes.JSON `gorm:"type:jsonb"`
	PositioningStrategy datatypes.JSON `gorm:"type:jsonb"`
	PricingStrategy     datatypes.JSON `gorm:"type:jsonb"`
	MarketingChannels   datatypes.JSON `gorm:"type:jsonb"`
	SalesStrategy       datatypes.JSON `gorm:"type:jsonb"`
	BudgetAllocation    datatypes.JSON `gorm:"type:jsonb"`
	Timeline            datatypes.JSON `gorm:"type:jsonb"`
	Kpis                datatypes.JSON `gorm:"type:jsonb"`
	Recommendations     datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ChatSession struct {
	Id     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId uuid.UUID `gorm:"type:uuid;not null;index"`

	StrategyId uuid.NullUUID `gorm:"type:uuid"`
	Strategy   *GtmStrategy  `gorm:"foreignKey:StrategyId"`

	Title string

	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	RoleUser      string = "user"
	RoleAssistant string = "assistant"
)

type ChatMessage struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId uuid.UUID `gorm:"type:uuid;not null;index"`

	Role    string `gorm:"size:20;not null"`
	Content string `gorm:"not null"`

	CreatedAt time.Time
}

type UsageLog struct {
	Id     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId uuid.UUID `gorm:"type:uuid;not null;index"`

	Action       string `gorm:"not null"`
	ResourceType string
	ResourceId   uuid.NullUUID `gorm:"type:uuid"`
	CreditsUsed  int           `gorm:"not null;default:0"`

	CreatedAt time.Time
}
