package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionTier string

const (
	TierFree     SubscriptionTier = "free"
	TierPro      SubscriptionTier = "pro"
	TierBusiness SubscriptionTier = "business"
)

// Free tier accounts get one analysis.
const DefaultCredits = 1

func ParseSubscriptionTier(s string) (SubscriptionTier, bool) {
	t := SubscriptionTier(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierFree, TierPro, TierBusiness:
		return true
	}
	return false
}

type User struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string           `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	HashedPassword   string           `gorm:"column:hashed_password;type:varchar(255);not null" json:"-"`
	FullName         string           `gorm:"column:full_name;type:varchar(255)" json:"full_name"`
	SubscriptionTier SubscriptionTier `gorm:"column:subscription_tier;type:varchar(20);not null;default:'free'" json:"subscription_tier"`
	CreditsRemaining int              `gorm:"column:credits_remaining;not null" json:"credits_remaining"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// New returns a user with the account defaults applied.
func New(email, hashedPassword, fullName string) *User {
	return &User{
		Email:            email,
		HashedPassword:   hashedPassword,
		FullName:         fullName,
		SubscriptionTier: TierFree,
		CreditsRemaining: DefaultCredits,
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.SubscriptionTier == "" {
		u.SubscriptionTier = TierFree
	}
	return nil
}
