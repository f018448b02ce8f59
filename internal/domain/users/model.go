package users

import (
	"time"

	"eventsdiscovery/internal/domain/tiers"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User mirrors the account owned by the identity provider. This service
// only ever writes Tier.
type User struct {
	ID    string `gorm:"primaryKey;type:text" json:"id"`
	Name  string `json:"name"`
	Email string `gorm:"index:idx_users_email" json:"email"`
	Role  string `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	Tier tiers.Tier `gorm:"type:text;not null;default:'free'" json:"tier"`

	Metadata map[string]any `gorm:"serializer:json" json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectiveTier treats a missing or unknown stored tier as free.
func (u User) EffectiveTier() tiers.Tier {
	return tiers.Normalize(string(u.Tier))
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
