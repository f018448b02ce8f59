package users

import (
	"time"

	"eventsdiscovery/internal/domain/access"
	"eventsdiscovery/internal/domain/tiers"
	"eventsdiscovery/internal/domain/users"
)

type MeResponse struct {
	User   UserDTO   `json:"user"`
	Access AccessDTO `json:"access"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	Tier      tiers.Tier `json:"tier"`
	CreatedAt time.Time  `json:"created_at"`
}

func BuildUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Tier:      u.EffectiveTier(),
		CreatedAt: u.CreatedAt,
	}
}

/* ---------- ACCESS ---------- */

type AccessDTO struct {
	Tier           tiers.Tier   `json:"tier"`
	AllowedTiers   []tiers.Tier `json:"allowed_tiers"`
	UpgradeOptions []tiers.Tier `json:"upgrade_options"`
	CanUpgrade     bool         `json:"can_upgrade"`
	Capabilities   []string     `json:"capabilities"`
}

func BuildAccessDTO(p access.Policy) AccessDTO {
	return AccessDTO{
		Tier:           p.Tier,
		AllowedTiers:   p.AllowedTiers,
		UpgradeOptions: p.UpgradeOptions,
		CanUpgrade:     p.CanUpgrade(),
		Capabilities:   p.Capabilities,
	}
}

/* ---------- UPGRADE ---------- */

type UpgradeRequest struct {
	ID   string `json:"id" binding:"required"`
	Tier string `json:"tier" binding:"required,tier"`
}

type UpgradeResponse struct {
	User     UserDTO    `json:"user"`
	Tier     tiers.Tier `json:"tier"`
	Previous tiers.Tier `json:"previous"`
	Upgraded bool       `json:"upgraded"`
}
