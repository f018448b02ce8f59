package admin

import (
	"context"
	"net/http"
	"time"

	"eventsdiscovery/internal/domain/tiers"
	"eventsdiscovery/internal/domain/users"
	"eventsdiscovery/internal/logging"

	"github.com/gin-gonic/gin"
)

type UserLister interface {
	List(ctx context.Context) ([]users.User, error)
}

type AdminUser struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Tier      tiers.Tier `json:"tier"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Handler struct {
	users UserLister
}

func NewHandler(ul UserLister) *Handler {
	return &Handler{users: ul}
}

func (h *Handler) ListAllUsers(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("list users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	adminUsers := make([]AdminUser, 0, len(list))
	for _, u := range list {
		adminUsers = append(adminUsers, AdminUser{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			Tier:      u.EffectiveTier(),
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, adminUsers)
}
