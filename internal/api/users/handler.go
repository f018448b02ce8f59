package users

import (
	"errors"
	"net/http"

	"eventsdiscovery/internal/app/http/middleware"
	"eventsdiscovery/internal/app/upgrade"
	"eventsdiscovery/internal/domain/access"
	"eventsdiscovery/internal/domain/tiers"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	upgrades *upgrade.Workflow
}

func NewHandler(wf *upgrade.Workflow) *Handler {
	return &Handler{upgrades: wf}
}

func (h *Handler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		User:   BuildUserDTO(user),
		Access: BuildAccessDTO(access.ComputePolicy(user)),
	})
}

// UpgradeTier moves the caller to a higher tier. Lower or equal tiers are
// answered with upgraded=false and nothing is written.
func (h *Handler) UpgradeTier(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req UpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.ID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	res, err := h.upgrades.Upgrade(c.Request.Context(), &user, tiers.Tier(req.Tier))
	switch {
	case errors.Is(err, upgrade.ErrInvalidTier):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tier"})
		return
	}

	c.JSON(http.StatusOK, UpgradeResponse{
		User:     BuildUserDTO(user),
		Tier:     res.Tier,
		Previous: res.Previous,
		Upgraded: res.Upgraded,
	})
}
