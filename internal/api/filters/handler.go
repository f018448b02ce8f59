package filters

import (
	"net/http"

	"eventsdiscovery/internal/app/catalog"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{catalog: svc}
}

// Get describes the event filter form, venue options included.
func (h *Handler) Get(c *gin.Context) {
	cfg, err := h.catalog.Filters(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load filters"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}
