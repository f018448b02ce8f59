package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"eventsdiscovery/internal/app/catalog"
	"eventsdiscovery/internal/app/http/middleware"
	"eventsdiscovery/internal/domain/access"
	"eventsdiscovery/internal/domain/events"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	catalog *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{catalog: svc}
}

// List returns the events visible to the caller, soonest first.
func (h *Handler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tab, err := queryTab(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from, err := queryDate(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := queryDate(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.catalog.QueryEvents(c.Request.Context(), catalog.Query{
		Tier:    effectiveTier(c, user.EffectiveTier()),
		Tab:     tab,
		Search:  c.Query("search"),
		From:    from,
		To:      to,
		VenueID: c.Query("venue_id"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load events"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// Get returns one event. Events above the caller's tier come back locked.
func (h *Handler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	e, err := h.catalog.GetEvent(c.Request.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load event"})
		return
	}

	e, locked := access.Redact(e, user.EffectiveTier())
	c.JSON(http.StatusOK, EventResponse{Event: e, Locked: locked})
}

// Create accepts one event object or an array and always answers with an array.
func (h *Handler) Create(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}

	var reqs []CreateEventRequest
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &reqs)
	} else {
		var one CreateEventRequest
		err = json.Unmarshal(trimmed, &one)
		reqs = []CreateEventRequest{one}
	}
	if err != nil || len(reqs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}

	list := make([]events.Event, 0, len(reqs))
	for _, r := range reqs {
		e, err := r.toEvent()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		list = append(list, e)
	}

	out, err := h.catalog.CreateEvents(c.Request.Context(), list)
	if errors.Is(err, catalog.ErrInvalidEvent) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create events"})
		return
	}

	c.JSON(http.StatusCreated, out)
}
