package venues

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"eventsdiscovery/internal/app/catalog"
	"eventsdiscovery/internal/domain/venues"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{catalog: svc}
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.catalog.ListVenues(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load venues"})
		return
	}
	c.JSON(http.StatusOK, list)
}

type CreateVenueRequest struct {
	Name         string   `json:"name"`
	AddressLine1 string   `json:"address_line_1"`
	AddressLine2 *string  `json:"address_line_2"`
	City         *string  `json:"city"`
	Rating       *float64 `json:"rating"`
	Reviews      *int     `json:"reviews"`
	GoogleLink   *string  `json:"google_link"`
	MapImageURL  *string  `json:"map_image_url"`
}

func (r CreateVenueRequest) toVenue() venues.Venue {
	return venues.Venue{
		Name:         r.Name,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		Rating:       r.Rating,
		Reviews:      r.Reviews,
		GoogleLink:   r.GoogleLink,
		MapImageURL:  r.MapImageURL,
	}
}

// Create accepts one venue or an array of venues.
func (h *Handler) Create(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}

	var reqs []CreateVenueRequest
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &reqs)
	} else {
		var one CreateVenueRequest
		err = json.Unmarshal(trimmed, &one)
		reqs = []CreateVenueRequest{one}
	}
	if err != nil || len(reqs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}

	list := make([]venues.Venue, 0, len(reqs))
	for _, r := range reqs {
		list = append(list, r.toVenue())
	}

	out, err := h.catalog.CreateVenues(c.Request.Context(), list)
	if errors.Is(err, catalog.ErrInvalidVenue) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create venues"})
		return
	}
	c.JSON(http.StatusCreated, out)
}
