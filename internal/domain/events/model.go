package events

import (
	"time"

	"eventsdiscovery/internal/domain/tiers"
)

// Event is a single scheduled occurrence. Tier is the minimum tier that may
// see it. VenueID is a weak reference: deleting a venue does not cascade.
type Event struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Title       string    `gorm:"type:text;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	EventDate   time.Time `gorm:"column:event_date;not null;index:idx_events_tier_date,priority:2" json:"event_date"`

	Tier    tiers.Tier `gorm:"type:text;not null;default:'free';index:idx_events_tier_date,priority:1" json:"tier"`
	VenueID *string    `gorm:"type:uuid;index" json:"venue_id,omitempty"`

	Thumbnail    string `gorm:"type:text" json:"thumbnail,omitempty"`
	ExternalLink string `gorm:"column:external_link;type:text" json:"external_link,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
