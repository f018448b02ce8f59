package events

import (
	"time"

	"eventsdiscovery/internal/domain/events"
	"eventsdiscovery/internal/domain/tiers"
)

// EventResponse is a single event. Locked events carry no description or link.
type EventResponse struct {
	events.Event
	Locked bool `json:"locked"`
}

type CreateEventRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	EventDate    string     `json:"event_date"`
	Tier         tiers.Tier `json:"tier"`
	VenueID      *string    `json:"venue_id"`
	Thumbnail    string     `json:"thumbnail"`
	ExternalLink string     `json:"external_link"`
}

func (r CreateEventRequest) toEvent() (events.Event, error) {
	var date time.Time
	t, err := parseDate(r.EventDate)
	if err != nil {
		return events.Event{}, err
	}
	if t != nil {
		date = *t
	}
	return events.Event{
		Title:        r.Title,
		Description:  r.Description,
		EventDate:    date,
		Tier:         r.Tier,
		VenueID:      r.VenueID,
		Thumbnail:    r.Thumbnail,
		ExternalLink: r.ExternalLink,
	}, nil
}
