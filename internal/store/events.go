package store

import (
	"context"
	"fmt"
	"time"

	"eventsdiscovery/internal/domain/events"
	"eventsdiscovery/internal/metrics"

	"gorm.io/gorm"
)

type EventStore struct {
	db *gorm.DB
}

func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

// List returns every event matching f, earliest first. No match is an
// empty slice, not an error.
func (s *EventStore) List(ctx context.Context, f events.Filter) ([]events.Event, error) {
	start := time.Now()

	out := []events.Event{}
	err := s.db.WithContext(ctx).
		Model(&events.Event{}).
		Scopes(eventFilterScopes(f)...).
		Order("event_date ASC").
		Find(&out).Error

	metrics.ObserveStore("list_events", start, err)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

func (s *EventStore) Get(ctx context.Context, id string) (events.Event, error) {
	start := time.Now()

	var e events.Event
	err := s.db.WithContext(ctx).First(&e, "id = ?", id).Error

	metrics.ObserveStore("get_event", start, ignoreNotFound(err))
	if err != nil {
		return events.Event{}, fmt.Errorf("get event %s: %w", id, notFound(err))
	}
	return e, nil
}

// Create inserts all events in one statement and returns them with their
// generated ids and timestamps.
func (s *EventStore) Create(ctx context.Context, list []events.Event) ([]events.Event, error) {
	start := time.Now()

	err := s.db.WithContext(ctx).Create(&list).Error

	metrics.ObserveStore("create_events", start, err)
	if err != nil {
		return nil, fmt.Errorf("insert events: %w", err)
	}
	return list, nil
}

func ignoreNotFound(err error) error {
	if notFound(err) == ErrNotFound {
		return nil
	}
	return err
}
