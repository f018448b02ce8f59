// Package catalog answers event and venue reads for a given tier and
// accepts new events and venues.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventsdiscovery/internal/clock"
	"eventsdiscovery/internal/domain/events"
	"eventsdiscovery/internal/domain/filters"
	"eventsdiscovery/internal/domain/tiers"
	"eventsdiscovery/internal/domain/venues"
	"eventsdiscovery/internal/logging"
	"eventsdiscovery/internal/store"
)

var (
	ErrQueryFailed  = errors.New("event query failed")
	ErrCreateFailed = errors.New("create failed")
	ErrNotFound     = errors.New("not found")
	ErrInvalidEvent = errors.New("invalid event")
	ErrInvalidVenue = errors.New("invalid venue")
)

type EventStore interface {
	List(ctx context.Context, f events.Filter) ([]events.Event, error)
	Get(ctx context.Context, id string) (events.Event, error)
	Create(ctx context.Context, list []events.Event) ([]events.Event, error)
}

type VenueStore interface {
	List(ctx context.Context) ([]venues.Venue, error)
	Create(ctx context.Context, list []venues.Venue) ([]venues.Venue, error)
}

type Service struct {
	events EventStore
	venues VenueStore
	clock  clock.Clock
}

func NewService(es EventStore, vs VenueStore, clk clock.Clock) *Service {
	return &Service{events: es, venues: vs, clock: clk}
}

// Query is what a client sends. A nil Tab leaves From/To exactly as given;
// otherwise they are clamped by EffectiveWindow.
type Query struct {
	Tier    tiers.Tier
	Tab     *events.Tab
	Search  string
	From    *time.Time
	To      *time.Time
	VenueID string
}

func (q Query) window(now time.Time) events.Window {
	if q.Tab == nil {
		return events.Window{From: q.From, To: q.To}
	}
	return events.EffectiveWindow(*q.Tab, q.From, q.To, now)
}

// QueryEvents is read-only and idempotent. Unknown tiers are treated as free.
func (s *Service) QueryEvents(ctx context.Context, q Query) ([]events.Event, error) {
	tier := tiers.Normalize(string(q.Tier))
	f := events.NewFilter(tier, q.Search, q.window(s.clock.Now()), q.VenueID)

	list, err := s.events.List(ctx, f)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("tier", string(tier)).Msg("event query failed")
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return list, nil
}

func (s *Service) GetEvent(ctx context.Context, id string) (events.Event, error) {
	e, err := s.events.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return events.Event{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("event_id", id).Msg("event lookup failed")
		return events.Event{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return e, nil
}

// CreateEvents validates every event before inserting any of them.
func (s *Service) CreateEvents(ctx context.Context, list []events.Event) ([]events.Event, error) {
	for i := range list {
		if err := validateEvent(&list[i]); err != nil {
			return nil, err
		}
	}

	out, err := s.events.Create(ctx, list)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Int("count", len(list)).Msg("event insert failed")
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	return out, nil
}

func validateEvent(e *events.Event) error {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if e.EventDate.IsZero() {
		return fmt.Errorf("%w: event_date is required", ErrInvalidEvent)
	}
	if e.Tier == "" {
		e.Tier = tiers.Free
	}
	t, ok := tiers.Parse(string(e.Tier))
	if !ok {
		return fmt.Errorf("%w: %w %q", ErrInvalidEvent, tiers.ErrUnknownTier, e.Tier)
	}
	e.Tier = t
	if e.VenueID != nil && strings.TrimSpace(*e.VenueID) == "" {
		e.VenueID = nil
	}
	return nil
}

func (s *Service) ListVenues(ctx context.Context) ([]venues.Venue, error) {
	list, err := s.venues.List(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("venue query failed")
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return list, nil
}

func (s *Service) CreateVenues(ctx context.Context, list []venues.Venue) ([]venues.Venue, error) {
	for i := range list {
		list[i].Name = strings.TrimSpace(list[i].Name)
		if list[i].Name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidVenue)
		}
		if strings.TrimSpace(list[i].AddressLine1) == "" {
			return nil, fmt.Errorf("%w: address_line_1 is required", ErrInvalidVenue)
		}
	}

	out, err := s.venues.Create(ctx, list)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Int("count", len(list)).Msg("venue insert failed")
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	return out, nil
}

// Filters describes the event filter form with the current venue list.
func (s *Service) Filters(ctx context.Context) (filters.Config, error) {
	vs, err := s.ListVenues(ctx)
	if err != nil {
		return filters.Config{}, err
	}
	cfg := filters.EventFilters(vs)
	if err := cfg.Validate(); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("filter config invalid")
		return filters.Config{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return cfg, nil
}
