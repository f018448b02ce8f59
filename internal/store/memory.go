package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"eventsdiscovery/internal/domain/events"
	"eventsdiscovery/internal/domain/tiers"
	"eventsdiscovery/internal/domain/users"
	"eventsdiscovery/internal/domain/venues"

	"github.com/google/uuid"
)

// MemoryEventStore keeps events in insertion order. Used with
// STORE_DRIVER=memory and in tests.
type MemoryEventStore struct {
	mu   sync.RWMutex
	list []events.Event
	now  func() time.Time
}

func NewMemoryEventStore(seed ...events.Event) *MemoryEventStore {
	s := &MemoryEventStore{now: time.Now}
	_, _ = s.Create(context.Background(), seed)
	return s
}

func (s *MemoryEventStore) List(ctx context.Context, f events.Filter) ([]events.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []events.Event{}
	for _, e := range s.list {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	events.SortByDate(out)
	return out, nil
}

func (s *MemoryEventStore) Get(ctx context.Context, id string) (events.Event, error) {
	if err := ctx.Err(); err != nil {
		return events.Event{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.list {
		if e.ID == id {
			return e, nil
		}
	}
	return events.Event{}, fmt.Errorf("get event %s: %w", id, ErrNotFound)
}

func (s *MemoryEventStore) Create(ctx context.Context, list []events.Event) ([]events.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	out := make([]events.Event, 0, len(list))
	for _, e := range list {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.Tier == "" {
			e.Tier = tiers.Free
		}
		e.CreatedAt, e.UpdatedAt = now, now
		s.list = append(s.list, e)
		out = append(out, e)
	}
	return out, nil
}

type MemoryVenueStore struct {
	mu   sync.RWMutex
	list []venues.Venue
}

func NewMemoryVenueStore(seed ...venues.Venue) *MemoryVenueStore {
	s := &MemoryVenueStore{}
	_, _ = s.Create(context.Background(), seed)
	return s
}

func (s *MemoryVenueStore) List(ctx context.Context) ([]venues.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]venues.Venue, len(s.list))
	copy(out, s.list)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryVenueStore) Create(ctx context.Context, list []venues.Venue) ([]venues.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	out := make([]venues.Venue, 0, len(list))
	for _, v := range list {
		if v.ID == "" {
			v.ID = uuid.NewString()
		}
		v.CreatedAt, v.UpdatedAt = now, now
		s.list = append(s.list, v)
		out = append(out, v)
	}
	return out, nil
}

type MemoryUserStore struct {
	mu    sync.RWMutex
	byID  map[string]users.User
	order []string
}

func NewMemoryUserStore(seed ...users.User) *MemoryUserStore {
	s := &MemoryUserStore{byID: map[string]users.User{}}
	for _, u := range seed {
		s.put(u)
	}
	return s
}

func (s *MemoryUserStore) put(u users.User) {
	if _, ok := s.byID[u.ID]; !ok {
		s.order = append(s.order, u.ID)
	}
	s.byID[u.ID] = u
}

func (s *MemoryUserStore) Get(ctx context.Context, id string) (users.User, error) {
	if err := ctx.Err(); err != nil {
		return users.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return users.User{}, fmt.Errorf("get user %s: %w", id, ErrNotFound)
	}
	return u, nil
}

func (s *MemoryUserStore) Ensure(ctx context.Context, u users.User) (users.User, error) {
	if err := ctx.Err(); err != nil {
		return users.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byID[u.ID]; ok {
		return existing, nil
	}
	now := time.Now().UTC()
	u.Tier = tiers.Free
	if u.Role == "" {
		u.Role = users.RoleUser
	}
	u.CreatedAt, u.UpdatedAt = now, now
	s.put(u)
	return u, nil
}

func (s *MemoryUserStore) List(ctx context.Context) ([]users.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]users.User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *MemoryUserStore) SetTier(ctx context.Context, userID string, tier tiers.Tier) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok {
		return fmt.Errorf("set tier for user %s: %w", userID, ErrNotFound)
	}
	u.Tier = tier
	u.UpdatedAt = time.Now().UTC()
	s.byID[userID] = u
	return nil
}
