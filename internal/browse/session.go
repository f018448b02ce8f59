// Package browse keeps one user's event list in sync with their filters.
//
// Every fetch gets a sequence number. Issuing a fetch cancels the one in
// flight, and a result is only committed if its sequence is still the
// latest, so a slow stale response can never overwrite a newer one.
package browse

import (
	"context"
	"sync"
	"time"

	"eventsdiscovery/internal/app/upgrade"
	"eventsdiscovery/internal/domain/events"
	"eventsdiscovery/internal/domain/tiers"
	"eventsdiscovery/internal/domain/users"
	"eventsdiscovery/internal/metrics"
)

type FilterState struct {
	Search  string
	From    *time.Time
	To      *time.Time
	VenueID string
	Tab     events.Tab
}

type Fetcher interface {
	FetchEvents(ctx context.Context, tier tiers.Tier, f FilterState) ([]events.Event, error)
}

type Upgrader interface {
	UpgradeTier(ctx context.Context, userID string, current, requested tiers.Tier) (upgrade.Result, error)
}

// View is the visible state. Err is the last committed fetch error.
type View struct {
	Events  []events.Event
	Err     error
	Loading bool
	Seq     uint64
}

const DefaultDebounce = 300 * time.Millisecond

type Option func(*Session)

func WithDebounce(d time.Duration) Option {
	return func(s *Session) { s.debounce = d }
}

// WithOnChange is called after every committed fetch, outside the lock.
func WithOnChange(fn func(View)) Option {
	return func(s *Session) { s.onChange = fn }
}

type Session struct {
	fetcher  Fetcher
	upgrader Upgrader
	debounce time.Duration
	onChange func(View)

	base     context.Context
	shutdown context.CancelFunc

	mu       sync.Mutex
	userID   string
	tier     tiers.Tier
	filters  FilterState
	seq      uint64
	inflight context.CancelFunc
	timer    *time.Timer
	view     View
	closed   bool
}

func NewSession(u users.User, f Fetcher, up Upgrader, opts ...Option) *Session {
	base, cancel := context.WithCancel(context.Background())
	s := &Session{
		fetcher:  f,
		upgrader: up,
		debounce: DefaultDebounce,
		base:     base,
		shutdown: cancel,
		userID:   u.ID,
		tier:     u.EffectiveTier(),
		filters:  FilterState{Tab: events.TabUpcoming},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Tier() tiers.Tier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tier
}

func (s *Session) Filters() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SetFilters stores fs and schedules a fetch after the debounce delay.
// Calls inside the delay collapse into one fetch with the last filters.
func (s *Session) SetFilters(fs FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = fs
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.Refresh(s.base)
	})
}

// Apply stores fs and fetches immediately.
func (s *Session) Apply(ctx context.Context, fs FilterState) (View, bool) {
	s.mu.Lock()
	s.filters = fs
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Refresh fetches with the current filters and tier. The bool reports
// whether the result was committed; false means a newer fetch superseded it.
func (s *Session) Refresh(ctx context.Context) (View, bool) {
	s.mu.Lock()
	if s.closed {
		v := s.view
		s.mu.Unlock()
		return v, false
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.inflight != nil {
		s.inflight()
	}
	s.seq++
	seq := s.seq
	fctx, cancel := context.WithCancel(ctx)
	s.inflight = cancel
	tier, fs := s.tier, s.filters
	s.view.Loading = true
	s.mu.Unlock()

	list, err := s.fetcher.FetchEvents(fctx, tier, fs)
	return s.commit(seq, cancel, list, err)
}

func (s *Session) commit(seq uint64, cancel context.CancelFunc, list []events.Event, err error) (View, bool) {
	defer cancel()

	s.mu.Lock()
	if s.closed {
		v := s.view
		s.mu.Unlock()
		return v, false
	}
	if seq != s.seq {
		v := s.view
		s.mu.Unlock()
		metrics.BrowseSupersededFetches.Inc()
		return v, false
	}
	s.inflight = nil
	if err != nil {
		// keep the last good events on screen next to the error
		s.view = View{Events: s.view.Events, Err: err, Seq: seq}
	} else {
		s.view = View{Events: list, Seq: seq}
	}
	v := s.view
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(v)
	}
	return v, true
}

// UpgradeOptions lists the tiers the user can still move to.
func (s *Session) UpgradeOptions() []tiers.Tier {
	return tiers.UpgradeOptions(s.Tier())
}

// Upgrade asks for requested and adopts the tier the server reports. A
// no-op still moves the session up when the server already holds a higher
// tier than the session knew about. On failure the tier is unchanged.
func (s *Session) Upgrade(ctx context.Context, requested tiers.Tier) (upgrade.Result, error) {
	s.mu.Lock()
	userID, current := s.userID, s.tier
	s.mu.Unlock()

	res, err := s.upgrader.UpgradeTier(ctx, userID, current, requested)
	if err != nil {
		return res, err
	}

	s.mu.Lock()
	changed := tiers.Higher(res.Tier, s.tier)
	if changed {
		s.tier = res.Tier
	}
	s.mu.Unlock()

	if changed {
		s.Refresh(ctx)
	}
	return res, nil
}

// Close cancels pending and in-flight fetches. Nothing is committed after
// Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.inflight != nil {
		s.inflight()
	}
	s.shutdown()
}
