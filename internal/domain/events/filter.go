package events

import (
	"slices"
	"strings"

	"eventsdiscovery/internal/domain/tiers"
)

// Filter is the store-level query: every set field narrows the result,
// except Search which matches title OR description.
type Filter struct {
	Tiers   []tiers.Tier
	Window  Window
	VenueID string
	Search  string
}

// NewFilter restricts to the tiers visible on userTier.
func NewFilter(userTier tiers.Tier, search string, w Window, venueID string) Filter {
	return Filter{
		Tiers:   tiers.Allowed(userTier),
		Window:  w,
		VenueID: strings.TrimSpace(venueID),
		Search:  strings.TrimSpace(search),
	}
}

// Match is the in-process form of the SQL the store builds.
func (f Filter) Match(e Event) bool {
	if !slices.Contains(f.Tiers, e.Tier) {
		return false
	}
	if f.Window.From != nil && e.EventDate.Before(*f.Window.From) {
		return false
	}
	if f.Window.To != nil && e.EventDate.After(*f.Window.To) {
		return false
	}
	if f.VenueID != "" && (e.VenueID == nil || *e.VenueID != f.VenueID) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Title), needle) &&
			!strings.Contains(strings.ToLower(e.Description), needle) {
			return false
		}
	}
	return true
}

// SortByDate orders ascending by EventDate, keeping insertion order on ties.
func SortByDate(list []Event) {
	slices.SortStableFunc(list, func(a, b Event) int {
		return a.EventDate.Compare(b.EventDate)
	})
}
