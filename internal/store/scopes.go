package store

import (
	"time"

	"eventsdiscovery/internal/domain/events"
	"eventsdiscovery/internal/domain/tiers"

	"gorm.io/gorm"
)

func eventFilterScopes(f events.Filter) []func(*gorm.DB) *gorm.DB {
	return []func(*gorm.DB) *gorm.DB{
		tierIn(f.Tiers),
		eventDateFrom(f.Window.From),
		eventDateTo(f.Window.To),
		atVenue(f.VenueID),
		matchingText(f.Search),
	}
}

// An empty tier list matches nothing rather than everything.
func tierIn(ts []tiers.Tier) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(ts) == 0 {
			return db.Where("1 = 0")
		}
		names := make([]string, len(ts))
		for i, t := range ts {
			names[i] = string(t)
		}
		return db.Where("tier IN ?", names)
	}
}

func eventDateFrom(from *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from == nil {
			return db
		}
		return db.Where("event_date >= ?", *from)
	}
}

func eventDateTo(to *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if to == nil {
			return db
		}
		return db.Where("event_date <= ?", *to)
	}
}

func atVenue(venueID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if venueID == "" {
			return db
		}
		return db.Where("venue_id = ?", venueID)
	}
}

func matchingText(search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if search == "" {
			return db
		}
		p := containsPattern(search)
		return db.Where("(title ILIKE ? OR description ILIKE ?)", p, p)
	}
}
