package store

import (
	"context"
	"fmt"
	"time"

	"eventsdiscovery/internal/domain/venues"
	"eventsdiscovery/internal/metrics"

	"gorm.io/gorm"
)

type VenueStore struct {
	db *gorm.DB
}

func NewVenueStore(db *gorm.DB) *VenueStore {
	return &VenueStore{db: db}
}

func (s *VenueStore) List(ctx context.Context) ([]venues.Venue, error) {
	start := time.Now()

	out := []venues.Venue{}
	err := s.db.WithContext(ctx).Order("name ASC").Find(&out).Error

	metrics.ObserveStore("list_venues", start, err)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return out, nil
}

func (s *VenueStore) Create(ctx context.Context, list []venues.Venue) ([]venues.Venue, error) {
	start := time.Now()

	err := s.db.WithContext(ctx).Create(&list).Error

	metrics.ObserveStore("create_venues", start, err)
	if err != nil {
		return nil, fmt.Errorf("insert venues: %w", err)
	}
	return list, nil
}
