package store

import (
	"context"
	"fmt"
	"time"

	"eventsdiscovery/internal/domain/tiers"
	"eventsdiscovery/internal/domain/users"
	"eventsdiscovery/internal/metrics"

	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Get(ctx context.Context, id string) (users.User, error) {
	var u users.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return users.User{}, fmt.Errorf("get user %s: %w", id, notFound(err))
	}
	return u, nil
}

// Ensure loads the user with u.ID, creating it from u on first sight.
// New accounts always start on the free tier.
func (s *UserStore) Ensure(ctx context.Context, u users.User) (users.User, error) {
	var out users.User
	err := s.db.WithContext(ctx).
		Where(users.User{ID: u.ID}).
		Attrs(users.User{Name: u.Name, Email: u.Email, Role: u.Role, Tier: tiers.Free}).
		FirstOrCreate(&out).Error
	if err != nil {
		return users.User{}, fmt.Errorf("ensure user %s: %w", u.ID, err)
	}
	return out, nil
}

func (s *UserStore) List(ctx context.Context) ([]users.User, error) {
	out := []users.User{}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// SetTier is a plain write: last write wins, there is no compare-and-set
// against the tier the caller read.
func (s *UserStore) SetTier(ctx context.Context, userID string, tier tiers.Tier) error {
	start := time.Now()

	res := s.db.WithContext(ctx).
		Model(&users.User{}).
		Where("id = ?", userID).
		Update("tier", tier)

	metrics.ObserveStore("set_user_tier", start, res.Error)
	if res.Error != nil {
		return fmt.Errorf("set tier for user %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("set tier for user %s: %w", userID, ErrNotFound)
	}
	return nil
}
