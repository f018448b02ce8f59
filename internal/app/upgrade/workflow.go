// Package upgrade moves a user to a higher tier. It never lowers a tier.
package upgrade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventsdiscovery/internal/clock"
	"eventsdiscovery/internal/domain/tiers"
	"eventsdiscovery/internal/domain/users"
	"eventsdiscovery/internal/logging"
	"eventsdiscovery/internal/metrics"

	"github.com/google/uuid"
)

var (
	ErrInvalidTier  = errors.New("invalid tier")
	ErrNoUser       = errors.New("no user")
	ErrUpdateFailed = errors.New("tier update failed")
)

type TierWriter interface {
	SetTier(ctx context.Context, userID string, tier tiers.Tier) error
}

// Result.Upgraded is false when the requested tier was not above the
// current one. That is not an error, and callers must not report success.
type Result struct {
	Previous tiers.Tier `json:"previous"`
	Tier     tiers.Tier `json:"tier"`
	Upgraded bool       `json:"upgraded"`
}

type Workflow struct {
	store    TierWriter
	notifier Notifier
	clock    clock.Clock
}

func NewWorkflow(store TierWriter, notifier Notifier, clk clock.Clock) *Workflow {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Workflow{store: store, notifier: notifier, clock: clk}
}

// Upgrade persists requested for u when it ranks above u's current tier,
// then sets u.Tier. If persisting fails u is left untouched.
//
// The comparison uses the tier in u as read by the caller; two concurrent
// upgrades from the same stale tier both pass and the last write wins.
func (w *Workflow) Upgrade(ctx context.Context, u *users.User, requested tiers.Tier) (Result, error) {
	if u == nil || u.ID == "" {
		return Result{}, ErrNoUser
	}
	current := u.EffectiveTier()

	target, ok := tiers.Parse(string(requested))
	if !ok {
		metrics.RecordUpgrade("invalid", "unknown")
		return Result{Previous: current, Tier: current}, fmt.Errorf("%w: %q", ErrInvalidTier, requested)
	}

	if !tiers.Higher(target, current) {
		metrics.RecordUpgrade("noop", string(target))
		logging.Ctx(ctx).Debug().
			Str("user_id", u.ID).
			Str("current", string(current)).
			Str("requested", string(target)).
			Msg("tier upgrade not applied")
		return Result{Previous: current, Tier: current}, nil
	}

	if err := w.store.SetTier(ctx, u.ID, target); err != nil {
		metrics.RecordUpgrade("failed", string(target))
		logging.Ctx(ctx).Error().Err(err).
			Str("user_id", u.ID).
			Str("requested", string(target)).
			Msg("tier upgrade failed")
		return Result{Previous: current, Tier: current}, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}

	u.Tier = target
	metrics.RecordUpgrade("upgraded", string(target))
	logging.Ctx(ctx).Info().
		Str("user_id", u.ID).
		Str("from", string(current)).
		Str("to", string(target)).
		Msg("tier upgraded")

	evt := TierUpgraded{
		EventID:   uuid.NewString(),
		RequestID: logging.RequestID(ctx),
		UserID:    u.ID,
		From:      current,
		To:        target,
		At:        w.clock.Now().UTC(),
	}
	if err := w.notifier.TierUpgraded(ctx, evt); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", u.ID).Msg("tier upgrade notification not sent")
	}

	return Result{Previous: current, Tier: target, Upgraded: true}, nil
}

// TierUpgraded is published after a successful upgrade.
type TierUpgraded struct {
	EventID   string     `json:"event_id"`
	RequestID string     `json:"request_id,omitempty"`
	UserID    string     `json:"user_id"`
	From      tiers.Tier `json:"from"`
	To        tiers.Tier `json:"to"`
	At        time.Time  `json:"at"`
}
