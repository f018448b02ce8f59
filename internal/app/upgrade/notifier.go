package upgrade

import (
	"context"
	"encoding/json"
	"fmt"
)

const RoutingKeyTierUpgraded = "user.tier_upgraded"

type Notifier interface {
	TierUpgraded(ctx context.Context, evt TierUpgraded) error
}

type NopNotifier struct{}

func (NopNotifier) TierUpgraded(context.Context, TierUpgraded) error { return nil }

// Publisher is satisfied by rabbitmq.Publisher.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte, correlationID string) error
}

// PublishingNotifier sends TierUpgraded as JSON through a message broker.
type PublishingNotifier struct {
	pub Publisher
}

func NewPublishingNotifier(pub Publisher) *PublishingNotifier {
	return &PublishingNotifier{pub: pub}
}

func (n *PublishingNotifier) TierUpgraded(ctx context.Context, evt TierUpgraded) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal tier upgraded event: %w", err)
	}
	correlationID := evt.RequestID
	if correlationID == "" {
		correlationID = evt.EventID
	}
	return n.pub.Publish(ctx, RoutingKeyTierUpgraded, body, correlationID)
}
