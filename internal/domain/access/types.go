package access

import "eventsdiscovery/internal/domain/tiers"

type Policy struct {
	Tier           tiers.Tier
	AllowedTiers   []tiers.Tier
	UpgradeOptions []tiers.Tier
	Capabilities   []string
}

func (p Policy) CanUpgrade() bool {
	return len(p.UpgradeOptions) > 0
}
