package access

import (
	"eventsdiscovery/internal/domain/events"
	"eventsdiscovery/internal/domain/tiers"
	"eventsdiscovery/internal/domain/users"
)

func ComputePolicy(u users.User) Policy {
	tier := u.EffectiveTier()

	return Policy{
		Tier:           tier,
		AllowedTiers:   tiers.Allowed(tier),
		UpgradeOptions: tiers.UpgradeOptions(tier),
		Capabilities:   CapabilitiesFor(tier),
	}
}

// CanView reports whether content of eventTier is visible on userTier.
func CanView(userTier, eventTier tiers.Tier) bool {
	eventRank := tiers.Rank(eventTier)
	return eventRank >= 0 && eventRank <= tiers.Rank(tiers.Normalize(string(userTier)))
}

// Redact strips the paid details of an event the user cannot see.
func Redact(e events.Event, userTier tiers.Tier) (events.Event, bool) {
	if CanView(userTier, e.Tier) {
		return e, false
	}
	e.Description = ""
	e.ExternalLink = ""
	return e, true
}
