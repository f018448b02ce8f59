package access

import "eventsdiscovery/internal/domain/tiers"

// CapabilitiesFor lists what the UI may unlock for a tier. Content
// visibility is cumulative, so every tier also carries the lower ones.
func CapabilitiesFor(tier tiers.Tier) []string {
	caps := []string{"browse_events", "browse_venues"}
	for _, t := range tiers.Allowed(tier) {
		caps = append(caps, "view_"+string(t)+"_events")
	}
	if tier == tiers.Platinum {
		caps = append(caps, "early_access")
	}
	return caps
}
