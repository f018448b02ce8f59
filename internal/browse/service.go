package browse

import (
	"context"

	"eventsdiscovery/internal/app/catalog"
	"eventsdiscovery/internal/app/upgrade"
	"eventsdiscovery/internal/domain/events"
	"eventsdiscovery/internal/domain/tiers"
	"eventsdiscovery/internal/domain/users"
)

// ServiceFetcher queries an in-process catalog.
type ServiceFetcher struct {
	Catalog *catalog.Service
}

func (f ServiceFetcher) FetchEvents(ctx context.Context, tier tiers.Tier, fs FilterState) ([]events.Event, error) {
	tab, ok := events.ParseTab(string(fs.Tab))
	if !ok {
		tab = events.TabUpcoming
	}
	return f.Catalog.QueryEvents(ctx, catalog.Query{
		Tier:    tier,
		Tab:     &tab,
		Search:  fs.Search,
		From:    fs.From,
		To:      fs.To,
		VenueID: fs.VenueID,
	})
}

// ServiceUpgrader runs the upgrade workflow in-process.
type ServiceUpgrader struct {
	Workflow *upgrade.Workflow
}

func (u ServiceUpgrader) UpgradeTier(ctx context.Context, userID string, current, requested tiers.Tier) (upgrade.Result, error) {
	user := users.User{ID: userID, Tier: current}
	return u.Workflow.Upgrade(ctx, &user, requested)
}
