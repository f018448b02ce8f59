package events

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"eventsdiscovery/internal/domain/events"
	"eventsdiscovery/internal/domain/tiers"

	"github.com/gin-gonic/gin"
)

var errBadParam = errors.New("bad parameter")

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// parseDate accepts RFC3339 timestamps or plain YYYY-MM-DD days (UTC).
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: date %q", errBadParam, s)
}

func queryDate(c *gin.Context, key string) (*time.Time, error) {
	t, err := parseDate(c.Query(key))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return t, nil
}

// queryTab returns nil when no tab was sent so the raw range is used.
func queryTab(c *gin.Context) (*events.Tab, error) {
	raw, ok := c.GetQuery("tab")
	if !ok {
		return nil, nil
	}
	tab, ok := events.ParseTab(raw)
	if !ok {
		return nil, fmt.Errorf("%w: tab %q", errBadParam, raw)
	}
	return &tab, nil
}

// effectiveTier narrows stored by the optional tier parameter. The
// parameter can never widen access.
func effectiveTier(c *gin.Context, stored tiers.Tier) tiers.Tier {
	raw, ok := c.GetQuery("tier")
	if !ok || strings.TrimSpace(raw) == "" {
		return stored
	}
	return tiers.Min(stored, tiers.Normalize(raw))
}
