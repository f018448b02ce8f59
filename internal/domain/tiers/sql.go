package tiers

import (
	"database/sql/driver"
	"fmt"
)

func (t Tier) Value() (driver.Value, error) {
	return string(t), nil
}

// Scan keeps whatever is stored, valid or not. Callers that need a usable
// tier go through Normalize.
func (t *Tier) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = ""
	case string:
		*t = Tier(v)
	case []byte:
		*t = Tier(v)
	default:
		return fmt.Errorf("tiers: cannot scan %T", src)
	}
	return nil
}
