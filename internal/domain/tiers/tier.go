package tiers

import (
	"errors"
	"strings"
)

type Tier string

// Tier constants (single source of truth)
const (
	Free     Tier = "free"
	Silver   Tier = "silver"
	Gold     Tier = "gold"
	Platinum Tier = "platinum"
)

var ErrUnknownTier = errors.New("unknown tier")

// order is lowest to highest. Client and server must agree on it.
var order = []Tier{Free, Silver, Gold, Platinum}

// Order returns the tiers from lowest to highest.
func Order() []Tier {
	out := make([]Tier, len(order))
	copy(out, order)
	return out
}

// Rank returns the position of t in the tier order, or -1 if t is unknown.
func Rank(t Tier) int {
	for i, o := range order {
		if o == t {
			return i
		}
	}
	return -1
}

func (t Tier) Valid() bool {
	return Rank(t) >= 0
}

func (t Tier) String() string {
	return string(t)
}

// Parse accepts any casing and surrounding whitespace.
func Parse(s string) (Tier, bool) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", false
	}
	return t, true
}

// Normalize parses s and falls back to Free for absent or unknown values.
func Normalize(s string) Tier {
	if t, ok := Parse(s); ok {
		return t
	}
	return Free
}

// Higher reports whether a ranks strictly above b.
func Higher(a, b Tier) bool {
	return Rank(a) > Rank(b)
}

// Min returns the lower ranked of a and b. Unknown tiers count as Free.
func Min(a, b Tier) Tier {
	a, b = effective(a), effective(b)
	if Rank(a) <= Rank(b) {
		return a
	}
	return b
}

// Allowed returns every tier whose content a user on userTier may see:
// the prefix of the tier order up to and including userTier.
// Visibility is cumulative, so the result always starts with Free.
func Allowed(userTier Tier) []Tier {
	return Order()[:Rank(effective(userTier))+1]
}

// UpgradeOptions returns the tiers strictly above userTier, lowest first.
func UpgradeOptions(userTier Tier) []Tier {
	return Order()[Rank(effective(userTier))+1:]
}

func effective(t Tier) Tier {
	if t.Valid() {
		return t
	}
	return Free
}
