package models

// Tier represents a point on the speed/quality ladder for a solve.
type Tier string

const (
	// TierBlitz is the fastest, cheapest tier for latency-critical calls.
	TierBlitz Tier = "blitz"
	// TierSharp is the quick tier for lightweight reasoning.
	TierSharp Tier = "sharp"
	// TierKeen is the balanced default tier.
	TierKeen Tier = "keen"
	// TierSmart is the slowest, highest-quality tier.
	TierSmart Tier = "smart"
)

// tierRanks orders tiers by increasing latency, cost, and quality.
var tierRanks = map[Tier]int{
	TierBlitz: 0,
	TierSharp: 1,
	TierKeen:  2,
	TierSmart: 3,
}

// Valid returns true if the tier is a known value.
func (t Tier) Valid() bool {
	_, ok := tierRanks[t]
	return ok
}

// Rank returns the tier's position on the ladder, with blitz lowest.
// Unknown tiers rank as keen.
func (t Tier) Rank() int {
	if r, ok := tierRanks[t]; ok {
		return r
	}
	return tierRanks[TierKeen]
}

// AllTiers lists the supported tiers from fastest to smartest.
func AllTiers() []Tier {
	return []Tier{TierBlitz, TierSharp, TierKeen, TierSmart}
}
