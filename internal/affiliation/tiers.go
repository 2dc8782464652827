package affiliation

import "github.com/shopspring/decimal"

// PackageTier is one row of the static upgrade catalog.
type PackageTier struct {
	Name          string          `json:"name"`
	MemberLimit   int             `json:"member_limit"`
	PricePerMonth decimal.Decimal `json:"price_per_month"`
}

// Tiers returns the purchasable package catalog, smallest first.
func Tiers() []PackageTier {
	return []PackageTier{
		{Name: "Starter", MemberLimit: 5, PricePerMonth: decimal.NewFromInt(5)},
		{Name: "Growth", MemberLimit: 10, PricePerMonth: decimal.NewFromInt(8)},
		{Name: "Enterprise", MemberLimit: 20, PricePerMonth: decimal.NewFromInt(15)},
	}
}

// TierForLimit resolves the catalog entry matching the member limit.
func TierForLimit(limit int) (PackageTier, bool) {
	for _, tier := range Tiers() {
		if tier.MemberLimit == limit {
			return tier, true
		}
	}
	return PackageTier{}, false
}
