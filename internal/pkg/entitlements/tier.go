package entitlements

import "strings"

type Tier string

const (
	TierFree         Tier = "free"
	TierExplorer     Tier = "explorer"
	TierResearcher   Tier = "researcher"
	TierProfessional Tier = "professional"
	TierAdmin        Tier = "admin"
)

// FeatureKey identifies one quota-metered tool.
type FeatureKey string

const (
	FeatureDocuments FeatureKey = "documents"
	FeatureDNA       FeatureKey = "dna"
	FeaturePhotos    FeatureKey = "photos"
	FeatureResearch  FeatureKey = "research"
	FeatureTrees     FeatureKey = "trees"
)

// Unlimited marks a feature without a monthly cap. A limit of 0 means the
// feature is not included in the tier at all.
const Unlimited = -1

// LimitTable maps every feature to its monthly limit for one tier.
type LimitTable map[FeatureKey]int

// AllFeatures lists every metered feature in stable order.
var AllFeatures = []FeatureKey{FeatureDocuments, FeatureDNA, FeaturePhotos, FeatureResearch, FeatureTrees}

// limitCatalog is initialized once and never mutated at runtime.
var limitCatalog = map[Tier]LimitTable{
	TierFree: {
		FeatureDocuments: 2,
		FeatureDNA:       0,
		FeaturePhotos:    2,
		FeatureResearch:  2,
		FeatureTrees:     1,
	},
	TierExplorer: {
		FeatureDocuments: 10,
		FeatureDNA:       5,
		FeaturePhotos:    10,
		FeatureResearch:  10,
		FeatureTrees:     3,
	},
	TierResearcher: {
		FeatureDocuments: 50,
		FeatureDNA:       25,
		FeaturePhotos:    50,
		FeatureResearch:  50,
		FeatureTrees:     10,
	},
	TierProfessional: {
		FeatureDocuments: Unlimited,
		FeatureDNA:       Unlimited,
		FeaturePhotos:    Unlimited,
		FeatureResearch:  Unlimited,
		FeatureTrees:     Unlimited,
	},
	TierAdmin: {
		FeatureDocuments: Unlimited,
		FeatureDNA:       Unlimited,
		FeaturePhotos:    Unlimited,
		FeatureResearch:  Unlimited,
		FeatureTrees:     Unlimited,
	},
}

// NormalizeTier maps arbitrary input to a known tier. Unknown values resolve
// to the free tier, never to a paid one.
func NormalizeTier(tier string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(tier))) {
	case TierExplorer:
		return TierExplorer
	case TierResearcher:
		return TierResearcher
	case TierProfessional:
		return TierProfessional
	case TierAdmin:
		return TierAdmin
	default:
		return TierFree
	}
}

// LimitsFor returns the limit table for a tier. Unknown tiers get the free
// tier's limits so a bad value can never grant unlimited access.
func LimitsFor(tier Tier) LimitTable {
	if table, ok := limitCatalog[tier]; ok {
		return table
	}
	return limitCatalog[TierFree]
}

// LimitFor returns the monthly limit for a single feature at the given tier.
func LimitFor(tier Tier, feature FeatureKey) int {
	return LimitsFor(tier)[feature]
}

func tierRank(tier Tier) int {
	switch tier {
	case TierAdmin:
		return 4
	case TierProfessional:
		return 3
	case TierResearcher:
		return 2
	case TierExplorer:
		return 1
	default:
		return 0
	}
}

// IsUpgrade reports whether to outranks from.
func IsUpgrade(from, to Tier) bool {
	return tierRank(to) > tierRank(from)
}
