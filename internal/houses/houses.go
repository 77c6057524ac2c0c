// Package houses holds the static configuration tables of the narrative
// market: the seven house profiles, event severity curves and story-beat
// impact factors. Tables are immutable; Validate guards against a missing
// entry turning into a silent zero lookup at runtime.
package houses

// The seven houses.
const (
	Heroes   = "heroes"
	Wisdom   = "wisdom"
	Power    = "power"
	Mystery  = "mystery"
	Elements = "elements"
	Time     = "time"
	Spirit   = "spirit"
)

// IDs lists every house in canonical order.
var IDs = []string{Heroes, Wisdom, Power, Mystery, Elements, Time, Spirit}

// Response is a house's volatility response profile: Multiplier scales
// narrative volatility pass-through, Stability dampens price swings (higher
// is calmer), Recovery scales post-event mean reversion.
type Response struct {
	Multiplier float64
	Stability  float64
	Recovery   float64
}

// VolatilityResponses maps house id to its response profile.
var VolatilityResponses = map[string]Response{
	Heroes:   {Multiplier: 1.2, Stability: 0.8, Recovery: 1.1},
	Wisdom:   {Multiplier: 0.8, Stability: 1.4, Recovery: 1.3},
	Power:    {Multiplier: 2.2, Stability: 0.4, Recovery: 0.7},
	Mystery:  {Multiplier: 1.8, Stability: 0.6, Recovery: 0.9},
	Elements: {Multiplier: 1.1, Stability: 0.9, Recovery: 1.0},
	Time:     {Multiplier: 1.6, Stability: 0.7, Recovery: 1.2},
	Spirit:   {Multiplier: 1.4, Stability: 0.8, Recovery: 1.1},
}

// ResponseFor returns the response profile for a house, or the neutral
// profile when the affiliation is unknown or empty.
func ResponseFor(houseID string) Response {
	if r, ok := VolatilityResponses[houseID]; ok {
		return r
	}
	return Response{Multiplier: 1.0, Stability: 1.0, Recovery: 1.0}
}

// Theme is a house's thematic and financial character, used for affiliation
// matching and financial profile seeding.
type Theme struct {
	Keywords                 []string
	VolatilityProfile        string
	BaseVolatilityMultiplier float64
	TrendStrengthModifier    float64
	MeanReversionFactor      float64
	MarketPatternType        string
	RiskToleranceLevel       string
	LeveragePreference       float64
	CosmicEventSensitivity   float64
	SpecialtyAssetTypes      []string
	WeaknessAssetTypes       []string
	TradingBonusPercentage   float64
	PenaltyPercentage        float64
}

var Themes = map[string]Theme{
	Heroes: {
		Keywords:                 []string{"hero", "captain", "spider", "superman", "wonder", "flash", "heroic", "justice", "protect"},
		VolatilityProfile:        "moderate",
		BaseVolatilityMultiplier: 1.2,
		TrendStrengthModifier:    1.3,
		MeanReversionFactor:      0.15,
		MarketPatternType:        "heroic_growth",
		RiskToleranceLevel:       "moderate",
		LeveragePreference:       1.1,
		CosmicEventSensitivity:   0.8,
		SpecialtyAssetTypes:      []string{"character", "comic"},
		WeaknessAssetTypes:       []string{"publisher"},
		TradingBonusPercentage:   0.05,
		PenaltyPercentage:        0.02,
	},
	Wisdom: {
		Keywords:                 []string{"doctor", "professor", "sage", "oracle", "scholar", "strange", "detective", "mystery"},
		VolatilityProfile:        "stable",
		BaseVolatilityMultiplier: 0.8,
		TrendStrengthModifier:    0.9,
		MeanReversionFactor:      0.25,
		MarketPatternType:        "wisdom_stability",
		RiskToleranceLevel:       "conservative",
		LeveragePreference:       0.9,
		CosmicEventSensitivity:   0.6,
		SpecialtyAssetTypes:      []string{"creator", "publisher"},
		WeaknessAssetTypes:       []string{"character"},
		TradingBonusPercentage:   0.03,
		PenaltyPercentage:        0.01,
	},
	Power: {
		Keywords:                 []string{"hulk", "thor", "strength", "cosmic", "phoenix", "galactus", "omega", "infinity"},
		VolatilityProfile:        "extreme",
		BaseVolatilityMultiplier: 2.5,
		TrendStrengthModifier:    1.8,
		MeanReversionFactor:      0.05,
		MarketPatternType:        "power_volatility",
		RiskToleranceLevel:       "extreme",
		LeveragePreference:       1.5,
		CosmicEventSensitivity:   2.0,
		SpecialtyAssetTypes:      []string{"character"},
		WeaknessAssetTypes:       []string{"publisher", "creator"},
		TradingBonusPercentage:   0.15,
		PenaltyPercentage:        0.10,
	},
	Mystery: {
		Keywords:                 []string{"batman", "shadow", "night", "dark", "mystic", "occult", "secret", "hidden"},
		VolatilityProfile:        "chaotic",
		BaseVolatilityMultiplier: 1.8,
		TrendStrengthModifier:    0.7,
		MeanReversionFactor:      0.08,
		MarketPatternType:        "mystery_unpredictable",
		RiskToleranceLevel:       "aggressive",
		LeveragePreference:       1.3,
		CosmicEventSensitivity:   1.2,
		SpecialtyAssetTypes:      []string{"character", "comic"},
		WeaknessAssetTypes:       []string{"creator"},
		TradingBonusPercentage:   0.12,
		PenaltyPercentage:        0.08,
	},
	Elements: {
		Keywords:                 []string{"storm", "fire", "ice", "earth", "water", "elemental", "nature", "environment"},
		VolatilityProfile:        "moderate",
		BaseVolatilityMultiplier: 1.1,
		TrendStrengthModifier:    1.1,
		MeanReversionFactor:      0.12,
		MarketPatternType:        "elemental_cycles",
		RiskToleranceLevel:       "moderate",
		LeveragePreference:       1.0,
		CosmicEventSensitivity:   0.9,
		SpecialtyAssetTypes:      []string{"character", "comic"},
		WeaknessAssetTypes:       []string{"publisher"},
		TradingBonusPercentage:   0.08,
		PenaltyPercentage:        0.04,
	},
	Time: {
		Keywords:                 []string{"time", "temporal", "chrono", "speed", "future", "past", "timeline", "paradox"},
		VolatilityProfile:        "high",
		BaseVolatilityMultiplier: 1.6,
		TrendStrengthModifier:    0.8,
		MeanReversionFactor:      0.20,
		MarketPatternType:        "temporal_paradox",
		RiskToleranceLevel:       "aggressive",
		LeveragePreference:       1.2,
		CosmicEventSensitivity:   1.5,
		SpecialtyAssetTypes:      []string{"character"},
		WeaknessAssetTypes:       []string{"creator", "publisher"},
		TradingBonusPercentage:   0.10,
		PenaltyPercentage:        0.06,
	},
	Spirit: {
		Keywords:                 []string{"ghost", "spirit", "soul", "astral", "phantom", "supernatural", "afterlife", "mystical"},
		VolatilityProfile:        "high",
		BaseVolatilityMultiplier: 1.4,
		TrendStrengthModifier:    1.0,
		MeanReversionFactor:      0.18,
		MarketPatternType:        "mystical_patterns",
		RiskToleranceLevel:       "aggressive",
		LeveragePreference:       1.1,
		CosmicEventSensitivity:   1.3,
		SpecialtyAssetTypes:      []string{"character", "comic"},
		WeaknessAssetTypes:       []string{"creator"},
		TradingBonusPercentage:   0.09,
		PenaltyPercentage:        0.05,
	},
}

// EventResponseProfile maps beat types to a house's response multiplier,
// derived from the house theme. Unknown beat types fall back to 1.0.
func EventResponseProfile(houseID string) map[string]float64 {
	theme, ok := Themes[houseID]
	if !ok {
		theme = Themes[Heroes]
	}
	return map[string]float64{
		"character_death": theme.BaseVolatilityMultiplier,
		"power_upgrade":   theme.BaseVolatilityMultiplier * 0.8,
		"cosmic_event":    theme.CosmicEventSensitivity,
		"team_formation":  1.1,
		"betrayal":        1.3,
		"resurrection":    1.5,
	}
}

// SeasonalityPattern returns quarterly trading multipliers per house.
func SeasonalityPattern(houseID string) map[string]float64 {
	patterns := map[string]map[string]float64{
		Heroes:   {"Q1": 1.1, "Q2": 1.2, "Q3": 1.0, "Q4": 1.15},
		Wisdom:   {"Q1": 1.0, "Q2": 1.0, "Q3": 1.0, "Q4": 1.0},
		Power:    {"Q1": 1.2, "Q2": 1.3, "Q3": 1.1, "Q4": 1.25},
		Mystery:  {"Q1": 0.9, "Q2": 1.1, "Q3": 1.2, "Q4": 1.3},
		Elements: {"Q1": 1.1, "Q2": 1.2, "Q3": 1.3, "Q4": 0.9},
		Time:     {"Q1": 1.0, "Q2": 1.1, "Q3": 1.0, "Q4": 1.2},
		Spirit:   {"Q1": 1.0, "Q2": 0.9, "Q3": 1.1, "Q4": 1.4},
	}
	if p, ok := patterns[houseID]; ok {
		return p
	}
	return patterns[Heroes]
}

// SynergisticHouses lists houses that amplify each other's market response.
func SynergisticHouses(houseID string) []string {
	synergies := map[string][]string{
		Heroes:   {Wisdom, Spirit},
		Wisdom:   {Heroes, Time},
		Power:    {Mystery, Elements},
		Mystery:  {Power, Spirit},
		Elements: {Power, Time},
		Time:     {Wisdom, Elements},
		Spirit:   {Heroes, Mystery},
	}
	return synergies[houseID]
}

// ConflictingHouses lists houses in structural opposition.
func ConflictingHouses(houseID string) []string {
	conflicts := map[string][]string{
		Heroes:  {Power, Mystery},
		Wisdom:  {Power},
		Power:   {Heroes, Wisdom},
		Mystery: {Heroes},
	}
	return conflicts[houseID]
}
