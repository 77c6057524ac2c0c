package houses

// BeatImpact quantifies how one story-beat type moves markets: a volatility
// spike, a momentum shift, and a signed fractional price impact.
type BeatImpact struct {
	VolatilitySpike float64
	MomentumShift   float64
	PriceImpact     float64
}

// BeatImpacts maps story beat types to their market impact factors.
var BeatImpacts = map[string]BeatImpact{
	"character_death": {VolatilitySpike: 0.8, MomentumShift: -0.5, PriceImpact: -0.15},
	"resurrection":    {VolatilitySpike: 1.2, MomentumShift: 0.8, PriceImpact: 0.25},
	"power_upgrade":   {VolatilitySpike: 0.6, MomentumShift: 0.4, PriceImpact: 0.12},
	"power_loss":      {VolatilitySpike: 0.7, MomentumShift: -0.3, PriceImpact: -0.08},
	"identity_reveal": {VolatilitySpike: 0.9, MomentumShift: 0.2, PriceImpact: 0.05},
	"team_formation":  {VolatilitySpike: 0.4, MomentumShift: 0.3, PriceImpact: 0.08},
	"betrayal":        {VolatilitySpike: 1.1, MomentumShift: -0.4, PriceImpact: -0.12},
	"cosmic_event":    {VolatilitySpike: 2.0, MomentumShift: 1.0, PriceImpact: 0.30},
	"origin_story":    {VolatilitySpike: 0.3, MomentumShift: 0.6, PriceImpact: 0.10},
	"finale":          {VolatilitySpike: 0.8, MomentumShift: -0.2, PriceImpact: 0.05},
}

// BeatImpactFor returns the impact factors for a beat type, defaulting to a
// small volatility-only nudge for unclassified beats.
func BeatImpactFor(beatType string) BeatImpact {
	if b, ok := BeatImpacts[beatType]; ok {
		return b
	}
	return BeatImpact{VolatilitySpike: 0.1}
}

// PowerLevelFactor scales character metrics by raw power tier.
type PowerLevelFactor struct {
	VolatilityFactor   float64
	MomentumMultiplier float64
	MarginRequirement  float64
}

var PowerLevelFactors = map[string]PowerLevelFactor{
	"Street Level":   {VolatilityFactor: 0.8, MomentumMultiplier: 0.9, MarginRequirement: 45.0},
	"Enhanced Human": {VolatilityFactor: 1.0, MomentumMultiplier: 1.0, MarginRequirement: 50.0},
	"Superhuman":     {VolatilityFactor: 1.3, MomentumMultiplier: 1.2, MarginRequirement: 60.0},
	"Cosmic":         {VolatilityFactor: 2.5, MomentumMultiplier: 2.0, MarginRequirement: 85.0},
	"Omega Level":    {VolatilityFactor: 3.5, MomentumMultiplier: 3.0, MarginRequirement: 100.0},
	"Universal":      {VolatilityFactor: 5.0, MomentumMultiplier: 4.0, MarginRequirement: 150.0},
}

// PowerLevelFor returns the factor row for a power level, defaulting to the
// Enhanced Human baseline.
func PowerLevelFor(level string) PowerLevelFactor {
	if f, ok := PowerLevelFactors[level]; ok {
		return f
	}
	return PowerLevelFactors["Enhanced Human"]
}

// storyArcMultipliers scales volatility by arc phase; climaxes run hot,
// resolutions cool off.
var storyArcMultipliers = map[string]float64{
	"origin":         1.2,
	"rising_action":  1.1,
	"climax":         1.8,
	"falling_action": 0.9,
	"resolution":     0.8,
}

func StoryArcVolatilityMultiplier(phase string) float64 {
	if m, ok := storyArcMultipliers[phase]; ok {
		return m
	}
	return 1.0
}
