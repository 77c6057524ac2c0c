package houses

import (
	"fmt"
	"math"
)

// Validate checks the static tables at startup: every house must have a
// response profile and theme, every severity an impact curve and duration
// row, and every numeric entry must be finite and positive where required.
// A missing entry here would otherwise surface as a silent zero multiplier
// deep inside price math.
func Validate() error {
	for _, id := range IDs {
		resp, ok := VolatilityResponses[id]
		if !ok {
			return fmt.Errorf("house %q missing volatility response", id)
		}
		if !positiveFinite(resp.Multiplier) || !positiveFinite(resp.Stability) || !positiveFinite(resp.Recovery) {
			return fmt.Errorf("house %q has non-positive response values", id)
		}
		theme, ok := Themes[id]
		if !ok {
			return fmt.Errorf("house %q missing theme", id)
		}
		if !positiveFinite(theme.BaseVolatilityMultiplier) || !positiveFinite(theme.CosmicEventSensitivity) {
			return fmt.Errorf("house %q has non-positive theme multipliers", id)
		}
		if len(theme.Keywords) == 0 {
			return fmt.Errorf("house %q has no affiliation keywords", id)
		}
	}
	if len(VolatilityResponses) != len(IDs) {
		return fmt.Errorf("volatility response table has %d entries, want %d", len(VolatilityResponses), len(IDs))
	}

	for _, sev := range Severities {
		curve, ok := ImpactCurves[sev]
		if !ok {
			return fmt.Errorf("severity %q missing impact curve", sev)
		}
		if !positiveFinite(curve.Immediate) || !positiveFinite(curve.Peak) || !positiveFinite(curve.DecayFloor) {
			return fmt.Errorf("severity %q has non-positive curve values", sev)
		}
		if curve.Immediate > curve.Peak {
			return fmt.Errorf("severity %q immediate %f exceeds peak %f", sev, curve.Immediate, curve.Peak)
		}
		if _, ok := immediateDurations[sev]; !ok {
			return fmt.Errorf("severity %q missing immediate duration", sev)
		}
		if _, ok := mediumDurations[sev]; !ok {
			return fmt.Errorf("severity %q missing medium duration", sev)
		}
		if _, ok := memoryDecayRates[sev]; !ok {
			return fmt.Errorf("severity %q missing memory decay rate", sev)
		}
	}
	if len(ImpactCurves) != len(Severities) {
		return fmt.Errorf("impact curve table has %d entries, want %d", len(ImpactCurves), len(Severities))
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
