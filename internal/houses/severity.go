package houses

import "strings"

// Event severities in escalating order.
const (
	SeverityMinor            = "minor"
	SeverityModerate         = "moderate"
	SeverityMajor            = "major"
	SeverityCosmic           = "cosmic"
	SeverityUniverseAltering = "universe_altering"
)

var Severities = []string{
	SeverityMinor,
	SeverityModerate,
	SeverityMajor,
	SeverityCosmic,
	SeverityUniverseAltering,
}

// ImpactCurve is the price-impact envelope of one severity class: Immediate
// is the on-trigger fraction, Peak the maximum fraction at peak time, and
// DecayFloor the daily retention applied by the long-horizon memory decay.
type ImpactCurve struct {
	Immediate  float64
	Peak       float64
	DecayFloor float64
}

// ImpactCurves maps severity to its impact envelope.
var ImpactCurves = map[string]ImpactCurve{
	SeverityMinor:            {Immediate: 0.02, Peak: 0.05, DecayFloor: 0.95},
	SeverityModerate:         {Immediate: 0.05, Peak: 0.12, DecayFloor: 0.90},
	SeverityMajor:            {Immediate: 0.12, Peak: 0.25, DecayFloor: 0.85},
	SeverityCosmic:           {Immediate: 0.25, Peak: 0.50, DecayFloor: 0.80},
	SeverityUniverseAltering: {Immediate: 0.40, Peak: 0.75, DecayFloor: 0.75},
}

// immediateDurations holds the immediate-impact window per severity, minutes.
var immediateDurations = map[string]int{
	SeverityMinor:            60,
	SeverityModerate:         240,
	SeverityMajor:            720,
	SeverityCosmic:           1440,
	SeverityUniverseAltering: 2880,
}

// mediumDurations holds the medium-term effect window per severity, minutes.
var mediumDurations = map[string]int{
	SeverityMinor:            1440,
	SeverityModerate:         4320,
	SeverityMajor:            10080,
	SeverityCosmic:           20160,
	SeverityUniverseAltering: 43200,
}

// memoryDecayRates holds daily long-term memory decay per severity.
var memoryDecayRates = map[string]float64{
	SeverityMinor:            0.05,
	SeverityModerate:         0.03,
	SeverityMajor:            0.02,
	SeverityCosmic:           0.01,
	SeverityUniverseAltering: 0.005,
}

// cooldownMinutes holds re-trigger cooldowns per severity.
var cooldownMinutes = map[string]int{
	SeverityMinor:            60,
	SeverityModerate:         240,
	SeverityMajor:            720,
	SeverityCosmic:           1440,
	SeverityUniverseAltering: 4320,
}

var maxDailyActivations = map[string]int{
	SeverityMinor:            10,
	SeverityModerate:         5,
	SeverityMajor:            3,
	SeverityCosmic:           2,
	SeverityUniverseAltering: 1,
}

// ImmediateDuration returns the immediate-impact window in minutes, falling
// back to the moderate value for unknown severities.
func ImmediateDuration(severity string) int {
	if d, ok := immediateDurations[severity]; ok {
		return d
	}
	return immediateDurations[SeverityModerate]
}

func MediumTermDuration(severity string) int {
	if d, ok := mediumDurations[severity]; ok {
		return d
	}
	return mediumDurations[SeverityModerate]
}

func MemoryDecay(severity string) float64 {
	if d, ok := memoryDecayRates[severity]; ok {
		return d
	}
	return memoryDecayRates[SeverityModerate]
}

func Cooldown(severity string) int {
	if c, ok := cooldownMinutes[severity]; ok {
		return c
	}
	return cooldownMinutes[SeverityModerate]
}

func MaxActivationsPerDay(severity string) int {
	if m, ok := maxDailyActivations[severity]; ok {
		return m
	}
	return maxDailyActivations[SeverityModerate]
}

// severityKeywords drives keyword-based severity assessment, checked from
// most to least severe so the strongest match wins.
var severityKeywords = []struct {
	severity string
	keywords []string
}{
	{SeverityUniverseAltering, []string{"multiverse", "reality", "universe", "dimensional", "cosmic crisis"}},
	{SeverityCosmic, []string{"galactus", "infinity", "cosmic", "celestial", "abstract"}},
	{SeverityMajor, []string{"death", "resurrection", "identity", "reveal", "wedding", "betrayal"}},
	{SeverityModerate, []string{"fight", "team", "conflict", "discovery", "relationship"}},
	{SeverityMinor, []string{"training", "daily", "conversation", "travel", "research"}},
}

// AssessSeverity derives the severity class of a beat from its title and
// description. Beats matching no keyword default to moderate.
func AssessSeverity(title, description string) string {
	content := strings.ToLower(title + " " + description)
	for _, entry := range severityKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(content, kw) {
				return entry.severity
			}
		}
	}
	return SeverityModerate
}
