package narrative

import (
	"github.com/google/uuid"

	"panelprofits/internal/houses"
	"panelprofits/internal/models"
)

// GenerateTrigger translates one story beat into a market trigger: severity
// assessed from the beat text, impact ranges scaled by narrative significance
// and signed by the beat type's price direction, durations taken from the
// severity tables. houseAssets are extra indirectly-affected asset ids
// sharing the beat's house affiliation. A beat touching no assets at all
// yields nil, not an error.
func GenerateTrigger(beat models.StoryBeat, houseAssets []string) *models.StoryEventTrigger {
	severity := houses.AssessSeverity(beat.BeatTitle, beat.Description)
	curve := houses.ImpactCurves[severity]
	impact := houses.BeatImpactFor(beat.BeatType)

	sig := beat.NarrativeSignificance
	if sig <= 0 {
		sig = 0.5
	}
	if sig > 1 {
		sig = 1
	}

	direction := 1.0
	if impact.PriceImpact < 0 {
		direction = -1.0
	}

	direct := make([]string, 0, 4)
	if beat.PrimaryCharacterID != nil && *beat.PrimaryCharacterID != "" {
		direct = append(direct, *beat.PrimaryCharacterID)
	}
	indirect := beat.SecondaryIDs()
	for _, id := range houseAssets {
		if id == "" || contains(direct, id) || contains(indirect, id) {
			continue
		}
		indirect = append(indirect, id)
	}
	if len(direct)+len(indirect) == 0 {
		return nil
	}

	return &models.StoryEventTrigger{
		ID:            uuid.NewString(),
		TriggerName:   beat.BeatTitle,
		TriggerType:   beat.BeatType,
		EventSeverity: severity,
		StoryBeatID:   beat.ID,
		CharacterID:   beat.PrimaryCharacterID,

		PriceImpactMin: curve.Immediate * sig * direction,
		PriceImpactMax: curve.Peak * sig * direction,

		VolatilityImpactMultiplier: 1.0 + impact.VolatilitySpike*sig,
		VolumeImpactMultiplier:     1.0 + sig,
		SentimentShift:             impact.MomentumShift * sig,

		AffectedAssetTypes:       models.MustJSON([]string{"character", "comic"}),
		DirectlyAffectedAssets:   models.MustJSON(direct),
		IndirectlyAffectedAssets: models.MustJSON(indirect),
		HouseResponseMultipliers: models.MustJSON(houseResponses(beat.BeatType)),
		CrossHouseEffects:        models.MustJSON(crossHouseEffects(beat.HouseAffiliation)),

		ImmediateImpactDuration:  houses.ImmediateDuration(severity),
		MediumTermEffectDuration: houses.MediumTermDuration(severity),
		LongTermMemoryDecay:      houses.MemoryDecay(severity),

		CooldownPeriod:       houses.Cooldown(severity),
		MaxActivationsPerDay: houses.MaxActivationsPerDay(severity),
		IsActive:             true,
	}
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// houseResponses builds the per-house response multiplier map for one beat
// type from the static house profiles.
func houseResponses(beatType string) map[string]float64 {
	out := make(map[string]float64, len(houses.IDs))
	for _, id := range houses.IDs {
		profile := houses.EventResponseProfile(id)
		if m, ok := profile[beatType]; ok {
			out[id] = m
		} else {
			out[id] = 1.0
		}
	}
	return out
}

// crossHouseEffects encodes spillover: synergistic houses amplify (positive
// fraction), conflicting houses counter-move (negative fraction). Beats
// without an affiliation spill nowhere.
func crossHouseEffects(affiliation *string) map[string]float64 {
	out := map[string]float64{}
	if affiliation == nil || *affiliation == "" {
		return out
	}
	for _, id := range houses.SynergisticHouses(*affiliation) {
		out[id] = 0.5
	}
	for _, id := range houses.ConflictingHouses(*affiliation) {
		out[id] = -0.3
	}
	return out
}
