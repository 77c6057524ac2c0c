package narrative

import (
	"time"

	"github.com/google/uuid"

	"panelprofits/internal/models"
)

// peakFraction places the peak impact time at 30% of the event window. A
// fixed design constant, not configurable per severity.
const peakFraction = 0.3

// volumeChangeFloor: narrative events never decrease expected trading
// volume; every affected asset gets at least +10%.
const volumeChangeFloor = 1.1

// Materialize turns one trigger plus its parent beat into a time-bounded
// market event: the window spans the trigger's immediate impact duration,
// direct assets carry the impact-range max, indirect assets the min.
func Materialize(trigger *models.StoryEventTrigger, beat models.StoryBeat, now time.Time) *models.NarrativeMarketEvent {
	duration := time.Duration(trigger.ImmediateImpactDuration) * time.Minute
	if duration <= 0 {
		duration = time.Hour
	}
	start := now
	end := start.Add(duration)
	peak := start.Add(time.Duration(float64(duration) * peakFraction))

	direct := trigger.DirectAssets()
	indirect := trigger.IndirectAssets()
	affected := make([]string, 0, len(direct)+len(indirect))
	affected = append(affected, direct...)

	priceImpacts := make(map[string]float64, len(affected))
	volumeChanges := make(map[string]float64, len(affected))
	volatilityAdjustments := make(map[string]float64, len(affected))

	volumeChange := trigger.VolatilityImpactMultiplier
	if volumeChange < volumeChangeFloor {
		volumeChange = volumeChangeFloor
	}

	for _, id := range direct {
		priceImpacts[id] = trigger.PriceImpactMax
		volumeChanges[id] = volumeChange
		volatilityAdjustments[id] = trigger.VolatilityImpactMultiplier
	}
	for _, id := range indirect {
		if _, dup := priceImpacts[id]; dup {
			continue
		}
		affected = append(affected, id)
		priceImpacts[id] = trigger.PriceImpactMin
		volumeChanges[id] = volumeChange
		volatilityAdjustments[id] = trigger.VolatilityImpactMultiplier
	}

	return &models.NarrativeMarketEvent{
		ID:               uuid.NewString(),
		TriggerEventID:   trigger.ID,
		EventTitle:       trigger.TriggerName,
		EventDescription: beat.Description,
		NarrativeContext: beat.BeatCategory,

		AffectedAssets:        models.MustJSON(affected),
		PriceImpacts:          models.MustJSON(priceImpacts),
		VolumeChanges:         models.MustJSON(volumeChanges),
		VolatilityAdjustments: models.MustJSON(volatilityAdjustments),

		HouseImpacts:           models.MustJSON(houseImpacts(trigger)),
		CrossHouseInteractions: trigger.CrossHouseEffects,

		EventStartTime: start,
		EventEndTime:   end,
		PeakImpactTime: peak,

		CurrentPhase: models.PhaseImmediate,
		IsActive:     true,

		NarrativeRelevanceScore: beat.NarrativeSignificance,
		CulturalImpactMeasure:   beat.CulturalImpact,
	}
}

func houseImpacts(trigger *models.StoryEventTrigger) map[string]models.HouseImpact {
	responses, err := trigger.ResponseMultipliers()
	if err != nil {
		return map[string]models.HouseImpact{}
	}
	out := make(map[string]models.HouseImpact, len(responses))
	for houseID, mult := range responses {
		out[houseID] = models.HouseImpact{
			VolatilityMultiplier: mult,
			SentimentShift:       trigger.SentimentShift,
			TradingVolumeChange:  mult * 0.5,
		}
	}
	return out
}
