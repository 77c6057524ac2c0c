package narrative

import (
	"testing"
	"time"

	"panelprofits/internal/houses"
	"panelprofits/internal/models"
)

func TestGenerateTriggerSeverityAndDurations(t *testing.T) {
	characterID := "c1"
	beat := models.StoryBeat{
		ID:                    "b1",
		BeatTitle:             "Cosmic entity devours a galaxy",
		BeatType:              "cosmic_event",
		Description:           "galactus arrives",
		NarrativeSignificance: 1.0,
		PrimaryCharacterID:    &characterID,
		SecondaryCharacterIDs: models.MustJSON([]string{"c2", "c3"}),
	}

	trigger := GenerateTrigger(beat, nil)
	if trigger == nil {
		t.Fatalf("trigger not generated")
	}

	if trigger.EventSeverity != houses.SeverityCosmic {
		t.Fatalf("severity = %q, want cosmic", trigger.EventSeverity)
	}
	if trigger.ImmediateImpactDuration != 1440 {
		t.Fatalf("immediate duration = %d, want 1440", trigger.ImmediateImpactDuration)
	}
	if trigger.MediumTermEffectDuration != 20160 {
		t.Fatalf("medium duration = %d, want 20160", trigger.MediumTermEffectDuration)
	}
	if trigger.PriceImpactMin != 0.25 || trigger.PriceImpactMax != 0.50 {
		t.Fatalf("impact range = [%f, %f], want [0.25, 0.50]", trigger.PriceImpactMin, trigger.PriceImpactMax)
	}
	if got := trigger.DirectAssets(); len(got) != 1 || got[0] != "c1" {
		t.Fatalf("direct assets = %v, want [c1]", got)
	}
	if got := trigger.IndirectAssets(); len(got) != 2 {
		t.Fatalf("indirect assets = %v, want 2 entries", got)
	}

	responses, err := trigger.ResponseMultipliers()
	if err != nil {
		t.Fatalf("response multipliers: %v", err)
	}
	if responses[houses.Power] != houses.Themes[houses.Power].CosmicEventSensitivity {
		t.Fatalf("power cosmic response = %f, want %f", responses[houses.Power], houses.Themes[houses.Power].CosmicEventSensitivity)
	}
}

func TestGenerateTriggerNegativeDirectionForDeath(t *testing.T) {
	characterID := "c1"
	beat := models.StoryBeat{
		ID:                    "b1",
		BeatTitle:             "The hero dies in battle",
		BeatType:              "character_death",
		Description:           "death of the protector",
		NarrativeSignificance: 0.5,
		PrimaryCharacterID:    &characterID,
	}

	trigger := GenerateTrigger(beat, nil)
	if trigger == nil {
		t.Fatalf("trigger not generated")
	}

	if trigger.PriceImpactMin >= 0 || trigger.PriceImpactMax >= 0 {
		t.Fatalf("death impact range = [%f, %f], want negative", trigger.PriceImpactMin, trigger.PriceImpactMax)
	}
	if trigger.SentimentShift >= 0 {
		t.Fatalf("death sentiment shift = %f, want negative", trigger.SentimentShift)
	}
}

func TestGenerateTriggerDefaultsSeverityToModerate(t *testing.T) {
	characterID := "c1"
	beat := models.StoryBeat{
		ID:                    "b1",
		BeatTitle:             "An uneventful afternoon",
		BeatType:              "slice_of_life",
		NarrativeSignificance: 0.5,
		PrimaryCharacterID:    &characterID,
	}

	trigger := GenerateTrigger(beat, nil)
	if trigger == nil {
		t.Fatalf("trigger not generated")
	}
	if trigger.EventSeverity != houses.SeverityModerate {
		t.Fatalf("severity = %q, want moderate fallback", trigger.EventSeverity)
	}
	if trigger.CooldownPeriod != houses.Cooldown(houses.SeverityModerate) {
		t.Fatalf("cooldown = %d, want moderate default", trigger.CooldownPeriod)
	}
}

func TestGenerateTriggerNilForBeatWithoutAssets(t *testing.T) {
	beat := models.StoryBeat{
		ID:                    "b1",
		BeatTitle:             "Narration over an empty skyline",
		BeatType:              "slice_of_life",
		NarrativeSignificance: 0.5,
	}

	if trigger := GenerateTrigger(beat, nil); trigger != nil {
		t.Fatalf("beat without assets produced trigger %+v", trigger)
	}
}

func TestGenerateTriggerMergesHouseAssetsIntoIndirect(t *testing.T) {
	characterID := "c1"
	beat := models.StoryBeat{
		ID:                    "b1",
		BeatTitle:             "Team discovery in the archives",
		BeatType:              "plot_twist",
		NarrativeSignificance: 0.7,
		PrimaryCharacterID:    &characterID,
		SecondaryCharacterIDs: models.MustJSON([]string{"c2"}),
	}

	trigger := GenerateTrigger(beat, []string{"c1", "c2", "h1", "h2", ""})
	if trigger == nil {
		t.Fatalf("trigger not generated")
	}

	indirect := trigger.IndirectAssets()
	if len(indirect) != 3 {
		t.Fatalf("indirect assets = %v, want [c2 h1 h2]", indirect)
	}
	seen := map[string]bool{}
	for _, id := range indirect {
		if seen[id] {
			t.Fatalf("duplicate indirect asset %q in %v", id, indirect)
		}
		seen[id] = true
	}
	if seen["c1"] || !seen["h1"] || !seen["h2"] {
		t.Fatalf("indirect assets = %v, want house assets minus the direct one", indirect)
	}
}

func TestMaterializeWindowAndImpactAssignment(t *testing.T) {
	characterID := "c1"
	beat := models.StoryBeat{
		ID:                    "b1",
		BeatTitle:             "Minor training session",
		BeatType:              "origin_story",
		Description:           "training montage",
		NarrativeSignificance: 1.0,
		PrimaryCharacterID:    &characterID,
		SecondaryCharacterIDs: models.MustJSON([]string{"c2"}),
	}
	trigger := GenerateTrigger(beat, nil)
	if trigger == nil {
		t.Fatalf("trigger not generated")
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	event := Materialize(trigger, beat, now)

	wantDuration := time.Duration(trigger.ImmediateImpactDuration) * time.Minute
	if event.Duration() != wantDuration {
		t.Fatalf("duration = %v, want %v", event.Duration(), wantDuration)
	}
	if wantDuration != 60*time.Minute {
		t.Fatalf("minor immediate window = %v, want 60m", wantDuration)
	}
	wantPeak := now.Add(18 * time.Minute)
	if !event.PeakImpactTime.Equal(wantPeak) {
		t.Fatalf("peak = %v, want %v at 30%% of window", event.PeakImpactTime, wantPeak)
	}
	if !event.EventStartTime.Before(event.PeakImpactTime) || !event.PeakImpactTime.Before(event.EventEndTime) {
		t.Fatalf("window ordering violated: %v / %v / %v", event.EventStartTime, event.PeakImpactTime, event.EventEndTime)
	}

	impacts, err := event.PriceImpactMap()
	if err != nil {
		t.Fatalf("price impacts: %v", err)
	}
	if impacts["c1"] != trigger.PriceImpactMax {
		t.Fatalf("direct impact = %f, want range max %f", impacts["c1"], trigger.PriceImpactMax)
	}
	if impacts["c2"] != trigger.PriceImpactMin {
		t.Fatalf("indirect impact = %f, want range min %f", impacts["c2"], trigger.PriceImpactMin)
	}

	volumes, err := event.VolumeChangeMap()
	if err != nil {
		t.Fatalf("volume changes: %v", err)
	}
	for id, v := range volumes {
		if v < 1.1 {
			t.Fatalf("volume change for %s = %f, want floor 1.1", id, v)
		}
	}

	if event.CurrentPhase != models.PhaseImmediate {
		t.Fatalf("initial phase = %q, want immediate", event.CurrentPhase)
	}
	if !event.IsActive {
		t.Fatalf("materialized event not active")
	}
}

func TestPhaseAtThresholds(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	event := testEvent("e1", "a1", 0.05, start, 100*time.Minute)

	cases := []struct {
		at   time.Duration
		want string
	}{
		{10 * time.Minute, models.PhaseImmediate},
		{29 * time.Minute, models.PhaseImmediate},
		{30 * time.Minute, models.PhaseMediumTerm},
		{79 * time.Minute, models.PhaseMediumTerm},
		{80 * time.Minute, models.PhaseDecay},
		{99 * time.Minute, models.PhaseDecay},
	}
	for _, tc := range cases {
		if got := event.PhaseAt(start.Add(tc.at)); got != tc.want {
			t.Fatalf("phase at %v = %q, want %q", tc.at, got, tc.want)
		}
	}
}
