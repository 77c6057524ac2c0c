package narrative

import (
	"context"
	"math"
	"testing"
	"time"

	"panelprofits/internal/houses"
	"panelprofits/internal/models"
)

func testEvent(id, assetID string, impact float64, start time.Time, duration time.Duration) models.NarrativeMarketEvent {
	return models.NarrativeMarketEvent{
		ID:             id,
		TriggerEventID: "trigger-" + id,
		EventTitle:     "test event",
		AffectedAssets: models.MustJSON([]string{assetID}),
		PriceImpacts:   models.MustJSON(map[string]float64{assetID: impact}),
		VolumeChanges:  models.MustJSON(map[string]float64{assetID: 1.5}),
		VolatilityAdjustments: models.MustJSON(map[string]float64{
			assetID: impact / 2,
		}),
		EventStartTime: start,
		EventEndTime:   start.Add(duration),
		PeakImpactTime: start.Add(time.Duration(float64(duration) * peakFraction)),
		CurrentPhase:   models.PhaseImmediate,
		IsActive:       true,
	}
}

func TestTimeCurvePeaksAtThirtyPercent(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	event := testEvent("e1", "a1", 0.05, start, 60*time.Minute)

	if got := TimeCurve(event, start); got != 0 {
		t.Fatalf("curve at start = %f, want 0", got)
	}
	if got := TimeCurve(event, start.Add(18*time.Minute)); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("curve at 30%% = %f, want 1.0", got)
	}
	if got := TimeCurve(event, start.Add(9*time.Minute)); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("curve at 15%% = %f, want 0.5", got)
	}
	// Just before the end the curve has decayed to its 0.3 floor.
	if got := TimeCurve(event, start.Add(60*time.Minute-time.Second)); math.Abs(got-0.3) > 1e-3 {
		t.Fatalf("curve near end = %f, want ~0.3", got)
	}
	// Past the end the event contributes nothing even before eviction.
	if got := TimeCurve(event, start.Add(60*time.Minute+time.Second)); got != 0 {
		t.Fatalf("curve after end = %f, want 0", got)
	}
}

func TestAdjustPriceIdentityWithoutEvents(t *testing.T) {
	cache := NewEventCache()
	engine := NewEngine(cache, newStubRepo(), nil)

	got := engine.AdjustPrice(context.Background(), "a1", 100.0, time.Now().UTC())
	if got != 100.0 {
		t.Fatalf("price without events = %f, want 100", got)
	}
}

func TestAdjustPriceIdentityOnMetricsReadFailure(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(18 * time.Minute)

	cache := NewEventCache()
	cache.Put(testEvent("e1", "a1", 0.1, start, 60*time.Minute))
	repo := newStubRepo()
	repo.failMetricsRead = true
	engine := NewEngine(cache, repo, nil)

	if got := engine.AdjustPrice(context.Background(), "a1", 100.0, now); got != 100.0 {
		t.Fatalf("price on store failure = %f, want identity 100", got)
	}
}

func TestAdjustPriceIdentityWithoutMetricsRow(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(18 * time.Minute) // at peak, curve = 1.0

	cache := NewEventCache()
	cache.Put(testEvent("e1", "a1", 0.10, start, 60*time.Minute))
	engine := NewEngine(cache, newStubRepo(), nil)

	// Active events but no metrics row: the overlay must not apply.
	if got := engine.AdjustPrice(context.Background(), "a1", 100.0, now); got != 100.0 {
		t.Fatalf("price without metrics row = %f, want identity 100", got)
	}
}

func TestAdjustPriceClampedToMaxImpact(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(18 * time.Minute) // at peak, curve = 1.0

	repo := newStubRepo()
	repo.metricsByAsset["a1"] = &models.NarrativeTradingMetrics{AssetID: "a1"}
	cache := NewEventCache()
	cache.Put(testEvent("e1", "a1", 3.0, start, 60*time.Minute))
	engine := NewEngine(cache, repo, nil)

	got := engine.AdjustPrice(context.Background(), "a1", 100.0, now)
	want := 100.0 * (1.0 + MaxPriceImpact)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("clamped price = %f, want %f", got, want)
	}

	cache.Rebuild(nil)
	cache.Put(testEvent("e2", "a1", -3.0, start, 60*time.Minute))
	got = engine.AdjustPrice(context.Background(), "a1", 100.0, now)
	want = 100.0 * (1.0 - MaxPriceImpact)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("clamped negative price = %f, want %f", got, want)
	}
}

func TestAdjustPriceSkipsMalformedEvent(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(18 * time.Minute)

	bad := testEvent("bad", "a1", 0.1, start, 60*time.Minute)
	bad.PriceImpacts = models.MustJSON(map[string]string{"a1": "not a number"})

	repo := newStubRepo()
	repo.metricsByAsset["a1"] = &models.NarrativeTradingMetrics{AssetID: "a1"}
	cache := NewEventCache()
	cache.Put(bad)
	engine := NewEngine(cache, repo, nil)

	if got := engine.AdjustPrice(context.Background(), "a1", 100.0, now); got != 100.0 {
		t.Fatalf("price with malformed event = %f, want identity 100", got)
	}
}

func TestAdjustPriceHouseMultiplierRatio(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(18 * time.Minute)

	// Identical event, volatility pressure zeroed so only the per-event
	// house multiplier separates the two deltas.
	adjusted := func(houseID string) float64 {
		repo := newStubRepo()
		affiliation := houseID
		repo.metricsByAsset["a1"] = &models.NarrativeTradingMetrics{
			AssetID:                "a1",
			HouseAffiliation:       &affiliation,
			HouseTradingMultiplier: houses.ResponseFor(houseID).Multiplier,
		}
		event := testEvent("e1", "a1", 0.02, start, 60*time.Minute)
		event.VolatilityAdjustments = models.MustJSON(map[string]float64{"a1": 0})
		cache := NewEventCache()
		cache.Put(event)
		engine := NewEngine(cache, repo, nil)
		return engine.AdjustPrice(context.Background(), "a1", 100.0, now)
	}

	powerDelta := adjusted(houses.Power) - 100.0
	wisdomDelta := adjusted(houses.Wisdom) - 100.0

	// Power passes 2.2x through, wisdom 0.8x: ratio 2.75.
	if wisdomDelta <= 0 || math.Abs(powerDelta/wisdomDelta-2.75) > 1e-9 {
		t.Fatalf("delta ratio = %f (power %f, wisdom %f), want 2.75", powerDelta/wisdomDelta, powerDelta, wisdomDelta)
	}
}

func TestAdjustPriceHouseDampingBounded(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(18 * time.Minute)

	repo := newStubRepo()
	affiliation := houses.Power
	repo.metricsByAsset["a1"] = &models.NarrativeTradingMetrics{
		AssetID:                "a1",
		HouseAffiliation:       &affiliation,
		HouseTradingMultiplier: 50.0, // absurd pressure, damping must stay capped
	}
	event := testEvent("e1", "a1", 0.02, start, 60*time.Minute)
	event.VolatilityAdjustments = models.MustJSON(map[string]float64{"a1": 1.0})
	cache := NewEventCache()
	cache.Put(event)
	engine := NewEngine(cache, repo, nil)

	got := engine.AdjustPrice(context.Background(), "a1", 100.0, now)
	want := 100.0 * (1.0 + 0.02*houses.ResponseFor(houses.Power).Multiplier + maxHouseDamping)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("damped price = %f, want %f with damping capped at %f", got, want, maxHouseDamping)
	}
}

func TestAdjustPriceVolatilityPressureScaledByHouse(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(18 * time.Minute)

	repo := newStubRepo()
	affiliation := houses.Power
	repo.metricsByAsset["a1"] = &models.NarrativeTradingMetrics{
		AssetID:                "a1",
		HouseAffiliation:       &affiliation,
		HouseTradingMultiplier: 1.0,
	}
	event := testEvent("e1", "a1", 0, start, 60*time.Minute)
	event.VolatilityAdjustments = models.MustJSON(map[string]float64{"a1": 0.02})
	cache := NewEventCache()
	cache.Put(event)
	engine := NewEngine(cache, repo, nil)

	got := engine.AdjustPrice(context.Background(), "a1", 100.0, now)
	// pressure = 0.02 x curve 1.0 x house 2.2; damping = pressure x 1.0 x (2 - 0.4)
	want := 100.0 * (1.0 + 0.02*2.2*(2.0-0.4))
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("damped price = %f, want %f with house-scaled pressure", got, want)
	}
}

func TestAdjustVolatilityBoundsAndIdentity(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo()
	engine := NewEngine(NewEventCache(), repo, nil)

	// No metrics row: pass through untouched.
	if got := engine.AdjustVolatility(context.Background(), "a1", 0.7, now); got != 0.7 {
		t.Fatalf("volatility without metrics = %f, want identity 0.7", got)
	}

	repo.metricsByAsset["a1"] = &models.NarrativeTradingMetrics{
		AssetID:                      "a1",
		MythicVolatilityScore:        10.0,
		StoryArcVolatilityMultiplier: 1.0,
		PowerLevelVolatilityFactor:   1.0,
	}
	if got := engine.AdjustVolatility(context.Background(), "a1", 1.0, now); got != MaxVolatility {
		t.Fatalf("volatility = %f, want clamped to %f", got, MaxVolatility)
	}

	repo.metricsByAsset["a1"].MythicVolatilityScore = 0.0001
	if got := engine.AdjustVolatility(context.Background(), "a1", 1.0, now); got != MinVolatility {
		t.Fatalf("volatility = %f, want clamped to %f", got, MinVolatility)
	}

	repo.failMetricsRead = true
	if got := engine.AdjustVolatility(context.Background(), "a1", 0.4, now); got != 0.4 {
		t.Fatalf("volatility on store failure = %f, want identity 0.4", got)
	}
}

func TestAdjustVolatilityCombinesMetricsAndHouse(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo()
	affiliation := houses.Wisdom
	repo.metricsByAsset["a1"] = &models.NarrativeTradingMetrics{
		AssetID:                      "a1",
		MythicVolatilityScore:        0.05,
		StoryArcVolatilityMultiplier: 1.8,
		PowerLevelVolatilityFactor:   2.0,
		CosmicEventVolatilityBoost:   0.1,
		HouseAffiliation:             &affiliation,
	}
	engine := NewEngine(NewEventCache(), repo, nil)

	// (1.0 x 0.05 x 1.8 x 2.0 + 0.1) x 0.8
	want := (1.0*0.05*1.8*2.0 + 0.1) * houses.ResponseFor(houses.Wisdom).Multiplier
	if got := engine.AdjustVolatility(context.Background(), "a1", 1.0, now); math.Abs(got-want) > 1e-9 {
		t.Fatalf("volatility = %f, want %f", got, want)
	}
}

func TestMomentumImpactFormulaAndClamp(t *testing.T) {
	repo := newStubRepo()
	repo.metricsByAsset["a1"] = &models.NarrativeTradingMetrics{
		AssetID:                "a1",
		NarrativeMomentumScore: 2.5,
		CulturalImpactIndex:    1.0,
		MediaBoostFactor:       1.0,
	}
	engine := NewEngine(NewEventCache(), repo, nil)

	// (2.5/5) x 0.1 x 1 x 1 x 1 x 1 = 0.05
	if got := engine.MomentumImpact(context.Background(), "a1"); math.Abs(got-0.05) > 1e-9 {
		t.Fatalf("momentum impact = %f, want 0.05", got)
	}

	repo.metricsByAsset["a1"].NarrativeMomentumScore = 5.0
	repo.metricsByAsset["a1"].CulturalImpactIndex = 3.0
	if got := engine.MomentumImpact(context.Background(), "a1"); got != 0.1 {
		t.Fatalf("momentum impact = %f, want clamped 0.1", got)
	}

	repo.failMetricsRead = true
	if got := engine.MomentumImpact(context.Background(), "a1"); got != 0 {
		t.Fatalf("momentum impact on read failure = %f, want 0", got)
	}
}
