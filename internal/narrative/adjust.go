package narrative

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"panelprofits/internal/houses"
	"panelprofits/internal/models"
	"panelprofits/internal/repository"
)

const (
	// MaxPriceImpact bounds the total fractional price adjustment from all
	// concurrent events combined.
	MaxPriceImpact = 0.50

	// Mythic volatility output bounds.
	MinVolatility = 0.001
	MaxVolatility = 2.0

	// House damping and momentum contributions are each capped at ±10%.
	maxHouseDamping   = 0.1
	maxMomentumImpact = 0.1
)

// Engine applies active narrative events to prices and volatility. All event
// reads go through the cache; storage is only touched for per-asset metrics.
// Any read failure degrades to identity so a bad row never distorts a price.
type Engine struct {
	cache *EventCache
	repo  repository.Repository
	log   *zap.Logger
}

func NewEngine(cache *EventCache, repo repository.Repository, log *zap.Logger) *Engine {
	return &Engine{cache: cache, repo: repo, log: log}
}

// TimeCurve is the impact envelope over an event's life: linear rise to 1.0
// at the 30% peak, then linear decay down to 0.3 at the end of the window.
// Past the end the event contributes nothing, even if eviction lags.
func TimeCurve(event models.NarrativeMarketEvent, now time.Time) float64 {
	total := event.Duration()
	if total <= 0 {
		return 0
	}
	progress := float64(now.Sub(event.EventStartTime)) / float64(total)
	if progress <= 0 || progress > 1 {
		return 0
	}
	if progress <= peakFraction {
		return progress / peakFraction
	}
	return 1.0 - (progress-peakFraction)/(1.0-peakFraction)*0.7
}

// AdjustPrice returns the narrative-adjusted price for one asset: each active
// event contributes its impact weighted by the time curve and the asset's
// house response multiplier, plus a bounded house damping term, with the
// combined fraction clamped to ±MaxPriceImpact.
func (e *Engine) AdjustPrice(ctx context.Context, assetID string, basePrice float64, now time.Time) float64 {
	events := e.cache.ActiveForAsset(assetID, now)
	if len(events) == 0 {
		return basePrice
	}

	// A missing metrics row is the identity case, same as a store failure:
	// the overlay never applies without the asset's narrative profile.
	metrics, err := e.repo.GetTradingMetricsByAssetID(ctx, assetID)
	if err != nil {
		e.warnAsset("metrics read failed, passing price through", assetID, err)
		return basePrice
	}
	if metrics == nil {
		return basePrice
	}

	houseMultiplier := 1.0
	if metrics.HouseAffiliation != nil {
		houseMultiplier = houses.ResponseFor(*metrics.HouseAffiliation).Multiplier
	}

	totalImpact := 0.0
	totalVolAdj := 0.0
	for _, event := range events {
		curve := TimeCurve(event, now)
		if curve == 0 {
			continue
		}
		impacts, err := event.PriceImpactMap()
		if err != nil {
			e.warnEvent("skipping event with malformed price impacts", event.ID, err)
			continue
		}
		volAdjs, err := event.VolatilityAdjustmentMap()
		if err != nil {
			e.warnEvent("skipping event with malformed volatility adjustments", event.ID, err)
			continue
		}
		totalImpact += impacts[assetID] * curve * houseMultiplier
		totalVolAdj += volAdjs[assetID] * curve * houseMultiplier
	}

	totalImpact += houseDamping(metrics, totalVolAdj)

	totalImpact = math.Max(-MaxPriceImpact, math.Min(MaxPriceImpact, totalImpact))
	return basePrice * (1.0 + totalImpact)
}

// AdjustVolatility layers the asset's mythic volatility metrics onto a base
// volatility figure and clamps the result to the mythic bounds. Assets with
// no metrics row pass through unchanged.
func (e *Engine) AdjustVolatility(ctx context.Context, assetID string, baseVolatility float64, now time.Time) float64 {
	metrics, err := e.repo.GetTradingMetricsByAssetID(ctx, assetID)
	if err != nil {
		e.warnAsset("metrics read failed, passing volatility through", assetID, err)
		return baseVolatility
	}
	if metrics == nil {
		return baseVolatility
	}

	enhanced := baseVolatility*
		metrics.MythicVolatilityScore*
		metrics.StoryArcVolatilityMultiplier*
		metrics.PowerLevelVolatilityFactor +
		metrics.CosmicEventVolatilityBoost

	if metrics.HouseAffiliation != nil {
		enhanced *= houses.ResponseFor(*metrics.HouseAffiliation).Multiplier
	}

	return math.Max(MinVolatility, math.Min(MaxVolatility, enhanced))
}

// MomentumImpact is the asset's persistent narrative drift: the momentum
// score scaled by cultural reach, story progression, media exposure and
// decay, capped at ±10% per application. Missing or unreadable metrics
// contribute nothing.
func (e *Engine) MomentumImpact(ctx context.Context, assetID string) float64 {
	metrics, err := e.repo.GetTradingMetricsByAssetID(ctx, assetID)
	if err != nil || metrics == nil {
		return 0
	}
	impact := (metrics.NarrativeMomentumScore / 5.0) * 0.1 *
		metrics.CulturalImpactIndex *
		(1.0 + metrics.StoryProgressionRate*0.2) *
		metrics.MediaBoostFactor *
		(1.0 - metrics.MomentumDecayRate)
	return math.Max(-maxMomentumImpact, math.Min(maxMomentumImpact, impact))
}

// houseDamping converts accumulated volatility pressure into a bounded price
// contribution shaped by the asset's house: volatile houses pass more
// through, stable houses absorb it.
func houseDamping(metrics *models.NarrativeTradingMetrics, totalVolAdj float64) float64 {
	if totalVolAdj == 0 || metrics == nil || metrics.HouseAffiliation == nil {
		return 0
	}
	response := houses.ResponseFor(*metrics.HouseAffiliation)
	damping := totalVolAdj * metrics.HouseTradingMultiplier * (2.0 - response.Stability)
	return math.Max(-maxHouseDamping, math.Min(maxHouseDamping, damping))
}

func (e *Engine) warnEvent(msg, eventID string, err error) {
	if e.log != nil {
		e.log.Warn(msg, zap.String("event_id", eventID), zap.Error(err))
	}
}

func (e *Engine) warnAsset(msg, assetID string, err error) {
	if e.log != nil {
		e.log.Warn(msg, zap.String("asset_id", assetID), zap.Error(err))
	}
}
