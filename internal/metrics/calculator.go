package metrics

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"panelprofits/internal/houses"
	"panelprofits/internal/models"
	"panelprofits/internal/repository"
)

const (
	baseVolatility = 0.025

	cosmicBoostPerEvent = 0.05
	cosmicLookback      = 7 * 24 * time.Hour
	activityLookback    = 30 * 24 * time.Hour

	momentumFloor = -5.0
	momentumCeil  = 5.0
)

// Calculator recomputes per-asset narrative trading metrics from story-beat
// history and the static house tables.
type Calculator struct {
	repo repository.Repository
	log  *zap.Logger
}

func NewCalculator(repo repository.Repository, log *zap.Logger) *Calculator {
	return &Calculator{repo: repo, log: log}
}

// Recompute builds a fresh metrics row for one asset and upserts it. Missing
// narrative inputs (no character row, no beats) degrade to baseline values
// rather than failing the asset.
func (c *Calculator) Recompute(ctx context.Context, asset models.Asset, now time.Time) (*models.NarrativeTradingMetrics, error) {
	var character *models.Character
	if asset.Type == "character" {
		ch, err := c.repo.GetCharacterByName(ctx, asset.Name)
		if err != nil {
			return nil, err
		}
		character = ch
	}

	var beats []models.StoryBeat
	if character != nil {
		recent, err := c.repo.ListStoryBeatsByCharacter(ctx, character.ID, now.Add(-activityLookback))
		if err != nil {
			return nil, err
		}
		beats = recent
	}

	houseID := ClassifyHouse(asset.Name, asset.Description)
	theme := houses.Themes[houseID]
	response := houses.ResponseFor(houseID)

	powerLevel := "Enhanced Human"
	appearances := 0
	if character != nil {
		if character.PowerLevel != "" {
			powerLevel = character.PowerLevel
		}
		appearances = character.Appearances
	}
	power := houses.PowerLevelFor(powerLevel)

	arcPhase := latestArcPhase(beats)
	arcMult := houses.StoryArcVolatilityMultiplier(arcPhase)
	cosmicBoost := cosmicVolatilityBoost(beats, now)

	cultural := CulturalImpactIndex(appearances, powerLevel)
	progression := StoryProgressionRate(beats)
	relevance := ThemeRelevance(theme, asset.Name, asset.Description)
	mediaBoost := MediaBoost(beats)
	decayRate := momentumDecayRate(arcPhase)

	momentum := NarrativeMomentum(cultural, progression, relevance, mediaBoost, decayRate)

	mythic := baseVolatility * power.VolatilityFactor * theme.BaseVolatilityMultiplier * arcMult
	mythic += cosmicBoost

	sensitivity, correlation := assetTypeSensitivity(asset.Type)

	item := &models.NarrativeTradingMetrics{
		AssetID: asset.ID,

		MythicVolatilityScore:        mythic,
		BaseVolatility:               baseVolatility,
		StoryArcVolatilityMultiplier: arcMult,
		PowerLevelVolatilityFactor:   power.VolatilityFactor,
		CosmicEventVolatilityBoost:   cosmicBoost,

		NarrativeMomentumScore: momentum,
		CulturalImpactIndex:    cultural,
		StoryProgressionRate:   progression,
		ThemeRelevanceScore:    relevance,
		MediaBoostFactor:       mediaBoost,
		MomentumDecayRate:      decayRate,

		HouseAffiliation:       &houseID,
		HouseVolatilityProfile: theme.VolatilityProfile,
		HouseTradingMultiplier: response.Multiplier,
		HouseSpecialtyBonus:    specialtyBonus(theme, asset.Type),

		NarrativeCorrelationStrength: correlation,
		StoryBeatSensitivity:         sensitivity,
		CharacterDeathImpact:         houses.BeatImpactFor("character_death").PriceImpact * response.Multiplier,
		PowerUpgradeImpact:           houses.BeatImpactFor("power_upgrade").PriceImpact * response.Multiplier,
		ResurrectionImpact:           houses.BeatImpactFor("resurrection").PriceImpact * response.Multiplier,

		NarrativeMarginRequirement: power.MarginRequirement,
		StoryRiskAdjustment:        storyRiskAdjustment(arcPhase),
		VolatilityRiskPremium:      math.Max(0, (mythic-baseVolatility)*0.5),

		StoryArcPhase:     arcPhase,
		LastRecalculation: now,
	}

	if err := c.repo.UpsertTradingMetrics(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// RecomputeAll pages through the asset catalog and recomputes every asset.
// A failed asset is logged and skipped so one bad row never stalls the batch.
func (c *Calculator) RecomputeAll(ctx context.Context, batchSize int, now time.Time) (int, error) {
	if batchSize <= 0 {
		batchSize = 50
	}
	done := 0
	for offset := 0; ; offset += batchSize {
		assets, err := c.repo.ListAssets(ctx, batchSize, offset)
		if err != nil {
			return done, err
		}
		if len(assets) == 0 {
			return done, nil
		}
		for _, asset := range assets {
			if ctx.Err() != nil {
				return done, ctx.Err()
			}
			if _, err := c.Recompute(ctx, asset, now); err != nil {
				if c.log != nil {
					c.log.Warn("metrics recompute failed",
						zap.String("asset_id", asset.ID),
						zap.Error(err))
				}
				continue
			}
			done++
		}
		if len(assets) < batchSize {
			return done, nil
		}
	}
}

// ClassifyHouse scores an asset's name and description against every house's
// keyword list and returns the best match. Ties and no-match default to
// heroes.
func ClassifyHouse(name, description string) string {
	text := strings.ToLower(name + " " + description)
	best := houses.Heroes
	bestScore := 0
	for _, id := range houses.IDs {
		score := 0
		for _, kw := range houses.Themes[id].Keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			best = id
			bestScore = score
		}
	}
	return best
}

// CulturalImpactIndex grows logarithmically with appearance count, with a
// flat bonus for cosmic-tier characters, capped at 3.0.
func CulturalImpactIndex(appearances int, powerLevel string) float64 {
	index := 1.0 + math.Log10(float64(appearances)+1)*0.1
	switch powerLevel {
	case "Cosmic", "Omega Level", "Universal":
		index += 0.3
	}
	return math.Min(index, 3.0)
}

// StoryProgressionRate is 0.1 per beat in the activity window, capped at 2.0.
func StoryProgressionRate(beats []models.StoryBeat) float64 {
	return math.Min(float64(len(beats))*0.1, 2.0)
}

// ThemeRelevance is 1.0 plus 0.1 per matched house keyword, capped at 2.0.
func ThemeRelevance(theme houses.Theme, name, description string) float64 {
	text := strings.ToLower(name + " " + description)
	matches := 0
	for _, kw := range theme.Keywords {
		if strings.Contains(text, kw) {
			matches++
		}
	}
	return math.Min(1.0+float64(matches)*0.1, 2.0)
}

// MediaBoost counts beats carrying media references; the factor stays in
// [1.0, 2.0] so momentum never zeroes out for assets with no media activity.
func MediaBoost(beats []models.StoryBeat) float64 {
	referenced := 0
	for _, b := range beats {
		if len(b.MediaReferences) > 0 && string(b.MediaReferences) != "null" {
			referenced++
		}
	}
	return math.Min(1.0+float64(referenced)*0.1, 2.0)
}

// NarrativeMomentum blends the four momentum inputs, applies retention for
// the decay rate, and clamps to [-5, 5].
func NarrativeMomentum(cultural, progression, relevance, mediaBoost, decayRate float64) float64 {
	raw := cultural*0.4 + progression*0.3 + relevance*0.2 + mediaBoost*0.1
	raw *= 1.0 - decayRate
	return math.Max(momentumFloor, math.Min(momentumCeil, raw))
}

func cosmicVolatilityBoost(beats []models.StoryBeat, now time.Time) float64 {
	cutoff := now.Add(-cosmicLookback)
	count := 0
	for _, b := range beats {
		if b.BeatType == "cosmic_event" && b.CreatedAt.After(cutoff) {
			count++
		}
	}
	return float64(count) * cosmicBoostPerEvent
}

func latestArcPhase(beats []models.StoryBeat) string {
	phase := "rising_action"
	var latest time.Time
	for _, b := range beats {
		if b.StoryArcPhase == nil || *b.StoryArcPhase == "" {
			continue
		}
		if b.CreatedAt.After(latest) {
			latest = b.CreatedAt
			phase = *b.StoryArcPhase
		}
	}
	return phase
}

// momentumDecayRate: momentum bleeds off faster outside the active phases.
// Bounded to [0, 0.5].
func momentumDecayRate(arcPhase string) float64 {
	switch arcPhase {
	case "climax":
		return 0.02
	case "rising_action", "origin":
		return 0.05
	case "falling_action":
		return 0.15
	case "resolution":
		return 0.25
	default:
		return 0.05
	}
}

func storyRiskAdjustment(arcPhase string) float64 {
	switch arcPhase {
	case "climax":
		return 0.15
	case "origin":
		return 0.10
	case "rising_action":
		return 0.08
	case "falling_action":
		return 0.05
	case "resolution":
		return 0.03
	default:
		return 0.05
	}
}

func specialtyBonus(theme houses.Theme, assetType string) float64 {
	for _, t := range theme.SpecialtyAssetTypes {
		if t == assetType {
			return theme.TradingBonusPercentage
		}
	}
	for _, t := range theme.WeaknessAssetTypes {
		if t == assetType {
			return -theme.PenaltyPercentage
		}
	}
	return 0
}

func assetTypeSensitivity(assetType string) (sensitivity, correlation float64) {
	switch assetType {
	case "character":
		return 0.8, 0.7
	case "comic":
		return 0.6, 0.6
	case "creator":
		return 0.4, 0.5
	case "publisher":
		return 0.3, 0.4
	default:
		return 0.5, 0.5
	}
}
