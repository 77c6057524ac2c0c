package repository

import (
	"context"
	"time"

	"panelprofits/internal/models"
)

// Repository is the storage boundary of the narrative market pipeline. Story
// beats are read-only here; triggers, events, metrics, profiles, prices and
// insights are owned by this service.
type Repository interface {
	// Story beats (written by the narrative generator, never mutated here).
	GetStoryBeatByID(ctx context.Context, id string) (*models.StoryBeat, error)
	ListStoryBeatsSince(ctx context.Context, since time.Time, limit int) ([]models.StoryBeat, error)
	ListStoryBeatsByCharacter(ctx context.Context, characterID string, since time.Time) ([]models.StoryBeat, error)
	CountStoryBeatsByType(ctx context.Context, beatType string, since time.Time) (int64, error)

	// Story event triggers.
	InsertStoryEventTrigger(ctx context.Context, item *models.StoryEventTrigger) error
	GetStoryEventTriggerByID(ctx context.Context, id string) (*models.StoryEventTrigger, error)
	DeactivateStoryEventTrigger(ctx context.Context, id string) error

	// Narrative market events.
	InsertNarrativeMarketEvent(ctx context.Context, item *models.NarrativeMarketEvent) error
	ListActiveNarrativeMarketEvents(ctx context.Context, startedAfter time.Time) ([]models.NarrativeMarketEvent, error)
	UpdateNarrativeMarketEventPhase(ctx context.Context, id string, phase string) error
	DeactivateNarrativeMarketEvent(ctx context.Context, id string) error
	CountNarrativeMarketEventsSince(ctx context.Context, since time.Time) (int64, error)

	// Trading metrics (one row per asset, upserted on recompute).
	GetTradingMetricsByAssetID(ctx context.Context, assetID string) (*models.NarrativeTradingMetrics, error)
	UpsertTradingMetrics(ctx context.Context, item *models.NarrativeTradingMetrics) error
	ListTradingMetricsRecalculatedSince(ctx context.Context, since time.Time, limit int) ([]models.NarrativeTradingMetrics, error)
	ListTradingMetricsByHouse(ctx context.Context, houseID string) ([]models.NarrativeTradingMetrics, error)
	CountTradingMetricsByHouseSince(ctx context.Context, since time.Time) (map[string]int64, error)
	AverageMythicVolatilitySince(ctx context.Context, since time.Time) (float64, error)

	// House financial profiles.
	GetHouseFinancialProfile(ctx context.Context, houseID string) (*models.HouseFinancialProfile, error)
	UpsertHouseFinancialProfile(ctx context.Context, item *models.HouseFinancialProfile) error
	ListHouseFinancialProfiles(ctx context.Context) ([]models.HouseFinancialProfile, error)

	// Assets, characters and prices.
	GetAssetByID(ctx context.Context, id string) (*models.Asset, error)
	ListAssets(ctx context.Context, limit, offset int) ([]models.Asset, error)
	GetCharacterByName(ctx context.Context, name string) (*models.Character, error)
	GetAssetPrice(ctx context.Context, assetID string) (*models.AssetPrice, error)
	UpsertAssetPrice(ctx context.Context, item *models.AssetPrice) error
	ListAssetPrices(ctx context.Context, limit int) ([]models.AssetPrice, error)

	// Market insights.
	InsertMarketInsights(ctx context.Context, items []models.MarketInsight) error
	ListMarketInsightsByAssetID(ctx context.Context, assetID string, limit int) ([]models.MarketInsight, error)
}
