package gormrepository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"panelprofits/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- Story beats ------------------------------------------------------------

func (s *Store) GetStoryBeatByID(ctx context.Context, id string) (*models.StoryBeat, error) {
	if s == nil || s.db == nil || strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var item models.StoryBeat
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListStoryBeatsSince(ctx context.Context, since time.Time, limit int) ([]models.StoryBeat, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.StoryBeat
	err := s.db.WithContext(ctx).
		Where("created_at > ?", since).
		Order("created_at asc").
		Limit(normalizeLimit(limit, 200)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListStoryBeatsByCharacter(ctx context.Context, characterID string, since time.Time) ([]models.StoryBeat, error) {
	if s == nil || s.db == nil || strings.TrimSpace(characterID) == "" {
		return nil, nil
	}
	var items []models.StoryBeat
	query := s.db.WithContext(ctx).Where("primary_character_id = ?", characterID)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	if err := query.Order("created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountStoryBeatsByType(ctx context.Context, beatType string, since time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	query := s.db.WithContext(ctx).Model(&models.StoryBeat{}).Where("beat_type = ?", beatType)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// --- Story event triggers ---------------------------------------------------

func (s *Store) InsertStoryEventTrigger(ctx context.Context, item *models.StoryEventTrigger) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetStoryEventTriggerByID(ctx context.Context, id string) (*models.StoryEventTrigger, error) {
	if s == nil || s.db == nil || strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var item models.StoryEventTrigger
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) DeactivateStoryEventTrigger(ctx context.Context, id string) error {
	if s == nil || s.db == nil || strings.TrimSpace(id) == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.StoryEventTrigger{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// --- Narrative market events ------------------------------------------------

func (s *Store) InsertNarrativeMarketEvent(ctx context.Context, item *models.NarrativeMarketEvent) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListActiveNarrativeMarketEvents(ctx context.Context, startedAfter time.Time) ([]models.NarrativeMarketEvent, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.NarrativeMarketEvent
	query := s.db.WithContext(ctx).Where("is_active = ?", true)
	if !startedAfter.IsZero() {
		query = query.Where("event_start_time >= ?", startedAfter)
	}
	if err := query.Order("event_start_time asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateNarrativeMarketEventPhase(ctx context.Context, id string, phase string) error {
	if s == nil || s.db == nil || strings.TrimSpace(id) == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.NarrativeMarketEvent{}).
		Where("id = ?", id).
		Update("current_phase", phase).Error
}

func (s *Store) DeactivateNarrativeMarketEvent(ctx context.Context, id string) error {
	if s == nil || s.db == nil || strings.TrimSpace(id) == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.NarrativeMarketEvent{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (s *Store) CountNarrativeMarketEventsSince(ctx context.Context, since time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.NarrativeMarketEvent{}).
		Where("event_start_time >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// --- Trading metrics --------------------------------------------------------

func (s *Store) GetTradingMetricsByAssetID(ctx context.Context, assetID string) (*models.NarrativeTradingMetrics, error) {
	if s == nil || s.db == nil || strings.TrimSpace(assetID) == "" {
		return nil, nil
	}
	var item models.NarrativeTradingMetrics
	err := s.db.WithContext(ctx).Where("asset_id = ?", assetID).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpsertTradingMetrics inserts or overwrites the per-asset metrics row. The
// calculation version of an existing row is bumped, not reset, so overwrite
// history stays observable.
func (s *Store) UpsertTradingMetrics(ctx context.Context, item *models.NarrativeTradingMetrics) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	var existing models.NarrativeTradingMetrics
	err := s.db.WithContext(ctx).Where("asset_id = ?", item.AssetID).First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if err == gorm.ErrRecordNotFound {
		if item.CalculationVersion <= 0 {
			item.CalculationVersion = 1
		}
		return s.db.WithContext(ctx).Create(item).Error
	}
	item.ID = existing.ID
	item.CalculationVersion = existing.CalculationVersion + 1
	return s.db.WithContext(ctx).
		Model(&models.NarrativeTradingMetrics{}).
		Where("id = ?", existing.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(item).Error
}

func (s *Store) ListTradingMetricsRecalculatedSince(ctx context.Context, since time.Time, limit int) ([]models.NarrativeTradingMetrics, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.NarrativeTradingMetrics
	err := s.db.WithContext(ctx).
		Where("last_recalculation >= ?", since).
		Order("last_recalculation desc").
		Limit(normalizeLimit(limit, 100)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListTradingMetricsByHouse(ctx context.Context, houseID string) ([]models.NarrativeTradingMetrics, error) {
	if s == nil || s.db == nil || strings.TrimSpace(houseID) == "" {
		return nil, nil
	}
	var items []models.NarrativeTradingMetrics
	err := s.db.WithContext(ctx).
		Where("house_affiliation = ?", houseID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountTradingMetricsByHouseSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var rows []struct {
		HouseAffiliation string
		N                int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.NarrativeTradingMetrics{}).
		Select("house_affiliation, count(*) as n").
		Where("house_affiliation IS NOT NULL AND last_recalculation >= ?", since).
		Group("house_affiliation").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.HouseAffiliation] = row.N
	}
	return out, nil
}

func (s *Store) AverageMythicVolatilitySince(ctx context.Context, since time.Time) (float64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var avg *float64
	err := s.db.WithContext(ctx).
		Model(&models.NarrativeTradingMetrics{}).
		Where("last_recalculation >= ?", since).
		Select("avg(mythic_volatility_score)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// --- House financial profiles -----------------------------------------------

func (s *Store) GetHouseFinancialProfile(ctx context.Context, houseID string) (*models.HouseFinancialProfile, error) {
	if s == nil || s.db == nil || strings.TrimSpace(houseID) == "" {
		return nil, nil
	}
	var item models.HouseFinancialProfile
	err := s.db.WithContext(ctx).Where("house_id = ?", houseID).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpsertHouseFinancialProfile(ctx context.Context, item *models.HouseFinancialProfile) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "house_id"}},
			UpdateAll: true,
		}).
		Create(item).Error
}

func (s *Store) ListHouseFinancialProfiles(ctx context.Context) ([]models.HouseFinancialProfile, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.HouseFinancialProfile
	if err := s.db.WithContext(ctx).Order("house_id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Assets, characters, prices ----------------------------------------------

func (s *Store) GetAssetByID(ctx context.Context, id string) (*models.Asset, error) {
	if s == nil || s.db == nil || strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var item models.Asset
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListAssets(ctx context.Context, limit, offset int) ([]models.Asset, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Asset
	err := s.db.WithContext(ctx).
		Order("name asc").
		Limit(normalizeLimit(limit, 100)).
		Offset(normalizeOffset(offset)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetCharacterByName(ctx context.Context, name string) (*models.Character, error) {
	if s == nil || s.db == nil || strings.TrimSpace(name) == "" {
		return nil, nil
	}
	var item models.Character
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetAssetPrice(ctx context.Context, assetID string) (*models.AssetPrice, error) {
	if s == nil || s.db == nil || strings.TrimSpace(assetID) == "" {
		return nil, nil
	}
	var item models.AssetPrice
	err := s.db.WithContext(ctx).Where("asset_id = ?", assetID).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpsertAssetPrice(ctx context.Context, item *models.AssetPrice) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "asset_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
		}).
		Create(item).Error
}

func (s *Store) ListAssetPrices(ctx context.Context, limit int) ([]models.AssetPrice, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.AssetPrice
	err := s.db.WithContext(ctx).
		Order("asset_id asc").
		Limit(normalizeLimit(limit, 500)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- Market insights ----------------------------------------------------------

func (s *Store) InsertMarketInsights(ctx context.Context, items []models.MarketInsight) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&items).Error
}

func (s *Store) ListMarketInsightsByAssetID(ctx context.Context, assetID string, limit int) ([]models.MarketInsight, error) {
	if s == nil || s.db == nil || strings.TrimSpace(assetID) == "" {
		return nil, nil
	}
	var items []models.MarketInsight
	err := s.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("created_at desc").
		Limit(normalizeLimit(limit, 50)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 || limit > 5000 {
		return fallback
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
