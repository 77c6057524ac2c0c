package narrative

import (
	"context"
	"errors"
	"time"

	"panelprofits/internal/models"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// It implements the full interface but only the subset the pipeline touches
// carries behavior; failure hooks let tests inject errors per call.
type stubRepo struct {
	beats          []models.StoryBeat
	triggers       []*models.StoryEventTrigger
	events         map[string]*models.NarrativeMarketEvent
	metricsByAsset map[string]*models.NarrativeTradingMetrics

	failTriggerInsert func(*models.StoryEventTrigger) error
	failEventInsert   func(*models.NarrativeMarketEvent) error
	failMetricsRead   bool

	deactivatedEvents   map[string]bool
	deactivatedTriggers map[string]bool
	phaseUpdates        map[string]string
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		events:              map[string]*models.NarrativeMarketEvent{},
		metricsByAsset:      map[string]*models.NarrativeTradingMetrics{},
		deactivatedEvents:   map[string]bool{},
		deactivatedTriggers: map[string]bool{},
		phaseUpdates:        map[string]string{},
	}
}

func (s *stubRepo) GetStoryBeatByID(ctx context.Context, id string) (*models.StoryBeat, error) {
	for _, b := range s.beats {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) ListStoryBeatsSince(ctx context.Context, since time.Time, limit int) ([]models.StoryBeat, error) {
	var out []models.StoryBeat
	for _, b := range s.beats {
		if b.CreatedAt.After(since) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubRepo) ListStoryBeatsByCharacter(ctx context.Context, characterID string, since time.Time) ([]models.StoryBeat, error) {
	var out []models.StoryBeat
	for _, b := range s.beats {
		if b.PrimaryCharacterID != nil && *b.PrimaryCharacterID == characterID && b.CreatedAt.After(since) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubRepo) CountStoryBeatsByType(ctx context.Context, beatType string, since time.Time) (int64, error) {
	var n int64
	for _, b := range s.beats {
		if b.BeatType == beatType && b.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (s *stubRepo) InsertStoryEventTrigger(ctx context.Context, item *models.StoryEventTrigger) error {
	if s.failTriggerInsert != nil {
		if err := s.failTriggerInsert(item); err != nil {
			return err
		}
	}
	s.triggers = append(s.triggers, item)
	return nil
}

func (s *stubRepo) GetStoryEventTriggerByID(ctx context.Context, id string) (*models.StoryEventTrigger, error) {
	for _, t := range s.triggers {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) DeactivateStoryEventTrigger(ctx context.Context, id string) error {
	s.deactivatedTriggers[id] = true
	return nil
}

func (s *stubRepo) InsertNarrativeMarketEvent(ctx context.Context, item *models.NarrativeMarketEvent) error {
	if s.failEventInsert != nil {
		if err := s.failEventInsert(item); err != nil {
			return err
		}
	}
	s.events[item.ID] = item
	return nil
}

func (s *stubRepo) ListActiveNarrativeMarketEvents(ctx context.Context, startedAfter time.Time) ([]models.NarrativeMarketEvent, error) {
	var out []models.NarrativeMarketEvent
	for _, e := range s.events {
		if e.IsActive && !e.EventStartTime.Before(startedAfter) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *stubRepo) UpdateNarrativeMarketEventPhase(ctx context.Context, id string, phase string) error {
	s.phaseUpdates[id] = phase
	if e, ok := s.events[id]; ok {
		e.CurrentPhase = phase
	}
	return nil
}

func (s *stubRepo) DeactivateNarrativeMarketEvent(ctx context.Context, id string) error {
	s.deactivatedEvents[id] = true
	if e, ok := s.events[id]; ok {
		e.IsActive = false
	}
	return nil
}

func (s *stubRepo) CountNarrativeMarketEventsSince(ctx context.Context, since time.Time) (int64, error) {
	return int64(len(s.events)), nil
}

func (s *stubRepo) GetTradingMetricsByAssetID(ctx context.Context, assetID string) (*models.NarrativeTradingMetrics, error) {
	if s.failMetricsRead {
		return nil, errors.New("metrics read failed")
	}
	return s.metricsByAsset[assetID], nil
}

func (s *stubRepo) UpsertTradingMetrics(ctx context.Context, item *models.NarrativeTradingMetrics) error {
	s.metricsByAsset[item.AssetID] = item
	return nil
}

func (s *stubRepo) ListTradingMetricsRecalculatedSince(ctx context.Context, since time.Time, limit int) ([]models.NarrativeTradingMetrics, error) {
	return nil, nil
}

func (s *stubRepo) ListTradingMetricsByHouse(ctx context.Context, houseID string) ([]models.NarrativeTradingMetrics, error) {
	var out []models.NarrativeTradingMetrics
	for _, m := range s.metricsByAsset {
		if m.HouseAffiliation != nil && *m.HouseAffiliation == houseID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *stubRepo) CountTradingMetricsByHouseSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	out := map[string]int64{}
	for _, m := range s.metricsByAsset {
		if m.HouseAffiliation == nil || m.LastRecalculation.Before(since) {
			continue
		}
		out[*m.HouseAffiliation]++
	}
	return out, nil
}

func (s *stubRepo) AverageMythicVolatilitySince(ctx context.Context, since time.Time) (float64, error) {
	return 0, nil
}

func (s *stubRepo) GetHouseFinancialProfile(ctx context.Context, houseID string) (*models.HouseFinancialProfile, error) {
	return nil, nil
}

func (s *stubRepo) UpsertHouseFinancialProfile(ctx context.Context, item *models.HouseFinancialProfile) error {
	return nil
}

func (s *stubRepo) ListHouseFinancialProfiles(ctx context.Context) ([]models.HouseFinancialProfile, error) {
	return nil, nil
}

func (s *stubRepo) GetAssetByID(ctx context.Context, id string) (*models.Asset, error) {
	return nil, nil
}

func (s *stubRepo) ListAssets(ctx context.Context, limit, offset int) ([]models.Asset, error) {
	return nil, nil
}

func (s *stubRepo) GetCharacterByName(ctx context.Context, name string) (*models.Character, error) {
	return nil, nil
}

func (s *stubRepo) GetAssetPrice(ctx context.Context, assetID string) (*models.AssetPrice, error) {
	return nil, nil
}

func (s *stubRepo) UpsertAssetPrice(ctx context.Context, item *models.AssetPrice) error {
	return nil
}

func (s *stubRepo) ListAssetPrices(ctx context.Context, limit int) ([]models.AssetPrice, error) {
	return nil, nil
}

func (s *stubRepo) InsertMarketInsights(ctx context.Context, items []models.MarketInsight) error {
	return nil
}

func (s *stubRepo) ListMarketInsightsByAssetID(ctx context.Context, assetID string, limit int) ([]models.MarketInsight, error) {
	return nil, nil
}
