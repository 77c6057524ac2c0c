package db

import (
	"panelprofits/internal/models"
)

// AutoMigrate creates or updates the schema for every table the service owns,
// plus the story_beats table the narrative generator writes into.
func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil {
		return nil
	}
	return db.Gorm.AutoMigrate(
		&models.StoryBeat{},
		&models.StoryEventTrigger{},
		&models.NarrativeMarketEvent{},
		&models.NarrativeTradingMetrics{},
		&models.HouseFinancialProfile{},
		&models.Asset{},
		&models.Character{},
		&models.AssetPrice{},
		&models.MarketInsight{},
	)
}
