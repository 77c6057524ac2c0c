package models

import (
	"time"

	"gorm.io/datatypes"
)

// MarketInsight is a generated narrative-driven analysis entry shown to
// traders: volatility alerts, momentum calls, house profiles and story-arc
// commentary.
type MarketInsight struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	AssetID string `gorm:"type:uuid;not null;index"`

	Title   string `gorm:"type:varchar(255);not null"`
	Content string `gorm:"type:text;not null"`
	// Category is one of bullish, bearish, neutral, alert.
	Category string `gorm:"type:varchar(20);not null;index"`

	SentimentScore float64        `gorm:"not null;default:0"`
	Confidence     float64        `gorm:"not null;default:0.5"`
	Tags           datatypes.JSON `gorm:"type:jsonb"`
	Source         string         `gorm:"type:varchar(100)"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (MarketInsight) TableName() string {
	return "market_insights"
}
