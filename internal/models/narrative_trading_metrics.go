package models

import (
	"time"
)

// NarrativeTradingMetrics holds the continuously recomputed per-asset scalar
// metrics derived from narrative history. One row per asset, upserted by the
// metrics calculator; CalculationVersion increments on every overwrite
// (diagnostics only, not concurrency control).
type NarrativeTradingMetrics struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	AssetID string `gorm:"type:uuid;not null;uniqueIndex"`

	// Mythic volatility inputs. The score itself is unclamped here; consumers
	// clamp their combined output to [0.001, 2.0].
	MythicVolatilityScore        float64 `gorm:"not null;default:0.025"`
	BaseVolatility               float64 `gorm:"not null;default:0.025"`
	StoryArcVolatilityMultiplier float64 `gorm:"not null;default:1"`
	PowerLevelVolatilityFactor   float64 `gorm:"not null;default:1"`
	CosmicEventVolatilityBoost   float64 `gorm:"not null;default:0"`

	// Momentum tracking. Momentum score is bounded to [-5, 5].
	NarrativeMomentumScore float64 `gorm:"not null;default:0"`
	CulturalImpactIndex    float64 `gorm:"not null;default:1"`
	StoryProgressionRate   float64 `gorm:"not null;default:0"`
	ThemeRelevanceScore    float64 `gorm:"not null;default:1"`
	MediaBoostFactor       float64 `gorm:"not null;default:1"`
	// MomentumDecayRate is the decayed fraction, bounded to [0, 0.5].
	MomentumDecayRate float64 `gorm:"not null;default:0.05"`

	HouseAffiliation       *string `gorm:"type:varchar(20);index"`
	HouseVolatilityProfile string  `gorm:"type:varchar(20);not null;default:'moderate'"`
	HouseTradingMultiplier float64 `gorm:"not null;default:1"`
	HouseSpecialtyBonus    float64 `gorm:"not null;default:0"`

	NarrativeCorrelationStrength float64 `gorm:"not null;default:0.5"`
	StoryBeatSensitivity         float64 `gorm:"not null;default:0.5"`
	CharacterDeathImpact         float64 `gorm:"not null;default:0"`
	PowerUpgradeImpact           float64 `gorm:"not null;default:0"`
	ResurrectionImpact           float64 `gorm:"not null;default:0"`

	NarrativeMarginRequirement float64 `gorm:"not null;default:50"`
	StoryRiskAdjustment        float64 `gorm:"not null;default:0.05"`
	VolatilityRiskPremium      float64 `gorm:"not null;default:0"`

	StoryArcPhase string `gorm:"type:varchar(30);not null;default:'rising_action'"`

	CalculationVersion int       `gorm:"not null;default:1"`
	LastRecalculation  time.Time `gorm:"type:timestamptz;not null;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (NarrativeTradingMetrics) TableName() string {
	return "narrative_trading_metrics"
}
