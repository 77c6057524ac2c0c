package models

import (
	"time"

	"gorm.io/datatypes"
)

// Narrative market event lifecycle phases, driven purely by elapsed-time
// fraction of the event window.
const (
	PhaseImmediate  = "immediate"
	PhaseMediumTerm = "medium_term"
	PhaseDecay      = "decay"
)

// HouseImpact is one entry of an event's per-house impact map.
type HouseImpact struct {
	VolatilityMultiplier float64 `json:"volatility_multiplier"`
	SentimentShift       float64 `json:"sentiment_shift"`
	TradingVolumeChange  float64 `json:"trading_volume_change"`
}

// NarrativeMarketEvent is the materialized, time-bounded market effect of one
// trigger: precomputed per-asset impact maps plus a start/peak/end window.
// Expired events are soft-archived via IsActive=false, never deleted.
type NarrativeMarketEvent struct {
	ID               string `gorm:"type:uuid;primaryKey"`
	TriggerEventID   string `gorm:"type:uuid;not null;index"`
	EventTitle       string `gorm:"type:varchar(255);not null"`
	EventDescription string `gorm:"type:text"`
	NarrativeContext string `gorm:"type:text"`

	AffectedAssets datatypes.JSON `gorm:"type:jsonb;not null"`

	// Parallel maps keyed by asset id: fractional price impact, volume-change
	// multiplier and raw volatility adjustment.
	PriceImpacts          datatypes.JSON `gorm:"type:jsonb;not null"`
	VolumeChanges         datatypes.JSON `gorm:"type:jsonb;not null"`
	VolatilityAdjustments datatypes.JSON `gorm:"type:jsonb;not null"`

	HouseImpacts           datatypes.JSON `gorm:"type:jsonb"`
	CrossHouseInteractions datatypes.JSON `gorm:"type:jsonb"`

	// Invariant: EventStartTime < PeakImpactTime < EventEndTime.
	EventStartTime time.Time `gorm:"type:timestamptz;not null;index"`
	EventEndTime   time.Time `gorm:"type:timestamptz;not null;index"`
	PeakImpactTime time.Time `gorm:"type:timestamptz;not null"`

	CurrentPhase string `gorm:"type:varchar(20);not null;default:'immediate'"`
	IsActive     bool   `gorm:"not null;default:true;index"`

	NarrativeRelevanceScore float64 `gorm:"not null;default:1"`
	CulturalImpactMeasure   float64 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (NarrativeMarketEvent) TableName() string {
	return "narrative_market_events"
}

func (e NarrativeMarketEvent) Assets() []string {
	ids, err := ParseStringList(e.AffectedAssets)
	if err != nil {
		return nil
	}
	return ids
}

// Touches reports whether the event's affected-asset list contains assetID.
func (e NarrativeMarketEvent) Touches(assetID string) bool {
	for _, id := range e.Assets() {
		if id == assetID {
			return true
		}
	}
	return false
}

// PriceImpactMap decodes the per-asset price impact map. Malformed payloads
// return an error so callers can skip the row instead of propagating NaN.
func (e NarrativeMarketEvent) PriceImpactMap() (map[string]float64, error) {
	return ParseSignedImpactMap(e.PriceImpacts)
}

func (e NarrativeMarketEvent) VolumeChangeMap() (map[string]float64, error) {
	return ParseImpactMap(e.VolumeChanges)
}

func (e NarrativeMarketEvent) VolatilityAdjustmentMap() (map[string]float64, error) {
	return ParseSignedImpactMap(e.VolatilityAdjustments)
}

// Duration is the full event window length.
func (e NarrativeMarketEvent) Duration() time.Duration {
	return e.EventEndTime.Sub(e.EventStartTime)
}

// PhaseAt derives the lifecycle phase from elapsed-time fraction:
// <30% immediate, <80% medium_term, else decay.
func (e NarrativeMarketEvent) PhaseAt(now time.Time) string {
	total := e.Duration()
	if total <= 0 {
		return PhaseDecay
	}
	progress := float64(now.Sub(e.EventStartTime)) / float64(total)
	switch {
	case progress < 0.3:
		return PhaseImmediate
	case progress < 0.8:
		return PhaseMediumTerm
	default:
		return PhaseDecay
	}
}

// ExpiredAt reports whether the event window has fully elapsed.
func (e NarrativeMarketEvent) ExpiredAt(now time.Time) bool {
	return now.After(e.EventEndTime)
}
