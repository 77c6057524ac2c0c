package models

import (
	"time"

	"gorm.io/datatypes"
)

// StoryEventTrigger is the market-relevant translation of one story beat:
// severity, affected assets, impact ranges and durations. Created once per
// beat and deactivated after consumption, never mutated otherwise.
type StoryEventTrigger struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	TriggerName string `gorm:"type:varchar(255);not null"`
	TriggerType string `gorm:"type:varchar(50);not null"`
	// EventSeverity is one of minor, moderate, major, cosmic, universe_altering.
	EventSeverity string `gorm:"type:varchar(30);not null;index"`

	StoryBeatID string  `gorm:"type:uuid;not null;index"`
	CharacterID *string `gorm:"type:uuid"`

	// Price impact range as explicit numeric columns rather than open JSON so
	// malformed rows cannot feed NaN into price math.
	PriceImpactMin float64 `gorm:"not null"`
	PriceImpactMax float64 `gorm:"not null"`

	VolatilityImpactMultiplier float64 `gorm:"not null;default:1"`
	VolumeImpactMultiplier     float64 `gorm:"not null;default:1"`
	SentimentShift             float64 `gorm:"not null;default:0"`

	AffectedAssetTypes       datatypes.JSON `gorm:"type:jsonb"`
	DirectlyAffectedAssets   datatypes.JSON `gorm:"type:jsonb"`
	IndirectlyAffectedAssets datatypes.JSON `gorm:"type:jsonb"`
	HouseResponseMultipliers datatypes.JSON `gorm:"type:jsonb"`
	CrossHouseEffects        datatypes.JSON `gorm:"type:jsonb"`

	// Durations in minutes.
	ImmediateImpactDuration  int     `gorm:"not null"`
	MediumTermEffectDuration int     `gorm:"not null"`
	LongTermMemoryDecay      float64 `gorm:"not null;default:0.03"`

	CooldownPeriod       int  `gorm:"not null;default:240"`
	MaxActivationsPerDay int  `gorm:"not null;default:5"`
	IsActive             bool `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (StoryEventTrigger) TableName() string {
	return "story_event_triggers"
}

func (t StoryEventTrigger) DirectAssets() []string {
	ids, err := ParseStringList(t.DirectlyAffectedAssets)
	if err != nil {
		return nil
	}
	return ids
}

func (t StoryEventTrigger) IndirectAssets() []string {
	ids, err := ParseStringList(t.IndirectlyAffectedAssets)
	if err != nil {
		return nil
	}
	return ids
}

// ResponseMultipliers decodes the per-house response map, validating that
// every value is a finite positive number.
func (t StoryEventTrigger) ResponseMultipliers() (map[string]float64, error) {
	return ParseImpactMap(t.HouseResponseMultipliers)
}
