package models

import (
	"time"

	"gorm.io/datatypes"
)

// StoryBeat is a discrete narrative occurrence produced by the narrative
// generator. The market pipeline only ever reads these rows.
type StoryBeat struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	BeatTitle    string `gorm:"type:varchar(255);not null"`
	BeatType     string `gorm:"type:varchar(50);not null;index"`
	BeatCategory string `gorm:"type:varchar(50)"`
	Description  string `gorm:"type:text"`

	// NarrativeSignificance is 0..1; CulturalImpact is informational.
	NarrativeSignificance float64 `gorm:"not null;default:0.5"`
	CulturalImpact        float64 `gorm:"not null;default:0"`

	PrimaryCharacterID    *string        `gorm:"type:uuid;index"`
	SecondaryCharacterIDs datatypes.JSON `gorm:"type:jsonb"`
	HouseAffiliation      *string        `gorm:"type:varchar(20);index"`
	StoryArcPhase         *string        `gorm:"type:varchar(30)"`
	TimelineID            *string        `gorm:"type:uuid"`
	MediaReferences       datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (StoryBeat) TableName() string {
	return "story_beats"
}

// SecondaryIDs decodes the secondary character id list, returning nil for
// missing or malformed payloads.
func (b StoryBeat) SecondaryIDs() []string {
	ids, err := ParseStringList(b.SecondaryCharacterIDs)
	if err != nil {
		return nil
	}
	return ids
}
