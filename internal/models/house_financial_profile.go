package models

import (
	"time"

	"gorm.io/datatypes"
)

// HouseFinancialProfile is the persisted financial profile of one of the
// seven houses, seeded at startup from the static house theme table.
type HouseFinancialProfile struct {
	HouseID   string `gorm:"type:varchar(20);primaryKey"`
	HouseName string `gorm:"type:varchar(100);not null"`

	VolatilityProfile        string  `gorm:"type:varchar(20);not null"`
	BaseVolatilityMultiplier float64 `gorm:"not null"`
	TrendStrengthModifier    float64 `gorm:"not null"`
	MeanReversionFactor      float64 `gorm:"not null"`
	MarketPatternType        string  `gorm:"type:varchar(50);not null"`
	RiskToleranceLevel       string  `gorm:"type:varchar(20);not null"`
	LeveragePreference       float64 `gorm:"not null"`
	CosmicEventSensitivity   float64 `gorm:"not null"`

	SpecialtyAssetTypes datatypes.JSON `gorm:"type:jsonb"`
	WeaknessAssetTypes  datatypes.JSON `gorm:"type:jsonb"`

	TradingBonusPercentage float64 `gorm:"not null"`
	PenaltyPercentage      float64 `gorm:"not null"`

	SeasonalityPattern   datatypes.JSON `gorm:"type:jsonb"`
	EventResponseProfile datatypes.JSON `gorm:"type:jsonb"`
	SynergisticHouses    datatypes.JSON `gorm:"type:jsonb"`
	ConflictingHouses    datatypes.JSON `gorm:"type:jsonb"`

	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (HouseFinancialProfile) TableName() string {
	return "house_financial_profiles"
}

func (p HouseFinancialProfile) Specialties() []string {
	out, err := ParseStringList(p.SpecialtyAssetTypes)
	if err != nil {
		return nil
	}
	return out
}

func (p HouseFinancialProfile) Weaknesses() []string {
	out, err := ParseStringList(p.WeaknessAssetTypes)
	if err != nil {
		return nil
	}
	return out
}
