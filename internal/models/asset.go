package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset is a tradable comic-universe asset (character, comic, creator or
// publisher). Catalog rows are owned by the import side; this service reads
// them and maintains prices and metrics against them.
type Asset struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Name        string `gorm:"type:varchar(255);not null;index"`
	Type        string `gorm:"type:varchar(20);not null;index"`
	Description string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (Asset) TableName() string {
	return "assets"
}

// Character carries the narrative attributes of a character asset used by the
// metrics calculator (power level, alignment, appearance count).
type Character struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Name        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PowerLevel  string `gorm:"type:varchar(30)"`
	Alignment   string `gorm:"type:varchar(50)"`
	Appearances int    `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (Character) TableName() string {
	return "characters"
}

// AssetPrice is the current simulated price of one asset. Stored as numeric
// to avoid float drift on the persisted value; adjustment math runs on
// float64 fractions and is clamped before being applied here.
type AssetPrice struct {
	AssetID   string          `gorm:"type:uuid;primaryKey"`
	Price     decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	UpdatedAt time.Time       `gorm:"type:timestamptz;autoUpdateTime"`
}

func (AssetPrice) TableName() string {
	return "asset_current_prices"
}
