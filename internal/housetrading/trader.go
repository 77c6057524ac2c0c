package housetrading

import (
	"context"
	"time"

	"go.uber.org/zap"

	"panelprofits/internal/houses"
	"panelprofits/internal/models"
	"panelprofits/internal/repository"
)

// Publisher mirrors the stream hub's publish surface.
type Publisher interface {
	Publish(topic string, payload any)
}

// Activity summarizes one house desk's posture for the current pass.
type Activity struct {
	HouseID            string  `json:"house_id"`
	AssetsCovered      int     `json:"assets_covered"`
	SpecialtyPositions int     `json:"specialty_positions"`
	WeaknessPositions  int     `json:"weakness_positions"`
	AvgMomentum        float64 `json:"avg_momentum"`
	SeasonalMultiplier float64 `json:"seasonal_multiplier"`
	NetBias            string  `json:"net_bias"`
}

// Trader runs the periodic house trading pass: each house desk reviews the
// assets affiliated with it, weighs specialty and weakness books against
// current momentum and the seasonal pattern, and reports its posture.
type Trader struct {
	repo repository.Repository
	pub  Publisher
	log  *zap.Logger
}

func NewTrader(repo repository.Repository, pub Publisher, log *zap.Logger) *Trader {
	return &Trader{repo: repo, pub: pub, log: log}
}

// SeedProfiles upserts the seven house financial profiles from the static
// theme tables. Idempotent; run at startup.
func (t *Trader) SeedProfiles(ctx context.Context) error {
	for _, id := range houses.IDs {
		theme := houses.Themes[id]
		profile := &models.HouseFinancialProfile{
			HouseID:   id,
			HouseName: "House of " + id,

			VolatilityProfile:        theme.VolatilityProfile,
			BaseVolatilityMultiplier: theme.BaseVolatilityMultiplier,
			TrendStrengthModifier:    theme.TrendStrengthModifier,
			MeanReversionFactor:      theme.MeanReversionFactor,
			MarketPatternType:        theme.MarketPatternType,
			RiskToleranceLevel:       theme.RiskToleranceLevel,
			LeveragePreference:       theme.LeveragePreference,
			CosmicEventSensitivity:   theme.CosmicEventSensitivity,

			SpecialtyAssetTypes: models.MustJSON(theme.SpecialtyAssetTypes),
			WeaknessAssetTypes:  models.MustJSON(theme.WeaknessAssetTypes),

			TradingBonusPercentage: theme.TradingBonusPercentage,
			PenaltyPercentage:      theme.PenaltyPercentage,

			SeasonalityPattern:   models.MustJSON(houses.SeasonalityPattern(id)),
			EventResponseProfile: models.MustJSON(houses.EventResponseProfile(id)),
			SynergisticHouses:    models.MustJSON(houses.SynergisticHouses(id)),
			ConflictingHouses:    models.MustJSON(houses.ConflictingHouses(id)),

			IsActive: true,
		}
		if err := t.repo.UpsertHouseFinancialProfile(ctx, profile); err != nil {
			return err
		}
	}
	if t.log != nil {
		t.log.Info("house financial profiles seeded", zap.Int("houses", len(houses.IDs)))
	}
	return nil
}

// Run executes one trading pass over every active house profile. A failing
// house is logged and skipped.
func (t *Trader) Run(ctx context.Context, now time.Time) ([]Activity, error) {
	profiles, err := t.repo.ListHouseFinancialProfiles(ctx)
	if err != nil {
		return nil, err
	}

	quarter := currentQuarter(now)
	var out []Activity
	for _, profile := range profiles {
		if !profile.IsActive {
			continue
		}
		activity, err := t.evaluateHouse(ctx, profile, quarter)
		if err != nil {
			if t.log != nil {
				t.log.Warn("house trading pass failed",
					zap.String("house", profile.HouseID), zap.Error(err))
			}
			continue
		}
		out = append(out, activity)
		if t.pub != nil {
			t.pub.Publish("house_trading", activity)
		}
	}
	return out, nil
}

func (t *Trader) evaluateHouse(ctx context.Context, profile models.HouseFinancialProfile, quarter string) (Activity, error) {
	metrics, err := t.repo.ListTradingMetricsByHouse(ctx, profile.HouseID)
	if err != nil {
		return Activity{}, err
	}

	specialty, weakness := 0, 0
	momentumSum := 0.0
	for _, m := range metrics {
		momentumSum += m.NarrativeMomentumScore
		switch {
		case m.HouseSpecialtyBonus > 0:
			specialty++
		case m.HouseSpecialtyBonus < 0:
			weakness++
		}
	}

	avgMomentum := 0.0
	if len(metrics) > 0 {
		avgMomentum = momentumSum / float64(len(metrics))
	}

	seasonal := houses.SeasonalityPattern(profile.HouseID)[quarter]
	if seasonal == 0 {
		seasonal = 1.0
	}

	return Activity{
		HouseID:            profile.HouseID,
		AssetsCovered:      len(metrics),
		SpecialtyPositions: specialty,
		WeaknessPositions:  weakness,
		AvgMomentum:        avgMomentum,
		SeasonalMultiplier: seasonal,
		NetBias:            netBias(avgMomentum*seasonal, profile.RiskToleranceLevel),
	}, nil
}

// netBias folds seasonal-weighted momentum through the house's risk
// tolerance: aggressive desks lean in on weaker signals.
func netBias(signal float64, riskTolerance string) string {
	threshold := 0.5
	switch riskTolerance {
	case "extreme":
		threshold = 0.2
	case "aggressive":
		threshold = 0.35
	case "conservative":
		threshold = 0.8
	}
	switch {
	case signal > threshold:
		return "accumulate"
	case signal < -threshold:
		return "reduce"
	default:
		return "hold"
	}
}

func currentQuarter(now time.Time) string {
	switch (int(now.Month()) - 1) / 3 {
	case 0:
		return "Q1"
	case 1:
		return "Q2"
	case 2:
		return "Q3"
	default:
		return "Q4"
	}
}
