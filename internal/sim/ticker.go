package sim

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"panelprofits/internal/config"
	"panelprofits/internal/narrative"
	"panelprofits/internal/repository"
)

// Ticker drives the market price simulation: each tick it replays the
// narrative adjustment engine over every tracked price, adds a random walk
// sized by the adjusted volatility, and persists the result. Untouched
// assets are skipped to keep write volume down.
type Ticker struct {
	repo   repository.Repository
	engine *narrative.Engine
	log    *zap.Logger
	cfg    config.SimConfig

	// noise returns a uniform draw in [0, 1); pinned in tests.
	noise func() float64
}

func NewTicker(repo repository.Repository, engine *narrative.Engine, cfg config.SimConfig, log *zap.Logger) *Ticker {
	return &Ticker{repo: repo, engine: engine, log: log, cfg: cfg, noise: rand.Float64}
}

// Tick adjusts every tracked asset price once. A failing asset is logged and
// skipped.
func (t *Ticker) Tick(ctx context.Context, now time.Time) (int, error) {
	prices, err := t.repo.ListAssetPrices(ctx, t.cfg.MaxAssets)
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, current := range prices {
		if ctx.Err() != nil {
			return moved, ctx.Err()
		}

		base, _ := current.Price.Float64()
		if base <= 0 {
			continue
		}

		adjusted := t.engine.AdjustPrice(ctx, current.AssetID, base, now)
		adjusted *= 1.0 + t.engine.MomentumImpact(ctx, current.AssetID)

		if t.cfg.NoiseScale > 0 {
			vol := t.engine.AdjustVolatility(ctx, current.AssetID, t.cfg.BaseVolatility, now)
			adjusted *= 1.0 + (t.noise()*2.0-1.0)*vol*t.cfg.NoiseScale
		}

		next := decimal.NewFromFloat(adjusted).Round(6)
		if next.Equal(current.Price) {
			continue
		}

		current.Price = next
		if err := t.repo.UpsertAssetPrice(ctx, &current); err != nil {
			if t.log != nil {
				t.log.Warn("price update failed",
					zap.String("asset_id", current.AssetID), zap.Error(err))
			}
			continue
		}
		moved++
	}

	if t.log != nil && moved > 0 {
		t.log.Debug("price tick applied",
			zap.Int("tracked", len(prices)),
			zap.Int("moved", moved))
	}
	return moved, nil
}
