package insight

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"panelprofits/internal/config"
	"panelprofits/internal/models"
	"panelprofits/internal/repository"
)

const source = "narrative_engine"

// Thresholds on the recomputed metrics that trip an insight.
const (
	highVolatilityThreshold = 0.15
	lowVolatilityThreshold  = 0.08
	momentumThreshold       = 1.0
)

// Generator turns freshly recalculated trading metrics into trader-facing
// market insights. Runs on its own schedule and only looks at rows touched
// inside the active window, so each recompute is analyzed once.
type Generator struct {
	repo repository.Repository
	log  *zap.Logger
	cfg  config.InsightsConfig
}

func NewGenerator(repo repository.Repository, cfg config.InsightsConfig, log *zap.Logger) *Generator {
	return &Generator{repo: repo, log: log, cfg: cfg}
}

// Run generates insights for every metrics row recalculated inside the
// active window and persists them in one batch.
func (g *Generator) Run(ctx context.Context, now time.Time) (int, error) {
	rows, err := g.repo.ListTradingMetricsRecalculatedSince(ctx, now.Add(-g.cfg.ActiveWindow), g.cfg.MaxAssets)
	if err != nil {
		return 0, err
	}

	var batch []models.MarketInsight
	for _, m := range rows {
		batch = append(batch, BuildInsights(m)...)
	}
	if len(batch) == 0 {
		return 0, nil
	}

	if err := g.repo.InsertMarketInsights(ctx, batch); err != nil {
		return 0, err
	}
	if g.log != nil {
		g.log.Info("market insights generated",
			zap.Int("assets", len(rows)),
			zap.Int("insights", len(batch)))
	}
	return len(batch), nil
}

// BuildInsights derives all applicable insights for one metrics row.
func BuildInsights(m models.NarrativeTradingMetrics) []models.MarketInsight {
	var out []models.MarketInsight
	if in := volatilityInsight(m); in != nil {
		out = append(out, *in)
	}
	if in := momentumInsight(m); in != nil {
		out = append(out, *in)
	}
	if in := houseInsight(m); in != nil {
		out = append(out, *in)
	}
	if in := storyArcInsight(m); in != nil {
		out = append(out, *in)
	}
	return out
}

func volatilityInsight(m models.NarrativeTradingMetrics) *models.MarketInsight {
	switch {
	case m.MythicVolatilityScore > highVolatilityThreshold:
		return &models.MarketInsight{
			AssetID:        m.AssetID,
			Title:          "Extreme narrative volatility",
			Content:        fmt.Sprintf("Mythic volatility at %.3f, well above the %.2f alert line. Expect oversized price swings while the current story arc plays out.", m.MythicVolatilityScore, highVolatilityThreshold),
			Category:       "alert",
			SentimentScore: 0,
			Confidence:     0.8,
			Tags:           models.MustJSON([]string{"volatility", m.StoryArcPhase}),
			Source:         source,
		}
	case m.MythicVolatilityScore < lowVolatilityThreshold:
		return &models.MarketInsight{
			AssetID:        m.AssetID,
			Title:          "Narrative volatility subdued",
			Content:        fmt.Sprintf("Mythic volatility at %.3f. Story pressure is low; price action should track the broader market.", m.MythicVolatilityScore),
			Category:       "neutral",
			SentimentScore: 0,
			Confidence:     0.6,
			Tags:           models.MustJSON([]string{"volatility"}),
			Source:         source,
		}
	}
	return nil
}

func momentumInsight(m models.NarrativeTradingMetrics) *models.MarketInsight {
	switch {
	case m.NarrativeMomentumScore > momentumThreshold:
		return &models.MarketInsight{
			AssetID:        m.AssetID,
			Title:          "Narrative momentum building",
			Content:        fmt.Sprintf("Momentum score %.2f driven by cultural impact %.2f and story progression %.2f. Narrative tailwind favors upside.", m.NarrativeMomentumScore, m.CulturalImpactIndex, m.StoryProgressionRate),
			Category:       "bullish",
			SentimentScore: 0.6,
			Confidence:     0.7,
			Tags:           models.MustJSON([]string{"momentum"}),
			Source:         source,
		}
	case m.NarrativeMomentumScore < -momentumThreshold:
		return &models.MarketInsight{
			AssetID:        m.AssetID,
			Title:          "Narrative momentum fading",
			Content:        fmt.Sprintf("Momentum score %.2f. The story is working against this asset; expect drag until the arc turns.", m.NarrativeMomentumScore),
			Category:       "bearish",
			SentimentScore: -0.6,
			Confidence:     0.7,
			Tags:           models.MustJSON([]string{"momentum"}),
			Source:         source,
		}
	}
	return nil
}

func houseInsight(m models.NarrativeTradingMetrics) *models.MarketInsight {
	if m.HouseAffiliation == nil || m.HouseSpecialtyBonus == 0 {
		return nil
	}
	house := *m.HouseAffiliation
	if m.HouseSpecialtyBonus > 0 {
		return &models.MarketInsight{
			AssetID:        m.AssetID,
			Title:          fmt.Sprintf("House %s specialty tailwind", house),
			Content:        fmt.Sprintf("Asset sits in house %s's specialty book (+%.0f%% trading bonus, %s risk posture).", house, m.HouseSpecialtyBonus*100, m.HouseVolatilityProfile),
			Category:       "bullish",
			SentimentScore: 0.4,
			Confidence:     0.6,
			Tags:           models.MustJSON([]string{"house", house}),
			Source:         source,
		}
	}
	return &models.MarketInsight{
		AssetID:        m.AssetID,
		Title:          fmt.Sprintf("House %s weakness exposure", house),
		Content:        fmt.Sprintf("Asset falls in house %s's weakness book (%.0f%% penalty). House desks will trade it reluctantly.", house, m.HouseSpecialtyBonus*100),
		Category:       "bearish",
		SentimentScore: -0.3,
		Confidence:     0.6,
		Tags:           models.MustJSON([]string{"house", house}),
		Source:         source,
	}
}

func storyArcInsight(m models.NarrativeTradingMetrics) *models.MarketInsight {
	switch m.StoryArcPhase {
	case "climax":
		return &models.MarketInsight{
			AssetID:        m.AssetID,
			Title:          "Story arc at climax",
			Content:        "Peak narrative intensity. Volatility multiplier is at its cycle high; both direction and magnitude of moves are at maximum uncertainty.",
			Category:       "alert",
			SentimentScore: 0,
			Confidence:     0.75,
			Tags:           models.MustJSON([]string{"story_arc", "climax"}),
			Source:         source,
		}
	case "resolution":
		return &models.MarketInsight{
			AssetID:        m.AssetID,
			Title:          "Story arc resolving",
			Content:        "Arc is winding down. Volatility is compressing and momentum decay accelerates; expect mean reversion toward baseline.",
			Category:       "neutral",
			SentimentScore: 0,
			Confidence:     0.65,
			Tags:           models.MustJSON([]string{"story_arc", "resolution"}),
			Source:         source,
		}
	}
	return nil
}
