package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"panelprofits/internal/narrative"
	"panelprofits/internal/repository"
)

// MarketHandler exposes the read-only narrative market surface: active
// events, per-asset metrics and insights, house profiles and pipeline stats.
type MarketHandler struct {
	Repo        repository.Repository
	Cache       *narrative.EventCache
	Engine      *narrative.Engine
	Integration *narrative.Integration
	Logger      *zap.Logger
}

func (h *MarketHandler) Register(r *gin.Engine) {
	group := r.Group("/api/narrative")
	group.GET("/events", h.listEvents)
	group.GET("/events/:id", h.getEvent)
	group.GET("/assets/:id/metrics", h.getAssetMetrics)
	group.GET("/assets/:id/insights", h.listAssetInsights)
	group.GET("/assets/:id/price", h.getAssetPrice)
	group.GET("/houses", h.listHouses)
	group.GET("/stats", h.stats)
}

// listEvents serves the active events straight from the cache so the read
// path never touches the database during a tick.
func (h *MarketHandler) listEvents(c *gin.Context) {
	if h.Cache == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	events := h.Cache.All()
	sort.Slice(events, func(i, j int) bool {
		return events[i].EventStartTime.After(events[j].EventStartTime)
	})
	if assetID := strQuery(c, "asset_id"); assetID != "" {
		events = h.Cache.ActiveForAsset(assetID, time.Now().UTC())
	}
	Ok(c, events, map[string]any{"count": len(events)})
}

func (h *MarketHandler) getEvent(c *gin.Context) {
	if h.Cache == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	event, ok := h.Cache.Get(c.Param("id"))
	if !ok {
		Error(c, http.StatusNotFound, "event not found", nil)
		return
	}
	Ok(c, event, nil)
}

func (h *MarketHandler) getAssetMetrics(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	metrics, err := h.Repo.GetTradingMetricsByAssetID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("get trading metrics failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if metrics == nil {
		Error(c, http.StatusNotFound, "metrics not found", nil)
		return
	}
	Ok(c, metrics, nil)
}

func (h *MarketHandler) listAssetInsights(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 20)
	insights, err := h.Repo.ListMarketInsightsByAssetID(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list insights failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, insights, map[string]any{"count": len(insights)})
}

type priceResponse struct {
	AssetID        string  `json:"asset_id"`
	Price          string  `json:"price"`
	AdjustedPrice  float64 `json:"adjusted_price"`
	MomentumImpact float64 `json:"momentum_impact"`
	ActiveEvents   int     `json:"active_events"`
}

// getAssetPrice returns the stored price plus a live preview of what the
// adjustment engine would do to it right now.
func (h *MarketHandler) getAssetPrice(c *gin.Context) {
	if h.Repo == nil || h.Engine == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	assetID := c.Param("id")
	price, err := h.Repo.GetAssetPrice(c.Request.Context(), assetID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if price == nil {
		Error(c, http.StatusNotFound, "price not found", nil)
		return
	}

	now := time.Now().UTC()
	base, _ := price.Price.Float64()
	Ok(c, priceResponse{
		AssetID:        assetID,
		Price:          price.Price.String(),
		AdjustedPrice:  h.Engine.AdjustPrice(c.Request.Context(), assetID, base, now),
		MomentumImpact: h.Engine.MomentumImpact(c.Request.Context(), assetID),
		ActiveEvents:   len(h.Cache.ActiveForAsset(assetID, now)),
	}, nil)
}

func (h *MarketHandler) listHouses(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	profiles, err := h.Repo.ListHouseFinancialProfiles(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list house profiles failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, profiles, map[string]any{"count": len(profiles)})
}

func (h *MarketHandler) stats(c *gin.Context) {
	if h.Integration == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	now := time.Now().UTC()
	stats := h.Integration.Stats(c.Request.Context(), now)

	meta := map[string]any{}
	if h.Repo != nil {
		if avg, err := h.Repo.AverageMythicVolatilitySince(c.Request.Context(), now.Add(-24*time.Hour)); err == nil {
			meta["avg_mythic_volatility_24h"] = avg
		}
	}
	Ok(c, stats, meta)
}
