package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"panelprofits/internal/config"
	cronrunner "panelprofits/internal/cron"
	"panelprofits/internal/db"
	"panelprofits/internal/handler"
	"panelprofits/internal/houses"
	"panelprofits/internal/housetrading"
	"panelprofits/internal/insight"
	"panelprofits/internal/logger"
	"panelprofits/internal/metrics"
	"panelprofits/internal/narrative"
	gormrepository "panelprofits/internal/repository/gorm"
	"panelprofits/internal/sim"
	"panelprofits/internal/stream"
)

func main() {
	cfgPath := os.Getenv("PP_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("PP_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := houses.Validate(); err != nil {
		logger.Fatal("house tables invalid", zap.Error(err))
	}

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)

	var hub *stream.Hub
	if cfg.Stream.Enabled {
		hub = stream.NewHub(cfg.Stream, logger)
		defer hub.Close()
	}

	cache := narrative.NewEventCache()
	engine := narrative.NewEngine(cache, store, logger)
	integration := narrative.NewIntegration(store, cache, publisher(hub), cfg.Narrative, logger)
	calculator := metrics.NewCalculator(store, logger)
	insights := insight.NewGenerator(store, cfg.Insights, logger)
	trader := housetrading.NewTrader(store, publisher(hub), logger)
	ticker := sim.NewTicker(store, engine, cfg.Sim, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := trader.SeedProfiles(ctx); err != nil {
		logger.Fatal("house profile seeding failed", zap.Error(err))
	}
	if err := integration.Start(ctx); err != nil {
		logger.Fatal("event cache restore failed", zap.Error(err))
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn}
	healthHandler.Register(router)
	marketHandler := &handler.MarketHandler{
		Repo:        store,
		Cache:       cache,
		Engine:      engine,
		Integration: integration,
		Logger:      logger,
	}
	marketHandler.Register(router)
	if hub != nil {
		streamHandler := &handler.StreamHandler{Hub: hub, Logger: logger}
		streamHandler.Register(router)
	}

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: router,
	}

	cronRunner := cronrunner.New(logger, ctx)

	if cfg.Cron.Enabled {
		// One job for the tick so the house-trading pass always runs after
		// beat draining and eviction, never interleaved with them.
		if _, err := cronRunner.Add(cfg.Narrative.TickSpec, func(ctx context.Context) {
			if err := integration.Tick(ctx, db.NowUTC()); err != nil {
				logger.Warn("narrative tick failed", zap.Error(err))
			}
			if cfg.HouseTrading.Enabled {
				if _, err := trader.Run(ctx, db.NowUTC()); err != nil {
					logger.Warn("house trading pass failed", zap.Error(err))
				}
			}
		}); err != nil {
			logger.Warn("cron register narrative tick failed", zap.Error(err))
		}

		if _, err := cronRunner.Add(cfg.Metrics.RecalcSpec, func(ctx context.Context) {
			n, err := calculator.RecomputeAll(ctx, cfg.Metrics.BatchSize, db.NowUTC())
			if err != nil {
				logger.Warn("metrics recompute failed", zap.Error(err))
				return
			}
			logger.Info("metrics recompute ok", zap.Int("assets", n))
		}); err != nil {
			logger.Warn("cron register metrics recompute failed", zap.Error(err))
		}

		if cfg.Insights.Enabled {
			if _, err := cronRunner.Add(cfg.Insights.Spec, func(ctx context.Context) {
				if _, err := insights.Run(ctx, db.NowUTC()); err != nil {
					logger.Warn("insight generation failed", zap.Error(err))
				}
			}); err != nil {
				logger.Warn("cron register insight generation failed", zap.Error(err))
			}
		}

		if cfg.Sim.Enabled {
			if _, err := cronRunner.Add(cfg.Sim.TickSpec, func(ctx context.Context) {
				if _, err := ticker.Tick(ctx, db.NowUTC()); err != nil {
					logger.Warn("price tick failed", zap.Error(err))
				}
			}); err != nil {
				logger.Warn("cron register price tick failed", zap.Error(err))
			}
		}

		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// publisher avoids handing a typed-nil *stream.Hub to a Publisher interface.
func publisher(hub *stream.Hub) narrative.Publisher {
	if hub == nil {
		return nil
	}
	return hub
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
