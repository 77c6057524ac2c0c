package narrative

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"panelprofits/internal/config"
	"panelprofits/internal/models"
	"panelprofits/internal/repository"
)

// Publisher receives lifecycle notifications for downstream fan-out. A nil
// publisher is valid and drops everything.
type Publisher interface {
	Publish(topic string, payload any)
}

// Stats is a point-in-time snapshot of the integration's state.
// HouseActivity counts assets whose metrics were recalculated within the
// last hour, per house.
type Stats struct {
	ActiveEvents  int              `json:"active_events"`
	QueuedBeats   int              `json:"queued_beats"`
	EventsLast24h int64            `json:"events_last_24h"`
	HouseActivity map[string]int64 `json:"house_activity"`
	LastTick      time.Time        `json:"last_tick"`
}

// Integration owns the narrative pipeline: beat intake, trigger generation,
// event materialization, phase tracking and eviction. Cron fires each run on
// its own goroutine, so tickMu serializes whole ticks: a run that outlasts
// the schedule interval delays the next one instead of racing it on the beat
// watermark.
type Integration struct {
	repo  repository.Repository
	cache *EventCache
	pub   Publisher
	log   *zap.Logger
	cfg   config.NarrativeConfig

	tickMu sync.Mutex

	mu       sync.Mutex
	queue    []models.StoryBeat
	lastSeen time.Time
	lastTick time.Time
}

func NewIntegration(repo repository.Repository, cache *EventCache, pub Publisher, cfg config.NarrativeConfig, log *zap.Logger) *Integration {
	return &Integration{
		repo:     repo,
		cache:    cache,
		pub:      pub,
		log:      log,
		cfg:      cfg,
		lastSeen: time.Now().UTC().Add(-cfg.BeatLookback),
	}
}

// Start restores the cache from the persisted active events within the
// memory horizon. Events older than the horizon stay archived even if their
// IsActive flag was left set.
func (i *Integration) Start(ctx context.Context) error {
	horizon := time.Now().UTC().Add(-i.cfg.EventMemory)
	events, err := i.repo.ListActiveNarrativeMarketEvents(ctx, horizon)
	if err != nil {
		return err
	}
	i.cache.Rebuild(events)
	if i.log != nil {
		i.log.Info("event cache restored", zap.Int("events", len(events)))
	}
	return nil
}

// EnqueueStoryBeat hands a beat to the pipeline directly, bypassing the
// database poll. Used by in-process producers.
func (i *Integration) EnqueueStoryBeat(beat models.StoryBeat) {
	i.mu.Lock()
	i.queue = append(i.queue, beat)
	i.mu.Unlock()
}

// Tick runs one full pipeline pass: poll new beats, drain the queue into
// triggers and events, update phases, evict expired events. Every unit of
// work is isolated; one bad beat or row never stalls the rest.
func (i *Integration) Tick(ctx context.Context, now time.Time) error {
	i.tickMu.Lock()
	defer i.tickMu.Unlock()

	if err := i.pollBeats(ctx); err != nil {
		if i.log != nil {
			i.log.Warn("story beat poll failed", zap.Error(err))
		}
	}

	i.drainQueue(ctx, now)
	i.updatePhases(ctx, now)
	i.evictExpired(ctx, now)

	i.mu.Lock()
	i.lastTick = now
	i.mu.Unlock()
	return nil
}

func (i *Integration) pollBeats(ctx context.Context) error {
	i.mu.Lock()
	since := i.lastSeen
	i.mu.Unlock()

	beats, err := i.repo.ListStoryBeatsSince(ctx, since, i.cfg.BeatBatchSize)
	if err != nil {
		return err
	}
	if len(beats) == 0 {
		return nil
	}

	latest := since
	for _, b := range beats {
		if b.CreatedAt.After(latest) {
			latest = b.CreatedAt
		}
	}

	i.mu.Lock()
	i.queue = append(i.queue, beats...)
	i.lastSeen = latest
	i.mu.Unlock()
	return nil
}

// drainQueue processes queued beats up to the concurrent-event cap. Beats
// that fail are dropped with a warning; beats beyond the cap stay queued for
// the next tick.
func (i *Integration) drainQueue(ctx context.Context, now time.Time) {
	i.mu.Lock()
	pending := i.queue
	i.queue = nil
	i.mu.Unlock()

	for idx, beat := range pending {
		if ctx.Err() != nil {
			i.requeue(pending[idx:])
			return
		}
		if i.cfg.MaxConcurrentEvents > 0 && i.cache.Len() >= i.cfg.MaxConcurrentEvents {
			i.requeue(pending[idx:])
			if i.log != nil {
				i.log.Info("concurrent event cap reached, deferring beats",
					zap.Int("deferred", len(pending)-idx))
			}
			return
		}
		if err := i.processBeat(ctx, beat, now); err != nil {
			if i.log != nil {
				i.log.Warn("story beat processing failed",
					zap.String("beat_id", beat.ID),
					zap.String("beat_type", beat.BeatType),
					zap.Error(err))
			}
		}
	}
}

func (i *Integration) requeue(beats []models.StoryBeat) {
	if len(beats) == 0 {
		return
	}
	i.mu.Lock()
	i.queue = append(beats, i.queue...)
	i.mu.Unlock()
}

// processBeat runs the beat to trigger to event chain for one beat. The
// trigger is persisted for audit, consumed immediately and deactivated.
// Beats that touch no assets are dropped without a trigger.
func (i *Integration) processBeat(ctx context.Context, beat models.StoryBeat, now time.Time) error {
	trigger := GenerateTrigger(beat, i.houseAssets(ctx, beat))
	if trigger == nil {
		if i.log != nil {
			i.log.Debug("story beat affects no assets, skipping", zap.String("beat_id", beat.ID))
		}
		return nil
	}
	if err := i.repo.InsertStoryEventTrigger(ctx, trigger); err != nil {
		return err
	}

	event := Materialize(trigger, beat, now)
	if err := i.repo.InsertNarrativeMarketEvent(ctx, event); err != nil {
		return err
	}
	if err := i.repo.DeactivateStoryEventTrigger(ctx, trigger.ID); err != nil && i.log != nil {
		i.log.Warn("trigger deactivation failed", zap.String("trigger_id", trigger.ID), zap.Error(err))
	}

	i.cache.Put(*event)
	i.publish("event_created", event)

	if i.log != nil {
		i.log.Info("narrative market event created",
			zap.String("event_id", event.ID),
			zap.String("severity", trigger.EventSeverity),
			zap.String("beat_type", beat.BeatType),
			zap.Int("affected_assets", len(event.Assets())))
	}
	return nil
}

// houseAssets resolves the asset ids sharing a beat's house affiliation, so
// house-mates ride the event indirectly. Lookup failures degrade to an empty
// spillover set.
func (i *Integration) houseAssets(ctx context.Context, beat models.StoryBeat) []string {
	if beat.HouseAffiliation == nil || *beat.HouseAffiliation == "" {
		return nil
	}
	metrics, err := i.repo.ListTradingMetricsByHouse(ctx, *beat.HouseAffiliation)
	if err != nil {
		if i.log != nil {
			i.log.Warn("house spillover lookup failed",
				zap.String("house", *beat.HouseAffiliation), zap.Error(err))
		}
		return nil
	}
	ids := make([]string, 0, len(metrics))
	for _, m := range metrics {
		ids = append(ids, m.AssetID)
	}
	return ids
}

// updatePhases recomputes each cached event's phase and persists only actual
// transitions. Phases only ever move forward because they derive from
// elapsed time.
func (i *Integration) updatePhases(ctx context.Context, now time.Time) {
	for _, event := range i.cache.All() {
		phase := event.PhaseAt(now)
		if phase == event.CurrentPhase {
			continue
		}
		if err := i.repo.UpdateNarrativeMarketEventPhase(ctx, event.ID, phase); err != nil {
			if i.log != nil {
				i.log.Warn("phase update failed", zap.String("event_id", event.ID), zap.Error(err))
			}
			continue
		}
		event.CurrentPhase = phase
		i.cache.Put(event)
		i.publish("phase_changed", event)
	}
}

// evictExpired archives events whose windows have elapsed. Eviction is
// final: the row is deactivated and the cache entry removed, so the event
// can never re-enter price math.
func (i *Integration) evictExpired(ctx context.Context, now time.Time) {
	for _, event := range i.cache.All() {
		if !event.ExpiredAt(now) {
			continue
		}
		if err := i.repo.DeactivateNarrativeMarketEvent(ctx, event.ID); err != nil {
			if i.log != nil {
				i.log.Warn("event deactivation failed", zap.String("event_id", event.ID), zap.Error(err))
			}
			continue
		}
		i.cache.Delete(event.ID)
		i.publish("event_expired", event)
		if i.log != nil {
			i.log.Info("narrative market event expired", zap.String("event_id", event.ID))
		}
	}
}

// Stats reports the integration's current state for the HTTP surface.
func (i *Integration) Stats(ctx context.Context, now time.Time) Stats {
	i.mu.Lock()
	queued := len(i.queue)
	lastTick := i.lastTick
	i.mu.Unlock()

	var last24h int64
	if n, err := i.repo.CountNarrativeMarketEventsSince(ctx, now.Add(-24*time.Hour)); err == nil {
		last24h = n
	}
	houseActivity := map[string]int64{}
	if counts, err := i.repo.CountTradingMetricsByHouseSince(ctx, now.Add(-time.Hour)); err == nil && counts != nil {
		houseActivity = counts
	}

	return Stats{
		ActiveEvents:  i.cache.Len(),
		QueuedBeats:   queued,
		EventsLast24h: last24h,
		HouseActivity: houseActivity,
		LastTick:      lastTick,
	}
}

func (i *Integration) publish(topic string, payload any) {
	if i.pub != nil {
		i.pub.Publish(topic, payload)
	}
}
