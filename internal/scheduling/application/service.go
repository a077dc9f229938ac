// Package application wraps the pure scheduling core with the
// collaborators a real process needs: read-through caching of repeated
// calls and an event published after every generation. Neither
// collaborator ever influences the core's output — both sit strictly
// outside engine.GenerateSchedule (spec.md §7: the core itself never
// talks to a cache or a broker).
package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	domain "github.com/bja1701/life-os/internal/scheduling/domain"
	"github.com/bja1701/life-os/internal/scheduling/engine"
	"github.com/bja1701/life-os/internal/shared/infrastructure/cache"
	"github.com/bja1701/life-os/internal/shared/infrastructure/eventbus"
)

// ResultCache is the subset of cache.Cache the service depends on.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Service generates schedules through the deterministic core, caching
// and publishing around it.
type Service struct {
	cache     ResultCache
	publisher eventbus.Publisher
	logger    *slog.Logger
	cacheTTL  time.Duration
}

// NewService builds a Service. cache and publisher may be nil, in which
// case generation runs uncached and unpublished (local mode).
func NewService(c ResultCache, publisher eventbus.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = eventbus.NewNoopPublisher(logger)
	}
	return &Service{cache: c, publisher: publisher, logger: logger, cacheTTL: 5 * time.Minute}
}

// Generate runs engine.GenerateSchedule for the given inputs, serving a
// cached result when the exact same inputs were generated within the
// cache TTL, and publishing a schedule.generated event on every fresh
// computation.
func (s *Service) Generate(ctx context.Context, now time.Time, occupations []domain.Occupation, items []domain.Item, cfg domain.Config) (engine.Result, error) {
	key := cache.ResultKey(hashInputs(now, occupations, items, cfg))

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var result engine.Result
			if err := json.Unmarshal(cached, &result); err == nil {
				s.logger.Debug("schedule cache hit", "key", key)
				return result, nil
			}
		}
	}

	result := engine.GenerateSchedule(now, occupations, items, cfg)

	if s.cache != nil {
		if encoded, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, key, encoded, s.cacheTTL); err != nil {
				s.logger.Warn("failed to cache schedule result", "error", err)
			}
		}
	}

	s.publishGenerated(ctx, result)
	return result, nil
}

func (s *Service) publishGenerated(ctx context.Context, result engine.Result) {
	payload, err := json.Marshal(map[string]any{
		"scheduled":  len(result.ScheduledBlocks),
		"overloaded": len(result.Overloaded),
		"warnings":   len(result.Warnings),
	})
	if err != nil {
		s.logger.Warn("failed to encode schedule.generated payload", "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, eventbus.RoutingKeyScheduleGenerated, payload); err != nil {
		s.logger.Warn("failed to publish schedule.generated", "error", err)
	}
}

// hashInputs derives a stable cache key from the generation inputs.
// now is truncated to the minute so sub-second jitter between otherwise
// identical calls still hits the same cache entry.
func hashInputs(now time.Time, occupations []domain.Occupation, items []domain.Item, cfg domain.Config) string {
	h := sha256.New()
	fmt.Fprintf(h, "now=%s\n", now.Truncate(time.Minute).UTC().Format(time.RFC3339))

	encoded, _ := json.Marshal(occupations)
	h.Write(encoded)
	encoded, _ = json.Marshal(items)
	h.Write(encoded)
	encoded, _ = json.Marshal(cfg)
	h.Write(encoded)

	return hex.EncodeToString(h.Sum(nil))
}
