// Package fee_schedule_cache serves fee schedules from Redis in front of the Mongo repositories.
// Redis is best effort: any cache failure is logged and the read falls through to Mongo.
package fee_schedule_cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/interfaces"
)

type FeeScheduleCache struct {
	store     interfaces.RedisStoreOperations
	classRepo interfaces.ClassFeeAmountsRepoInterface
	stdRepo   interfaces.StandardFeesRepoInterface
	ttl       time.Duration
}

var _ interfaces.FeeScheduleCacheInterface = (*FeeScheduleCache)(nil)

func NewFeeScheduleCache(
	store interfaces.RedisStoreOperations,
	classRepo interfaces.ClassFeeAmountsRepoInterface,
	stdRepo interfaces.StandardFeesRepoInterface,
	ttl time.Duration,
) *FeeScheduleCache {
	return &FeeScheduleCache{store: store, classRepo: classRepo, stdRepo: stdRepo, ttl: ttl}
}

func (c *FeeScheduleCache) ClassSchedule(ctx context.Context, classID string) (*models.FeeSchedule, error) {
	key := models.ClassScheduleKeyBuilder(classID)
	if cached, ok := c.read(ctx, key); ok {
		return scheduleOf(cached), nil
	}

	entry, err := c.classRepo.Get(ctx, classID)
	if err != nil {
		return nil, err
	}

	cached := models.CachedSchedule{}
	if entry != nil {
		cached = models.CachedSchedule{Found: true, ClassName: entry.ClassName, Schedule: entry.FeeSchedule}
	}
	c.write(ctx, key, cached)
	return scheduleOf(cached), nil
}

func (c *FeeScheduleCache) StandardSchedule(ctx context.Context) (*models.FeeSchedule, error) {
	if cached, ok := c.read(ctx, models.StandardScheduleKey); ok {
		return scheduleOf(cached), nil
	}

	entry, err := c.stdRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	cached := models.CachedSchedule{}
	if entry != nil {
		cached = models.CachedSchedule{Found: true, Schedule: entry.FeeSchedule}
	}
	c.write(ctx, models.StandardScheduleKey, cached)
	return scheduleOf(cached), nil
}

func (c *FeeScheduleCache) InvalidateClass(ctx context.Context, classID string) {
	c.invalidate(ctx, models.ClassScheduleKeyBuilder(classID))
}

func (c *FeeScheduleCache) InvalidateStandard(ctx context.Context) {
	c.invalidate(ctx, models.StandardScheduleKey)
}

func (c *FeeScheduleCache) read(ctx context.Context, key string) (models.CachedSchedule, bool) {
	var cached models.CachedSchedule
	found, err := c.store.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.CtxWarn(ctx, log_messages.ScheduleCacheReadFailed, slog.String("key", key), slog.Any("error", err))
		return cached, false
	}
	return cached, found
}

func (c *FeeScheduleCache) write(ctx context.Context, key string, cached models.CachedSchedule) {
	if err := c.store.SetJSON(ctx, key, cached, c.ttl); err != nil {
		logger.CtxWarn(ctx, log_messages.ScheduleCacheWriteFailed, slog.String("key", key), slog.Any("error", err))
	}
}

func (c *FeeScheduleCache) invalidate(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		logger.CtxWarn(ctx, log_messages.ScheduleCacheInvalidateError, slog.String("key", key), slog.Any("error", err))
	}
}

func scheduleOf(cached models.CachedSchedule) *models.FeeSchedule {
	if !cached.Found {
		return nil
	}
	schedule := cached.Schedule
	return &schedule
}
