package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"auditgate-backend/shared/config"
	"auditgate-backend/shared/logger"
)

// CacheManager caches per-user visible-project-id sets. Everything here
// is best effort: a missing or unreachable cache always falls through
// to the database.
type CacheManager struct {
	client *redis.Client
	ctx    context.Context
}

var (
	globalCacheManager *CacheManager
	initAttempted      bool

	// VisibleProjectsTTL bounds staleness between assignment change and
	// cache invalidation on another instance.
	VisibleProjectsTTL = 15 * time.Minute
)

// InitCacheManager initializes the global cache manager
func InitCacheManager() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	globalCacheManager = &CacheManager{
		client: client,
		ctx:    ctx,
	}

	logger.GetLogger().Infof("Redis cache manager initialized - %s:%s DB:%d",
		cfg.RedisHost, cfg.RedisPort, redisDB)

	return nil
}

// GetCacheManager returns the global cache manager, or nil when the
// cache is unavailable.
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil && !initAttempted {
		initAttempted = true
		if err := InitCacheManager(); err != nil {
			logger.LogError("cache", "GetCacheManager", "init", err)
			return nil
		}
	}
	return globalCacheManager
}

func visibleProjectsKey(userID uuid.UUID) string {
	return fmt.Sprintf("scope:user:%s:projects", userID)
}

// GetVisibleProjects returns the cached visible-project-id set for a
// user, and whether the cache held one.
func (cm *CacheManager) GetVisibleProjects(userID uuid.UUID) ([]uuid.UUID, bool) {
	if cm == nil || cm.client == nil {
		return nil, false
	}

	result, err := cm.client.Get(cm.ctx, visibleProjectsKey(userID)).Result()
	if err != nil {
		return nil, false
	}

	var ids []uuid.UUID
	if err := json.Unmarshal([]byte(result), &ids); err != nil {
		return nil, false
	}
	return ids, true
}

// SetVisibleProjects caches the visible-project-id set for a user.
func (cm *CacheManager) SetVisibleProjects(userID uuid.UUID, ids []uuid.UUID) {
	if cm == nil || cm.client == nil {
		return
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := cm.client.Set(cm.ctx, visibleProjectsKey(userID), data, VisibleProjectsTTL).Err(); err != nil {
		logger.LogError("cache", "SetVisibleProjects", userID.String(), err)
	}
}

// InvalidateVisibleProjects drops the cached set for one user. Called
// when the user's assignments change.
func (cm *CacheManager) InvalidateVisibleProjects(userID uuid.UUID) {
	if cm == nil || cm.client == nil {
		return
	}
	if err := cm.client.Del(cm.ctx, visibleProjectsKey(userID)).Err(); err != nil {
		logger.LogError("cache", "InvalidateVisibleProjects", userID.String(), err)
	}
}
