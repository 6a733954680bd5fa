package repository

import (
	"context"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/models"
)

// RedisPreferenceRepository stores each user's preferences in one hash.
type RedisPreferenceRepository struct {
	client *redis.Client
}

func NewRedisPreferenceRepository(client *redis.Client) PreferenceRepository {
	return &RedisPreferenceRepository{client: client}
}

func preferenceKey(userID uint64) string {
	return constants.RedisKeyPreferences + strconv.FormatUint(userID, 10)
}

func (r *RedisPreferenceRepository) Get(ctx context.Context, userID uint64) (models.NotificationPreferences, error) {
	prefs := models.DefaultNotificationPreferences()

	values, err := r.client.HGetAll(ctx, preferenceKey(userID)).Result()
	if err != nil {
		return prefs, err
	}

	readBool := func(field string, target *bool) {
		if v, ok := values[field]; ok {
			if parsed, err := strconv.ParseBool(v); err == nil {
				*target = parsed
			}
		}
	}
	readBool("emailNotifications", &prefs.EmailNotifications)
	readBool("taskReminders", &prefs.TaskReminders)
	readBool("systemUpdates", &prefs.SystemUpdates)
	return prefs, nil
}

func (r *RedisPreferenceRepository) Save(ctx context.Context, userID uint64, prefs models.NotificationPreferences) error {
	return r.client.HSet(ctx, preferenceKey(userID), map[string]interface{}{
		"emailNotifications": strconv.FormatBool(prefs.EmailNotifications),
		"taskReminders":      strconv.FormatBool(prefs.TaskReminders),
		"systemUpdates":      strconv.FormatBool(prefs.SystemUpdates),
	}).Err()
}

func (r *RedisPreferenceRepository) Delete(ctx context.Context, userID uint64) error {
	return r.client.Del(ctx, preferenceKey(userID)).Err()
}

// MemoryPreferenceRepository is used when no Redis is configured.
type MemoryPreferenceRepository struct {
	mu    sync.RWMutex
	prefs map[uint64]models.NotificationPreferences
}

func NewMemoryPreferenceRepository() PreferenceRepository {
	return &MemoryPreferenceRepository{prefs: make(map[uint64]models.NotificationPreferences)}
}

func (r *MemoryPreferenceRepository) Get(_ context.Context, userID uint64) (models.NotificationPreferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if prefs, ok := r.prefs[userID]; ok {
		return prefs, nil
	}
	return models.DefaultNotificationPreferences(), nil
}

func (r *MemoryPreferenceRepository) Save(_ context.Context, userID uint64, prefs models.NotificationPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[userID] = prefs
	return nil
}

func (r *MemoryPreferenceRepository) Delete(_ context.Context, userID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.prefs, userID)
	return nil
}
