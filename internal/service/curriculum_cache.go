package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const curriculumKeyPrefix = "curriculum:"

// CurriculumCache 课程只读数据的缓存
type CurriculumCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Flush(ctx context.Context) error
}

// RedisCurriculumCache 以 JSON 存储在 Redis 中
type RedisCurriculumCache struct {
	Client *redis.Client
}

func NewRedisCurriculumCache(client *redis.Client) *RedisCurriculumCache {
	return &RedisCurriculumCache{Client: client}
}

func (c *RedisCurriculumCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.Client.Get(ctx, curriculumKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCurriculumCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, curriculumKeyPrefix+key, data, ttl).Err()
}

// Flush 删除全部课程缓存键
func (c *RedisCurriculumCache) Flush(ctx context.Context) error {
	iter := c.Client.Scan(ctx, 0, curriculumKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.Client.Del(ctx, keys...).Err()
}
