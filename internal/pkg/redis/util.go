package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotInitialized Redis 未初始化时所有辅助函数返回此错误，
// 调用方按缓存未命中处理
var ErrNotInitialized = errors.New("redis client is not initialized")

// SetWithExpiration 设置键值对并设置过期时间
func SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if Rdb == nil {
		return ErrNotInitialized
	}
	return Rdb.Set(ctx, key, value, expiration).Err()
}

// GetInt64 获取整数值，键不存在时返回 redis.Nil
func GetInt64(ctx context.Context, key string) (int64, error) {
	if Rdb == nil {
		return 0, ErrNotInitialized
	}
	return Rdb.Get(ctx, key).Int64()
}

// DeleteKey 删除一个键
func DeleteKey(ctx context.Context, key string) error {
	if Rdb == nil {
		return ErrNotInitialized
	}
	return Rdb.Del(ctx, key).Err()
}

// SAdd 向集合添加成员
func SAdd(ctx context.Context, key string, members ...interface{}) error {
	if Rdb == nil {
		return ErrNotInitialized
	}
	return Rdb.SAdd(ctx, key, members...).Err()
}

// SRem 从集合移除成员
func SRem(ctx context.Context, key string, members ...interface{}) error {
	if Rdb == nil {
		return ErrNotInitialized
	}
	return Rdb.SRem(ctx, key, members...).Err()
}

// GetSet 获取集合全部成员
func GetSet(ctx context.Context, key string) ([]string, error) {
	if Rdb == nil {
		return nil, ErrNotInitialized
	}
	return Rdb.SMembers(ctx, key).Result()
}

// Rename 重命名键，源键不存在时返回错误
func Rename(ctx context.Context, oldKey string, newKey string) error {
	if Rdb == nil {
		return ErrNotInitialized
	}
	return Rdb.Rename(ctx, oldKey, newKey).Err()
}

// IsNil 判断是否为缓存未命中
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
