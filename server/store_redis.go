package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 每个玩家保留的最近战绩条数
const historyKeep = 100

// RedisStore 基于 Redis 的 GameStore 实现：
// 昵称注册表为 hash（name:<规范化昵称>），战绩为每玩家一个 list
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func nameKey(normalized string) string  { return "name:" + normalized }
func historyKey(playerID string) string { return "history:" + playerID }
func statsKey(playerID string) string   { return "stats:" + playerID }

// RecordGameResult 战绩入 list 并累计胜负统计
func (s *RedisStore) RecordGameResult(ctx context.Context, res GameResult) error {
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal game result: %w", err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, historyKey(res.PlayerID), b)
	pipe.LTrim(ctx, historyKey(res.PlayerID), 0, historyKeep-1)
	pipe.HIncrBy(ctx, statsKey(res.PlayerID), res.Outcome, 1)
	pipe.HIncrBy(ctx, statsKey(res.PlayerID), "coins", int64(res.CoinsCollected))
	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("record game result: %w", err)
	}
	return nil
}

// CheckNameAvailable 昵称是否未被注册
func (s *RedisStore) CheckNameAvailable(ctx context.Context, name string) (bool, error) {
	normalized, _, err := normalizeName(name)
	if err != nil {
		return false, err
	}
	n, err := s.rdb.Exists(ctx, nameKey(normalized)).Result()
	if err != nil {
		return false, fmt.Errorf("check name: %w", err)
	}
	return n == 0, nil
}

// RegisterName 注册昵称；同一 owner 重复注册仅刷新 lastSeen，
// 他人占用则返回 ErrNameTaken
func (s *RedisStore) RegisterName(ctx context.Context, name, ownerID string) error {
	normalized, display, err := normalizeName(name)
	if err != nil {
		return err
	}
	key := nameKey(normalized)

	owner, err := s.rdb.HGet(ctx, key, "owner").Result()
	switch {
	case errors.Is(err, redis.Nil):
		// 新昵称
		now := time.Now().Format(time.RFC3339)
		if err := s.rdb.HSet(ctx, key,
			"name", display,
			"owner", ownerID,
			"registeredAt", now,
			"lastSeen", now,
		).Err(); err != nil {
			return fmt.Errorf("register name: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("register name: %w", err)
	case owner == ownerID:
		return s.rdb.HSet(ctx, key, "lastSeen", time.Now().Format(time.RFC3339)).Err()
	default:
		return ErrNameTaken
	}
}
