// Package store 牌桌快照的 Redis 存储
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"sudooom.mahjong/internal/game"
	rediskeys "sudooom.mahjong/pkg/rediskeys"
)

// SnapshotStore 牌桌快照存储: 每桌一个 JSON 字符串 Key, 另有按更新时间排序的索引
type SnapshotStore struct {
	redisClient *redis.Client
	ttl         time.Duration
	logger      *slog.Logger
}

var _ game.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore 创建快照存储, ttl <= 0 时使用默认 TTL
func NewSnapshotStore(redisClient *redis.Client, ttl time.Duration) *SnapshotStore {
	if ttl <= 0 {
		ttl = rediskeys.SnapshotTTL
	}
	return &SnapshotStore{
		redisClient: redisClient,
		ttl:         ttl,
		logger:      slog.Default(),
	}
}

// Save 保存快照并刷新 TTL
func (s *SnapshotStore) Save(ctx context.Context, snap *game.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("序列化快照失败: %w", err)
	}

	pipe := s.redisClient.TxPipeline()
	pipe.Set(ctx, rediskeys.BuildTableSnapshotKey(snap.GameID), data, s.ttl)
	pipe.ZAdd(ctx, rediskeys.TableIndexKey, redis.Z{
		Score:  float64(snap.UpdatedAt.UnixMilli()),
		Member: snap.GameID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error("Failed to save snapshot", "gameId", snap.GameID, "error", err)
		return err
	}

	s.logger.Debug("Saved snapshot", "gameId", snap.GameID, "bytes", len(data))
	return nil
}

// Load 读取快照, 不存在或已过期时返回 game.ErrSnapshotNotFound
func (s *SnapshotStore) Load(ctx context.Context, gameID string) (*game.Snapshot, error) {
	data, err := s.redisClient.Get(ctx, rediskeys.BuildTableSnapshotKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, game.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}

	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("解析快照失败: %w", err)
	}
	return &snap, nil
}

// Delete 删除快照
func (s *SnapshotStore) Delete(ctx context.Context, gameID string) error {
	pipe := s.redisClient.TxPipeline()
	pipe.Del(ctx, rediskeys.BuildTableSnapshotKey(gameID))
	pipe.ZRem(ctx, rediskeys.TableIndexKey, gameID)
	_, err := pipe.Exec(ctx)
	return err
}

// Recent 最近更新过的牌桌ID, 按更新时间倒序; 快照已过期的会从索引中清理
func (s *SnapshotStore) Recent(ctx context.Context, limit int64) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	cutoff := time.Now().Add(-s.ttl).UnixMilli()
	if err := s.redisClient.ZRemRangeByScore(ctx, rediskeys.TableIndexKey, "-inf", fmt.Sprintf("(%d", cutoff)).Err(); err != nil {
		return nil, err
	}
	return s.redisClient.ZRevRange(ctx, rediskeys.TableIndexKey, 0, limit-1).Result()
}
