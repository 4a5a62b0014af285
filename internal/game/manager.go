package game

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	apperrors "sudooom.mahjong/pkg/errors"
)

// DefaultEvictInterval 检查空闲牌桌的间隔
const DefaultEvictInterval = 60 * time.Second

// EvictFunc 牌桌被淘汰或关闭前的回调, 用于保存快照
type EvictFunc func(ctx context.Context, g *Game)

// GameManager 进程内的牌桌注册表, 空闲超时的牌桌被淘汰
type GameManager struct {
	games sync.Map // gameID -> *Game
	count atomic.Int64

	maxGames     int
	evictTimeout time.Duration
	evictTicker  *time.Ticker
	onEvict      EvictFunc

	stopChan chan struct{} // 停止信号通道
	stopOnce sync.Once

	logger *slog.Logger
}

// NewGameManager 创建牌桌管理器, maxGames <= 0 表示不限制
func NewGameManager(maxGames int, evictTimeout, interval time.Duration) *GameManager {
	if interval <= 0 {
		interval = DefaultEvictInterval
	}
	m := &GameManager{
		maxGames:     maxGames,
		evictTimeout: evictTimeout,
		evictTicker:  time.NewTicker(interval),
		stopChan:     make(chan struct{}),
		logger:       slog.Default().With("component", "GameManager"),
	}

	go m.evictLoop()

	return m
}

// OnEvict 设置淘汰回调, 需在使用前设置
func (m *GameManager) OnEvict(fn EvictFunc) {
	m.onEvict = fn
}

// Add 注册牌桌, 已存在时返回已有的牌桌
func (m *GameManager) Add(g *Game) (*Game, error) {
	if m.maxGames > 0 && int(m.count.Load()) >= m.maxGames {
		return nil, apperrors.ErrTooManyGames
	}
	actual, loaded := m.games.LoadOrStore(g.ID(), g)
	if !loaded {
		m.count.Add(1)
	}
	return actual.(*Game), nil
}

// Get 获取牌桌
func (m *GameManager) Get(gameID string) (*Game, bool) {
	val, ok := m.games.Load(gameID)
	if !ok {
		return nil, false
	}
	return val.(*Game), true
}

// Remove 移除牌桌
func (m *GameManager) Remove(gameID string) {
	if _, loaded := m.games.LoadAndDelete(gameID); loaded {
		m.count.Add(-1)
		m.logger.Info("Removed game", "gameId", gameID)
	}
}

// Count 返回当前牌桌数
func (m *GameManager) Count() int {
	return int(m.count.Load())
}

// Range 遍历牌桌
func (m *GameManager) Range(fn func(g *Game) bool) {
	m.games.Range(func(_, value any) bool {
		return fn(value.(*Game))
	})
}

// evictLoop 淘汰循环
func (m *GameManager) evictLoop() {
	for {
		select {
		case <-m.evictTicker.C:
			m.evictInactive(context.Background())
		case <-m.stopChan:
			m.logger.Info("Evict loop stopped")
			return
		}
	}
}

// evictInactive 淘汰不活跃的牌桌
func (m *GameManager) evictInactive(ctx context.Context) int {
	if m.evictTimeout <= 0 {
		return 0
	}
	now := time.Now()
	var toEvict []*Game

	m.Range(func(g *Game) bool {
		if now.Sub(g.LastActiveTime()) > m.evictTimeout {
			toEvict = append(toEvict, g)
		}
		return true
	})

	for _, g := range toEvict {
		if m.onEvict != nil && g.IsDirty() {
			m.logger.Info("Saving game before eviction", "gameId", g.ID())
			m.onEvict(ctx, g)
		}
		m.Remove(g.ID())
		m.logger.Info("Evicted inactive game", "gameId", g.ID())
	}
	return len(toEvict)
}

// Shutdown 关闭管理器, 保存所有有未保存修改的牌桌
func (m *GameManager) Shutdown(ctx context.Context) error {
	m.logger.Info("Shutting down GameManager")

	m.stopOnce.Do(func() {
		close(m.stopChan)
		m.evictTicker.Stop()
	})

	m.Range(func(g *Game) bool {
		if m.onEvict != nil && g.IsDirty() {
			m.logger.Info("Saving game on shutdown", "gameId", g.ID())
			m.onEvict(ctx, g)
		}
		return ctx.Err() == nil
	})

	m.logger.Info("GameManager shutdown complete")
	return ctx.Err()
}
