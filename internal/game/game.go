// Package game 牌桌层: 一桌四个座位 (真人或机器人), 对局推进, 事件推送与快照
package game

import (
	"sync"
	"time"

	"sudooom.mahjong/internal/game/mahjong"
	"sudooom.mahjong/internal/game/mahjong/round"
)

// SeatKind 座位类型
type SeatKind string

const (
	SeatHuman SeatKind = "human" // 真人, 通过接口提交操作
	SeatBot   SeatKind = "bot"   // 机器人, 由评估器决策
)

// Game 一张牌桌
// opMu 串行化对局的推进, mu 只保护活跃时间等元数据
type Game struct {
	opMu sync.Mutex
	mu   sync.RWMutex

	id         string
	seats      []SeatKind
	engine     *mahjong.SafeMahjongEngine
	createdAt  time.Time
	lastActive time.Time
	dirty      bool
}

// NewGame 创建牌桌
func NewGame(id string, seats []SeatKind, engine *mahjong.SafeMahjongEngine) *Game {
	now := time.Now()
	return &Game{
		id:         id,
		seats:      append([]SeatKind(nil), seats...),
		engine:     engine,
		createdAt:  now,
		lastActive: now,
		dirty:      true,
	}
}

// ID 牌桌ID
func (g *Game) ID() string {
	return g.id
}

// GameType 玩法
func (g *Game) GameType() mahjong.GameType {
	return g.engine.GetGameType()
}

// Seats 各座位类型
func (g *Game) Seats() []SeatKind {
	return append([]SeatKind(nil), g.seats...)
}

// SeatKind 某个座位的类型, 座位无效时返回空串
func (g *Game) SeatKind(seat int) SeatKind {
	if seat < 0 || seat >= len(g.seats) {
		return ""
	}
	return g.seats[seat]
}

// Engine 线程安全的对局
func (g *Game) Engine() *mahjong.SafeMahjongEngine {
	return g.engine
}

// Snapshot 生成快照
func (g *Game) Snapshot() *Snapshot {
	return &Snapshot{
		GameID:    g.id,
		GameType:  g.engine.GetGameType(),
		Seats:     g.Seats(),
		Session:   g.engine.GetSession(),
		State:     g.engine.GetState(),
		UpdatedAt: time.Now(),
	}
}

// State 当前一局的快照
func (g *Game) State() *round.RoundState {
	return g.engine.GetState()
}

// touch 记录活跃时间并标记为有未保存的修改
func (g *Game) touch() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastActive = time.Now()
	g.dirty = true
}

// IsDirty 是否有未保存的修改
func (g *Game) IsDirty() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.dirty
}

// MarkClean 标记为已保存
func (g *Game) MarkClean() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dirty = false
}

// LastActiveTime 获取最后活跃时间
func (g *Game) LastActiveTime() time.Time {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lastActive
}

// CreatedAt 创建时间
func (g *Game) CreatedAt() time.Time {
	return g.createdAt
}
