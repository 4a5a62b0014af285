package mahjong

import (
	"math/rand"
	"sync"

	"sudooom.mahjong/internal/game/mahjong/evaluator"
	"sudooom.mahjong/internal/game/mahjong/round"
)

// SafeMahjongEngine 线程安全的对局包装: 一桌的整场累计与当前一局
// 引擎本身不持有锁, 所有读写都经过这里
type SafeMahjongEngine struct {
	mu        sync.RWMutex
	engine    *round.Engine
	evaluator *evaluator.Evaluator
	rng       *rand.Rand
	session   *round.Session
	state     *round.RoundState
	gameType  GameType
}

// NewSafeMahjongEngine 创建线程安全的对局, session 为 nil 时开新的一场
func NewSafeMahjongEngine(gameType GameType, engine *round.Engine, ev *evaluator.Evaluator, rng *rand.Rand, session *round.Session) *SafeMahjongEngine {
	if session == nil {
		session = engine.NewSession()
	}
	return &SafeMahjongEngine{
		engine:    engine,
		evaluator: ev,
		rng:       rng,
		session:   session,
		gameType:  gameType,
	}
}

// StartHand 开始下一局
func (e *SafeMahjongEngine) StartHand() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.engine.StartHand(e.session, e.rng)
	if err != nil {
		return err
	}
	e.state = s
	return nil
}

// Restore 用快照恢复
func (e *SafeMahjongEngine) Restore(session *round.Session, state *round.RoundState) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session = session
	e.state = state
}

// HandleMove 执行操作, 返回本次新产生的事件
func (e *SafeMahjongEngine) HandleMove(seat int, m Move) ([]round.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return nil, round.ErrNoHand
	}
	seq := e.state.Seq
	if err := Apply(e.engine, e.state, seat, m); err != nil {
		return nil, err
	}
	return e.state.EventsSince(seq), nil
}

// Decide 机器人在当前局面下的操作
func (e *SafeMahjongEngine) Decide(seat int) (Move, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return Move{}, false
	}
	return Decide(e.engine, e.evaluator, e.state, seat)
}

// PendingSeats 当前需要操作的座位与事件序号
func (e *SafeMahjongEngine) PendingSeats() ([]int, int64) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state == nil {
		return nil, 0
	}
	return PendingSeats(e.state), e.state.Seq
}

// FinishHand 本局已结束时计入整场累计
func (e *SafeMahjongEngine) FinishHand() (*round.HandSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return nil, round.ErrNoHand
	}
	return e.engine.FinishHand(e.session, e.state)
}

// IsHandOver 本局是否结束
func (e *SafeMahjongEngine) IsHandOver() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.state != nil && e.state.Phase.Terminal()
}

// IsGameOver 整场是否结束
func (e *SafeMahjongEngine) IsGameOver() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.session.Finished
}

// GetState 当前一局的快照
func (e *SafeMahjongEngine) GetState() *round.RoundState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state == nil {
		return nil
	}
	return e.state.Clone()
}

// GetSession 整场累计的快照
func (e *SafeMahjongEngine) GetSession() *round.Session {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.session.Clone()
}

// SelfOptions 当前轮到的座位可选的自摸, 暗杠与加杠
func (e *SafeMahjongEngine) SelfOptions() *round.DrawResult {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state == nil {
		return nil
	}
	return e.engine.SelfOptions(e.state)
}

// GetGameType 玩法
func (e *SafeMahjongEngine) GetGameType() GameType {
	return e.gameType
}

// Engine 底层引擎, 只读使用
func (e *SafeMahjongEngine) Engine() *round.Engine {
	return e.engine
}
