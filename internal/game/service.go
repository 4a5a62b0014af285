package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"sudooom.mahjong/internal/game/mahjong"
	"sudooom.mahjong/internal/game/mahjong/round"
	"sudooom.mahjong/internal/model"
	"sudooom.mahjong/internal/task"
	apperrors "sudooom.mahjong/pkg/errors"
	"sudooom.mahjong/pkg/snowflake"
)

const (
	// DefaultBotDelay 机器人操作前的停顿, 只为观感
	DefaultBotDelay = 800 * time.Millisecond
	// DefaultReactionTimeout 真人对打出的牌表态的时限, 超时视为过
	DefaultReactionTimeout = 15 * time.Second
)

// Config 牌桌参数
type Config struct {
	BotDelay        time.Duration
	ReactionTimeout time.Duration
}

// Deps 牌桌服务的依赖, 除 Manager 与 Mahjong 外都可以为 nil
// Scheduler 为 nil 时机器人在提交操作的调用中同步行动, 也没有超时
type Deps struct {
	Manager   *GameManager
	Mahjong   *mahjong.MahjongService
	Scheduler Scheduler
	Publisher EventPublisher
	Snapshots SnapshotStore
	Recorder  HandRecorder
	IDs       *snowflake.Node
}

// CreateRequest 开桌参数
type CreateRequest struct {
	GameType string     `json:"gameType" binding:"required"`
	Seats    []SeatKind `json:"seats"`          // 为空时座位 0 为真人, 其余为机器人
	Seed     *int64     `json:"seed,omitempty"` // 洗牌种子, 为空时随机
}

// GameService 牌桌服务
type GameService struct {
	deps   Deps
	mu     sync.RWMutex
	config Config
	logger *slog.Logger
}

// NewGameService 创建牌桌服务
func NewGameService(deps Deps, cfg Config) *GameService {
	if cfg.BotDelay <= 0 {
		cfg.BotDelay = DefaultBotDelay
	}
	if cfg.ReactionTimeout <= 0 {
		cfg.ReactionTimeout = DefaultReactionTimeout
	}
	s := &GameService{
		deps:   deps,
		config: cfg,
		logger: slog.Default(),
	}
	deps.Manager.OnEvict(s.saveSnapshot)
	return s
}

// UpdateConfig 热更新机器人停顿与响应时限
func (s *GameService) UpdateConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.BotDelay > 0 {
		s.config.BotDelay = cfg.BotDelay
	}
	if cfg.ReactionTimeout > 0 {
		s.config.ReactionTimeout = cfg.ReactionTimeout
	}
	s.logger.Info("牌桌参数已更新", "botDelay", s.config.BotDelay, "reactionTimeout", s.config.ReactionTimeout)
}

func (s *GameService) currentConfig() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// CreateGame 开桌并开始第一局
func (s *GameService) CreateGame(ctx context.Context, req CreateRequest) (*Game, error) {
	gameType, err := mahjong.ParseGameType(req.GameType)
	if err != nil {
		return nil, apperrors.ErrUnsupportedGameType.Wrap(err)
	}
	seats, err := normalizeSeats(req.Seats)
	if err != nil {
		return nil, err
	}
	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	engine, err := s.deps.Mahjong.StartGame(gameType, seed, nil)
	if err != nil {
		return nil, apperrors.ErrServerError.Wrap(err)
	}
	g, err := s.deps.Manager.Add(NewGame(uuid.NewString(), seats, engine))
	if err != nil {
		return nil, err
	}
	s.logger.Info("牌桌已创建", "gameId", g.ID(), "gameType", gameType, "seats", seats, "seed", seed)

	g.opMu.Lock()
	defer g.opMu.Unlock()
	s.advanceLocked(ctx, g, g.State().Events)
	return g, nil
}

func normalizeSeats(seats []SeatKind) ([]SeatKind, error) {
	if len(seats) == 0 {
		return []SeatKind{SeatHuman, SeatBot, SeatBot, SeatBot}, nil
	}
	if len(seats) != round.Players {
		return nil, apperrors.ErrInvalidParams.Wrap(fmt.Errorf("需要 %d 个座位, 实际 %d 个", round.Players, len(seats)))
	}
	for i, k := range seats {
		if k != SeatHuman && k != SeatBot {
			return nil, apperrors.ErrInvalidParams.Wrap(fmt.Errorf("座位 %d 类型无效: %q", i, k))
		}
	}
	return append([]SeatKind(nil), seats...), nil
}

// GetGame 获取牌桌, 内存中没有时尝试从快照恢复
func (s *GameService) GetGame(ctx context.Context, gameID string) (*Game, error) {
	if g, ok := s.deps.Manager.Get(gameID); ok {
		return g, nil
	}
	if s.deps.Snapshots == nil {
		return nil, apperrors.ErrGameNotFound
	}

	snap, err := s.deps.Snapshots.Load(ctx, gameID)
	if errors.Is(err, ErrSnapshotNotFound) {
		return nil, apperrors.ErrGameNotFound
	}
	if err != nil {
		return nil, apperrors.ErrStoreError.Wrap(err)
	}
	g, err := s.restore(snap)
	if err != nil {
		return nil, err
	}
	actual, err := s.deps.Manager.Add(g)
	if err != nil {
		return nil, err
	}
	if actual == g {
		s.logger.Info("牌桌已从快照恢复", "gameId", gameID, "handNo", snap.Session.HandNo)
		g.opMu.Lock()
		s.advanceLocked(ctx, g, nil)
		g.opMu.Unlock()
	}
	return actual, nil
}

func (s *GameService) restore(snap *Snapshot) (*Game, error) {
	engine, err := s.deps.Mahjong.CreateEngine(snap.GameType)
	if err != nil {
		return nil, apperrors.ErrUnsupportedGameType.Wrap(err)
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ev := s.deps.Mahjong.CreateEvaluator(engine.Rules(), rng, nil)
	safe := mahjong.NewSafeMahjongEngine(snap.GameType, engine, ev, rng, snap.Session)
	if snap.State != nil {
		safe.Restore(snap.Session, snap.State)
	} else if err := safe.StartHand(); err != nil {
		return nil, apperrors.ErrServerError.Wrap(err)
	}
	return NewGame(snap.GameID, snap.Seats, safe), nil
}

// Submit 真人座位提交操作, 返回本次操作 (含随后机器人同步行动) 产生的事件
func (s *GameService) Submit(ctx context.Context, gameID string, seat int, m mahjong.Move) ([]round.Event, error) {
	g, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	switch g.SeatKind(seat) {
	case SeatHuman:
	case SeatBot:
		return nil, apperrors.ErrSeatIsBot
	default:
		return nil, apperrors.ErrInvalidSeat
	}

	g.opMu.Lock()
	defer g.opMu.Unlock()

	if g.engine.IsGameOver() {
		return nil, apperrors.ErrGameFinished
	}
	events, err := g.engine.HandleMove(seat, m)
	if err != nil {
		return nil, moveError(err)
	}
	s.logger.Debug("玩家操作", "gameId", gameID, "seat", seat, "move", m.String())
	if s.deps.Scheduler != nil {
		s.deps.Scheduler.Cancel(timeoutTaskID(gameID, seat))
	}
	return s.advanceLocked(ctx, g, events), nil
}

// View 某个座位视角下的牌桌
func (s *GameService) View(ctx context.Context, gameID string, viewer int) (*GameView, error) {
	g, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if viewer != Spectator && g.SeatKind(viewer) == "" {
		return nil, apperrors.ErrInvalidSeat
	}
	return g.View(viewer), nil
}

// advanceLocked 操作之后推进牌桌: 推送事件, 结束的一局入账并开下一局,
// 然后安排机器人与超时 (没有调度器时机器人直接行动), 最后保存快照
// 返回推进过程中推送的全部事件
func (s *GameService) advanceLocked(ctx context.Context, g *Game, events []round.Event) []round.Event {
	var published []round.Event
	for {
		s.publish(ctx, g, events)
		published = append(published, events...)
		events = nil

		if g.engine.IsHandOver() {
			next, err := s.finishHand(ctx, g)
			if err != nil {
				s.logger.Error("结束一局失败", "gameId", g.ID(), "error", err)
				break
			}
			if next == nil {
				s.logger.Info("整场结束", "gameId", g.ID())
				break
			}
			events = next
			continue
		}

		if s.deps.Scheduler != nil {
			s.schedulePending(g)
			break
		}
		seat, m, ok := s.nextBotMove(g)
		if !ok {
			break
		}
		var err error
		events, err = g.engine.HandleMove(seat, m)
		if err != nil {
			s.logger.Error("机器人操作失败", "gameId", g.ID(), "seat", seat, "move", m.String(), "error", err)
			break
		}
	}

	g.touch()
	s.saveSnapshot(ctx, g)
	return published
}

// finishHand 本局入账并记录, 整场未结束时开下一局并返回新一局的事件
func (s *GameService) finishHand(ctx context.Context, g *Game) ([]round.Event, error) {
	sum, err := g.engine.FinishHand()
	if err != nil {
		return nil, err
	}
	s.logger.Info("一局结束",
		"gameId", g.ID(),
		"handNo", sum.HandNo,
		"winners", len(sum.Winners),
		"exhausted", sum.Exhausted)

	if s.deps.Recorder != nil {
		var id int64
		if s.deps.IDs != nil {
			id = s.deps.IDs.Generate().Int64()
		}
		kinds := make([]string, 0, len(g.seats))
		for _, k := range g.seats {
			kinds = append(kinds, string(k))
		}
		rec := model.NewHandRecord(id, g.ID(), string(g.GameType()), kinds, sum, time.Now())
		if err := s.deps.Recorder.RecordHand(ctx, rec); err != nil {
			s.logger.Warn("保存对局记录失败", "gameId", g.ID(), "handNo", sum.HandNo, "error", err)
		}
	}

	if g.engine.IsGameOver() {
		return nil, nil
	}
	if err := g.engine.StartHand(); err != nil {
		return nil, err
	}
	return g.State().Events, nil
}

func (s *GameService) nextBotMove(g *Game) (int, mahjong.Move, bool) {
	seats, _ := g.engine.PendingSeats()
	for _, seat := range seats {
		if g.SeatKind(seat) != SeatBot {
			continue
		}
		if m, ok := g.engine.Decide(seat); ok {
			return seat, m, true
		}
	}
	return 0, mahjong.Move{}, false
}

// schedulePending 为待操作的机器人安排延时操作, 为响应窗口中的真人安排超时
// 同一座位的任务会替换旧任务, 执行时序号已变化的任务直接丢弃
func (s *GameService) schedulePending(g *Game) {
	cfg := s.currentConfig()
	seats, seq := g.engine.PendingSeats()
	phase := round.Phase("")
	if st := g.State(); st != nil {
		phase = st.Phase
	}

	for _, seat := range seats {
		var t *task.Task
		switch g.SeatKind(seat) {
		case SeatBot:
			seat := seat
			t = task.NewTask(botTaskID(g.ID(), seat), g.ID(), cfg.BotDelay, func(ctx context.Context) error {
				return s.botMove(ctx, g.ID(), seat, seq)
			}).WithKind(task.KindBotMove)
		case SeatHuman:
			if phase != round.PhaseReaction && phase != round.PhaseRobKong {
				continue
			}
			seat := seat
			t = task.NewTask(timeoutTaskID(g.ID(), seat), g.ID(), cfg.ReactionTimeout, func(ctx context.Context) error {
				return s.reactionTimeout(ctx, g.ID(), seat, seq)
			}).WithKind(task.KindReactionTimeout)
		}
		if t == nil {
			continue
		}
		if err := s.deps.Scheduler.Schedule(t); err != nil {
			s.logger.Warn("调度任务失败", "gameId", g.ID(), "taskId", t.ID, "error", err)
		}
	}
}

// botMove 机器人延时操作; 牌桌状态已变化时放弃
func (s *GameService) botMove(ctx context.Context, gameID string, seat int, seq int64) error {
	g, ok := s.deps.Manager.Get(gameID)
	if !ok {
		return nil
	}
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if _, cur := g.engine.PendingSeats(); cur != seq {
		return nil
	}
	m, ok := g.engine.Decide(seat)
	if !ok {
		return nil
	}
	events, err := g.engine.HandleMove(seat, m)
	if err != nil {
		return fmt.Errorf("机器人座位 %d 执行 %s 失败: %w", seat, m, err)
	}
	s.advanceLocked(ctx, g, events)
	return nil
}

// reactionTimeout 真人超时未表态, 按过处理
func (s *GameService) reactionTimeout(ctx context.Context, gameID string, seat int, seq int64) error {
	g, ok := s.deps.Manager.Get(gameID)
	if !ok {
		return nil
	}
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if _, cur := g.engine.PendingSeats(); cur != seq {
		return nil
	}
	events, err := g.engine.HandleMove(seat, mahjong.PassMove)
	if err != nil {
		return fmt.Errorf("座位 %d 超时自动过失败: %w", seat, err)
	}
	s.logger.Info("响应超时自动过", "gameId", gameID, "seat", seat)
	s.advanceLocked(ctx, g, events)
	return nil
}

func (s *GameService) publish(ctx context.Context, g *Game, events []round.Event) {
	if s.deps.Publisher == nil || len(events) == 0 {
		return
	}
	if err := s.deps.Publisher.Publish(ctx, g.ID(), events); err != nil {
		s.logger.Warn("推送对局事件失败", "gameId", g.ID(), "count", len(events), "error", err)
	}
}

func (s *GameService) saveSnapshot(ctx context.Context, g *Game) {
	if s.deps.Snapshots == nil {
		return
	}
	if err := s.deps.Snapshots.Save(ctx, g.Snapshot()); err != nil {
		s.logger.Warn("保存快照失败", "gameId", g.ID(), "error", err)
		return
	}
	g.MarkClean()
}

// Shutdown 保存所有牌桌
func (s *GameService) Shutdown(ctx context.Context) error {
	return s.deps.Manager.Shutdown(ctx)
}

func botTaskID(gameID string, seat int) string {
	return fmt.Sprintf("bot:%s:%d", gameID, seat)
}

func timeoutTaskID(gameID string, seat int) string {
	return fmt.Sprintf("timeout:%s:%d", gameID, seat)
}

// GameSummary 牌桌列表中的一项
type GameSummary struct {
	ID         string     `json:"id"`
	GameType   string     `json:"gameType"`
	Seats      []SeatKind `json:"seats"`
	HandNo     int        `json:"handNo"`
	Finished   bool       `json:"finished"`
	LastActive time.Time  `json:"lastActive"`
}

// List 当前在内存中的牌桌
func (s *GameService) List() []GameSummary {
	var list []GameSummary
	s.deps.Manager.Range(func(g *Game) bool {
		sess := g.engine.GetSession()
		list = append(list, GameSummary{
			ID:         g.ID(),
			GameType:   string(g.GameType()),
			Seats:      g.Seats(),
			HandNo:     sess.HandNo,
			Finished:   sess.Finished,
			LastActive: g.LastActiveTime(),
		})
		return true
	})
	return list
}

// Recent 最近保存过快照的牌桌 ID, 存储不支持列举时返回 nil
func (s *GameService) Recent(ctx context.Context, limit int64) ([]string, error) {
	lister, ok := s.deps.Snapshots.(SnapshotLister)
	if !ok {
		return nil, nil
	}
	ids, err := lister.Recent(ctx, limit)
	if err != nil {
		return nil, apperrors.ErrStoreError.Wrap(err)
	}
	return ids, nil
}
