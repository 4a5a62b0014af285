package mahjong

import (
	"fmt"
	"math/rand"

	"sudooom.mahjong/internal/game/mahjong/evaluator"
)

// MaxStepsPerHand 自动打完一局的步数上限, 正常一局远小于这个数
const MaxStepsPerHand = 4000

// StartGame 创建一桌并开第一局
func (s *MahjongService) StartGame(gameType GameType, seed int64, policy evaluator.WinPolicy) (*SafeMahjongEngine, error) {
	engine, err := s.CreateEngine(gameType)
	if err != nil {
		return nil, fmt.Errorf("创建游戏引擎失败: %w", err)
	}
	rng := rand.New(rand.NewSource(seed))
	ev := s.CreateEvaluator(engine.Rules(), rng, policy)

	safe := NewSafeMahjongEngine(gameType, engine, ev, rng, nil)
	if err := safe.StartHand(); err != nil {
		return nil, fmt.Errorf("开局失败: %w", err)
	}
	s.logger.Info("麻将对局已开始", "gameType", gameType, "seed", seed)
	return safe, nil
}

// AutoPlay 所有座位都交给机器人, 同步打到本局结束, 返回执行的操作数
func AutoPlay(safe *SafeMahjongEngine) (int, error) {
	for step := 0; step < MaxStepsPerHand; step++ {
		if safe.IsHandOver() {
			return step, nil
		}
		seats, _ := safe.PendingSeats()
		if len(seats) == 0 {
			return step, fmt.Errorf("没有可操作的座位")
		}
		m, ok := safe.Decide(seats[0])
		if !ok {
			return step, fmt.Errorf("座位 %d 无法决策", seats[0])
		}
		if _, err := safe.HandleMove(seats[0], m); err != nil {
			return step, fmt.Errorf("座位 %d 执行 %s 失败: %w", seats[0], m, err)
		}
	}
	return MaxStepsPerHand, fmt.Errorf("%d 步内没有结束", MaxStepsPerHand)
}
