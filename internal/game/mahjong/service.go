// Package mahjong 把规则集, 对局引擎与评估器组装成可以上桌的整体
package mahjong

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"sudooom.mahjong/internal/game/mahjong/beijing"
	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/evaluator"
	"sudooom.mahjong/internal/game/mahjong/round"
	"sudooom.mahjong/internal/game/mahjong/sichuan"
)

// GameType 麻将玩法
type GameType string

const (
	GameTypeBeijing GameType = beijing.Name // 北京麻将
	GameTypeSichuan GameType = sichuan.Name // 四川血战到底
)

// ParseGameType 解析玩法名
func ParseGameType(s string) (GameType, error) {
	switch GameType(s) {
	case GameTypeBeijing, GameTypeSichuan:
		return GameType(s), nil
	default:
		return "", fmt.Errorf("不支持的游戏类型: %s", s)
	}
}

// Config 玩法参数
type Config struct {
	Round     round.Config
	Overrides map[string]map[string]int // 玩法 -> 番型 -> 番数
}

// MahjongService 按玩法创建规则集, 引擎与评估器
// 规则集按玩法缓存, 番数覆盖更新后重建
type MahjongService struct {
	mu     sync.RWMutex
	config Config
	rules  map[GameType]core.RuleSet
	cache  evaluator.ShantenCache
	logger *slog.Logger
}

// NewMahjongService 创建麻将服务, cache 可以为 nil
func NewMahjongService(cfg Config, cache evaluator.ShantenCache) *MahjongService {
	return &MahjongService{
		config: cfg,
		rules:  make(map[GameType]core.RuleSet),
		cache:  cache,
		logger: slog.Default(),
	}
}

// RuleSet 获取玩法的规则集
func (s *MahjongService) RuleSet(gameType GameType) (core.RuleSet, error) {
	s.mu.RLock()
	rs, ok := s.rules[gameType]
	overrides := s.config.Overrides[string(gameType)]
	s.mu.RUnlock()
	if ok {
		return rs, nil
	}

	var err error
	switch gameType {
	case GameTypeBeijing:
		rs, err = beijing.New(overrides)
	case GameTypeSichuan:
		rs, err = sichuan.New(overrides)
	default:
		return nil, fmt.Errorf("不支持的游戏类型: %s", gameType)
	}
	if err != nil {
		return nil, fmt.Errorf("加载 %s 番型表失败: %w", gameType, err)
	}

	s.mu.Lock()
	s.rules[gameType] = rs
	s.mu.Unlock()
	s.logger.Info("规则集已加载", "gameType", gameType, "overrides", len(overrides))
	return rs, nil
}

// CreateEngine 创建对局引擎
func (s *MahjongService) CreateEngine(gameType GameType) (*round.Engine, error) {
	rs, err := s.RuleSet(gameType)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	cfg := s.config.Round
	s.mu.RUnlock()
	return round.NewEngine(rs, cfg), nil
}

// CreateEvaluator 创建评估器, 机器人与评估接口共用向听数缓存
func (s *MahjongService) CreateEvaluator(rs core.RuleSet, rng *rand.Rand, policy evaluator.WinPolicy) *evaluator.Evaluator {
	opts := []evaluator.Option{evaluator.WithRand(rng)}
	if s.cache != nil {
		opts = append(opts, evaluator.WithCache(s.cache))
	}
	if policy != nil {
		opts = append(opts, evaluator.WithWinPolicy(policy))
	}
	return evaluator.New(rs, opts...)
}

// UpdateOverrides 替换番数覆盖, 之后新开的桌使用新番型表
func (s *MahjongService) UpdateOverrides(overrides map[string]map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config.Overrides = overrides
	s.rules = make(map[GameType]core.RuleSet)
	s.logger.Info("番数覆盖已更新", "gameTypes", len(overrides))
}
