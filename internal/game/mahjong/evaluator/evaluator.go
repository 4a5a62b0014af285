// Package evaluator 手牌评估: 向听数, 出牌排序, 和牌取舍与吃碰杠建议
//
// 评估器不修改任何传入的牌, 随机性只来自注入的 *rand.Rand, 且只用于打破平局。
package evaluator

import (
	"math/rand"

	"sudooom.mahjong/internal/game/mahjong/core"
)

// ShantenCache 向听数缓存
type ShantenCache interface {
	Get(key string) (int, bool)
	Set(key string, shanten int)
}

// Evaluator 某个规则集下的手牌评估器
type Evaluator struct {
	rules  core.RuleSet
	cache  ShantenCache
	rng    *rand.Rand
	policy WinPolicy

	offenseWeight int
	defenseWeight int
}

// 默认权重下一向听的差距 (25 × 5) 大于任何危险度差距, 危险度只在向听相同时起作用
const (
	DefaultOffenseWeight = 5
	DefaultDefenseWeight = 1
)

// Option 评估器选项
type Option func(*Evaluator)

// WithCache 使用向听数缓存
func WithCache(c ShantenCache) Option {
	return func(e *Evaluator) { e.cache = c }
}

// WithRand 注入随机源
func WithRand(rng *rand.Rand) Option {
	return func(e *Evaluator) { e.rng = rng }
}

// WithWinPolicy 设置和牌取舍策略
func WithWinPolicy(p WinPolicy) Option {
	return func(e *Evaluator) { e.policy = p }
}

// WithWeights 设置出牌排序的进攻与防守权重, 负数按 0 处理
func WithWeights(offense, defense int) Option {
	return func(e *Evaluator) {
		e.offenseWeight = max(0, offense)
		e.defenseWeight = max(0, defense)
	}
}

// New 创建评估器, 默认随机源种子为 1, 默认接受所有和牌
func New(rules core.RuleSet, opts ...Option) *Evaluator {
	e := &Evaluator{
		rules:  rules,
		rng:    rand.New(rand.NewSource(1)),
		policy: AcceptAllWins,

		offenseWeight: DefaultOffenseWeight,
		defenseWeight: DefaultDefenseWeight,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules 规则集
func (e *Evaluator) Rules() core.RuleSet {
	return e.rules
}

// ShouldWin 按策略决定是否和牌
func (e *Evaluator) ShouldWin(hand []core.Tile, melds []core.Meld, result *core.ScoreResult) bool {
	if result == nil || result.Err != nil {
		return false
	}
	return e.policy(hand, melds, result, e.rules)
}
