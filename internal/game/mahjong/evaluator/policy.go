package evaluator

import (
	"math/rand"

	"sudooom.mahjong/internal/game/mahjong/core"
)

// WinPolicy 能和时是否和
type WinPolicy func(hand []core.Tile, melds []core.Meld, result *core.ScoreResult, rules core.RuleSet) bool

// AcceptAllWins 能和就和
func AcceptAllWins(hand []core.Tile, melds []core.Meld, result *core.ScoreResult, rules core.RuleSet) bool {
	return true
}

// SkipCheapWins 一炮多响的规则下, 番数不超过 maxFan 的和牌以 probability 的概率放弃, 等更大的牌
// 单家和牌的规则下总是和
func SkipCheapWins(maxFan int, probability float64, rng *rand.Rand) WinPolicy {
	return func(hand []core.Tile, melds []core.Meld, result *core.ScoreResult, rules core.RuleSet) bool {
		if !rules.MultiWinner() || result.Total > maxFan {
			return true
		}
		return rng.Float64() >= probability
	}
}
