package sichuan

import "sudooom.mahjong/internal/game/mahjong/core"

// SuggestExcludedSuit 建议定缺: 手中张数最少的数牌花色, 相同时按万条筒顺序取前者
func SuggestExcludedSuit(hand []core.Tile) core.TileSuit {
	best := core.NoSuit
	bestCount := 0
	for _, s := range core.NumberSuits {
		n := 0
		for _, t := range hand {
			if t.Suit == s {
				n++
			}
		}
		if best == core.NoSuit || n < bestCount {
			best, bestCount = s, n
		}
	}
	return best
}

// IsExcludedSuitCleared 定缺的花色是否已经打完
func IsExcludedSuitCleared(hand []core.Tile, suit core.TileSuit) bool {
	return len(core.RemainingExcludedSuit(hand, suit)) == 0
}

// IsBloodWarComplete 和牌人数达到 players-1 时本局结束
func IsBloodWarComplete(winners, players int) bool {
	return winners >= players-1
}
