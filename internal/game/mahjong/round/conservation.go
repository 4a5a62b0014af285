package round

import (
	"fmt"

	"sudooom.mahjong/internal/game/mahjong/core"
)

// CheckConservation 牌墙剩余 + 手牌 + 副露 + 弃牌恰好是整副牌, 每张实体牌出现一次
func CheckConservation(s *RoundState, rs core.RuleSet) error {
	want := make(map[string]int)
	for _, t := range core.CreateDeck(rs) {
		want[t.ID()]++
	}

	seen := make(map[string]int, len(want))
	add := func(tiles []core.Tile) {
		for _, t := range tiles {
			seen[t.ID()]++
		}
	}
	add(s.Wall.Live())
	for _, p := range s.Players {
		add(p.Hand)
		add(p.Discards)
		for _, m := range p.Melds {
			add(m.Tiles)
		}
	}

	for id, n := range seen {
		if want[id] != n {
			return fmt.Errorf("牌 %s 出现 %d 次", id, n)
		}
	}
	for id := range want {
		if seen[id] == 0 {
			return fmt.Errorf("牌 %s 丢失", id)
		}
	}
	return nil
}

// TotalScore 所有座位分数之和, 结算只在座位间转移, 总和不变
func TotalScore(s *RoundState) int {
	total := 0
	for _, p := range s.Players {
		total += p.Score
	}
	return total
}
