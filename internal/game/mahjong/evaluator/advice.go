package evaluator

import (
	"sudooom.mahjong/internal/game/mahjong/core"
)

// ClaimOptions 对一张打出的牌可选的吃碰杠
type ClaimOptions struct {
	Kong  bool
	Pong  bool
	Chows []core.ChowOption
}

// AdviseClaim 吃碰杠建议: 鸣牌后 (并打出最合适的一张) 向听数不变差才鸣
// 同时可行时杠优先于碰, 碰优先于吃; 都不合适返回 ClaimPass
func (e *Evaluator) AdviseClaim(hand []core.Tile, melds []core.Meld, tile core.Tile, from int, opts ClaimOptions) (core.ClaimType, core.ChowOption) {
	current := e.Shanten(hand, melds)

	if opts.Kong {
		if res := core.BuildExposedKong(hand, tile, from); res != nil {
			if e.Shanten(res.Hand, append(core.CloneMelds(melds), res.Meld)) <= current {
				return core.ClaimKong, core.ChowOption{}
			}
		}
	}
	if opts.Pong {
		if res := core.BuildPong(hand, tile, from); res != nil {
			if e.bestDiscardShanten(res.Hand, append(core.CloneMelds(melds), res.Meld)) <= current {
				return core.ClaimPong, core.ChowOption{}
			}
		}
	}

	best, bestShanten := core.ChowOption{}, current+1
	for _, opt := range opts.Chows {
		res := core.BuildChow(hand, tile, opt, from)
		if res == nil {
			continue
		}
		if s := e.bestDiscardShanten(res.Hand, append(core.CloneMelds(melds), res.Meld)); s < bestShanten {
			best, bestShanten = opt, s
		}
	}
	if bestShanten <= current {
		return core.ClaimChow, best
	}
	return core.ClaimPass, core.ChowOption{}
}

// AdviseConcealedKong 暗杠后的向听数不比打一张牌后差时才杠
func (e *Evaluator) AdviseConcealedKong(hand []core.Tile, melds []core.Meld, key core.TileKey) bool {
	res := core.BuildConcealedKong(hand, key)
	if res == nil {
		return false
	}
	return e.Shanten(res.Hand, append(core.CloneMelds(melds), res.Meld)) <= e.bestDiscardShanten(hand, melds)
}

// AdviseAddedKong 加杠后的向听数不比打一张牌后差时才杠
func (e *Evaluator) AdviseAddedKong(hand []core.Tile, melds []core.Meld, key core.TileKey) bool {
	res := core.BuildAddedKong(hand, melds, key)
	if res == nil {
		return false
	}
	return e.Shanten(res.Hand, res.Melds) <= e.bestDiscardShanten(hand, melds)
}

// bestDiscardShanten 14 张 (含副露折算) 时打出一张后能达到的最小向听数
func (e *Evaluator) bestDiscardShanten(hand []core.Tile, melds []core.Meld) int {
	best := 8
	for _, k := range core.UniqueKeys(hand) {
		t, _ := core.FindKey(hand, k)
		rest, _ := core.WithoutTile(hand, t)
		best = min(best, e.Shanten(rest, melds))
	}
	return best
}
