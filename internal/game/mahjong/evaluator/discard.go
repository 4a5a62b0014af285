package evaluator

import (
	"sort"

	"sudooom.mahjong/internal/game/mahjong/core"
)

// recentWindow 判断"最近打过"看的弃牌张数
const recentWindow = 8

// opponentWindow 判断对手近期花色看的弃牌张数
const opponentWindow = 3

// Visibility 评估时能看到的场面信息
type Visibility struct {
	Visible        core.Counts   // 场上可见的牌: 所有弃牌与副露
	Discards       []core.Tile   // 全场按顺序的弃牌
	OpponentRecent [][]core.Tile // 每个对手自己的弃牌
	ExcludedSuit   core.TileSuit // 自己定缺的花色, 没有时为 NoSuit
}

// RankedDiscard 一个出牌候选
type RankedDiscard struct {
	Tile     core.Tile `json:"tile"`
	Shanten  int       `json:"shanten"`  // 打出后的向听数
	Danger   int       `json:"danger"`   // 放铳危险度 0-100
	Excluded bool      `json:"excluded"` // 定缺花色, 必须先打
	Waiting  int       `json:"waiting"`  // 打出后听牌时的听牌种类数
	Score    int       `json:"score"`    // 攻守加权分, 越高越好
}

// 进攻分: 每多一向听扣 shantenStep, 听牌时每种听牌加 waitBonus
const (
	shantenStep = 25
	waitBonus   = 2
)

// weightedScore 进攻分与安全度 (100 - 危险度) 按权重相加
func (e *Evaluator) weightedScore(rd RankedDiscard) int {
	offense := 100 - shantenStep*rd.Shanten + waitBonus*rd.Waiting
	return offense*e.offenseWeight + (100-rd.Danger)*e.defenseWeight
}

// RankDiscards 出牌排序: 手里还有定缺花色时只考虑定缺的牌, 其余按攻守加权分从高到低
// 加权分完全相同时随机打破平局; 每种牌只出现一次
func (e *Evaluator) RankDiscards(hand []core.Tile, melds []core.Meld, view Visibility) []RankedDiscard {
	keys := core.UniqueKeys(hand)
	out := make([]RankedDiscard, 0, len(keys))
	hasExcluded := view.ExcludedSuit != core.NoSuit &&
		len(core.RemainingExcludedSuit(hand, view.ExcludedSuit)) > 0

	for _, k := range keys {
		t, _ := core.FindKey(hand, k)
		excluded := hasExcluded && t.Suit == view.ExcludedSuit
		if hasExcluded && !excluded {
			continue
		}
		rest, _ := core.WithoutTile(hand, t)
		rd := RankedDiscard{
			Tile:     t,
			Shanten:  e.Shanten(rest, melds),
			Danger:   DangerScore(k, view),
			Excluded: excluded,
		}
		if rd.Shanten == 0 {
			rd.Waiting = len(core.WaitingTiles(e.rules, rest, melds))
		}
		rd.Score = e.weightedScore(rd)
		out = append(out, rd)
	}

	tie := e.rng.Perm(len(out))
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		x, y := out[idx[a]], out[idx[b]]
		if x.Score != y.Score {
			return x.Score > y.Score
		}
		return tie[idx[a]] < tie[idx[b]]
	})

	ranked := make([]RankedDiscard, len(out))
	for i, j := range idx {
		ranked[i] = out[j]
	}
	return ranked
}

// DangerScore 打出该牌的放铳危险度, 0-100
// 场上已见越多越安全; 字牌与中张更危险, 幺九较安全; 最近有人打过或对手近期在打同花色的相对安全
func DangerScore(k core.TileKey, view Visibility) int {
	visible := int(view.Visible[k])
	if visible >= 3 {
		return 5
	}

	danger := 50
	switch visible {
	case 2:
		danger = 15
	case 1:
		danger = 30
	}

	if k.IsHonor() {
		danger += (3 - visible) * 10
	}
	if k.IsTerminal() {
		danger -= 8
	}
	if k.Suit().IsNumber() && k.Value() >= 4 && k.Value() <= 6 {
		danger += 10
	}

	recent := view.Discards
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	if core.CountKey(recent, k) > 0 {
		danger -= 15
	}

	for _, pd := range view.OpponentRecent {
		if len(pd) > opponentWindow {
			pd = pd[len(pd)-opponentWindow:]
		}
		for _, t := range pd {
			if t.Suit == k.Suit() {
				danger -= 5
				break
			}
		}
	}

	return max(0, min(100, danger))
}
