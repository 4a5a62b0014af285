package evaluator

import (
	"strconv"
	"strings"

	"sudooom.mahjong/internal/game/mahjong/core"
)

// maxSets 标准型需要的组数
const maxSets = 4

// Shanten 向听数: -1 为已和, 0 为听牌
// 取标准型, 七对 (无副露) 与十三幺 (规则允许且无副露) 中的最小值
func (e *Evaluator) Shanten(hand []core.Tile, melds []core.Meld) int {
	c := core.CountsOf(hand)
	key := ""
	if e.cache != nil {
		key = cacheKey(e.rules.Name(), c, len(melds))
		if v, ok := e.cache.Get(key); ok {
			return v
		}
	}

	best := standardShanten(c, len(melds))
	if len(melds) == 0 {
		flags := e.rules.Shapes()
		if flags.SevenPairs {
			best = min(best, sevenPairsShanten(c, flags.QuadAsTwoPairs))
		}
		if flags.ThirteenOrphans {
			best = min(best, orphansShanten(c))
		}
	}

	if e.cache != nil {
		e.cache.Set(key, best)
	}
	return best
}

func cacheKey(rules string, c core.Counts, melds int) string {
	var b strings.Builder
	b.Grow(len(rules) + core.KeySpace + 4)
	b.WriteString(rules)
	b.WriteByte(':')
	for _, n := range c {
		b.WriteByte('0' + byte(n))
	}
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(melds))
	return b.String()
}

// standardShanten 8 - 2*组 - 搭子 - 将, 组 + 搭子不超过 4, 副露算组
func standardShanten(c core.Counts, melds int) int {
	best := 8
	search(c, 1, melds, 0, 0, &best)
	for _, k := range c.Keys() {
		if c[k] < 2 {
			continue
		}
		rest := c
		rest[k] -= 2
		search(rest, 1, melds, 0, 1, &best)
	}
	return best
}

func search(c core.Counts, from core.TileKey, sets, partials, pair int, best *int) {
	k := from
	for k < core.KeySpace && c[k] == 0 {
		k++
	}
	if k >= core.KeySpace {
		p := partials
		if sets+p > maxSets {
			p = maxSets - sets
		}
		if v := 8 - 2*sets - p - pair; v < *best {
			*best = v
		}
		return
	}

	if c[k] >= 3 {
		next := c
		next[k] -= 3
		search(next, k, sets+1, partials, pair, best)
	}
	number := k.Suit().IsNumber()
	if number && k.Value() <= 7 && c[k+1] > 0 && c[k+2] > 0 {
		next := c
		next[k]--
		next[k+1]--
		next[k+2]--
		search(next, k, sets+1, partials, pair, best)
	}
	if sets+partials < maxSets {
		if c[k] >= 2 {
			next := c
			next[k] -= 2
			search(next, k, sets, partials+1, pair, best)
		}
		if number && k.Value() <= 8 && c[k+1] > 0 {
			next := c
			next[k]--
			next[k+1]--
			search(next, k, sets, partials+1, pair, best)
		}
		if number && k.Value() <= 7 && c[k+2] > 0 {
			next := c
			next[k]--
			next[k+2]--
			search(next, k, sets, partials+1, pair, best)
		}
	}
	next := c
	next[k] = 0
	search(next, k+1, sets, partials, pair, best)
}

// sevenPairsShanten 6 - 对子数, 种类不足 7 种时补上差额
func sevenPairsShanten(c core.Counts, quadAsTwo bool) int {
	pairs, kinds := 0, 0
	for _, n := range c {
		if n == 0 {
			continue
		}
		kinds++
		switch {
		case n >= 4 && quadAsTwo:
			pairs += 2
		case n >= 2:
			pairs++
		}
	}
	if pairs > 7 {
		pairs = 7
	}
	s := 6 - pairs
	if !quadAsTwo && kinds < 7 {
		s += 7 - kinds
	}
	return s
}

// orphansShanten 13 - 幺九字牌种类数 - (有对子时 1)
func orphansShanten(c core.Counts) int {
	kinds, pair := 0, 0
	for k, n := range c {
		if n == 0 || !core.IsOrphanKey(core.TileKey(k)) {
			continue
		}
		kinds++
		if n >= 2 {
			pair = 1
		}
	}
	return 13 - kinds - pair
}
