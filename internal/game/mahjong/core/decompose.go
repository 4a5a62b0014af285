package core

import "sort"

// Decompose 把多重集合拆成若干刻子/顺子, 返回全部拆法
// 张数不是 3 的倍数或含非法牌时返回 nil; 空集合返回一种空拆法
//
// 每一步只处理当前最小的编码: 先试刻子, 再试顺子, 两条路都回溯。
// Counts 是值类型, 每个分支拿到的是独立副本, 不需要手工撤销。
func Decompose(c Counts) [][]Group {
	if c.Total()%3 != 0 || !c.Valid() {
		return nil
	}
	var out [][]Group
	decompose(c, make([]Group, 0, 4), &out)
	return dedupe(out)
}

// dedupe 去掉组成相同的重复拆法 (如四张相同时 刻+顺 与 顺+刻)
func dedupe(all [][]Group) [][]Group {
	if len(all) < 2 {
		return all
	}
	seen := make(map[string]bool, len(all))
	out := all[:0]
	for _, groups := range all {
		sort.Slice(groups, func(i, j int) bool {
			if groups[i].Key != groups[j].Key {
				return groups[i].Key < groups[j].Key
			}
			return groups[i].Kind < groups[j].Kind
		})
		sig := make([]byte, 0, len(groups)*2)
		for _, g := range groups {
			sig = append(sig, byte(g.Key), byte(g.Kind))
		}
		if seen[string(sig)] {
			continue
		}
		seen[string(sig)] = true
		out = append(out, groups)
	}
	return out
}

func decompose(c Counts, acc []Group, out *[][]Group) {
	k := c.First()
	if k == 0 {
		found := make([]Group, len(acc))
		copy(found, acc)
		*out = append(*out, found)
		return
	}

	if c[k] >= 3 {
		next := c
		next[k] -= 3
		decompose(next, append(acc, Group{Kind: GroupTriplet, Key: k, Concealed: true}), out)
	}

	if canStartRun(c, k) {
		next := c
		next[k]--
		next[k+1]--
		next[k+2]--
		decompose(next, append(acc, Group{Kind: GroupRun, Key: k, Concealed: true}), out)
	}
}

// canDecompose 只判断能否拆完, 找到一种即返回
func canDecompose(c Counts) bool {
	k := c.First()
	if k == 0 {
		return true
	}
	if c[k] >= 3 {
		next := c
		next[k] -= 3
		if canDecompose(next) {
			return true
		}
	}
	if canStartRun(c, k) {
		next := c
		next[k]--
		next[k+1]--
		next[k+2]--
		return canDecompose(next)
	}
	return false
}

func canStartRun(c Counts, k TileKey) bool {
	return k.Suit().IsNumber() && k.Value() <= 7 && c[k+1] > 0 && c[k+2] > 0
}

// DecomposeHand 标准型拆牌: 每个至少两张的编码轮流做将, 其余部分用 Decompose 拆
// 张数必须满足 3n+2, 否则返回 nil
func DecomposeHand(tiles []Tile) []Decomposition {
	return decomposeWithPair(CountsOf(tiles), len(tiles))
}

func decomposeWithPair(c Counts, size int) []Decomposition {
	if size%3 != 2 || c.Total() != size || !c.Valid() {
		return nil
	}
	var result []Decomposition
	for _, k := range c.Keys() {
		if c[k] < 2 {
			continue
		}
		rest := c
		rest[k] -= 2
		for _, groups := range Decompose(rest) {
			result = append(result, Decomposition{Pair: k, Groups: groups})
		}
	}
	return result
}

// isStandardComplete 是否存在至少一种 将+组 的拆法
func isStandardComplete(c Counts) bool {
	if c.Total()%3 != 2 {
		return false
	}
	for k, n := range c {
		if n < 2 {
			continue
		}
		rest := c
		rest[k] -= 2
		if canDecompose(rest) {
			return true
		}
	}
	return false
}
