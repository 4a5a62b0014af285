package core

import "sort"

// SortTiles 对牌进行排序 (花色, 点数, 副本)
func SortTiles(tiles []Tile) {
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].Suit != tiles[j].Suit {
			return tiles[i].Suit < tiles[j].Suit
		}
		if tiles[i].Value != tiles[j].Value {
			return tiles[i].Value < tiles[j].Value
		}
		return tiles[i].Copy < tiles[j].Copy
	})
}

// SortedTiles 返回排序后的副本
func SortedTiles(tiles []Tile) []Tile {
	out := CloneTiles(tiles)
	SortTiles(out)
	return out
}

// CountTile 统计某种牌的数量
func CountTile(tiles []Tile, target Tile) int {
	return CountKey(tiles, target.Key())
}

// CountKey 统计某个编码的数量
func CountKey(tiles []Tile, key TileKey) int {
	count := 0
	for _, t := range tiles {
		if t.Key() == key {
			count++
		}
	}
	return count
}

// CloneTiles 克隆牌组
func CloneTiles(tiles []Tile) []Tile {
	if tiles == nil {
		return nil
	}
	result := make([]Tile, len(tiles))
	copy(result, tiles)
	return result
}

// WithoutTile 返回移除一张指定实体牌后的新牌组, 找不到时 ok 为 false
func WithoutTile(tiles []Tile, target Tile) ([]Tile, bool) {
	for i, t := range tiles {
		if t.Same(target) {
			out := make([]Tile, 0, len(tiles)-1)
			out = append(out, tiles[:i]...)
			return append(out, tiles[i+1:]...), true
		}
	}
	return CloneTiles(tiles), false
}

// TakeKey 从牌组中取出 n 张指定编码的牌, 不足 n 张时返回 nil
// 取出顺序从后往前, 原切片不变
func TakeKey(tiles []Tile, key TileKey, n int) (taken []Tile, rest []Tile) {
	if CountKey(tiles, key) < n {
		return nil, nil
	}
	rest = make([]Tile, 0, len(tiles)-n)
	skip := make(map[int]bool, n)
	for i := len(tiles) - 1; i >= 0 && len(taken) < n; i-- {
		if tiles[i].Key() == key {
			taken = append(taken, tiles[i])
			skip[i] = true
		}
	}
	for i, t := range tiles {
		if !skip[i] {
			rest = append(rest, t)
		}
	}
	return taken, rest
}

// FindKey 返回牌组中第一张指定编码的牌
func FindKey(tiles []Tile, key TileKey) (Tile, bool) {
	for _, t := range tiles {
		if t.Key() == key {
			return t, true
		}
	}
	return Tile{}, false
}

// GroupBySuit 按花色分组
func GroupBySuit(tiles []Tile) map[TileSuit][]Tile {
	groups := make(map[TileSuit][]Tile)
	for _, t := range tiles {
		groups[t.Suit] = append(groups[t.Suit], t)
	}
	return groups
}

// UniqueKeys 去重后的编码, 升序
func UniqueKeys(tiles []Tile) []TileKey {
	return CountsOf(tiles).Keys()
}

// Counts 按编码计数的多重集合
// 是值类型, 赋值即复制, 回溯搜索的每个分支各持一份
type Counts [KeySpace]int8

// CountsOf 统计牌组
func CountsOf(tiles []Tile) Counts {
	var c Counts
	for _, t := range tiles {
		k := t.Key()
		if k > 0 && k < KeySpace {
			c[k]++
		}
	}
	return c
}

// CountsWithMelds 统计手牌与副露中的全部牌
func CountsWithMelds(tiles []Tile, melds []Meld) Counts {
	c := CountsOf(tiles)
	for _, m := range melds {
		for _, t := range m.Tiles {
			c[t.Key()]++
		}
	}
	return c
}

// Total 总张数
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += int(v)
	}
	return n
}

// Keys 数量大于 0 的编码, 升序
func (c Counts) Keys() []TileKey {
	keys := make([]TileKey, 0, 14)
	for k, v := range c {
		if v > 0 {
			keys = append(keys, TileKey(k))
		}
	}
	return keys
}

// First 最小的非空编码, 为空时返回 0
func (c Counts) First() TileKey {
	for k, v := range c {
		if v > 0 {
			return TileKey(k)
		}
	}
	return 0
}

// Suits 出现过的花色
func (c Counts) Suits() map[TileSuit]bool {
	suits := make(map[TileSuit]bool, 3)
	for _, k := range c.Keys() {
		suits[k.Suit()] = true
	}
	return suits
}

// Valid 只包含真实存在的牌且每种不超过 4 张
func (c Counts) Valid() bool {
	for k, v := range c {
		if v < 0 || v > 4 {
			return false
		}
		if v > 0 && !TileKey(k).Valid() {
			return false
		}
	}
	return true
}
