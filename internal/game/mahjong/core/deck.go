package core

import (
	"math/rand"
	"sort"
)

// CopiesPerTile 每种牌的张数
const CopiesPerTile = 4

// CreateDeck 按规则集的花色生成整副牌 (未洗)
func CreateDeck(rs RuleSet) []Tile {
	suits := rs.DeckSuits()
	deck := make([]Tile, 0, len(suits)*9*CopiesPerTile)
	for _, s := range suits {
		for v := int8(1); v <= s.size(); v++ {
			for c := int8(0); c < CopiesPerTile; c++ {
				deck = append(deck, Tile{Suit: s, Value: v, Copy: c})
			}
		}
	}
	return deck
}

// Shuffle 洗牌 (Fisher-Yates), 返回新切片
// 随机源由调用方注入, 相同种子得到相同牌序
func Shuffle(tiles []Tile, rng *rand.Rand) []Tile {
	out := CloneTiles(tiles)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// DeckKeys 规则集下所有可能出现的牌编码, 升序
func DeckKeys(rs RuleSet) []TileKey {
	var keys []TileKey
	for _, s := range rs.DeckSuits() {
		for v := int8(1); v <= s.size(); v++ {
			keys = append(keys, TileKey(int8(s)*10+v))
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
