package core

import (
	"strings"
)

// 简写记法: 数字后跟花色字母, m 万, s 条, p 筒, z 字牌 (1-4 东南西北, 5-7 中发白)
// 例如 "123m456s789p1122z"; 同一种牌按出现顺序依次分配副本编号
const suitLetters = "mspz"

// ParseTiles 解析简写记法, 空白会被忽略
func ParseTiles(s string) ([]Tile, error) {
	var out []Tile
	var pending []int8
	copies := make(map[TileKey]int8)

	for _, r := range s {
		switch {
		case r >= '1' && r <= '9':
			pending = append(pending, int8(r-'0'))
		case strings.ContainsRune(suitLetters, r):
			if len(pending) == 0 {
				return nil, NewGameError("INVALID_NOTATION", "花色字母前没有数字").WithContext("input", s)
			}
			for _, v := range pending {
				k, ok := notationKey(r, v)
				if !ok {
					return nil, ErrInvalidTile.WithContext("input", s).WithContext("value", int(v))
				}
				c := copies[k]
				if c >= CopiesPerTile {
					return nil, ErrInvalidTile.WithContext("input", s).WithContext("tile", k.String())
				}
				copies[k] = c + 1
				t := k.Tile()
				t.Copy = c
				out = append(out, t)
			}
			pending = pending[:0]
		case r == ' ' || r == '\t' || r == ',':
		default:
			return nil, NewGameError("INVALID_NOTATION", "无法识别的字符").WithContext("input", s).WithContext("char", string(r))
		}
	}
	if len(pending) > 0 {
		return nil, NewGameError("INVALID_NOTATION", "末尾缺少花色字母").WithContext("input", s)
	}
	return out, nil
}

// MustParseTiles 解析失败时 panic, 只用于常量与测试
func MustParseTiles(s string) []Tile {
	tiles, err := ParseTiles(s)
	if err != nil {
		panic(err)
	}
	return tiles
}

func notationKey(letter rune, v int8) (TileKey, bool) {
	var k TileKey
	switch letter {
	case 'm':
		k = TileKey(v)
	case 's':
		k = TileKey(10 + v)
	case 'p':
		k = TileKey(20 + v)
	case 'z':
		switch {
		case v >= 1 && v <= 4:
			k = TileKey(30 + v)
		case v >= 5 && v <= 7:
			k = TileKey(40 + v - 4)
		}
	}
	return k, k.Valid()
}

// FormatTiles 转为简写记法, 按编码排序
func FormatTiles(tiles []Tile) string {
	c := CountsOf(tiles)
	var b strings.Builder
	for _, s := range []TileSuit{TileSuitWan, TileSuitTiao, TileSuitTong, TileSuitWind, TileSuitDragon} {
		wrote := false
		for _, k := range c.Keys() {
			if k.Suit() != s {
				continue
			}
			v := k.Value()
			if s == TileSuitDragon {
				v += 4
			}
			for i := int8(0); i < c[k]; i++ {
				b.WriteByte('0' + byte(v))
			}
			wrote = true
		}
		if wrote {
			b.WriteByte(letterOf(s))
		}
	}
	return b.String()
}

func letterOf(s TileSuit) byte {
	switch s {
	case TileSuitWan:
		return 'm'
	case TileSuitTiao:
		return 's'
	case TileSuitTong:
		return 'p'
	default:
		return 'z'
	}
}

// ParseTile 解析单张牌, 如 "5m"
func ParseTile(s string) (Tile, error) {
	tiles, err := ParseTiles(s)
	if err != nil {
		return Tile{}, err
	}
	if len(tiles) != 1 {
		return Tile{}, ErrInvalidTile.WithContext("input", s)
	}
	return tiles[0], nil
}

// ParseSuit 解析数牌花色字母 m s p
func ParseSuit(s string) (TileSuit, error) {
	switch s {
	case "m":
		return TileSuitWan, nil
	case "s":
		return TileSuitTiao, nil
	case "p":
		return TileSuitTong, nil
	}
	return NoSuit, NewGameError("INVALID_SUIT", "无效的花色").WithContext("input", s)
}

// Letter 花色字母, 没有花色时为空串
func (s TileSuit) Letter() string {
	if s == NoSuit {
		return ""
	}
	return string(letterOf(s))
}

// ParseChow 解析吃法, 如 "345m"
func ParseChow(s string) (ChowOption, error) {
	tiles, err := ParseTiles(s)
	if err != nil {
		return ChowOption{}, err
	}
	if len(tiles) != 3 {
		return ChowOption{}, ErrCannotChow.WithContext("input", s)
	}
	SortTiles(tiles)
	opt := ChowOption{tiles[0].Key(), tiles[1].Key(), tiles[2].Key()}
	if !opt.Valid() {
		return ChowOption{}, ErrCannotChow.WithContext("input", s)
	}
	return opt, nil
}

// ParseClaim 解析响应类型名, 与 ClaimType.String 互逆
func ParseClaim(s string) (ClaimType, error) {
	for c := ClaimPass; c <= ClaimWin; c++ {
		if c.String() == s {
			return c, nil
		}
	}
	return ClaimPass, NewGameError("INVALID_CLAIM", "无效的响应类型").WithContext("input", s)
}
