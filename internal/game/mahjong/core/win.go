package core

// WinHandSize 和牌时的有效张数 (每个副露按 3 张计)
const WinHandSize = 14

// orphanKeys 十三幺所需的十三种牌
var orphanKeys = []TileKey{1, 9, 11, 19, 21, 29, KeyEast, KeySouth, KeyWest, KeyNorth, KeyRed, KeyGreen, KeyWhite}

// WinResult 和牌判定结果
type WinResult struct {
	Shape          WinShape        `json:"shape"`          // 主牌型
	Shapes         ShapeMask       `json:"shapes"`         // 同时成立的全部牌型
	Decompositions []Decomposition `json:"decompositions"` // 标准型的全部拆法
	QuadPairs      int             `json:"quadPairs"`      // 七对中按两对计算的四张
}

// IsWinning 判断手牌加副露是否已和
// 张数不对 (手牌 + 3*副露 != 14) 视为非法输入, 返回 nil
func IsWinning(rs RuleSet, hand []Tile, melds []Meld) *WinResult {
	if len(hand)+3*len(melds) != WinHandSize {
		return nil
	}
	c := CountsOf(hand)
	if !c.Valid() {
		return nil
	}
	return detectWin(rs.Shapes(), c, len(hand), len(melds))
}

// CanWinBy 假设得到 tile 后是否能和
func CanWinBy(rs RuleSet, hand []Tile, tile Tile, melds []Meld) *WinResult {
	test := make([]Tile, 0, len(hand)+1)
	test = append(test, hand...)
	test = append(test, tile)
	return IsWinning(rs, test, melds)
}

func detectWin(flags ShapeFlags, c Counts, size, meldCount int) *WinResult {
	res := &WinResult{}

	if decs := decomposeWithPair(c, size); len(decs) > 0 {
		res.Decompositions = decs
		res.Shapes |= MaskStandard
	}

	// 七对与十三幺都要求门清
	if meldCount == 0 && flags.SevenPairs {
		if quads, ok := sevenPairs(c, flags.QuadAsTwoPairs); ok {
			res.Shapes |= MaskSevenPairs
			res.QuadPairs = quads
		}
	}
	if meldCount == 0 && flags.ThirteenOrphans && thirteenOrphans(c) {
		res.Shapes |= MaskThirteenOrphans
	}

	switch {
	case res.Shapes.Has(ShapeThirteenOrphans):
		res.Shape = ShapeThirteenOrphans
	case res.Shapes.Has(ShapeStandard):
		res.Shape = ShapeStandard
	case res.Shapes.Has(ShapeSevenPairs):
		res.Shape = ShapeSevenPairs
	default:
		return nil
	}
	return res
}

// isComplete 快速判定, 不生成拆法
func isComplete(flags ShapeFlags, c Counts, meldCount int) bool {
	if isStandardComplete(c) {
		return true
	}
	if meldCount > 0 {
		return false
	}
	if flags.SevenPairs {
		if _, ok := sevenPairs(c, flags.QuadAsTwoPairs); ok {
			return true
		}
	}
	return flags.ThirteenOrphans && thirteenOrphans(c)
}

// sevenPairs 七个对子; quadAsTwo 时四张相同算两对, 返回这样的四张个数
func sevenPairs(c Counts, quadAsTwo bool) (int, bool) {
	if c.Total() != WinHandSize {
		return 0, false
	}
	pairs, quads := 0, 0
	for _, n := range c {
		switch {
		case n == 0:
		case n == 2:
			pairs++
		case n == 4 && quadAsTwo:
			pairs += 2
			quads++
		default:
			return 0, false
		}
	}
	return quads, pairs == 7
}

// thirteenOrphans 十三种幺九字牌各一张, 其中一种成对
func thirteenOrphans(c Counts) bool {
	if c.Total() != WinHandSize {
		return false
	}
	pair := false
	for _, k := range orphanKeys {
		switch c[k] {
		case 1:
		case 2:
			if pair {
				return false
			}
			pair = true
		default:
			return false
		}
	}
	return pair
}

// IsOrphanKey 是否十三幺用牌
func IsOrphanKey(k TileKey) bool {
	for _, o := range orphanKeys {
		if o == k {
			return true
		}
	}
	return false
}
