package core

// MeldResult 成功组成面子后的新面子与剩余手牌
type MeldResult struct {
	Meld Meld   `json:"meld"`
	Hand []Tile `json:"hand"`
}

// AddedKongResult 加杠结果
type AddedKongResult struct {
	Melds []Meld `json:"melds"` // 升级后的副露列表 (新切片)
	Hand  []Tile `json:"hand"`  // 去掉第四张后的手牌
	Tile  Tile   `json:"tile"`  // 补上的第四张, 抢杠时就是被抢的牌
	Index int    `json:"index"` // 被升级的碰在副露中的下标
}

// ChowOption 一种吃法: 组成顺子的三个编码, 升序
type ChowOption [3]TileKey

// Valid 三张同一数牌花色且连续
func (o ChowOption) Valid() bool {
	s := o[0].Suit()
	return s.IsNumber() && o[0].Valid() && o[1] == o[0]+1 && o[2] == o[0]+2 && o[2].Valid() && o[2].Suit() == s
}

// Contains 吃法是否包含该编码
func (o ChowOption) Contains(k TileKey) bool {
	return o[0] == k || o[1] == k || o[2] == k
}

// BuildChow 吃: 被吃的牌 + 手中另外两张组成顺子
// 吃法不合法或手中缺牌时返回 nil, 不修改传入的手牌
func BuildChow(hand []Tile, claimed Tile, opt ChowOption, fromSeat int) *MeldResult {
	if !opt.Valid() || !opt.Contains(claimed.Key()) {
		return nil
	}
	rest := hand
	tiles := make([]Tile, 0, 3)
	for _, k := range opt {
		if k == claimed.Key() {
			tiles = append(tiles, claimed)
			continue
		}
		taken, left := TakeKey(rest, k, 1)
		if taken == nil {
			return nil
		}
		tiles = append(tiles, taken[0])
		rest = left
	}
	return &MeldResult{
		Meld: Meld{Type: MeldTypeChow, Tiles: tiles, FromSeat: fromSeat},
		Hand: CloneTiles(rest),
	}
}

// BuildPong 碰: 手中两张 + 被碰的牌
func BuildPong(hand []Tile, claimed Tile, fromSeat int) *MeldResult {
	taken, rest := TakeKey(hand, claimed.Key(), 2)
	if taken == nil {
		return nil
	}
	return &MeldResult{
		Meld: Meld{Type: MeldTypePong, Tiles: append(taken, claimed), FromSeat: fromSeat},
		Hand: rest,
	}
}

// BuildExposedKong 明杠: 手中三张 + 被杠的牌
func BuildExposedKong(hand []Tile, claimed Tile, fromSeat int) *MeldResult {
	taken, rest := TakeKey(hand, claimed.Key(), 3)
	if taken == nil {
		return nil
	}
	return &MeldResult{
		Meld: Meld{Type: MeldTypeKong, Kong: KongExposed, Tiles: append(taken, claimed), FromSeat: fromSeat},
		Hand: rest,
	}
}

// BuildConcealedKong 暗杠: 手中四张
func BuildConcealedKong(hand []Tile, key TileKey) *MeldResult {
	taken, rest := TakeKey(hand, key, 4)
	if taken == nil {
		return nil
	}
	return &MeldResult{
		Meld: Meld{Type: MeldTypeKong, Kong: KongConcealed, Concealed: true, Tiles: taken, FromSeat: -1},
		Hand: rest,
	}
}

// BuildAddedKong 加杠: 用手中的第四张把已有的碰升级为杠
func BuildAddedKong(hand []Tile, melds []Meld, key TileKey) *AddedKongResult {
	idx := -1
	for i, m := range melds {
		if m.Type == MeldTypePong && m.Key() == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	taken, rest := TakeKey(hand, key, 1)
	if taken == nil {
		return nil
	}

	out := CloneMelds(melds)
	upgraded := out[idx]
	upgraded.Type = MeldTypeKong
	upgraded.Kong = KongAdded
	upgraded.Tiles = append(upgraded.Tiles, taken[0])
	out[idx] = upgraded

	return &AddedKongResult{Melds: out, Hand: rest, Tile: taken[0], Index: idx}
}
