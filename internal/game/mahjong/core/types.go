package core

import "fmt"

// TileSuit 牌的花色
type TileSuit int8

// NoSuit 未指定花色 (如尚未定缺)
const NoSuit TileSuit = -1

const (
	TileSuitWan    TileSuit = iota // 万
	TileSuitTiao                   // 条
	TileSuitTong                   // 筒
	TileSuitWind                   // 风 (东南西北)
	TileSuitDragon                 // 箭牌 (中发白)
)

// NumberSuits 三门数牌
var NumberSuits = []TileSuit{TileSuitWan, TileSuitTiao, TileSuitTong}

// HonorSuits 字牌
var HonorSuits = []TileSuit{TileSuitWind, TileSuitDragon}

// String 返回花色的字符串表示
func (s TileSuit) String() string {
	switch s {
	case TileSuitWan:
		return "万"
	case TileSuitTiao:
		return "条"
	case TileSuitTong:
		return "筒"
	case TileSuitWind:
		return "风"
	case TileSuitDragon:
		return "箭"
	default:
		return "无"
	}
}

// IsNumber 是否数牌花色
func (s TileSuit) IsNumber() bool {
	return s >= TileSuitWan && s <= TileSuitTong
}

// IsHonor 是否字牌花色
func (s TileSuit) IsHonor() bool {
	return s == TileSuitWind || s == TileSuitDragon
}

// size 每门花色的点数上限
func (s TileSuit) size() int8 {
	switch {
	case s.IsNumber():
		return 9
	case s == TileSuitWind:
		return 4
	case s == TileSuitDragon:
		return 3
	default:
		return 0
	}
}

// TileKey 牌的紧凑编码: 万1-9, 条11-19, 筒21-29, 风31-34, 箭41-43
// 规则计算只看 TileKey, 不区分同一种牌的四个物理副本
type TileKey int8

// KeySpace Counts 数组长度
const KeySpace = 44

// 常用字牌
const (
	KeyEast  TileKey = 31
	KeySouth TileKey = 32
	KeyWest  TileKey = 33
	KeyNorth TileKey = 34
	KeyRed   TileKey = 41 // 中
	KeyGreen TileKey = 42 // 发
	KeyWhite TileKey = 43 // 白
)

// Suit 编码对应的花色
func (k TileKey) Suit() TileSuit {
	if k <= 0 || k >= KeySpace {
		return NoSuit
	}
	return TileSuit(k / 10)
}

// Value 编码对应的点数
func (k TileKey) Value() int8 {
	return int8(k % 10)
}

// Valid 编码是否对应真实存在的牌
func (k TileKey) Valid() bool {
	s := k.Suit()
	v := k.Value()
	return s != NoSuit && v >= 1 && v <= s.size()
}

// IsTerminal 是否幺九数牌
func (k TileKey) IsTerminal() bool {
	return k.Suit().IsNumber() && (k.Value() == 1 || k.Value() == 9)
}

// IsHonor 是否字牌
func (k TileKey) IsHonor() bool {
	return k.Suit().IsHonor()
}

// IsTerminalOrHonor 幺九或字牌
func (k TileKey) IsTerminalOrHonor() bool {
	return k.IsTerminal() || k.IsHonor()
}

// Tile 返回该编码的第 0 个副本
func (k TileKey) Tile() Tile {
	return Tile{Suit: k.Suit(), Value: k.Value()}
}

// String 返回牌名
func (k TileKey) String() string {
	return k.Tile().String()
}

// Tile 麻将牌
type Tile struct {
	Suit  TileSuit `json:"suit"`  // 花色
	Value int8     `json:"value"` // 值 (1-9, 风牌:1东2南3西4北, 箭牌:1中2发3白)
	Copy  int8     `json:"copy"`  // 物理副本编号 0-3, 仅用于追踪同一张实体牌
}

// Key 返回规则编码
func (t Tile) Key() TileKey {
	return TileKey(int8(t.Suit)*10 + t.Value)
}

// ID 返回实体牌的唯一标识, 如 "11#2"
func (t Tile) ID() string {
	return fmt.Sprintf("%d#%d", t.Key(), t.Copy)
}

var windNames = [...]string{"东", "南", "西", "北"}
var dragonNames = [...]string{"中", "发", "白"}

// String 返回牌的字符串表示
func (t Tile) String() string {
	switch t.Suit {
	case TileSuitWind:
		if t.Value >= 1 && t.Value <= 4 {
			return windNames[t.Value-1]
		}
	case TileSuitDragon:
		if t.Value >= 1 && t.Value <= 3 {
			return dragonNames[t.Value-1]
		}
	}
	return fmt.Sprintf("%d%s", t.Value, t.Suit)
}

// Equal 判断两张牌是否同一种牌 (忽略副本编号)
func (t Tile) Equal(other Tile) bool {
	return t.Suit == other.Suit && t.Value == other.Value
}

// Same 判断是否同一张实体牌
func (t Tile) Same(other Tile) bool {
	return t.Equal(other) && t.Copy == other.Copy
}

// MeldType 副露类型
type MeldType int8

const (
	MeldTypePong MeldType = iota // 碰/刻 (3张相同)
	MeldTypeKong                 // 杠 (4张相同)
	MeldTypeChow                 // 吃 (3张顺子)
)

// String 返回副露类型名
func (m MeldType) String() string {
	switch m {
	case MeldTypePong:
		return "碰"
	case MeldTypeKong:
		return "杠"
	case MeldTypeChow:
		return "吃"
	default:
		return "未知"
	}
}

// KongType 杠的来源
type KongType int8

const (
	KongNone      KongType = iota
	KongExposed            // 明杠, 杠别人打出的牌
	KongConcealed          // 暗杠, 手中四张
	KongAdded              // 加杠, 碰后补第四张
)

// String 返回杠类型名
func (k KongType) String() string {
	switch k {
	case KongExposed:
		return "明杠"
	case KongConcealed:
		return "暗杠"
	case KongAdded:
		return "加杠"
	default:
		return ""
	}
}

// Meld 已亮出(或暗杠)的面子, 成型后只允许碰升级为加杠
type Meld struct {
	Type      MeldType `json:"type"`      // 组合类型
	Tiles     []Tile   `json:"tiles"`     // 牌
	Kong      KongType `json:"kong"`      // 杠类型
	Concealed bool     `json:"concealed"` // 是否暗杠
	FromSeat  int      `json:"fromSeat"`  // 被吃碰杠的座位, -1 表示自摸所成
}

// Key 面子的首张牌编码 (顺子为最小的一张)
func (m Meld) Key() TileKey {
	if len(m.Tiles) == 0 {
		return 0
	}
	k := m.Tiles[0].Key()
	for _, t := range m.Tiles[1:] {
		if t.Key() < k {
			k = t.Key()
		}
	}
	return k
}

// IsTripletLike 碰或杠
func (m Meld) IsTripletLike() bool {
	return m.Type == MeldTypePong || m.Type == MeldTypeKong
}

// Clone 深拷贝
func (m Meld) Clone() Meld {
	m.Tiles = CloneTiles(m.Tiles)
	return m
}

// CloneMelds 深拷贝面子列表
func CloneMelds(melds []Meld) []Meld {
	if melds == nil {
		return nil
	}
	out := make([]Meld, len(melds))
	for i, m := range melds {
		out[i] = m.Clone()
	}
	return out
}

// GroupKind 分解出的组类型
type GroupKind int8

const (
	GroupRun     GroupKind = iota // 顺子
	GroupTriplet                  // 刻子
)

// Group 分解结果里的一组牌, 副露在计番时也会转为 Group
type Group struct {
	Kind      GroupKind `json:"kind"`
	Key       TileKey   `json:"key"`       // 刻子的牌, 或顺子最小的牌
	Quad      bool      `json:"quad"`      // 来自杠
	Concealed bool      `json:"concealed"` // 暗刻/暗杠/手中顺子
	Meld      bool      `json:"meld"`      // 来自副露
}

// Decomposition 标准和牌的一种拆法: 一对将 + 若干组
type Decomposition struct {
	Pair   TileKey `json:"pair"`
	Groups []Group `json:"groups"`
}

// WinShape 和牌牌型
type WinShape int8

const (
	ShapeStandard        WinShape = iota // 4组+1对
	ShapeSevenPairs                      // 七对
	ShapeThirteenOrphans                 // 十三幺
)

// String 返回牌型名
func (s WinShape) String() string {
	switch s {
	case ShapeStandard:
		return "标准"
	case ShapeSevenPairs:
		return "七对"
	case ShapeThirteenOrphans:
		return "十三幺"
	default:
		return "未知"
	}
}

// ShapeMask 牌型集合
type ShapeMask uint8

const (
	MaskStandard        ShapeMask = 1 << ShapeStandard
	MaskSevenPairs      ShapeMask = 1 << ShapeSevenPairs
	MaskThirteenOrphans ShapeMask = 1 << ShapeThirteenOrphans
	MaskAnyShape                  = MaskStandard | MaskSevenPairs | MaskThirteenOrphans
)

// Has 是否包含牌型
func (m ShapeMask) Has(s WinShape) bool {
	return m&(1<<s) != 0
}

// ShapeFlags 规则允许的特殊牌型
type ShapeFlags struct {
	SevenPairs      bool // 允许七对
	QuadAsTwoPairs  bool // 七对中四张相同算两对 (龙七对)
	ThirteenOrphans bool // 允许十三幺
}
