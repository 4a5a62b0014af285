// Package sichuan 四川血战到底: 108 张只有数牌, 定缺一门, 一炮多响, 和牌后继续直到只剩一家
package sichuan

import (
	_ "embed"

	"sudooom.mahjong/internal/game/mahjong/core"
)

// Name 规则名
const Name = "sichuan"

//go:embed fans.yaml
var fansYAML []byte

// Rules 四川血战到底规则集
type Rules struct {
	table *core.FanTable
}

var _ core.RuleSet = (*Rules)(nil)

// New 创建规则集, overrides 按番型名覆盖番数
func New(overrides map[string]int) (*Rules, error) {
	table, err := core.LoadFanTable(fansYAML, overrides, fanRules(), situationalRules(), nil)
	if err != nil {
		return nil, err
	}
	return &Rules{table: table}, nil
}

// Name 规则名
func (r *Rules) Name() string { return Name }

// DeckSuits 只有万条筒
func (r *Rules) DeckSuits() []core.TileSuit {
	return []core.TileSuit{core.TileSuitWan, core.TileSuitTiao, core.TileSuitTong}
}

// Shapes 七对, 四张相同可算两对 (龙七对)
func (r *Rules) Shapes() core.ShapeFlags {
	return core.ShapeFlags{SevenPairs: true, QuadAsTwoPairs: true}
}

// FanTable 番型表
func (r *Rules) FanTable() *core.FanTable { return r.table }

// MultiWinner 一炮多响, 血战到底
func (r *Rules) MultiWinner() bool { return true }

// RequiresExcludedSuit 开局定缺一门
func (r *Rules) RequiresExcludedSuit() bool { return true }

// Validate 定缺的花色必须已经打完 (手牌与副露都不能有)
func (r *Rules) Validate(hand []core.Tile, melds []core.Meld, ctx core.ScoreContext) error {
	if !ctx.Variant.ExcludeSuit {
		return nil
	}
	suit := ctx.Variant.ExcludedSuit
	if !IsExcludedSuitCleared(hand, suit) {
		return core.ErrExcludedSuitRemain.WithContext("suit", suit.String())
	}
	for _, m := range melds {
		for _, t := range m.Tiles {
			if t.Suit == suit {
				return core.ErrExcludedSuitRemain.WithContext("suit", suit.String())
			}
		}
	}
	return nil
}

func fanRules() []core.FanRule {
	const (
		std   = core.MaskStandard
		pairs = core.MaskSevenPairs
		both  = core.MaskStandard | core.MaskSevenPairs
	)
	always := core.Bool(func(v *core.HandView) bool { return true })
	return []core.FanRule{
		{Name: "pinghu", Shapes: std, Count: core.Bool(func(v *core.HandView) bool {
			return !v.AllTriplets() && !oneSuit(v)
		})},
		{Name: "qidui", Shapes: pairs, Count: always},
		{Name: "longQiDui", Shapes: pairs, Count: core.Bool(func(v *core.HandView) bool {
			return v.QuadPairs > 0
		}), Replaces: []string{"qidui"}},
		{Name: "duidui", Shapes: std, Count: core.Bool((*core.HandView).AllTriplets)},
		{Name: "qingyi", Shapes: both, Count: core.Bool(oneSuit)},
		{Name: "qingQidui", Shapes: pairs, Count: core.Bool(oneSuit)},
		{Name: "qingDuidui", Shapes: std, Count: core.Bool(func(v *core.HandView) bool {
			return v.AllTriplets() && oneSuit(v)
		})},
		{Name: "duanyao", Shapes: both, Count: core.Bool(func(v *core.HandView) bool {
			return v.Every(func(k core.TileKey) bool { return !k.IsTerminalOrHonor() })
		})},
		{Name: "jiangDui", Shapes: both, Count: core.Bool(func(v *core.HandView) bool {
			return (v.Shape == core.ShapeSevenPairs || v.AllTriplets()) && v.Every(isJiang)
		})},
		{Name: "jinGouDiao", Shapes: std, Count: core.Bool(func(v *core.HandView) bool {
			return len(v.Hand) == 2 && len(v.Melds) == 4
		})},
		{Name: "shibaLuoHan", Shapes: std, Count: core.Bool(func(v *core.HandView) bool {
			return v.Kongs() == 4
		})},
		{Name: "menQing", Shapes: both, Count: core.Bool(func(v *core.HandView) bool {
			return v.ExposedMelds() == 0
		})},
	}
}

func situationalRules() []core.SituationalRule {
	return []core.SituationalRule{
		{Name: "zimo", Applies: func(ctx core.ScoreContext) bool { return ctx.SelfDrawn }},
		{Name: "gangShangHua", Applies: func(ctx core.ScoreContext) bool { return ctx.AfterKong }},
		{Name: "gangShangPao", Applies: func(ctx core.ScoreContext) bool { return ctx.AfterKongDiscard }},
		{Name: "qiangGang", Applies: func(ctx core.ScoreContext) bool { return ctx.RobbedKong }},
		{Name: "haidi", Applies: func(ctx core.ScoreContext) bool { return ctx.LastTile }},
		{Name: "tianHu", Applies: func(ctx core.ScoreContext) bool { return ctx.HeavenlyHand }},
		{Name: "diHu", Applies: func(ctx core.ScoreContext) bool { return ctx.EarthlyHand }},
	}
}

func oneSuit(v *core.HandView) bool {
	return v.NumberSuitCount() == 1 && !v.HasHonors()
}

func isJiang(k core.TileKey) bool {
	switch k.Value() {
	case 2, 5, 8:
		return k.Suit().IsNumber()
	}
	return false
}
