// Package beijing 北京麻将规则: 136 张含字牌, 可吃碰杠, 一家和牌即结束
package beijing

import (
	_ "embed"

	"sudooom.mahjong/internal/game/mahjong/core"
)

// Name 规则名
const Name = "beijing"

//go:embed fans.yaml
var fansYAML []byte

var dragonKeys = []core.TileKey{core.KeyRed, core.KeyGreen, core.KeyWhite}
var windKeys = []core.TileKey{core.KeyEast, core.KeySouth, core.KeyWest, core.KeyNorth}

// Rules 北京麻将规则集
type Rules struct {
	table *core.FanTable
}

var _ core.RuleSet = (*Rules)(nil)

// New 创建规则集, overrides 按番型名覆盖番数
func New(overrides map[string]int) (*Rules, error) {
	table, err := core.LoadFanTable(fansYAML, overrides, fanRules(), situationalRules(), map[core.WinShape]string{
		core.ShapeThirteenOrphans: "shiSanYao",
	})
	if err != nil {
		return nil, err
	}
	return &Rules{table: table}, nil
}

// Name 规则名
func (r *Rules) Name() string { return Name }

// DeckSuits 万条筒 + 风 + 箭
func (r *Rules) DeckSuits() []core.TileSuit {
	return []core.TileSuit{core.TileSuitWan, core.TileSuitTiao, core.TileSuitTong, core.TileSuitWind, core.TileSuitDragon}
}

// Shapes 七对, 十三幺
func (r *Rules) Shapes() core.ShapeFlags {
	return core.ShapeFlags{SevenPairs: true, ThirteenOrphans: true}
}

// FanTable 番型表
func (r *Rules) FanTable() *core.FanTable { return r.table }

// MultiWinner 北京麻将截和, 只有一家和牌
func (r *Rules) MultiWinner() bool { return false }

// RequiresExcludedSuit 不定缺
func (r *Rules) RequiresExcludedSuit() bool { return false }

// Validate 没有额外前置条件
func (r *Rules) Validate(hand []core.Tile, melds []core.Meld, ctx core.ScoreContext) error {
	return nil
}

func fanRules() []core.FanRule {
	const (
		std   = core.MaskStandard
		flush = core.MaskStandard | core.MaskSevenPairs
	)
	return []core.FanRule{
		{Name: "pinghu", Shapes: std, Count: core.Bool(func(v *core.HandView) bool { return true })},
		{Name: "duanyao", Shapes: flush, Count: core.Bool(func(v *core.HandView) bool {
			return v.Every(func(k core.TileKey) bool { return !k.IsTerminalOrHonor() })
		})},
		{Name: "duidui", Shapes: std, Count: core.Bool((*core.HandView).AllTriplets), Replaces: []string{"pinghu"}},
		{Name: "hunyi", Shapes: flush, Count: core.Bool(func(v *core.HandView) bool {
			return v.NumberSuitCount() == 1 && v.HasHonors()
		})},
		{Name: "qingyi", Shapes: flush, Count: core.Bool(func(v *core.HandView) bool {
			return v.NumberSuitCount() == 1 && !v.HasHonors()
		})},
		{Name: "ziYiSe", Shapes: flush, Count: core.Bool(func(v *core.HandView) bool {
			return v.NumberSuitCount() == 0 && v.HasHonors()
		})},
		{Name: "fanpai", Shapes: std, Count: countFanpai},
		{Name: "yibeikou", Shapes: std, Count: core.Bool(hasTwinRuns)},
		{Name: "daSanYuan", Shapes: std, Count: core.Bool(func(v *core.HandView) bool {
			return tripletsOf(v, dragonKeys) == 3
		})},
		{Name: "xiaoSanYuan", Shapes: std, Count: core.Bool(func(v *core.HandView) bool {
			return tripletsOf(v, dragonKeys) == 2 && v.Pair.Suit() == core.TileSuitDragon
		})},
		{Name: "daSiXi", Shapes: std, Count: core.Bool(func(v *core.HandView) bool {
			return tripletsOf(v, windKeys) == 4
		})},
		{Name: "xiaoSiXi", Shapes: std, Count: core.Bool(func(v *core.HandView) bool {
			return tripletsOf(v, windKeys) == 3 && v.Pair.Suit() == core.TileSuitWind
		})},
		{Name: "sanAnke", Shapes: std, Count: core.Bool(func(v *core.HandView) bool {
			return v.ConcealedTriplets() >= 3
		})},
		{Name: "qidui", Shapes: core.MaskSevenPairs, Count: core.Bool(func(v *core.HandView) bool { return true })},
	}
}

func situationalRules() []core.SituationalRule {
	return []core.SituationalRule{
		{Name: "zimo", Applies: func(ctx core.ScoreContext) bool { return ctx.SelfDrawn }},
		{Name: "gangShangHua", Applies: func(ctx core.ScoreContext) bool { return ctx.AfterKong }},
		{Name: "haidi", Applies: func(ctx core.ScoreContext) bool { return ctx.LastTile }},
	}
}

// countFanpai 箭牌, 门风, 圈风刻子各记一次; 门风与圈风相同也只记一次
func countFanpai(v *core.HandView) int {
	n := 0
	for _, g := range v.Triplets() {
		if g.Key.Suit() == core.TileSuitDragon || g.Key == v.Ctx.SeatWind || g.Key == v.Ctx.RoundWind {
			n++
		}
	}
	return n
}

// hasTwinRuns 两组完全相同的顺子
func hasTwinRuns(v *core.HandView) bool {
	seen := make(map[core.TileKey]bool)
	for _, g := range v.Runs() {
		if seen[g.Key] {
			return true
		}
		seen[g.Key] = true
	}
	return false
}

func tripletsOf(v *core.HandView, keys []core.TileKey) int {
	n := 0
	for _, k := range keys {
		if v.HasTriplet(k) {
			n++
		}
	}
	return n
}
