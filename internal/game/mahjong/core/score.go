package core

// VariantFlags 玩法相关的计番参数
type VariantFlags struct {
	ExcludeSuit  bool     `json:"excludeSuit"`  // 是否定缺
	ExcludedSuit TileSuit `json:"excludedSuit"` // 定缺的花色
}

// ScoreContext 和牌情境
type ScoreContext struct {
	SelfDrawn        bool         `json:"selfDrawn"`        // 自摸
	SeatWind         TileKey      `json:"seatWind"`         // 门风
	RoundWind        TileKey      `json:"roundWind"`        // 圈风
	AfterKong        bool         `json:"afterKong"`        // 杠后补牌自摸 (杠上开花)
	AfterKongDiscard bool         `json:"afterKongDiscard"` // 点炮者杠后打出 (杠上炮)
	RobbedKong       bool         `json:"robbedKong"`       // 抢杠和
	LastTile         bool         `json:"lastTile"`         // 最后一张牌 (海底)
	HeavenlyHand     bool         `json:"heavenlyHand"`     // 天和
	EarthlyHand      bool         `json:"earthlyHand"`      // 地和
	Variant          VariantFlags `json:"variant"`
}

// ScoreResult 计番结果
// 规则前置条件不满足时只有 Err/Error 有值
type ScoreResult struct {
	Fans          []Fan          `json:"fans"`
	Total         int            `json:"total"`     // 总番数, 至少 1
	BaseValue     int            `json:"baseValue"` // Total * 每番基础分
	Shape         WinShape       `json:"shape"`
	Decomposition *Decomposition `json:"decomposition,omitempty"`
	Err           error          `json:"-"`
	Error         string         `json:"error,omitempty"`
}

// HandView 对一手已和牌的一种读法, 番型规则在它上面判定
type HandView struct {
	Shape       WinShape
	Pair        TileKey
	Groups      []Group // 拆出的组 + 副露转成的组
	Hand        []Tile  // 手牌 (含和的那张)
	Melds       []Meld
	All         Counts // 手牌 + 副露全部的牌
	WinningTile Tile
	QuadPairs   int
	Ctx         ScoreContext
}

// NumberSuitCount 出现的数牌花色数
func (v *HandView) NumberSuitCount() int {
	n := 0
	for s := range v.All.Suits() {
		if s.IsNumber() {
			n++
		}
	}
	return n
}

// HasHonors 是否含字牌
func (v *HandView) HasHonors() bool {
	return v.Any(TileKey.IsHonor)
}

// Any 是否有牌满足条件
func (v *HandView) Any(pred func(TileKey) bool) bool {
	for _, k := range v.All.Keys() {
		if pred(k) {
			return true
		}
	}
	return false
}

// Every 是否全部牌满足条件
func (v *HandView) Every(pred func(TileKey) bool) bool {
	return !v.Any(func(k TileKey) bool { return !pred(k) })
}

// Triplets 刻子和杠 (含副露)
func (v *HandView) Triplets() []Group {
	var out []Group
	for _, g := range v.Groups {
		if g.Kind == GroupTriplet {
			out = append(out, g)
		}
	}
	return out
}

// Runs 顺子 (含吃)
func (v *HandView) Runs() []Group {
	var out []Group
	for _, g := range v.Groups {
		if g.Kind == GroupRun {
			out = append(out, g)
		}
	}
	return out
}

// AllTriplets 标准型且没有顺子
func (v *HandView) AllTriplets() bool {
	return v.Shape == ShapeStandard && len(v.Groups) > 0 && len(v.Runs()) == 0
}

// HasTriplet 是否有该牌的刻子或杠
func (v *HandView) HasTriplet(k TileKey) bool {
	for _, g := range v.Groups {
		if g.Kind == GroupTriplet && g.Key == k {
			return true
		}
	}
	return false
}

// ConcealedTriplets 暗刻数 (含暗杠)
func (v *HandView) ConcealedTriplets() int {
	n := 0
	for _, g := range v.Groups {
		if g.Kind == GroupTriplet && g.Concealed {
			n++
		}
	}
	return n
}

// Kongs 杠的数量
func (v *HandView) Kongs() int {
	n := 0
	for _, m := range v.Melds {
		if m.Type == MeldTypeKong {
			n++
		}
	}
	return n
}

// ExposedMelds 明副露数 (暗杠不算)
func (v *HandView) ExposedMelds() int {
	n := 0
	for _, m := range v.Melds {
		if !m.Concealed {
			n++
		}
	}
	return n
}

// Score 计番
//
// 先检查规则前置条件, 不满足时返回带 Err 的结果; 不是和牌返回 nil。
// 每种拆法(以及七对, 十三幺)各算一次牌型番, 取最高的一种,
// 然后一次性加上情境番, 总番数至少为 1。
func Score(rs RuleSet, hand []Tile, melds []Meld, winningTile Tile, ctx ScoreContext) *ScoreResult {
	if err := rs.Validate(hand, melds, ctx); err != nil {
		return &ScoreResult{Err: err, Error: err.Error()}
	}

	win := IsWinning(rs, hand, melds)
	if win == nil {
		return nil
	}

	table := rs.FanTable()
	var best *ScoreResult
	bestLimit := false
	for _, v := range buildViews(win, hand, melds, winningTile, ctx) {
		fans, limit := table.evaluate(v)
		total := sumFans(fans)
		if best == nil || total > best.Total {
			best = &ScoreResult{Fans: fans, Total: total, Shape: v.Shape}
			if v.Shape == ShapeStandard {
				best.Decomposition = &Decomposition{Pair: v.Pair, Groups: v.Groups}
			}
			bestLimit = limit
		}
	}

	if !bestLimit {
		for _, s := range table.Situational {
			if s.Applies(ctx) {
				best.Fans = append(best.Fans, table.fan(s.Name))
			}
		}
		best.Total = sumFans(best.Fans)
	}

	if best.Total < 1 {
		best.Total = 1
	}
	best.BaseValue = best.Total * table.BaseUnit
	return best
}

func sumFans(fans []Fan) int {
	total := 0
	for _, f := range fans {
		total += f.Weight
	}
	return total
}

// buildViews 把判定结果展开成所有可计番的读法
func buildViews(win *WinResult, hand []Tile, melds []Meld, winningTile Tile, ctx ScoreContext) []*HandView {
	all := CountsWithMelds(hand, melds)
	meldGroups := meldsAsGroups(melds)

	base := HandView{
		Hand:        hand,
		Melds:       melds,
		All:         all,
		WinningTile: winningTile,
		Ctx:         ctx,
	}

	var views []*HandView
	if win.Shapes.Has(ShapeThirteenOrphans) {
		v := base
		v.Shape = ShapeThirteenOrphans
		views = append(views, &v)
	}
	if win.Shapes.Has(ShapeSevenPairs) {
		v := base
		v.Shape = ShapeSevenPairs
		v.QuadPairs = win.QuadPairs
		views = append(views, &v)
	}
	for _, d := range win.Decompositions {
		v := base
		v.Shape = ShapeStandard
		v.Pair = d.Pair
		groups := make([]Group, 0, len(d.Groups)+len(meldGroups))
		groups = append(groups, markClaimedTriplet(d.Groups, winningTile.Key(), ctx.SelfDrawn)...)
		v.Groups = append(groups, meldGroups...)
		views = append(views, &v)
	}
	return views
}

// markClaimedTriplet 点和时, 被和的那张牌完成的刻子不算暗刻
// 同一拆法里若有顺子也含这张牌, 视为它完成的是顺子
func markClaimedTriplet(groups []Group, winKey TileKey, selfDrawn bool) []Group {
	out := make([]Group, len(groups))
	copy(out, groups)
	if selfDrawn {
		return out
	}
	for _, g := range out {
		if g.Kind == GroupRun && winKey >= g.Key && winKey <= g.Key+2 {
			return out
		}
	}
	for i, g := range out {
		if g.Kind == GroupTriplet && g.Key == winKey {
			out[i].Concealed = false
			break
		}
	}
	return out
}

// meldsAsGroups 副露转为组
func meldsAsGroups(melds []Meld) []Group {
	groups := make([]Group, 0, len(melds))
	for _, m := range melds {
		g := Group{Key: m.Key(), Meld: true, Concealed: m.Concealed}
		switch m.Type {
		case MeldTypeChow:
			g.Kind = GroupRun
		case MeldTypeKong:
			g.Kind = GroupTriplet
			g.Quad = true
		default:
			g.Kind = GroupTriplet
		}
		groups = append(groups, g)
	}
	return groups
}
