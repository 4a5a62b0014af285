package core

import (
	"errors"
	"reflect"
	"testing"
)

func fanNames(fans []Fan) []string {
	names := make([]string, len(fans))
	for i, f := range fans {
		names[i] = f.Name
	}
	return names
}

func TestScoreBasic(t *testing.T) {
	rs := newStubRules(t, ShapeFlags{})
	hand := tiles(t, "123m456m789s11p234p")
	res := Score(rs, hand, nil, hand[len(hand)-1], ScoreContext{})
	if res == nil {
		t.Fatal("期望有计番结果")
	}
	if res.Total != 1 || res.BaseValue != 100 {
		t.Errorf("期望 1 番 100 分, 实际 = %d 番 %d 分", res.Total, res.BaseValue)
	}
	if res.Decomposition == nil {
		t.Error("标准型期望带拆法")
	}
}

func TestScoreIdempotent(t *testing.T) {
	rs := newStubRules(t, ShapeFlags{SevenPairs: true, ThirteenOrphans: true})
	pong := Meld{Type: MeldTypePong, Tiles: tiles(t, "555z"), FromSeat: 1}

	tests := []struct {
		name  string
		hand  string
		melds []Meld
		ctx   ScoreContext
	}{
		{"多种拆法", "111222333m789s55p", nil, ScoreContext{SelfDrawn: true}},
		{"七对", "1133m5577s99p1122z", nil, ScoreContext{}},
		{"十三幺", "19m19s19p12345677z", nil, ScoreContext{}},
		{"带副露", "123m456s789p11z", []Meld{pong}, ScoreContext{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := tiles(t, tt.hand)
			before := CloneTiles(hand)
			win := hand[len(hand)-1]

			first := Score(rs, hand, tt.melds, win, tt.ctx)
			second := Score(rs, hand, tt.melds, win, tt.ctx)
			if first == nil {
				t.Fatal("期望有计番结果")
			}
			if !reflect.DeepEqual(first, second) {
				t.Errorf("两次结果不一致: %+v / %+v", first, second)
			}
			if !reflect.DeepEqual(hand, before) {
				t.Errorf("计番不应修改手牌: %v", hand)
			}
		})
	}
}

func TestScoreNotWinning(t *testing.T) {
	rs := newStubRules(t, ShapeFlags{})
	hand := tiles(t, "123m456m789s11p235p")
	if res := Score(rs, hand, nil, hand[0], ScoreContext{}); res != nil {
		t.Errorf("未和期望 nil, 实际 = %+v", res)
	}
}

// TestScorePicksBestReading 多种拆法取番数最高的一种
func TestScorePicksBestReading(t *testing.T) {
	rs := newStubRules(t, ShapeFlags{})
	hand := tiles(t, "111222333m444s55p")
	res := Score(rs, hand, nil, hand[0], ScoreContext{})
	if res == nil {
		t.Fatal("期望有计番结果")
	}
	if res.Total != 2 {
		t.Errorf("期望取对对读法 2 番, 实际 = %d %v", res.Total, fanNames(res.Fans))
	}
	for _, f := range res.Fans {
		if f.Name == "basic" {
			t.Error("basic 应被 allTriplets 取代")
		}
	}
}

func TestScorePrefersHigherShape(t *testing.T) {
	rs := newStubRules(t, ShapeFlags{SevenPairs: true})
	hand := tiles(t, "112233m445566s77p")
	res := Score(rs, hand, nil, hand[0], ScoreContext{})
	if res == nil {
		t.Fatal("期望有计番结果")
	}
	if res.Shape != ShapeSevenPairs || res.Total != 3 {
		t.Errorf("期望七对 3 番, 实际 = %v %d", res.Shape, res.Total)
	}
	if res.Decomposition != nil {
		t.Error("七对期望没有拆法")
	}
}

func TestScoreSituationalOnce(t *testing.T) {
	rs := newStubRules(t, ShapeFlags{SevenPairs: true})
	hand := tiles(t, "111222333m444s55p")
	res := Score(rs, hand, nil, hand[0], ScoreContext{SelfDrawn: true})
	if res == nil {
		t.Fatal("期望有计番结果")
	}
	n := 0
	for _, f := range res.Fans {
		if f.Name == "selfDraw" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("期望自摸只计一次, 实际 = %d", n)
	}
	if res.Total != 3 || res.BaseValue != 300 {
		t.Errorf("期望 3 番 300 分, 实际 = %d 番 %d 分", res.Total, res.BaseValue)
	}
}

// TestScoreLimitShape 封顶牌型不再加情境番
func TestScoreLimitShape(t *testing.T) {
	rs := newStubRules(t, ShapeFlags{SevenPairs: true, ThirteenOrphans: true})
	hand := tiles(t, "19m19s19p12345677z")
	res := Score(rs, hand, nil, hand[0], ScoreContext{SelfDrawn: true})
	if res == nil {
		t.Fatal("期望有计番结果")
	}
	if len(res.Fans) != 1 || res.Fans[0].Name != "orphans" || res.Total != 88 {
		t.Errorf("期望只有 orphans 88 番, 实际 = %v %d", fanNames(res.Fans), res.Total)
	}
}

func TestScoreMinimumOne(t *testing.T) {
	rs := newStubRules(t, ShapeFlags{})
	rs.table = rs.table.WithWeights(map[string]int{"basic": 0})
	hand := tiles(t, "123m456m789s11p234p")
	res := Score(rs, hand, nil, hand[0], ScoreContext{})
	if res == nil {
		t.Fatal("期望有计番结果")
	}
	if res.Total != 1 || res.BaseValue != 100 {
		t.Errorf("期望至少 1 番, 实际 = %d 番 %d 分", res.Total, res.BaseValue)
	}
}

func TestScoreValidateError(t *testing.T) {
	rs := newStubRules(t, ShapeFlags{})
	rs.validate = func(hand []Tile, melds []Meld, ctx ScoreContext) error {
		return ErrExcludedSuitRemain
	}
	hand := tiles(t, "123m456m789s11p234p")
	res := Score(rs, hand, nil, hand[0], ScoreContext{})
	if res == nil || res.Err == nil {
		t.Fatal("期望返回前置条件错误")
	}
	if !errors.Is(res.Err, ErrExcludedSuitRemain) {
		t.Errorf("期望 ErrExcludedSuitRemain, 实际 = %v", res.Err)
	}
	if res.Total != 0 || len(res.Fans) != 0 {
		t.Error("前置条件失败时不应计番")
	}
}

func TestScoreWithMelds(t *testing.T) {
	rs := newStubRules(t, ShapeFlags{})
	melds := []Meld{
		{Type: MeldTypePong, Tiles: tiles(t, "555z"), FromSeat: 1},
		{Type: MeldTypeKong, Kong: KongConcealed, Concealed: true, Tiles: tiles(t, "9999p"), FromSeat: -1},
	}
	hand := tiles(t, "111m222s33p")
	res := Score(rs, hand, melds, hand[0], ScoreContext{})
	if res == nil {
		t.Fatal("期望有计番结果")
	}
	if res.Total != 2 {
		t.Errorf("副露刻子也算对对, 期望 2 番, 实际 = %d %v", res.Total, fanNames(res.Fans))
	}
	if got := len(res.Decomposition.Groups); got != 4 {
		t.Errorf("期望拆法含副露共 4 组, 实际 = %d", got)
	}
}

func TestMarkClaimedTriplet(t *testing.T) {
	groups := []Group{
		{Kind: GroupTriplet, Key: 5, Concealed: true},
		{Kind: GroupRun, Key: 11, Concealed: true},
	}

	got := markClaimedTriplet(groups, 5, false)
	if got[0].Concealed {
		t.Error("点和完成的刻子期望不算暗刻")
	}
	if !groups[0].Concealed {
		t.Error("不应修改输入")
	}

	if got := markClaimedTriplet(groups, 5, true); !got[0].Concealed {
		t.Error("自摸的刻子期望仍是暗刻")
	}

	// 和的牌也能看作完成顺子
	mixed := []Group{
		{Kind: GroupTriplet, Key: 12, Concealed: true},
		{Kind: GroupRun, Key: 11, Concealed: true},
	}
	if got := markClaimedTriplet(mixed, 12, false); !got[0].Concealed {
		t.Error("顺子含和的牌时刻子期望仍是暗刻")
	}
}

func TestLoadFanTableErrors(t *testing.T) {
	rules := []FanRule{{Name: "basic", Shapes: MaskStandard, Count: Bool(func(v *HandView) bool { return true })}}

	if _, err := LoadFanTable([]byte(stubFans), map[string]int{"basic": -1}, rules, nil, nil); err == nil {
		t.Error("负番数期望报错")
	}
	missing := []FanRule{{Name: "unknown", Shapes: MaskStandard, Count: Bool(func(v *HandView) bool { return true })}}
	if _, err := LoadFanTable([]byte(stubFans), nil, missing, nil, nil); err == nil {
		t.Error("缺少权重期望报错")
	}
	if _, err := LoadFanTable([]byte("fans: {}"), nil, rules, nil, nil); err == nil {
		t.Error("空番型表期望报错")
	}
	if _, err := LoadFanTable([]byte("fans: ["), nil, rules, nil, nil); err == nil {
		t.Error("非法 YAML 期望报错")
	}

	ft, err := LoadFanTable([]byte(stubFans), map[string]int{"basic": 5}, rules, nil, nil)
	if err != nil {
		t.Fatalf("LoadFanTable failed: %v", err)
	}
	if ft.Weight("basic") != 5 {
		t.Errorf("期望覆盖为 5, 实际 = %d", ft.Weight("basic"))
	}
}

func TestWithWeightsDoesNotMutate(t *testing.T) {
	rs := newStubRules(t, ShapeFlags{})
	cp := rs.table.WithWeights(map[string]int{"basic": 9})
	if rs.table.Weight("basic") != 1 || cp.Weight("basic") != 9 {
		t.Errorf("期望原表 1 新表 9, 实际 = %d / %d", rs.table.Weight("basic"), cp.Weight("basic"))
	}
}
