package beijing

import (
	"testing"

	"sudooom.mahjong/internal/game/mahjong/core"
)

func newRules(t *testing.T) *Rules {
	t.Helper()
	rs, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return rs
}

func hasFan(res *core.ScoreResult, name string) bool {
	for _, f := range res.Fans {
		if f.Name == name {
			return true
		}
	}
	return false
}

func score(t *testing.T, rs *Rules, hand string, ctx core.ScoreContext) *core.ScoreResult {
	t.Helper()
	tiles := core.MustParseTiles(hand)
	res := core.Score(rs, tiles, nil, tiles[len(tiles)-1], ctx)
	if res == nil {
		t.Fatalf("%s 期望和牌", hand)
	}
	if res.Err != nil {
		t.Fatalf("%s 计番失败: %v", hand, res.Err)
	}
	return res
}

func TestDeck(t *testing.T) {
	rs := newRules(t)
	if got := len(core.CreateDeck(rs)); got != 136 {
		t.Errorf("期望 136 张, 实际 = %d", got)
	}
}

// TestSeatWindTriplet 门风刻子记番牌
func TestSeatWindTriplet(t *testing.T) {
	rs := newRules(t)
	res := score(t, rs, "123m456m777s111z44z", core.ScoreContext{SeatWind: core.KeyEast, RoundWind: core.KeySouth})
	if !hasFan(res, "fanpai") {
		t.Errorf("期望有番牌, 实际 = %+v", res.Fans)
	}
	if res.Total != 2 {
		t.Errorf("期望 2 番, 实际 = %d", res.Total)
	}

	// 门风与圈风相同只记一次
	res = score(t, rs, "123m456m777s111z44z", core.ScoreContext{SeatWind: core.KeyEast, RoundWind: core.KeyEast})
	if res.Total != 2 {
		t.Errorf("期望仍为 2 番, 实际 = %d", res.Total)
	}

	// 非门风非圈风的风刻不算
	res = score(t, rs, "123m456m777s111z44z", core.ScoreContext{SeatWind: core.KeyWest, RoundWind: core.KeySouth})
	if hasFan(res, "fanpai") {
		t.Error("期望没有番牌")
	}
}

// TestSevenPairsNoGroupFans 七对不计与组相关的番
func TestSevenPairsNoGroupFans(t *testing.T) {
	rs := newRules(t)
	res := score(t, rs, "1133m5577s224499p", core.ScoreContext{})
	if res.Shape != core.ShapeSevenPairs {
		t.Fatalf("期望七对, 实际 = %v", res.Shape)
	}
	for _, name := range []string{"duidui", "pinghu", "fanpai", "yibeikou"} {
		if hasFan(res, name) {
			t.Errorf("七对不应计 %s", name)
		}
	}
	if !hasFan(res, "qidui") || res.Total != 2 {
		t.Errorf("期望七对 2 番, 实际 = %+v", res.Fans)
	}
}

func TestFans(t *testing.T) {
	rs := newRules(t)
	tests := []struct {
		name string
		hand string
		ctx  core.ScoreContext
		fans []string
	}{
		{"清一色", "11123455678999m", core.ScoreContext{}, []string{"qingyi", "pinghu"}},
		{"混一色", "123456m789m111z22z", core.ScoreContext{}, []string{"hunyi"}},
		{"断幺七对", "2233m4455s6677p88m", core.ScoreContext{}, []string{"qidui", "duanyao"}},
		{"对对和", "111m222s333p999m55z", core.ScoreContext{}, []string{"duidui", "sanAnke"}},
		{"大三元", "555666777z123m99p", core.ScoreContext{}, []string{"daSanYuan", "fanpai"}},
		{"小三元", "555666z77z123m456p", core.ScoreContext{}, []string{"xiaoSanYuan"}},
		{"一杯口", "112233m456s789p11z", core.ScoreContext{}, []string{"yibeikou"}},
		{"字一色", "111222333444z55z", core.ScoreContext{}, []string{"ziYiSe", "daSiXi"}},
		{"自摸", "123m456m789s11p234p", core.ScoreContext{SelfDrawn: true}, []string{"zimo"}},
		{"杠上开花", "123m456m789s11p234p", core.ScoreContext{SelfDrawn: true, AfterKong: true}, []string{"gangShangHua"}},
		{"海底", "123m456m789s11p234p", core.ScoreContext{LastTile: true}, []string{"haidi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := score(t, rs, tt.hand, tt.ctx)
			for _, name := range tt.fans {
				if !hasFan(res, name) {
					t.Errorf("期望有 %s, 实际 = %+v", name, res.Fans)
				}
			}
		})
	}
}

func TestDuiduiReplacesPinghu(t *testing.T) {
	rs := newRules(t)
	res := score(t, rs, "111m222s333p999m55z", core.ScoreContext{})
	if hasFan(res, "pinghu") {
		t.Error("对对和期望取代平胡")
	}
}

func TestThirteenOrphansLimit(t *testing.T) {
	rs := newRules(t)
	res := score(t, rs, "19m19s19p12345677z", core.ScoreContext{SelfDrawn: true})
	if len(res.Fans) != 1 || res.Fans[0].Name != "shiSanYao" || res.Total != 88 {
		t.Errorf("期望十三幺 88 番封顶, 实际 = %+v", res.Fans)
	}
	if res.BaseValue != 8800 {
		t.Errorf("期望 8800 分, 实际 = %d", res.BaseValue)
	}
}

func TestOverrides(t *testing.T) {
	rs, err := New(map[string]int{"qidui": 5})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if rs.FanTable().Weight("qidui") != 5 {
		t.Errorf("期望覆盖为 5, 实际 = %d", rs.FanTable().Weight("qidui"))
	}
	if _, err := New(map[string]int{"qidui": -1}); err == nil {
		t.Error("负番数期望报错")
	}
}

func TestTitles(t *testing.T) {
	rs := newRules(t)
	res := score(t, rs, "1133m5577s224499p", core.ScoreContext{})
	if res.Fans[0].Title != "七对" {
		t.Errorf("期望显示名 七对, 实际 = %q", res.Fans[0].Title)
	}
}
