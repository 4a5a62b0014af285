package mahjong

import (
	"testing"

	"sudooom.mahjong/internal/game/mahjong/round"
)

func newService(t *testing.T) *MahjongService {
	t.Helper()
	return NewMahjongService(Config{Round: round.DefaultConfig()}, nil)
}

func TestParseGameType(t *testing.T) {
	for _, s := range []string{"beijing", "sichuan"} {
		got, err := ParseGameType(s)
		if err != nil || string(got) != s {
			t.Errorf("ParseGameType(%s) 期望成功, 实际 = %v, %v", s, got, err)
		}
	}
	if _, err := ParseGameType("huitong"); err == nil {
		t.Error("不支持的玩法期望失败")
	}
}

func TestCreateEngine(t *testing.T) {
	svc := newService(t)

	e, err := svc.CreateEngine(GameTypeSichuan)
	if err != nil {
		t.Fatalf("CreateEngine failed: %v", err)
	}
	if e.Rules().Name() != "sichuan" {
		t.Errorf("期望规则 sichuan, 实际 = %s", e.Rules().Name())
	}
	if _, err := svc.CreateEngine("taihu"); err == nil {
		t.Error("不支持的玩法期望失败")
	}

	a, _ := svc.RuleSet(GameTypeBeijing)
	b, _ := svc.RuleSet(GameTypeBeijing)
	if a != b {
		t.Error("同一玩法的规则集应被缓存")
	}
}

func TestUpdateOverrides(t *testing.T) {
	svc := newService(t)
	before, err := svc.RuleSet(GameTypeSichuan)
	if err != nil {
		t.Fatalf("RuleSet failed: %v", err)
	}
	if before.FanTable().Weight("qingyi") != 4 {
		t.Fatalf("期望清一色默认 4 番, 实际 = %d", before.FanTable().Weight("qingyi"))
	}

	svc.UpdateOverrides(map[string]map[string]int{"sichuan": {"qingyi": 6}})
	after, err := svc.RuleSet(GameTypeSichuan)
	if err != nil {
		t.Fatalf("RuleSet failed: %v", err)
	}
	if after.FanTable().Weight("qingyi") != 6 {
		t.Errorf("覆盖后期望 6 番, 实际 = %d", after.FanTable().Weight("qingyi"))
	}
	if before.FanTable().Weight("qingyi") != 4 {
		t.Error("已经创建的规则集不应被修改")
	}
}
