package model

import (
	"testing"
	"time"

	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/round"
)

func TestNewHandRecord(t *testing.T) {
	sum := &round.HandSummary{
		HandNo:    3,
		Dealer:    2,
		RoundWind: core.KeySouth,
		Winners:   []round.WinRecord{{Seat: 1, From: 0}},
		Deltas:    []int{-400, 400, 0, 0},
		Scores:    []int{24600, 25400, 25000, 25000},
	}
	now := time.Now()
	rec := NewHandRecord(42, "g1", "beijing", []string{"human", "bot", "bot", "bot"}, sum, now)

	if rec.ID != 42 || rec.HandNo != 3 || rec.RoundWind != "南" {
		t.Errorf("记录字段错误: %+v", rec)
	}
	if len(rec.Players) != 4 {
		t.Fatalf("期望 4 个座位, 实际 = %d", len(rec.Players))
	}
	if !rec.Players[1].Won || rec.Players[0].Won {
		t.Error("只有座位 1 和牌")
	}
	if rec.Players[0].Kind != "human" || rec.Players[0].Delta != -400 || rec.Players[1].Score != 25400 {
		t.Errorf("座位结果错误: %+v", rec.Players)
	}
}
