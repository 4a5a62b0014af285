package model

import (
	"time"

	"sudooom.mahjong/internal/game/mahjong/round"
)

// HandRecord 一局结束后的记录
type HandRecord struct {
	ID         int64             `json:"id"` // 雪花ID
	GameID     string            `json:"gameId"`
	GameType   string            `json:"gameType"`
	HandNo     int               `json:"handNo"`
	Dealer     int               `json:"dealer"`
	RoundWind  string            `json:"roundWind"`
	Exhausted  bool              `json:"exhausted"`
	Winners    []round.WinRecord `json:"winners"`
	Players    []PlayerResult    `json:"players"`
	FinishedAt time.Time         `json:"finishedAt"`
}

// PlayerResult 一个座位在一局中的结果
type PlayerResult struct {
	Seat  int    `json:"seat"`
	Kind  string `json:"kind"` // human / bot
	Delta int    `json:"delta"`
	Score int    `json:"score"`
	Won   bool   `json:"won"`
}

// NewHandRecord 由一局摘要生成记录
func NewHandRecord(id int64, gameID, gameType string, kinds []string, sum *round.HandSummary, finishedAt time.Time) *HandRecord {
	rec := &HandRecord{
		ID:         id,
		GameID:     gameID,
		GameType:   gameType,
		HandNo:     sum.HandNo,
		Dealer:     sum.Dealer,
		RoundWind:  sum.RoundWind.String(),
		Exhausted:  sum.Exhausted,
		Winners:    sum.Winners,
		FinishedAt: finishedAt,
	}
	won := make(map[int]bool, len(sum.Winners))
	for _, w := range sum.Winners {
		won[w.Seat] = true
	}
	for seat := range sum.Deltas {
		p := PlayerResult{Seat: seat, Delta: sum.Deltas[seat], Score: sum.Scores[seat], Won: won[seat]}
		if seat < len(kinds) {
			p.Kind = kinds[seat]
		}
		rec.Players = append(rec.Players, p)
	}
	return rec
}
