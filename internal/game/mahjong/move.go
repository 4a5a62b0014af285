package mahjong

import (
	"fmt"

	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/round"
)

// MoveType 操作类型
type MoveType string

const (
	MoveExcludeSuit   MoveType = "exclude_suit"   // 定缺
	MoveDraw          MoveType = "draw"           // 摸牌
	MoveSelfWin       MoveType = "self_win"       // 自摸
	MoveConcealedKong MoveType = "concealed_kong" // 暗杠
	MoveAddedKong     MoveType = "added_kong"     // 加杠
	MoveDiscard       MoveType = "discard"        // 打牌
	MoveReact         MoveType = "react"          // 对打出或加杠的牌表态
)

// Move 一个座位提交的操作, 牌都用简写记法
type Move struct {
	Type  MoveType `json:"type" binding:"required"`
	Suit  string   `json:"suit,omitempty"`  // 定缺花色 m/s/p
	Tile  string   `json:"tile,omitempty"`  // 打出或开杠的牌, 如 "5m"
	Claim string   `json:"claim,omitempty"` // pass/chow/pong/kong/win
	Chow  string   `json:"chow,omitempty"`  // 吃法, 如 "345m"
}

// String 日志用
func (m Move) String() string {
	switch m.Type {
	case MoveExcludeSuit:
		return fmt.Sprintf("%s(%s)", m.Type, m.Suit)
	case MoveReact:
		if m.Chow != "" {
			return fmt.Sprintf("%s(%s %s)", m.Type, m.Claim, m.Chow)
		}
		return fmt.Sprintf("%s(%s)", m.Type, m.Claim)
	case MoveDraw, MoveSelfWin:
		return string(m.Type)
	default:
		return fmt.Sprintf("%s(%s)", m.Type, m.Tile)
	}
}

// PassMove 过
var PassMove = Move{Type: MoveReact, Claim: core.ClaimPass.String()}

// DiscardMove 打出一张牌
func DiscardMove(t core.Tile) Move {
	return Move{Type: MoveDiscard, Tile: core.FormatTiles([]core.Tile{t})}
}

// ReactMove 表态
func ReactMove(d round.Decision) Move {
	m := Move{Type: MoveReact, Claim: d.Claim.String()}
	if d.Claim == core.ClaimChow {
		m.Chow = core.FormatTiles([]core.Tile{d.Chow[0].Tile(), d.Chow[1].Tile(), d.Chow[2].Tile()})
	}
	return m
}

// ErrUnknownMove 未知的操作类型
var ErrUnknownMove = core.NewGameError("UNKNOWN_MOVE", "未知的操作类型")

// Apply 把操作交给引擎执行; 执行失败时状态不变
func Apply(e *round.Engine, s *round.RoundState, seat int, m Move) error {
	switch m.Type {
	case MoveExcludeSuit:
		suit, err := core.ParseSuit(m.Suit)
		if err != nil {
			return err
		}
		return e.ChooseExcludedSuit(s, seat, suit)
	case MoveDraw:
		if seat != s.Turn {
			return core.ErrNotYourTurn.WithContext("seat", seat)
		}
		_, err := e.Draw(s)
		return err
	case MoveSelfWin:
		_, err := e.DeclareSelfWin(s, seat)
		return err
	case MoveConcealedKong, MoveAddedKong, MoveDiscard:
		t, err := core.ParseTile(m.Tile)
		if err != nil {
			return err
		}
		switch m.Type {
		case MoveConcealedKong:
			return e.DeclareConcealedKong(s, seat, t.Key())
		case MoveAddedKong:
			return e.DeclareAddedKong(s, seat, t.Key())
		default:
			return e.Discard(s, seat, t)
		}
	case MoveReact:
		d, err := parseDecision(m)
		if err != nil {
			return err
		}
		return e.React(s, seat, d)
	default:
		return ErrUnknownMove.WithContext("type", string(m.Type))
	}
}

func parseDecision(m Move) (round.Decision, error) {
	claim, err := core.ParseClaim(m.Claim)
	if err != nil {
		return round.Decision{}, err
	}
	d := round.Decision{Claim: claim}
	if claim == core.ClaimChow {
		d.Chow, err = core.ParseChow(m.Chow)
		if err != nil {
			return round.Decision{}, err
		}
	}
	return d, nil
}
