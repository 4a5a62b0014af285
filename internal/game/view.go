package game

import (
	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/round"
)

// Spectator 旁观视角, 看不到任何人的手牌
const Spectator = -1

// PlayerView 一个座位对外可见的信息
type PlayerView struct {
	Seat         int         `json:"seat"`
	Kind         SeatKind    `json:"kind"`
	Hand         string      `json:"hand,omitempty"` // 只有本人能看到
	HandCount    int         `json:"handCount"`
	Melds        []core.Meld `json:"melds"`
	Discards     string      `json:"discards"`
	Score        int         `json:"score"`
	SeatWind     string      `json:"seatWind"`
	ExcludedSuit string      `json:"excludedSuit,omitempty"`
	Won          bool        `json:"won"`
}

// WindowView 响应窗口
type WindowView struct {
	Kind    round.WindowKind `json:"kind"`
	Tile    string           `json:"tile"`
	From    int              `json:"from"`
	Pending []int            `json:"pending"`
	Options *round.Eligible  `json:"options,omitempty"` // 观看者自己的可选项
}

// GameView 某个座位视角下的牌桌
type GameView struct {
	ID            string            `json:"id"`
	GameType      string            `json:"gameType"`
	Viewer        int               `json:"viewer"`
	HandNo        int               `json:"handNo"`
	Dealer        int               `json:"dealer"`
	RoundWind     string            `json:"roundWind"`
	Phase         round.Phase       `json:"phase"`
	Turn          int               `json:"turn"`
	WallRemaining int               `json:"wallRemaining"`
	Players       []PlayerView      `json:"players"`
	Window        *WindowView       `json:"window,omitempty"`
	SelfOptions   *round.DrawResult `json:"selfOptions,omitempty"`
	Winners       []round.WinRecord `json:"winners"`
	Seq           int64             `json:"seq"`
	Finished      bool              `json:"finished"`
}

// View 生成某个座位视角的牌桌, viewer 为 Spectator 时是旁观视角
func (g *Game) View(viewer int) *GameView {
	s := g.engine.GetState()
	sess := g.engine.GetSession()

	v := &GameView{
		ID:       g.id,
		GameType: string(g.GameType()),
		Viewer:   viewer,
		Finished: sess.Finished,
	}
	if s == nil {
		return v
	}
	v.HandNo = sess.HandNo
	if s.Phase.Terminal() && len(sess.Hands) > 0 {
		v.HandNo = sess.Hands[len(sess.Hands)-1].HandNo
	}
	v.Dealer = s.Dealer
	v.RoundWind = s.RoundWind.String()
	v.Phase = s.Phase
	v.Turn = s.Turn
	v.WallRemaining = s.Wall.Remaining()
	v.Winners = s.Winners
	v.Seq = s.Seq

	for _, p := range s.Players {
		pv := PlayerView{
			Seat:         p.Seat,
			Kind:         g.SeatKind(p.Seat),
			HandCount:    len(p.Hand),
			Melds:        p.Melds,
			Discards:     core.FormatTiles(p.Discards),
			Score:        p.Score,
			SeatWind:     p.SeatWind.String(),
			ExcludedSuit: p.ExcludedSuit.Letter(),
			Won:          p.Won,
		}
		if p.Seat == viewer {
			pv.Hand = core.FormatTiles(p.Hand)
		}
		v.Players = append(v.Players, pv)
	}

	if w := s.Window; w != nil {
		wv := &WindowView{
			Kind:    w.Kind,
			Tile:    core.FormatTiles([]core.Tile{w.Tile}),
			From:    w.From,
			Pending: w.Pending(),
		}
		if el, ok := w.EligibleFor(viewer); ok {
			wv.Options = &el
		}
		v.Window = wv
	}
	if viewer == s.Turn && s.Phase == round.PhaseSelfWinCheck {
		v.SelfOptions = g.engine.SelfOptions()
	}
	return v
}
