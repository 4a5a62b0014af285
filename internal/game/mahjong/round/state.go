package round

import (
	"sudooom.mahjong/internal/game/mahjong/core"
)

// Phase 一局中的阶段
type Phase string

const (
	PhaseExclude      Phase = "exclude"        // 定缺 (仅需要定缺的规则)
	PhaseDraw         Phase = "draw"           // 等待当前座位摸牌
	PhaseSelfWinCheck Phase = "self_win_check" // 摸牌后: 可自摸, 暗杠, 加杠或打牌
	PhaseDiscard      Phase = "discard"        // 吃碰后只能打牌
	PhaseReaction     Phase = "reaction"       // 等待其他座位对打出的牌表态
	PhaseRobKong      Phase = "rob_kong"       // 加杠时等待抢杠
	PhaseHandComplete Phase = "hand_complete"  // 有人和牌结束
	PhaseExhausted    Phase = "exhausted"      // 流局
)

// Terminal 是否已结束
func (p Phase) Terminal() bool {
	return p == PhaseHandComplete || p == PhaseExhausted
}

// PlayerState 一个座位的状态
type PlayerState struct {
	Seat         int           `json:"seat"`
	Hand         []core.Tile   `json:"hand"`
	Melds        []core.Meld   `json:"melds"`
	Discards     []core.Tile   `json:"discards"` // 面前的弃牌, 被吃碰杠和的牌会移走
	Score        int           `json:"score"`
	SeatWind     core.TileKey  `json:"seatWind"`
	ExcludedSuit core.TileSuit `json:"excludedSuit"`
	Won          bool          `json:"won"`
	Draws        int           `json:"draws"` // 本局摸牌次数 (不含杠后补牌)
}

func (p PlayerState) clone() PlayerState {
	p.Hand = core.CloneTiles(p.Hand)
	p.Melds = core.CloneMelds(p.Melds)
	p.Discards = core.CloneTiles(p.Discards)
	return p
}

// Wall 牌墙: 正常摸牌从 Cursor 往后, 杠后补牌从 Tail 往前
type Wall struct {
	Tiles  []core.Tile `json:"tiles"`
	Cursor int         `json:"cursor"`
	Tail   int         `json:"tail"` // 剩余区间为 [Cursor, Tail)
}

// Remaining 剩余张数
func (w *Wall) Remaining() int {
	return w.Tail - w.Cursor
}

// Live 剩余的牌
func (w *Wall) Live() []core.Tile {
	return w.Tiles[w.Cursor:w.Tail]
}

func (w *Wall) drawFront() (core.Tile, bool) {
	if w.Remaining() <= 0 {
		return core.Tile{}, false
	}
	t := w.Tiles[w.Cursor]
	w.Cursor++
	return t, true
}

func (w *Wall) drawBack() (core.Tile, bool) {
	if w.Remaining() <= 0 {
		return core.Tile{}, false
	}
	w.Tail--
	return w.Tiles[w.Tail], true
}

// WindowKind 响应窗口的来源
type WindowKind string

const (
	WindowDiscard WindowKind = "discard"  // 打出的牌
	WindowRobKong WindowKind = "rob_kong" // 加杠的牌
)

// Eligible 一个可以响应的座位及其可选项
type Eligible struct {
	Seat  int               `json:"seat"`
	Win   bool              `json:"win"`
	Kong  bool              `json:"kong"`
	Pong  bool              `json:"pong"`
	Chows []core.ChowOption `json:"chows,omitempty"`
}

// Allows 是否允许该响应
func (e Eligible) Allows(d Decision) bool {
	switch d.Claim {
	case core.ClaimPass:
		return true
	case core.ClaimWin:
		return e.Win
	case core.ClaimKong:
		return e.Kong
	case core.ClaimPong:
		return e.Pong
	case core.ClaimChow:
		for _, o := range e.Chows {
			if o == d.Chow {
				return true
			}
		}
	}
	return false
}

// Strongest 该座位可做的优先级最高的声明
func (e Eligible) Strongest() core.ClaimType {
	switch {
	case e.Win:
		return core.ClaimWin
	case e.Kong:
		return core.ClaimKong
	case e.Pong:
		return core.ClaimPong
	case len(e.Chows) > 0:
		return core.ClaimChow
	}
	return core.ClaimPass
}

// ReactionWindow 等待响应的窗口
type ReactionWindow struct {
	Kind     WindowKind       `json:"kind"`
	Tile     core.Tile        `json:"tile"`
	From     int              `json:"from"`
	Eligible []Eligible       `json:"eligible"`
	Answers  []core.Candidate `json:"answers"`
}

// Pending 还没表态的座位
func (w *ReactionWindow) Pending() []int {
	var seats []int
	for _, e := range w.Eligible {
		if !w.answered(e.Seat) {
			seats = append(seats, e.Seat)
		}
	}
	return seats
}

// EligibleFor 某个座位可做的响应
func (w *ReactionWindow) EligibleFor(seat int) (Eligible, bool) {
	for _, e := range w.Eligible {
		if e.Seat == seat {
			return e, true
		}
	}
	return Eligible{}, false
}

func (w *ReactionWindow) answered(seat int) bool {
	for _, a := range w.Answers {
		if a.Seat == seat {
			return true
		}
	}
	return false
}

func (w *ReactionWindow) clone() *ReactionWindow {
	if w == nil {
		return nil
	}
	cp := *w
	cp.Eligible = make([]Eligible, len(w.Eligible))
	for i, e := range w.Eligible {
		e.Chows = append([]core.ChowOption(nil), e.Chows...)
		cp.Eligible[i] = e
	}
	cp.Answers = append([]core.Candidate(nil), w.Answers...)
	return &cp
}

// PendingKong 被抢杠窗口挂起的加杠
type PendingKong struct {
	Seat   int                   `json:"seat"`
	Result *core.AddedKongResult `json:"result"`
}

// Decision 对响应窗口的表态
type Decision struct {
	Claim core.ClaimType  `json:"claim"`
	Chow  core.ChowOption `json:"chow"`
}

// Pass 过
var Pass = Decision{Claim: core.ClaimPass}

// WinRecord 一次和牌
type WinRecord struct {
	Seat   int               `json:"seat"`
	From   int               `json:"from"` // 点炮座位, 自摸为 -1
	Tile   core.Tile         `json:"tile"`
	Result *core.ScoreResult `json:"result"`
}

// Payment 一笔分数转移
type Payment struct {
	From   int    `json:"from"`
	To     int    `json:"to"`
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

// RoundState 一局的完整状态, 由调用方持有
type RoundState struct {
	RuleName         string          `json:"ruleName"`
	Players          []PlayerState   `json:"players"`
	Wall             Wall            `json:"wall"`
	Dealer           int             `json:"dealer"`
	RoundWind        core.TileKey    `json:"roundWind"`
	Turn             int             `json:"turn"`
	Phase            Phase           `json:"phase"`
	History          []DiscardRecord `json:"history"`
	Window           *ReactionWindow `json:"window,omitempty"`
	PendingKong      *PendingKong    `json:"pendingKong,omitempty"`
	LastDrawn        *core.Tile      `json:"lastDrawn,omitempty"`
	AfterKong        bool            `json:"afterKong"`        // 当前座位刚杠后补牌
	AfterKongDiscard bool            `json:"afterKongDiscard"` // 当前窗口的牌是杠后打出的
	Claims           int             `json:"claims"`           // 吃碰杠次数, 判定地和用
	Winners          []WinRecord     `json:"winners"`
	Payments         []Payment       `json:"payments"`
	Events           []Event         `json:"events"`
	Seq              int64           `json:"seq"`
}

// DiscardRecord 出牌记录
type DiscardRecord struct {
	Seat int       `json:"seat"`
	Tile core.Tile `json:"tile"`
}

// Player 返回座位状态的指针
func (s *RoundState) Player(seat int) *PlayerState {
	if seat < 0 || seat >= len(s.Players) {
		return nil
	}
	return &s.Players[seat]
}

// PlayerCount 座位数
func (s *RoundState) PlayerCount() int {
	return len(s.Players)
}

// ActiveSeats 还没和牌的座位数
func (s *RoundState) ActiveSeats() int {
	n := 0
	for _, p := range s.Players {
		if !p.Won {
			n++
		}
	}
	return n
}

// EventsSince 序号大于 seq 的事件
func (s *RoundState) EventsSince(seq int64) []Event {
	for i, e := range s.Events {
		if e.Seq > seq {
			return append([]Event(nil), s.Events[i:]...)
		}
	}
	return nil
}

// Clone 深拷贝, 用于快照
func (s *RoundState) Clone() *RoundState {
	cp := *s
	cp.Players = make([]PlayerState, len(s.Players))
	for i, p := range s.Players {
		cp.Players[i] = p.clone()
	}
	cp.Wall.Tiles = core.CloneTiles(s.Wall.Tiles)
	cp.History = append([]DiscardRecord(nil), s.History...)
	cp.Window = s.Window.clone()
	if s.PendingKong != nil {
		pk := *s.PendingKong
		if pk.Result != nil {
			r := *pk.Result
			r.Hand = core.CloneTiles(r.Hand)
			r.Melds = core.CloneMelds(r.Melds)
			pk.Result = &r
		}
		cp.PendingKong = &pk
	}
	if s.LastDrawn != nil {
		t := *s.LastDrawn
		cp.LastDrawn = &t
	}
	cp.Winners = append([]WinRecord(nil), s.Winners...)
	cp.Payments = append([]Payment(nil), s.Payments...)
	cp.Events = append([]Event(nil), s.Events...)
	return &cp
}
