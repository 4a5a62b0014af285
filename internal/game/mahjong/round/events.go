package round

import "sudooom.mahjong/internal/game/mahjong/core"

// EventType 事件类型
type EventType string

const (
	EventDeal          EventType = "deal"
	EventExcludeSuit   EventType = "exclude_suit"
	EventDraw          EventType = "draw"
	EventKongDraw      EventType = "kong_draw"
	EventDiscard       EventType = "discard"
	EventChow          EventType = "chow"
	EventPong          EventType = "pong"
	EventExposedKong   EventType = "exposed_kong"
	EventConcealedKong EventType = "concealed_kong"
	EventAddedKong     EventType = "added_kong"
	EventRobKongOpen   EventType = "rob_kong_open"
	EventReaction      EventType = "reaction"
	EventWin           EventType = "win"
	EventPayment       EventType = "payment"
	EventExhausted     EventType = "exhausted"
	EventHandComplete  EventType = "hand_complete"
)

// Event 一条对局事件, Seq 在一局内单调递增
type Event struct {
	Seq    int64             `json:"seq"`
	Type   EventType         `json:"type"`
	Seat   int               `json:"seat"`
	Tile   *core.Tile        `json:"tile,omitempty"`
	Claim  string            `json:"claim,omitempty"`
	Result *core.ScoreResult `json:"result,omitempty"`
	Amount int               `json:"amount,omitempty"`
	Target int               `json:"target,omitempty"` // 付款目标座位等
	Phase  Phase             `json:"phase"`            // 事件发生后的阶段
}

// Private 是否只应让本座位看到牌面
func (e Event) Private() bool {
	return e.Type == EventDraw || e.Type == EventKongDraw || e.Type == EventDeal
}

func (s *RoundState) emit(e Event) {
	s.Seq++
	e.Seq = s.Seq
	e.Phase = s.Phase
	s.Events = append(s.Events, e)
}

func tilePtr(t core.Tile) *core.Tile {
	return &t
}
