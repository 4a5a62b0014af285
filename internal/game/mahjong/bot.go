package mahjong

import (
	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/evaluator"
	"sudooom.mahjong/internal/game/mahjong/round"
	"sudooom.mahjong/internal/game/mahjong/sichuan"
)

// PendingSeats 当前需要操作的座位
// 定缺阶段为所有未定缺的座位, 响应阶段为还没表态的座位, 其余为当前轮到的座位
func PendingSeats(s *round.RoundState) []int {
	switch s.Phase {
	case round.PhaseExclude:
		var seats []int
		for _, p := range s.Players {
			if p.ExcludedSuit == core.NoSuit {
				seats = append(seats, p.Seat)
			}
		}
		return seats
	case round.PhaseReaction, round.PhaseRobKong:
		if s.Window == nil {
			return nil
		}
		return s.Window.Pending()
	case round.PhaseDraw, round.PhaseSelfWinCheck, round.PhaseDiscard:
		return []int{s.Turn}
	default:
		return nil
	}
}

// Decide 机器人在当前局面下的操作; 该座位无事可做时返回 false
func Decide(e *round.Engine, ev *evaluator.Evaluator, s *round.RoundState, seat int) (Move, bool) {
	p := s.Player(seat)
	if p == nil {
		return Move{}, false
	}

	switch s.Phase {
	case round.PhaseExclude:
		if p.ExcludedSuit != core.NoSuit {
			return Move{}, false
		}
		return Move{Type: MoveExcludeSuit, Suit: sichuan.SuggestExcludedSuit(p.Hand).Letter()}, true
	case round.PhaseDraw:
		if seat != s.Turn {
			return Move{}, false
		}
		return Move{Type: MoveDraw}, true
	case round.PhaseSelfWinCheck:
		if seat != s.Turn {
			return Move{}, false
		}
		return selfTurn(e, ev, s, p), true
	case round.PhaseDiscard:
		if seat != s.Turn {
			return Move{}, false
		}
		return bestDiscard(ev, s, p), true
	case round.PhaseReaction, round.PhaseRobKong:
		return react(e, ev, s, p)
	default:
		return Move{}, false
	}
}

func selfTurn(e *round.Engine, ev *evaluator.Evaluator, s *round.RoundState, p *round.PlayerState) Move {
	opts := e.SelfOptions(s)
	if opts == nil {
		return bestDiscard(ev, s, p)
	}
	if opts.CanSelfWin && ev.ShouldWin(p.Hand, p.Melds, e.PreviewWin(s, p.Seat)) {
		return Move{Type: MoveSelfWin}
	}
	for _, k := range opts.ConcealedKongs {
		if ev.AdviseConcealedKong(p.Hand, p.Melds, k.Key()) {
			return Move{Type: MoveConcealedKong, Tile: core.FormatTiles([]core.Tile{k})}
		}
	}
	for _, k := range opts.AddedKongs {
		if ev.AdviseAddedKong(p.Hand, p.Melds, k.Key()) {
			return Move{Type: MoveAddedKong, Tile: core.FormatTiles([]core.Tile{k})}
		}
	}
	return bestDiscard(ev, s, p)
}

func bestDiscard(ev *evaluator.Evaluator, s *round.RoundState, p *round.PlayerState) Move {
	ranked := ev.RankDiscards(p.Hand, p.Melds, Visibility(s, p.Seat))
	return DiscardMove(ranked[0].Tile)
}

func react(e *round.Engine, ev *evaluator.Evaluator, s *round.RoundState, p *round.PlayerState) (Move, bool) {
	w := s.Window
	if w == nil {
		return Move{}, false
	}
	el, ok := w.EligibleFor(p.Seat)
	if !ok {
		return Move{}, false
	}
	for _, seat := range w.Pending() {
		if seat != p.Seat {
			continue
		}
		if el.Win && ev.ShouldWin(append(core.CloneTiles(p.Hand), w.Tile), p.Melds, e.PreviewWin(s, p.Seat)) {
			return Move{Type: MoveReact, Claim: core.ClaimWin.String()}, true
		}
		claim, chow := ev.AdviseClaim(p.Hand, p.Melds, w.Tile, w.From, evaluator.ClaimOptions{
			Kong:  el.Kong,
			Pong:  el.Pong,
			Chows: el.Chows,
		})
		return ReactMove(round.Decision{Claim: claim, Chow: chow}), true
	}
	return Move{}, false
}

// Visibility 某个座位能看到的场面: 全场弃牌与副露, 对手各自的弃牌
func Visibility(s *round.RoundState, seat int) evaluator.Visibility {
	view := evaluator.Visibility{ExcludedSuit: core.NoSuit}
	var seen []core.Tile
	for _, rec := range s.History {
		view.Discards = append(view.Discards, rec.Tile)
	}
	for _, p := range s.Players {
		seen = append(seen, p.Discards...)
		for _, m := range p.Melds {
			seen = append(seen, m.Tiles...)
		}
		if p.Seat == seat {
			view.ExcludedSuit = p.ExcludedSuit
			continue
		}
		view.OpponentRecent = append(view.OpponentRecent, p.Discards)
	}
	view.Visible = core.CountsOf(seen)
	return view
}
