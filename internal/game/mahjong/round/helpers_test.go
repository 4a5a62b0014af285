package round

import (
	"testing"

	"sudooom.mahjong/internal/game/mahjong/beijing"
	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/sichuan"
)

func newBeijing(t *testing.T) *Engine {
	t.Helper()
	rs, err := beijing.New(nil)
	if err != nil {
		t.Fatalf("beijing.New failed: %v", err)
	}
	return NewEngine(rs, Config{})
}

func newSichuan(t *testing.T) *Engine {
	t.Helper()
	rs, err := sichuan.New(nil)
	if err != nil {
		t.Fatalf("sichuan.New failed: %v", err)
	}
	return NewEngine(rs, Config{})
}

// stackDeck 按指定的起手牌与摸牌顺序排好一副牌, 庄家为座位 0
// hands 为四家起手牌, draws 为之后从牌墙前端依次摸到的牌, tail 为杠后依次补到的牌
func stackDeck(t *testing.T, e *Engine, hands [Players]string, draws, tail string) []core.Tile {
	t.Helper()
	pool := core.CreateDeck(e.Rules())
	take := func(s string) []core.Tile {
		var out []core.Tile
		for _, want := range core.MustParseTiles(s) {
			idx := -1
			for i, p := range pool {
				if p.Equal(want) {
					idx = i
					break
				}
			}
			if idx < 0 {
				t.Fatalf("牌 %v 不够用", want)
			}
			out = append(out, pool[idx])
			pool = append(pool[:idx], pool[idx+1:]...)
		}
		return out
	}

	dealt := make([][]core.Tile, Players)
	for seat, h := range hands {
		dealt[seat] = take(h)
		if len(dealt[seat]) != HandSize {
			t.Fatalf("座位 %d 起手 %d 张", seat, len(dealt[seat]))
		}
	}
	front := take(draws)
	back := take(tail)

	deck := make([]core.Tile, 0, len(pool)+HandSize*Players+len(front)+len(back))
	for i := 0; i < HandSize; i++ {
		for seat := 0; seat < Players; seat++ {
			deck = append(deck, dealt[seat][i])
		}
	}
	deck = append(deck, front...)
	deck = append(deck, pool...)
	for i := len(back) - 1; i >= 0; i-- {
		deck = append(deck, back[i])
	}
	return deck
}

func newStackedRound(t *testing.T, e *Engine, hands [Players]string, draws, tail string) *RoundState {
	t.Helper()
	s, err := e.NewRound(stackDeck(t, e, hands, draws, tail), 0, core.KeyEast, nil)
	if err != nil {
		t.Fatalf("NewRound failed: %v", err)
	}
	return s
}

// pongFromHand 把座位手中的三张牌直接变成碰出的副露, 用于构造中盘局面
func pongFromHand(t *testing.T, s *RoundState, seat int, key core.TileKey, from int) {
	t.Helper()
	p := s.Player(seat)
	var meld []core.Tile
	rest := make([]core.Tile, 0, len(p.Hand))
	for _, h := range p.Hand {
		if h.Key() == key && len(meld) < 3 {
			meld = append(meld, h)
			continue
		}
		rest = append(rest, h)
	}
	if len(meld) != 3 {
		t.Fatalf("座位 %d 没有三张 %v", seat, key)
	}
	p.Hand = rest
	p.Melds = append(p.Melds, core.Meld{Type: core.MeldTypePong, Tiles: meld, FromSeat: from})
}

func tileOf(t *testing.T, s *RoundState, seat int, notation string) core.Tile {
	t.Helper()
	want := core.MustParseTiles(notation)[0]
	for _, h := range s.Player(seat).Hand {
		if h.Equal(want) {
			return h
		}
	}
	t.Fatalf("座位 %d 手中没有 %s", seat, notation)
	return core.Tile{}
}

func assertInvariants(t *testing.T, e *Engine, s *RoundState) {
	t.Helper()
	if err := CheckConservation(s, e.Rules()); err != nil {
		t.Fatalf("牌数守恒失败: %v", err)
	}
	if got := TotalScore(s); got != Players*e.Config().StartingScore {
		t.Fatalf("期望总分 %d, 实际 = %d", Players*e.Config().StartingScore, got)
	}
}
