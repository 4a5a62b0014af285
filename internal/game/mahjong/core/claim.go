package core

import "sort"

// ClaimType 对打出牌的响应类型
type ClaimType int8

const (
	ClaimPass ClaimType = iota // 过
	ClaimChow                  // 吃
	ClaimPong                  // 碰
	ClaimKong                  // 杠
	ClaimWin                   // 和
)

// String 返回响应类型名
func (c ClaimType) String() string {
	switch c {
	case ClaimPass:
		return "pass"
	case ClaimChow:
		return "chow"
	case ClaimPong:
		return "pong"
	case ClaimKong:
		return "kong"
	case ClaimWin:
		return "win"
	default:
		return "unknown"
	}
}

// Priority 优先级: 和 > 杠 > 碰 > 吃 > 过
func (c ClaimType) Priority() int {
	return int(c)
}

// Candidate 一个座位对打出牌的声明
type Candidate struct {
	Seat  int        `json:"seat"`
	Claim ClaimType  `json:"claim"`
	Chow  ChowOption `json:"chow"` // 仅吃时有效
}

// CanChow 返回所有可行的吃法, 只有打牌者的下家可以吃
func CanChow(hand []Tile, tile Tile, seat, discarder, players int) []ChowOption {
	if players <= 0 || seat != (discarder+1)%players {
		return nil
	}
	k := tile.Key()
	if !k.Suit().IsNumber() {
		return nil
	}
	c := CountsOf(hand)
	var opts []ChowOption
	for start := k - 2; start <= k; start++ {
		opt := ChowOption{start, start + 1, start + 2}
		if !opt.Valid() {
			continue
		}
		ok := true
		for _, x := range opt {
			if x != k && c[x] == 0 {
				ok = false
				break
			}
		}
		if ok {
			opts = append(opts, opt)
		}
	}
	return opts
}

// CanPong 手中是否有两张同样的牌
func CanPong(hand []Tile, tile Tile) bool {
	return CountTile(hand, tile) >= 2
}

// CanKong 手中是否有三张同样的牌 (明杠)
func CanKong(hand []Tile, tile Tile) bool {
	return CountTile(hand, tile) >= 3
}

// FindConcealedKongs 手中四张相同的牌, 每种返回一张
func FindConcealedKongs(hand []Tile) []Tile {
	c := CountsOf(hand)
	var out []Tile
	for _, k := range c.Keys() {
		if c[k] == 4 {
			t, _ := FindKey(hand, k)
			out = append(out, t)
		}
	}
	return out
}

// FindAddedKongCandidates 手中持有已碰之牌的第四张
func FindAddedKongCandidates(hand []Tile, melds []Meld) []Tile {
	var out []Tile
	for _, m := range melds {
		if m.Type != MeldTypePong {
			continue
		}
		if t, ok := FindKey(hand, m.Key()); ok {
			out = append(out, t)
		}
	}
	return out
}

// WaitingTiles 听牌: 再得到哪些牌可以和
// 手中与副露已有四张的牌不算在内
func WaitingTiles(rs RuleSet, hand []Tile, melds []Meld) []Tile {
	if len(hand)+3*len(melds) != WinHandSize-1 {
		return nil
	}
	held := CountsWithMelds(hand, melds)
	base := CountsOf(hand)
	if !base.Valid() {
		return nil
	}
	flags := rs.Shapes()
	var out []Tile
	for _, k := range DeckKeys(rs) {
		if held[k] >= CopiesPerTile {
			continue
		}
		test := base
		test[k]++
		if isComplete(flags, test, len(melds)) {
			out = append(out, k.Tile())
		}
	}
	return out
}

// RemainingExcludedSuit 手中尚未打完的定缺花色的牌
func RemainingExcludedSuit(hand []Tile, suit TileSuit) []Tile {
	if suit == NoSuit {
		return nil
	}
	var out []Tile
	for _, t := range hand {
		if t.Suit == suit {
			out = append(out, t)
		}
	}
	return out
}

// seatDistance 从打牌者开始按出牌顺序的距离, 下家为 1
func seatDistance(seat, discarder, players int) int {
	return ((seat-discarder)%players + players) % players
}

// legalCandidates 去掉过牌和非下家的吃
func legalCandidates(cands []Candidate, discarder, players int) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Claim == ClaimPass || c.Seat == discarder {
			continue
		}
		if c.Claim == ClaimChow && seatDistance(c.Seat, discarder, players) != 1 {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ResolveReactions 仲裁同一张牌上的多个声明
// 优先级高者胜; 同优先级按出牌顺序离打牌者最近者胜。没有有效声明返回 nil
func ResolveReactions(cands []Candidate, discarder, players int) *Candidate {
	if players <= 0 {
		return nil
	}
	var best *Candidate
	for _, c := range legalCandidates(cands, discarder, players) {
		c := c
		if best == nil ||
			c.Claim.Priority() > best.Claim.Priority() ||
			(c.Claim == best.Claim && seatDistance(c.Seat, discarder, players) < seatDistance(best.Seat, discarder, players)) {
			best = &c
		}
	}
	return best
}

// ResolveWinners 一炮多响: 所有和牌声明, 按离打牌者由近到远排列
func ResolveWinners(cands []Candidate, discarder, players int) []Candidate {
	if players <= 0 {
		return nil
	}
	var winners []Candidate
	for _, c := range legalCandidates(cands, discarder, players) {
		if c.Claim == ClaimWin {
			winners = append(winners, c)
		}
	}
	sort.SliceStable(winners, func(i, j int) bool {
		return seatDistance(winners[i].Seat, discarder, players) < seatDistance(winners[j].Seat, discarder, players)
	})
	return winners
}
