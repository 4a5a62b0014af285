// Package round 一局麻将的状态机: 摸牌, 打牌, 吃碰杠和的仲裁与结算
//
// 状态全部保存在 RoundState 中, Engine 本身只持有规则与配置,
// 不读时钟, 不休眠, 也不持有锁; 并发由调用方负责。
package round

import (
	"log/slog"

	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/sichuan"
)

const (
	// Players 座位数
	Players = 4
	// HandSize 起手张数
	HandSize = 13
	// DiscarderPaysMultiplier 点炮时点炮者按基础分的倍数支付, 自摸时每家各付一倍
	DiscarderPaysMultiplier = 2
	// DefaultStartingScore 初始分数
	DefaultStartingScore = 25000
	// DefaultExhaustPayment 流局时未听牌者付给每个听牌者的分数
	DefaultExhaustPayment = 1000
)

// Config 结算参数
type Config struct {
	StartingScore           int `mapstructure:"starting_score"`
	ExhaustPayment          int `mapstructure:"exhaust_payment"`
	DiscarderPaysMultiplier int `mapstructure:"discarder_multiplier"`
}

// DefaultConfig 默认结算参数
func DefaultConfig() Config {
	return Config{
		StartingScore:           DefaultStartingScore,
		ExhaustPayment:          DefaultExhaustPayment,
		DiscarderPaysMultiplier: DiscarderPaysMultiplier,
	}
}

// Engine 对局引擎
type Engine struct {
	rules  core.RuleSet
	config Config
	logger *slog.Logger
}

// NewEngine 创建引擎, 配置中的零值使用默认值
func NewEngine(rules core.RuleSet, config Config) *Engine {
	def := DefaultConfig()
	if config.StartingScore == 0 {
		config.StartingScore = def.StartingScore
	}
	if config.ExhaustPayment == 0 {
		config.ExhaustPayment = def.ExhaustPayment
	}
	if config.DiscarderPaysMultiplier == 0 {
		config.DiscarderPaysMultiplier = def.DiscarderPaysMultiplier
	}
	return &Engine{
		rules:  rules,
		config: config,
		logger: slog.Default(),
	}
}

// Rules 规则集
func (e *Engine) Rules() core.RuleSet {
	return e.rules
}

// Config 结算参数
func (e *Engine) Config() Config {
	return e.config
}

// DrawResult 摸牌 (或杠后补牌) 后当前座位的可选操作
type DrawResult struct {
	Tile           core.Tile   `json:"tile"`
	Exhausted      bool        `json:"exhausted"` // 牌墙已空, 本局流局
	CanSelfWin     bool        `json:"canSelfWin"`
	ConcealedKongs []core.Tile `json:"concealedKongs,omitempty"`
	AddedKongs     []core.Tile `json:"addedKongs,omitempty"`
}

// NewRound 用洗好的牌开一局: 从庄家开始每人 13 张, 庄家先摸
// scores 为各座位的初始分数, 为 nil 时使用配置的初始分
func (e *Engine) NewRound(deck []core.Tile, dealer int, roundWind core.TileKey, scores []int) (*RoundState, error) {
	if len(deck) != len(core.CreateDeck(e.rules)) {
		return nil, core.NewGameError("INVALID_DECK", "牌数与规则不符").WithContext("tiles", len(deck))
	}
	if dealer < 0 || dealer >= Players {
		return nil, core.ErrInvalidSeat.WithContext("seat", dealer)
	}
	if scores != nil && len(scores) != Players {
		return nil, core.NewGameError("INVALID_SCORES", "分数个数与座位数不符").WithContext("scores", len(scores))
	}

	s := &RoundState{
		RuleName:  e.rules.Name(),
		Players:   make([]PlayerState, Players),
		Wall:      Wall{Tiles: core.CloneTiles(deck), Tail: len(deck)},
		Dealer:    dealer,
		RoundWind: roundWind,
		Turn:      dealer,
	}
	for i := range s.Players {
		score := e.config.StartingScore
		if scores != nil {
			score = scores[i]
		}
		s.Players[i] = PlayerState{
			Seat:         i,
			Hand:         make([]core.Tile, 0, HandSize+1),
			Score:        score,
			SeatWind:     SeatWind(i, dealer),
			ExcludedSuit: core.NoSuit,
		}
	}

	for i := 0; i < HandSize*Players; i++ {
		seat := (dealer + i) % Players
		t, _ := s.Wall.drawFront()
		s.Players[seat].Hand = append(s.Players[seat].Hand, t)
	}
	for i := range s.Players {
		core.SortTiles(s.Players[i].Hand)
	}

	if e.rules.RequiresExcludedSuit() {
		s.Phase = PhaseExclude
	} else {
		s.Phase = PhaseDraw
	}
	for i := range s.Players {
		s.emit(Event{Type: EventDeal, Seat: i})
	}
	return s, nil
}

// SeatWind 座位的门风: 庄家为东, 依次南西北
func SeatWind(seat, dealer int) core.TileKey {
	return core.KeyEast + core.TileKey(((seat-dealer)%Players+Players)%Players)
}

// ChooseExcludedSuit 定缺, 所有座位都选定后庄家开始摸牌
func (e *Engine) ChooseExcludedSuit(s *RoundState, seat int, suit core.TileSuit) error {
	if s.Phase != PhaseExclude {
		return core.ErrInvalidPhase.WithContext("phase", s.Phase)
	}
	p := s.Player(seat)
	if p == nil {
		return core.ErrInvalidSeat.WithContext("seat", seat)
	}
	if !suit.IsNumber() {
		return core.NewGameError("INVALID_SUIT", "只能定缺万条筒之一").WithContext("suit", int(suit))
	}
	if p.ExcludedSuit != core.NoSuit {
		return core.ErrAlreadyAnswered.WithContext("seat", seat)
	}
	p.ExcludedSuit = suit
	s.emit(Event{Type: EventExcludeSuit, Seat: seat, Claim: suit.String()})

	for _, other := range s.Players {
		if other.ExcludedSuit == core.NoSuit {
			return nil
		}
	}
	e.setPhase(s, PhaseDraw)
	return nil
}

// Draw 当前座位从牌墙前端摸一张; 牌墙已空时流局并结算
func (e *Engine) Draw(s *RoundState) (*DrawResult, error) {
	if s.Phase != PhaseDraw {
		return nil, core.ErrInvalidPhase.WithContext("phase", s.Phase)
	}
	t, ok := s.Wall.drawFront()
	if !ok {
		e.exhaust(s)
		return &DrawResult{Exhausted: true}, nil
	}
	p := s.Player(s.Turn)
	p.Hand = append(p.Hand, t)
	p.Draws++
	s.LastDrawn = tilePtr(t)
	s.AfterKong = false
	e.setPhase(s, PhaseSelfWinCheck)
	s.emit(Event{Type: EventDraw, Seat: s.Turn, Tile: tilePtr(t)})
	return e.SelfOptions(s), nil
}

// SelfOptions 当前座位在自摸检查阶段可做的操作, 不在该阶段时返回 nil
func (e *Engine) SelfOptions(s *RoundState) *DrawResult {
	if s.Phase != PhaseSelfWinCheck || s.LastDrawn == nil {
		return nil
	}
	p := s.Player(s.Turn)
	res := &DrawResult{Tile: *s.LastDrawn}

	r := core.Score(e.rules, p.Hand, p.Melds, *s.LastDrawn, e.scoreContext(s, s.Turn, true))
	res.CanSelfWin = r != nil && r.Err == nil

	if s.Wall.Remaining() > 0 {
		for _, t := range core.FindConcealedKongs(p.Hand) {
			if !excluded(p, t) {
				res.ConcealedKongs = append(res.ConcealedKongs, t)
			}
		}
		res.AddedKongs = core.FindAddedKongCandidates(p.Hand, p.Melds)
	}
	return res
}

// DeclareSelfWin 自摸
func (e *Engine) DeclareSelfWin(s *RoundState, seat int) (*WinRecord, error) {
	if err := e.checkTurn(s, seat, PhaseSelfWinCheck); err != nil {
		return nil, err
	}
	if s.LastDrawn == nil {
		return nil, core.ErrCannotWin
	}
	p := s.Player(seat)
	tile := *s.LastDrawn
	r := core.Score(e.rules, p.Hand, p.Melds, tile, e.scoreContext(s, seat, true))
	if r == nil {
		return nil, core.ErrCannotWin.WithContext("seat", seat)
	}
	if r.Err != nil {
		return nil, core.ErrCannotWin.WithCause(r.Err)
	}

	rec := WinRecord{Seat: seat, From: -1, Tile: tile, Result: r}
	s.Winners = append(s.Winners, rec)
	s.emit(Event{Type: EventWin, Seat: seat, Tile: tilePtr(tile), Result: r})
	for i := range s.Players {
		if i == seat || s.Players[i].Won {
			continue
		}
		e.pay(s, i, seat, r.BaseValue, "self_drawn")
	}
	p.Won = true
	s.LastDrawn = nil
	s.AfterKong = false

	e.afterWin(s, seat)
	return &rec, nil
}

// DeclareConcealedKong 暗杠并从牌墙尾部补牌
func (e *Engine) DeclareConcealedKong(s *RoundState, seat int, key core.TileKey) error {
	if err := e.checkTurn(s, seat, PhaseSelfWinCheck); err != nil {
		return err
	}
	if s.Wall.Remaining() == 0 {
		return core.ErrCannotKong.WithCause(core.ErrWallExhausted)
	}
	p := s.Player(seat)
	if excluded(p, key.Tile()) {
		return core.ErrCannotKong.WithContext("reason", "excluded suit")
	}
	res := core.BuildConcealedKong(p.Hand, key)
	if res == nil {
		return core.ErrCannotKong.WithContext("tile", key.String())
	}
	p.Hand = res.Hand
	p.Melds = append(p.Melds, res.Meld)
	s.Claims++
	s.emit(Event{Type: EventConcealedKong, Seat: seat})
	e.kongDraw(s, seat)
	return nil
}

// DeclareAddedKong 加杠; 若有人能抢杠和, 进入抢杠窗口, 否则直接补牌
func (e *Engine) DeclareAddedKong(s *RoundState, seat int, key core.TileKey) error {
	if err := e.checkTurn(s, seat, PhaseSelfWinCheck); err != nil {
		return err
	}
	if s.Wall.Remaining() == 0 {
		return core.ErrCannotKong.WithCause(core.ErrWallExhausted)
	}
	p := s.Player(seat)
	res := core.BuildAddedKong(p.Hand, p.Melds, key)
	if res == nil {
		return core.ErrCannotKong.WithContext("tile", key.String())
	}

	var robbers []Eligible
	for _, other := range e.seatsAfter(s, seat) {
		ctx := e.scoreContext(s, other, false)
		ctx.RobbedKong = true
		if e.canWinOn(s, other, res.Tile, ctx) {
			robbers = append(robbers, Eligible{Seat: other, Win: true})
		}
	}

	if len(robbers) == 0 {
		e.applyAddedKong(s, seat, res)
		return nil
	}

	s.PendingKong = &PendingKong{Seat: seat, Result: res}
	s.Window = &ReactionWindow{Kind: WindowRobKong, Tile: res.Tile, From: seat, Eligible: robbers}
	s.LastDrawn = nil
	e.setPhase(s, PhaseRobKong)
	s.emit(Event{Type: EventRobKongOpen, Seat: seat, Tile: tilePtr(res.Tile)})
	return nil
}

func (e *Engine) applyAddedKong(s *RoundState, seat int, res *core.AddedKongResult) {
	p := s.Player(seat)
	p.Hand = res.Hand
	p.Melds = res.Melds
	s.Claims++
	s.emit(Event{Type: EventAddedKong, Seat: seat, Tile: tilePtr(res.Tile)})
	e.kongDraw(s, seat)
}

// Discard 打出一张牌, 计算其他座位能否吃碰杠和
func (e *Engine) Discard(s *RoundState, seat int, tile core.Tile) error {
	if err := e.checkTurn(s, seat, PhaseSelfWinCheck, PhaseDiscard); err != nil {
		return err
	}
	p := s.Player(seat)
	idx := indexOfTile(p.Hand, tile)
	if idx < 0 {
		return core.ErrTileNotInHand.WithContext("tile", tile.String())
	}
	tile = p.Hand[idx]
	if p.ExcludedSuit != core.NoSuit && tile.Suit != p.ExcludedSuit &&
		len(core.RemainingExcludedSuit(p.Hand, p.ExcludedSuit)) > 0 {
		return core.ErrExcludedSuitFirst.WithContext("suit", p.ExcludedSuit.String())
	}

	p.Hand = append(p.Hand[:idx:idx], p.Hand[idx+1:]...)
	core.SortTiles(p.Hand)
	p.Discards = append(p.Discards, tile)
	s.History = append(s.History, DiscardRecord{Seat: seat, Tile: tile})
	s.AfterKongDiscard = s.AfterKong
	s.AfterKong = false
	s.LastDrawn = nil

	eligible := e.discardEligible(s, seat, tile)
	if len(eligible) == 0 {
		s.Turn = e.nextActive(s, seat)
		e.setPhase(s, PhaseDraw)
		s.emit(Event{Type: EventDiscard, Seat: seat, Tile: tilePtr(tile)})
		return nil
	}
	s.Window = &ReactionWindow{Kind: WindowDiscard, Tile: tile, From: seat, Eligible: eligible}
	e.setPhase(s, PhaseReaction)
	s.emit(Event{Type: EventDiscard, Seat: seat, Tile: tilePtr(tile)})
	return nil
}

// discardEligible 按出牌顺序列出可以响应的座位
func (e *Engine) discardEligible(s *RoundState, from int, tile core.Tile) []Eligible {
	var out []Eligible
	for _, seat := range e.seatsAfter(s, from) {
		p := s.Player(seat)
		el := Eligible{Seat: seat}

		ctx := e.scoreContext(s, seat, false)
		ctx.AfterKongDiscard = s.AfterKongDiscard
		el.Win = e.canWinOn(s, seat, tile, ctx)

		if !excluded(p, tile) {
			el.Kong = core.CanKong(p.Hand, tile) && s.Wall.Remaining() > 0
			el.Pong = core.CanPong(p.Hand, tile)
			el.Chows = core.CanChow(p.Hand, tile, seat, from, Players)
		}
		if el.Win || el.Kong || el.Pong || len(el.Chows) > 0 {
			out = append(out, el)
		}
	}
	return out
}

// React 对当前窗口表态; 剩下没表态的座位已无法改变仲裁结果时立即仲裁
func (e *Engine) React(s *RoundState, seat int, d Decision) error {
	if s.Phase != PhaseReaction && s.Phase != PhaseRobKong {
		return core.ErrInvalidPhase.WithContext("phase", s.Phase)
	}
	w := s.Window
	if w == nil {
		return core.ErrInvalidPhase.WithContext("phase", s.Phase)
	}
	el, ok := w.EligibleFor(seat)
	if !ok {
		return core.ErrNotEligible.WithContext("seat", seat)
	}
	if w.answered(seat) {
		return core.ErrAlreadyAnswered.WithContext("seat", seat)
	}
	if !el.Allows(d) {
		return claimError(d.Claim).WithContext("seat", seat)
	}

	w.Answers = append(w.Answers, core.Candidate{Seat: seat, Claim: d.Claim, Chow: d.Chow})
	s.emit(Event{Type: EventReaction, Seat: seat, Claim: d.Claim.String()})

	if !e.decided(w) {
		return nil
	}
	return e.resolve(s)
}

// decided 待表态座位能做的最强声明都压不过当前最优声明
// 同为和牌时: 一炮多响下每个和牌都成立, 否则离打牌者更近的一家会截和
func (e *Engine) decided(w *ReactionWindow) bool {
	pending := w.Pending()
	if len(pending) == 0 {
		return true
	}
	best := core.ResolveReactions(w.Answers, w.From, Players)
	if best == nil {
		return false
	}
	for _, seat := range pending {
		el, _ := w.EligibleFor(seat)
		top := el.Strongest()
		switch {
		case top.Priority() > best.Claim.Priority():
			return false
		case top != best.Claim:
		case top == core.ClaimWin && e.rules.MultiWinner():
			return false
		case distance(seat, w.From) < distance(best.Seat, w.From):
			return false
		}
	}
	return true
}

func (e *Engine) resolve(s *RoundState) error {
	w := s.Window
	s.Window = nil

	winners := e.winningClaims(w)
	if w.Kind == WindowRobKong {
		pk := s.PendingKong
		s.PendingKong = nil
		if len(winners) == 0 {
			e.applyAddedKong(s, pk.Seat, pk.Result)
			return nil
		}
		kp := s.Player(pk.Seat)
		kp.Hand, _ = core.WithoutTile(kp.Hand, w.Tile)
		e.settleClaimedWin(s, winners, w.From, w.Tile, true)
		return nil
	}

	discarder := s.Player(w.From)
	if len(winners) > 0 {
		discarder.Discards = removeLast(discarder.Discards, w.Tile)
		e.settleClaimedWin(s, winners, w.From, w.Tile, false)
		return nil
	}

	best := core.ResolveReactions(w.Answers, w.From, Players)
	if best == nil {
		s.Turn = e.nextActive(s, w.From)
		e.setPhase(s, PhaseDraw)
		return nil
	}

	p := s.Player(best.Seat)
	var res *core.MeldResult
	var ev EventType
	switch best.Claim {
	case core.ClaimChow:
		res, ev = core.BuildChow(p.Hand, w.Tile, best.Chow, w.From), EventChow
	case core.ClaimPong:
		res, ev = core.BuildPong(p.Hand, w.Tile, w.From), EventPong
	case core.ClaimKong:
		res, ev = core.BuildExposedKong(p.Hand, w.Tile, w.From), EventExposedKong
	}
	if res == nil {
		// 窗口里的选项在开窗时已校验过, 这里只可能是状态被外部改动
		return claimError(best.Claim).WithContext("seat", best.Seat)
	}

	discarder.Discards = removeLast(discarder.Discards, w.Tile)
	p.Hand = res.Hand
	p.Melds = append(p.Melds, res.Meld)
	s.Claims++
	s.Turn = best.Seat
	s.AfterKongDiscard = false

	if best.Claim == core.ClaimKong {
		s.emit(Event{Type: ev, Seat: best.Seat, Tile: tilePtr(w.Tile), Target: w.From})
		e.kongDraw(s, best.Seat)
		return nil
	}
	e.setPhase(s, PhaseDiscard)
	s.emit(Event{Type: ev, Seat: best.Seat, Tile: tilePtr(w.Tile), Target: w.From})
	return nil
}

// winningClaims 一炮多响的规则下所有和牌声明都成立, 否则只取离打牌者最近的一家
func (e *Engine) winningClaims(w *ReactionWindow) []core.Candidate {
	if e.rules.MultiWinner() {
		return core.ResolveWinners(w.Answers, w.From, Players)
	}
	best := core.ResolveReactions(w.Answers, w.From, Players)
	if best != nil && best.Claim == core.ClaimWin {
		return []core.Candidate{*best}
	}
	return nil
}

// settleClaimedWin 点和 (含抢杠) 结算: 点炮者向每个和牌者支付基础分 × 倍数
// 实体牌只进入离点炮者最近且计番成功的和牌者手中
func (e *Engine) settleClaimedWin(s *RoundState, winners []core.Candidate, from int, tile core.Tile, robbed bool) {
	last := from
	given := false
	for _, c := range winners {
		p := s.Player(c.Seat)
		ctx := e.scoreContext(s, c.Seat, false)
		ctx.RobbedKong = robbed
		ctx.AfterKongDiscard = !robbed && s.AfterKongDiscard

		hand := append(core.CloneTiles(p.Hand), tile)
		r := core.Score(e.rules, hand, p.Melds, tile, ctx)
		if r == nil || r.Err != nil {
			e.logger.Warn("和牌计番失败", "seat", c.Seat, "tile", tile.String())
			continue
		}
		if !given {
			p.Hand = hand
			given = true
		}
		s.Winners = append(s.Winners, WinRecord{Seat: c.Seat, From: from, Tile: tile, Result: r})
		s.emit(Event{Type: EventWin, Seat: c.Seat, Tile: tilePtr(tile), Result: r, Target: from})
		e.pay(s, from, c.Seat, r.BaseValue*e.config.DiscarderPaysMultiplier, "claimed_win")
		p.Won = true
		last = c.Seat
	}
	s.AfterKongDiscard = false
	e.afterWin(s, last)
}

// afterWin 单家和牌的规则直接结束; 血战到底继续, 直到只剩一家未和
func (e *Engine) afterWin(s *RoundState, last int) {
	if !e.rules.MultiWinner() || sichuan.IsBloodWarComplete(len(s.Winners), Players) {
		e.setPhase(s, PhaseHandComplete)
		s.emit(Event{Type: EventHandComplete, Seat: last})
		return
	}
	s.Turn = e.nextActive(s, last)
	e.setPhase(s, PhaseDraw)
}

// kongDraw 杠后从牌墙尾部补一张
func (e *Engine) kongDraw(s *RoundState, seat int) {
	t, ok := s.Wall.drawBack()
	if !ok {
		e.exhaust(s)
		return
	}
	p := s.Player(seat)
	p.Hand = append(p.Hand, t)
	s.LastDrawn = tilePtr(t)
	s.AfterKong = true
	s.Turn = seat
	e.setPhase(s, PhaseSelfWinCheck)
	s.emit(Event{Type: EventKongDraw, Seat: seat, Tile: tilePtr(t)})
}

// exhaust 流局: 未和牌的座位中, 不听牌者向每个听牌者支付 ExhaustPayment
func (e *Engine) exhaust(s *RoundState) {
	var ready, notReady []int
	for i := range s.Players {
		p := &s.Players[i]
		if p.Won {
			continue
		}
		if e.isReady(p) {
			ready = append(ready, i)
		} else {
			notReady = append(notReady, i)
		}
	}
	s.LastDrawn = nil
	s.Window = nil
	e.setPhase(s, PhaseExhausted)
	s.emit(Event{Type: EventExhausted, Seat: s.Turn})
	for _, n := range notReady {
		for _, r := range ready {
			e.pay(s, n, r, e.config.ExhaustPayment, "exhausted")
		}
	}
}

// isReady 听牌, 定缺的花色必须已经打完
func (e *Engine) isReady(p *PlayerState) bool {
	if p.ExcludedSuit != core.NoSuit && len(core.RemainingExcludedSuit(p.Hand, p.ExcludedSuit)) > 0 {
		return false
	}
	return len(core.WaitingTiles(e.rules, p.Hand, p.Melds)) > 0
}

func (e *Engine) pay(s *RoundState, from, to, amount int, reason string) {
	if amount <= 0 || from == to {
		return
	}
	s.Players[from].Score -= amount
	s.Players[to].Score += amount
	s.Payments = append(s.Payments, Payment{From: from, To: to, Amount: amount, Reason: reason})
	s.emit(Event{Type: EventPayment, Seat: from, Target: to, Amount: amount, Claim: reason})
}

// scoreContext 当前局面下某座位和牌的情境
func (e *Engine) scoreContext(s *RoundState, seat int, selfDrawn bool) core.ScoreContext {
	p := s.Player(seat)
	ctx := core.ScoreContext{
		SelfDrawn: selfDrawn,
		SeatWind:  p.SeatWind,
		RoundWind: s.RoundWind,
		LastTile:  s.Wall.Remaining() == 0,
		Variant: core.VariantFlags{
			ExcludeSuit:  p.ExcludedSuit != core.NoSuit,
			ExcludedSuit: p.ExcludedSuit,
		},
	}
	if selfDrawn {
		ctx.AfterKong = s.AfterKong
		firstDraw := p.Draws == 1 && s.Claims == 0 && !s.AfterKong
		ctx.HeavenlyHand = firstDraw && seat == s.Dealer && len(s.History) == 0
		ctx.EarthlyHand = firstDraw && seat != s.Dealer && len(p.Discards) == 0
	}
	return ctx
}

// PreviewWin 当前局面下该座位和牌的计番结果, 不能和牌时返回 nil
// 自摸检查阶段看刚摸的牌, 响应阶段看窗口中的牌
func (e *Engine) PreviewWin(s *RoundState, seat int) *core.ScoreResult {
	p := s.Player(seat)
	if p == nil || p.Won {
		return nil
	}
	var r *core.ScoreResult
	switch {
	case s.Phase == PhaseSelfWinCheck && seat == s.Turn && s.LastDrawn != nil:
		r = core.Score(e.rules, p.Hand, p.Melds, *s.LastDrawn, e.scoreContext(s, seat, true))
	case (s.Phase == PhaseReaction || s.Phase == PhaseRobKong) && s.Window != nil:
		robbed := s.Window.Kind == WindowRobKong
		ctx := e.scoreContext(s, seat, false)
		ctx.RobbedKong = robbed
		ctx.AfterKongDiscard = !robbed && s.AfterKongDiscard
		tile := s.Window.Tile
		r = core.Score(e.rules, append(core.CloneTiles(p.Hand), tile), p.Melds, tile, ctx)
	}
	if r == nil || r.Err != nil {
		return nil
	}
	return r
}

func (e *Engine) canWinOn(s *RoundState, seat int, tile core.Tile, ctx core.ScoreContext) bool {
	p := s.Player(seat)
	hand := append(core.CloneTiles(p.Hand), tile)
	r := core.Score(e.rules, hand, p.Melds, tile, ctx)
	return r != nil && r.Err == nil
}

func (e *Engine) checkTurn(s *RoundState, seat int, phases ...Phase) error {
	ok := false
	for _, ph := range phases {
		if s.Phase == ph {
			ok = true
			break
		}
	}
	if !ok {
		return core.ErrInvalidPhase.WithContext("phase", s.Phase)
	}
	if s.Player(seat) == nil {
		return core.ErrInvalidSeat.WithContext("seat", seat)
	}
	if seat != s.Turn {
		return core.ErrNotYourTurn.WithContext("seat", seat).WithContext("turn", s.Turn)
	}
	return nil
}

func (e *Engine) setPhase(s *RoundState, to Phase) {
	if s.Phase != to {
		e.logger.Debug("阶段变更", "rules", s.RuleName, "from", s.Phase, "to", to, "turn", s.Turn)
	}
	s.Phase = to
}

// nextActive from 之后第一个还没和牌的座位
func (e *Engine) nextActive(s *RoundState, from int) int {
	for i := 1; i <= Players; i++ {
		seat := (from + i) % Players
		if !s.Players[seat].Won {
			return seat
		}
	}
	return from
}

// seatsAfter 按出牌顺序列出 from 之后还没和牌的其他座位
func (e *Engine) seatsAfter(s *RoundState, from int) []int {
	seats := make([]int, 0, Players-1)
	for i := 1; i < Players; i++ {
		seat := (from + i) % Players
		if !s.Players[seat].Won {
			seats = append(seats, seat)
		}
	}
	return seats
}

// distance 按出牌顺序离 from 的距离, 下家为 1
func distance(seat, from int) int {
	return (seat - from + Players) % Players
}

func excluded(p *PlayerState, t core.Tile) bool {
	return p.ExcludedSuit != core.NoSuit && t.Suit == p.ExcludedSuit
}

// indexOfTile 优先按实体牌匹配, 找不到时按牌面匹配
func indexOfTile(hand []core.Tile, t core.Tile) int {
	for i, h := range hand {
		if h.Same(t) {
			return i
		}
	}
	for i, h := range hand {
		if h.Equal(t) {
			return i
		}
	}
	return -1
}

func removeLast(tiles []core.Tile, t core.Tile) []core.Tile {
	for i := len(tiles) - 1; i >= 0; i-- {
		if tiles[i].Same(t) {
			out := make([]core.Tile, 0, len(tiles)-1)
			out = append(out, tiles[:i]...)
			return append(out, tiles[i+1:]...)
		}
	}
	return tiles
}

func claimError(c core.ClaimType) *core.GameError {
	switch c {
	case core.ClaimWin:
		return core.ErrCannotWin
	case core.ClaimKong:
		return core.ErrCannotKong
	case core.ClaimPong:
		return core.ErrCannotPong
	default:
		return core.ErrCannotChow
	}
}
