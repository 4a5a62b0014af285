package core

// RuleSet 麻将规则集
// 每局开始时选定一次, 随 RoundState 一路传入, 核心逻辑不再按玩法分支
type RuleSet interface {
	// Name 规则名 (如 "beijing", "sichuan")
	Name() string

	// DeckSuits 牌堆包含的花色, 按花色升序
	DeckSuits() []TileSuit

	// Shapes 允许的特殊和牌牌型
	Shapes() ShapeFlags

	// FanTable 番型表
	FanTable() *FanTable

	// MultiWinner 是否一炮多响且和牌后继续 (血战到底)
	MultiWinner() bool

	// RequiresExcludedSuit 开局是否需要定缺
	RequiresExcludedSuit() bool

	// Validate 计番前的规则前置条件 (如缺一门), 不满足时返回错误
	Validate(hand []Tile, melds []Meld, ctx ScoreContext) error
}
