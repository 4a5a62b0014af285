package core

import "testing"

// stubRules 测试用规则集
type stubRules struct {
	suits    []TileSuit
	flags    ShapeFlags
	table    *FanTable
	multi    bool
	validate func(hand []Tile, melds []Meld, ctx ScoreContext) error
}

func (r *stubRules) Name() string               { return "stub" }
func (r *stubRules) DeckSuits() []TileSuit      { return r.suits }
func (r *stubRules) Shapes() ShapeFlags         { return r.flags }
func (r *stubRules) FanTable() *FanTable        { return r.table }
func (r *stubRules) MultiWinner() bool          { return r.multi }
func (r *stubRules) RequiresExcludedSuit() bool { return false }
func (r *stubRules) Validate(hand []Tile, melds []Meld, ctx ScoreContext) error {
	if r.validate != nil {
		return r.validate(hand, melds, ctx)
	}
	return nil
}

var allSuits = []TileSuit{TileSuitWan, TileSuitTiao, TileSuitTong, TileSuitWind, TileSuitDragon}

const stubFans = `
base_unit: 100
fans:
  basic: 1
  allTriplets: 2
  pairs: 3
  orphans: 88
  selfDraw: 1
  nothing: 0
`

func newStubRules(t *testing.T, flags ShapeFlags) *stubRules {
	t.Helper()
	rules := []FanRule{
		{Name: "basic", Shapes: MaskStandard, Count: Bool(func(v *HandView) bool { return true })},
		{Name: "allTriplets", Shapes: MaskStandard, Count: Bool((*HandView).AllTriplets), Replaces: []string{"basic"}},
		{Name: "pairs", Shapes: MaskSevenPairs, Count: Bool(func(v *HandView) bool { return true })},
	}
	situational := []SituationalRule{
		{Name: "selfDraw", Applies: func(ctx ScoreContext) bool { return ctx.SelfDrawn }},
	}
	table, err := LoadFanTable([]byte(stubFans), nil, rules, situational, map[WinShape]string{ShapeThirteenOrphans: "orphans"})
	if err != nil {
		t.Fatalf("LoadFanTable failed: %v", err)
	}
	return &stubRules{suits: allSuits, flags: flags, table: table}
}

func tiles(t *testing.T, s string) []Tile {
	t.Helper()
	out, err := ParseTiles(s)
	if err != nil {
		t.Fatalf("ParseTiles(%q) failed: %v", s, err)
	}
	return out
}
