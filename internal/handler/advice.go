package handler

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"

	"sudooom.mahjong/internal/game/mahjong"
	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/evaluator"
	apperrors "sudooom.mahjong/pkg/errors"
	"sudooom.mahjong/pkg/response"
)

// MeldInput 副露, 牌用简写记法
type MeldInput struct {
	Type      string `json:"type" binding:"required,oneof=chow pong kong"`
	Tiles     string `json:"tiles" binding:"required"` // 如 "345m", "777z"
	Concealed bool   `json:"concealed"`                // 暗杠
}

// EvaluateRequest 手牌分析请求
type EvaluateRequest struct {
	Rules        string      `json:"rules" binding:"required"`
	Hand         string      `json:"hand" binding:"required"`
	Melds        []MeldInput `json:"melds"`
	ExcludedSuit string      `json:"excludedSuit"` // 定缺花色 m/s/p, 只影响出牌建议
}

// EvaluateResult 手牌分析结果
type EvaluateResult struct {
	Winning  bool                      `json:"winning"`
	Shape    string                    `json:"shape,omitempty"`
	Waiting  string                    `json:"waiting,omitempty"` // 差一张时的听牌
	Shanten  int                       `json:"shanten"`
	Discards []evaluator.RankedDiscard `json:"discards,omitempty"` // 多一张时的出牌建议
}

// ScoreRequest 计番请求, hand 含和的那张
type ScoreRequest struct {
	Rules        string      `json:"rules" binding:"required"`
	Hand         string      `json:"hand" binding:"required"`
	Melds        []MeldInput `json:"melds"`
	WinningTile  string      `json:"winningTile" binding:"required"`
	SelfDrawn    bool        `json:"selfDrawn"`
	SeatWind     string      `json:"seatWind"`  // 如 "1z"
	RoundWind    string      `json:"roundWind"` // 如 "1z"
	AfterKong    bool        `json:"afterKong"`
	KongDiscard  bool        `json:"afterKongDiscard"`
	RobbedKong   bool        `json:"robbedKong"`
	LastTile     bool        `json:"lastTile"`
	Heavenly     bool        `json:"heavenlyHand"`
	Earthly      bool        `json:"earthlyHand"`
	ExcludedSuit string      `json:"excludedSuit"`
}

// AdviceHandler 手牌分析与计番
type AdviceHandler struct {
	mahjong *mahjong.MahjongService
}

// NewAdviceHandler 创建手牌分析处理器
func NewAdviceHandler(mj *mahjong.MahjongService) *AdviceHandler {
	return &AdviceHandler{mahjong: mj}
}

// Evaluate 手牌分析: 是否已和, 听牌, 向听数与出牌建议
// POST /api/v1/evaluate
func (h *AdviceHandler) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if !response.BindJSON(c, &req) {
		return
	}

	rs, err := h.ruleSet(req.Rules)
	if err != nil {
		response.ErrorFromAppError(c, err)
		return
	}
	hand, melds, err := parseHand(req.Hand, req.Melds)
	if err != nil {
		response.ErrorFromAppError(c, err)
		return
	}
	excluded := core.NoSuit
	if req.ExcludedSuit != "" {
		if excluded, err = core.ParseSuit(req.ExcludedSuit); err != nil {
			response.ErrorFromAppError(c, apperrors.ErrInvalidTiles.Wrap(err))
			return
		}
	}

	size := len(hand) + 3*len(melds)
	if size != core.WinHandSize && size != core.WinHandSize-1 {
		response.ErrorFromAppError(c, apperrors.ErrInvalidTiles.Wrap(fmt.Errorf("手牌加副露应为 13 或 14 张, 实际 %d 张", size)))
		return
	}

	ev := h.mahjong.CreateEvaluator(rs, rand.New(rand.NewSource(time.Now().UnixNano())), nil)
	result := EvaluateResult{Shanten: ev.Shanten(hand, melds)}
	if size == core.WinHandSize {
		if win := core.IsWinning(rs, hand, melds); win != nil {
			result.Winning = true
			result.Shape = win.Shape.String()
		} else {
			result.Discards = ev.RankDiscards(hand, melds, evaluator.Visibility{ExcludedSuit: excluded})
		}
	} else if waiting := core.WaitingTiles(rs, hand, melds); len(waiting) > 0 {
		result.Waiting = core.FormatTiles(waiting)
	}

	response.Success(c, result)
}

// Score 计番
// POST /api/v1/score
func (h *AdviceHandler) Score(c *gin.Context) {
	var req ScoreRequest
	if !response.BindJSON(c, &req) {
		return
	}

	rs, err := h.ruleSet(req.Rules)
	if err != nil {
		response.ErrorFromAppError(c, err)
		return
	}
	hand, melds, err := parseHand(req.Hand, req.Melds)
	if err != nil {
		response.ErrorFromAppError(c, err)
		return
	}
	ctx, winning, err := scoreContext(req)
	if err != nil {
		response.ErrorFromAppError(c, apperrors.ErrInvalidTiles.Wrap(err))
		return
	}

	result := core.Score(rs, hand, melds, winning, ctx)
	if result == nil {
		response.ErrorFromAppError(c, apperrors.ErrInvalidTiles.Wrap(fmt.Errorf("不是和牌")))
		return
	}
	if result.Err != nil {
		response.ErrorFromAppError(c, apperrors.ErrRuleViolation.Wrap(result.Err))
		return
	}
	response.Success(c, result)
}

func (h *AdviceHandler) ruleSet(name string) (core.RuleSet, error) {
	gt, err := mahjong.ParseGameType(name)
	if err != nil {
		return nil, apperrors.ErrUnsupportedGameType.Wrap(err)
	}
	rs, err := h.mahjong.RuleSet(gt)
	if err != nil {
		return nil, apperrors.ErrServerError.Wrap(err)
	}
	return rs, nil
}

func scoreContext(req ScoreRequest) (core.ScoreContext, core.Tile, error) {
	ctx := core.ScoreContext{
		SelfDrawn:        req.SelfDrawn,
		SeatWind:         core.KeyEast,
		RoundWind:        core.KeyEast,
		AfterKong:        req.AfterKong,
		AfterKongDiscard: req.KongDiscard,
		RobbedKong:       req.RobbedKong,
		LastTile:         req.LastTile,
		HeavenlyHand:     req.Heavenly,
		EarthlyHand:      req.Earthly,
	}
	winning, err := core.ParseTile(req.WinningTile)
	if err != nil {
		return ctx, core.Tile{}, err
	}
	for _, w := range []struct {
		in  string
		out *core.TileKey
	}{{req.SeatWind, &ctx.SeatWind}, {req.RoundWind, &ctx.RoundWind}} {
		if w.in == "" {
			continue
		}
		t, err := core.ParseTile(w.in)
		if err != nil {
			return ctx, core.Tile{}, err
		}
		if t.Suit != core.TileSuitWind {
			return ctx, core.Tile{}, fmt.Errorf("%s 不是风牌", w.in)
		}
		*w.out = t.Key()
	}
	if req.ExcludedSuit != "" {
		suit, err := core.ParseSuit(req.ExcludedSuit)
		if err != nil {
			return ctx, core.Tile{}, err
		}
		ctx.Variant = core.VariantFlags{ExcludeSuit: true, ExcludedSuit: suit}
	}
	return ctx, winning, nil
}

// parseHand 解析手牌与副露; 手牌与副露合起来同一种牌不能超过四张
func parseHand(handNotation string, inputs []MeldInput) ([]core.Tile, []core.Meld, error) {
	melds := make([]core.Meld, 0, len(inputs))
	for _, in := range inputs {
		tiles, err := core.ParseTiles(in.Tiles)
		if err != nil {
			return nil, nil, apperrors.ErrInvalidTiles.Wrap(err)
		}
		m, err := buildMeld(in, tiles)
		if err != nil {
			return nil, nil, apperrors.ErrInvalidTiles.Wrap(err)
		}
		melds = append(melds, m)
	}

	hand, err := core.ParseTiles(handNotation)
	if err != nil {
		return nil, nil, apperrors.ErrInvalidTiles.Wrap(err)
	}
	if !core.CountsWithMelds(hand, melds).Valid() {
		return nil, nil, apperrors.ErrInvalidTiles.Wrap(fmt.Errorf("同一种牌超过四张"))
	}
	return hand, melds, nil
}

func buildMeld(in MeldInput, tiles []core.Tile) (core.Meld, error) {
	keys := make([]core.TileKey, len(tiles))
	for i, t := range tiles {
		keys[i] = t.Key()
	}
	m := core.Meld{Tiles: core.SortedTiles(tiles), FromSeat: -1}

	switch in.Type {
	case "chow":
		if _, err := core.ParseChow(in.Tiles); err != nil || len(tiles) != 3 {
			return m, fmt.Errorf("吃需要三张相连的同花色数牌: %s", in.Tiles)
		}
		m.Type = core.MeldTypeChow
		m.FromSeat = 0
	case "pong":
		if len(tiles) != 3 || keys[0] != keys[1] || keys[1] != keys[2] {
			return m, fmt.Errorf("碰需要三张相同的牌: %s", in.Tiles)
		}
		m.Type = core.MeldTypePong
		m.FromSeat = 0
	case "kong":
		if len(tiles) != 4 || keys[0] != keys[1] || keys[1] != keys[2] || keys[2] != keys[3] {
			return m, fmt.Errorf("杠需要四张相同的牌: %s", in.Tiles)
		}
		m.Type = core.MeldTypeKong
		if in.Concealed {
			m.Kong = core.KongConcealed
			m.Concealed = true
		} else {
			m.Kong = core.KongExposed
			m.FromSeat = 0
		}
	default:
		return m, fmt.Errorf("未知的副露类型: %s", in.Type)
	}
	return m, nil
}
