package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"sudooom.mahjong/internal/game"
	"sudooom.mahjong/internal/game/mahjong"
	"sudooom.mahjong/internal/game/mahjong/round"
	apperrors "sudooom.mahjong/pkg/errors"
	"sudooom.mahjong/pkg/response"
)

// MoveRequest 提交操作请求
type MoveRequest struct {
	Seat *int         `json:"seat" binding:"required"`
	Move mahjong.Move `json:"move" binding:"required"`
}

// MoveResult 提交操作的结果: 本次产生的事件与提交者视角的牌桌
type MoveResult struct {
	Events []round.Event  `json:"events"`
	View   *game.GameView `json:"view"`
}

// TableHandler 牌桌接口
type TableHandler struct {
	games *game.GameService
}

// NewTableHandler 创建牌桌处理器
func NewTableHandler(games *game.GameService) *TableHandler {
	return &TableHandler{games: games}
}

// Create 开桌, 返回第一个真人座位视角的牌桌 (没有真人时为旁观视角)
// POST /api/v1/tables
func (h *TableHandler) Create(c *gin.Context) {
	var req game.CreateRequest
	if !response.BindJSON(c, &req) {
		return
	}

	g, err := h.games.CreateGame(c.Request.Context(), req)
	if err != nil {
		response.ErrorFromAppError(c, err)
		return
	}

	viewer := game.Spectator
	for i, k := range g.Seats() {
		if k == game.SeatHuman {
			viewer = i
			break
		}
	}
	response.Success(c, g.View(viewer))
}

// List 内存中的牌桌, 以及最近保存过快照的牌桌 ID
// GET /api/v1/tables?recent=20
func (h *TableHandler) List(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("recent", "20"), 10, 64)
	if err != nil || limit < 0 {
		response.ErrorWithMsg(c, response.CodeInvalidParams, "recent 必须是非负整数")
		return
	}

	recent, err := h.games.Recent(c.Request.Context(), limit)
	if err != nil {
		response.ErrorFromAppError(c, err)
		return
	}
	response.Success(c, gin.H{"list": h.games.List(), "recent": recent})
}

// Get 某个座位视角的牌桌, 不带 seat 时为旁观视角
// GET /api/v1/tables/:id?seat=0
func (h *TableHandler) Get(c *gin.Context) {
	viewer, ok := seatParam(c)
	if !ok {
		return
	}

	view, err := h.games.View(c.Request.Context(), c.Param("id"), viewer)
	if err != nil {
		response.ErrorFromAppError(c, err)
		return
	}
	response.Success(c, view)
}

// Move 真人座位提交操作
// POST /api/v1/tables/:id/moves
func (h *TableHandler) Move(c *gin.Context) {
	var req MoveRequest
	if !response.BindJSON(c, &req) {
		return
	}

	id := c.Param("id")
	events, err := h.games.Submit(c.Request.Context(), id, *req.Seat, req.Move)
	if err != nil {
		response.ErrorFromAppError(c, err)
		return
	}
	view, err := h.games.View(c.Request.Context(), id, *req.Seat)
	if err != nil {
		response.ErrorFromAppError(c, err)
		return
	}
	response.Success(c, MoveResult{Events: events, View: view})
}

func seatParam(c *gin.Context) (int, bool) {
	s := c.Query("seat")
	if s == "" {
		return game.Spectator, true
	}
	seat, err := strconv.Atoi(s)
	if err != nil {
		response.ErrorFromAppError(c, apperrors.ErrInvalidSeat.Wrap(err))
		return 0, false
	}
	return seat, true
}
