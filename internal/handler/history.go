package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"sudooom.mahjong/internal/model"
	apperrors "sudooom.mahjong/pkg/errors"
	"sudooom.mahjong/pkg/response"
)

// HandHistory 已结束各局的记录
type HandHistory interface {
	ListByGame(ctx context.Context, gameID string) ([]*model.HandRecord, error)
	Totals(ctx context.Context, gameID string) (map[int]int, error)
}

// HistoryResult 一桌的对局记录与各座位累计分数变化
type HistoryResult struct {
	Hands  []*model.HandRecord `json:"hands"`
	Totals map[int]int         `json:"totals"`
}

// HistoryHandler 对局记录接口
type HistoryHandler struct {
	hands HandHistory
}

// NewHistoryHandler 创建对局记录处理器
func NewHistoryHandler(hands HandHistory) *HistoryHandler {
	return &HistoryHandler{hands: hands}
}

// Hands 某桌已结束各局的记录
// GET /api/v1/tables/:id/hands
func (h *HistoryHandler) Hands(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	records, err := h.hands.ListByGame(ctx, id)
	if err != nil {
		response.ErrorFromAppError(c, apperrors.ErrDBError.Wrap(err))
		return
	}
	totals, err := h.hands.Totals(ctx, id)
	if err != nil {
		response.ErrorFromAppError(c, apperrors.ErrDBError.Wrap(err))
		return
	}
	if records == nil {
		records = []*model.HandRecord{}
	}
	response.Success(c, HistoryResult{Hands: records, Totals: totals})
}
