package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.mahjong/internal/game"
	"sudooom.mahjong/internal/game/mahjong"
	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/round"
	"sudooom.mahjong/internal/model"
)

// setupTestRouter 创建测试用的 gin 路由, 挂上全部接口
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mj := mahjong.NewMahjongService(mahjong.Config{Round: round.DefaultConfig()}, nil)
	manager := game.NewGameManager(0, time.Hour, time.Hour)
	t.Cleanup(func() { _ = manager.Shutdown(context.Background()) })
	games := game.NewGameService(game.Deps{Manager: manager, Mahjong: mj}, game.Config{})

	r := gin.New()
	advice := NewAdviceHandler(mj)
	tables := NewTableHandler(games)
	r.POST("/api/v1/evaluate", advice.Evaluate)
	r.POST("/api/v1/score", advice.Score)
	r.POST("/api/v1/tables", tables.Create)
	r.GET("/api/v1/tables", tables.List)
	r.GET("/api/v1/tables/:id", tables.Get)
	r.POST("/api/v1/tables/:id/moves", tables.Move)
	r.GET("/api/v1/tables/:id/hands", NewHistoryHandler(history).Hands)
	return r
}

// fakeHistory 内存中的对局记录
type fakeHistory struct {
	records map[string][]*model.HandRecord
	err     error
}

func (f *fakeHistory) ListByGame(_ context.Context, gameID string) ([]*model.HandRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[gameID], nil
}

func (f *fakeHistory) Totals(_ context.Context, gameID string) (map[int]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	totals := make(map[int]int)
	for _, rec := range f.records[gameID] {
		for _, p := range rec.Players {
			totals[p.Seat] += p.Delta
		}
	}
	return totals, nil
}

var history = &fakeHistory{records: map[string][]*model.HandRecord{
	"g1": {
		{ID: 1, GameID: "g1", HandNo: 1, Players: []model.PlayerResult{{Seat: 0, Delta: 2000}, {Seat: 1, Delta: -2000}}},
		{ID: 2, GameID: "g1", HandNo: 2, Players: []model.PlayerResult{{Seat: 0, Delta: -500}, {Seat: 1, Delta: 500}}},
	},
}}

// APIResponse 用于解析响应体
type APIResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) APIResponse {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAdviceHandler_Evaluate(t *testing.T) {
	r := setupTestRouter(t)

	tests := []struct {
		name    string
		body    EvaluateRequest
		winning bool
		waiting string
		shanten int
	}{
		{
			name:    "已和",
			body:    EvaluateRequest{Rules: "sichuan", Hand: "123456789m11s234p"},
			winning: true,
			shanten: -1,
		},
		{
			name:    "听牌",
			body:    EvaluateRequest{Rules: "sichuan", Hand: "123456789m1s234p"},
			waiting: "1s",
			shanten: 0,
		},
		{
			name: "带副露",
			body: EvaluateRequest{Rules: "beijing", Hand: "456m11s234p78m", Melds: []MeldInput{
				{Type: "pong", Tiles: "555z"},
			}},
			waiting: "69m",
			shanten: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, r, http.MethodPost, "/api/v1/evaluate", tt.body)
			require.Equal(t, 0, resp.Code, resp.Message)

			var result EvaluateResult
			require.NoError(t, json.Unmarshal(resp.Data, &result))
			assert.Equal(t, tt.winning, result.Winning)
			assert.Equal(t, tt.waiting, result.Waiting)
			assert.Equal(t, tt.shanten, result.Shanten)
		})
	}
}

func TestAdviceHandler_EvaluateDiscards(t *testing.T) {
	r := setupTestRouter(t)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/evaluate", EvaluateRequest{
		Rules: "sichuan", Hand: "123456789m1s234p9p", ExcludedSuit: "s",
	})
	require.Equal(t, 0, resp.Code, resp.Message)

	var result EvaluateResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.False(t, result.Winning)
	require.NotEmpty(t, result.Discards)
	assert.True(t, result.Discards[0].Excluded, "定缺的条子必须先打")
	assert.Equal(t, core.TileSuitTiao, result.Discards[0].Tile.Suit)
	assert.Equal(t, int8(1), result.Discards[0].Tile.Value)
}

func TestAdviceHandler_EvaluateErrors(t *testing.T) {
	r := setupTestRouter(t)

	tests := []struct {
		name string
		body any
		code int
	}{
		{"缺少参数", map[string]string{"rules": "sichuan"}, 11002},
		{"不支持的玩法", EvaluateRequest{Rules: "riichi", Hand: "123m"}, 20002},
		{"牌面无效", EvaluateRequest{Rules: "sichuan", Hand: "0m"}, 21002},
		{"张数不对", EvaluateRequest{Rules: "sichuan", Hand: "123m"}, 21002},
		{"超过四张", EvaluateRequest{Rules: "sichuan", Hand: "11111m", Melds: nil}, 21002},
		{"副露不成立", EvaluateRequest{Rules: "sichuan", Hand: "123456789m1s", Melds: []MeldInput{{Type: "pong", Tiles: "123p"}}}, 21002},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, r, http.MethodPost, "/api/v1/evaluate", tt.body)
			assert.Equal(t, tt.code, resp.Code, resp.Message)
		})
	}
}

func TestAdviceHandler_Score(t *testing.T) {
	r := setupTestRouter(t)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/score", ScoreRequest{
		Rules:        "sichuan",
		Hand:         "11223344556677m",
		WinningTile:  "7m",
		SelfDrawn:    true,
		ExcludedSuit: "p",
	})
	require.Equal(t, 0, resp.Code, resp.Message)

	var result struct {
		Total int `json:"total"`
		Fans  []struct {
			Name string `json:"name"`
		} `json:"fans"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	names := make([]string, 0, len(result.Fans))
	for _, f := range result.Fans {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "qingQidui")
	assert.GreaterOrEqual(t, result.Total, 1)
}

func TestAdviceHandler_ScoreErrors(t *testing.T) {
	r := setupTestRouter(t)

	t.Run("定缺未打完", func(t *testing.T) {
		resp := doJSON(t, r, http.MethodPost, "/api/v1/score", ScoreRequest{
			Rules: "sichuan", Hand: "123456789m11s234p", WinningTile: "4p", ExcludedSuit: "s",
		})
		assert.Equal(t, 21003, resp.Code)
		assert.Contains(t, resp.Message, "EXCLUDED_SUIT")
	})
	t.Run("不是和牌", func(t *testing.T) {
		resp := doJSON(t, r, http.MethodPost, "/api/v1/score", ScoreRequest{
			Rules: "beijing", Hand: "123456789m12s234p", WinningTile: "4p",
		})
		assert.Equal(t, 21002, resp.Code)
	})
	t.Run("门风不是风牌", func(t *testing.T) {
		resp := doJSON(t, r, http.MethodPost, "/api/v1/score", ScoreRequest{
			Rules: "beijing", Hand: "123456789m11s234p", WinningTile: "4p", SeatWind: "5z",
		})
		assert.Equal(t, 21002, resp.Code)
	})
}

func TestTableHandler_Flow(t *testing.T) {
	r := setupTestRouter(t)

	seed := int64(2)
	resp := doJSON(t, r, http.MethodPost, "/api/v1/tables", game.CreateRequest{GameType: "beijing", Seed: &seed})
	require.Equal(t, 0, resp.Code, resp.Message)

	var view game.GameView
	require.NoError(t, json.Unmarshal(resp.Data, &view))
	require.NotEmpty(t, view.ID)
	assert.Equal(t, 0, view.Viewer)
	assert.NotEmpty(t, view.Players[0].Hand)
	assert.Empty(t, view.Players[1].Hand)

	// 旁观视角
	resp = doJSON(t, r, http.MethodGet, "/api/v1/tables/"+view.ID, nil)
	require.Equal(t, 0, resp.Code)
	var spectator game.GameView
	require.NoError(t, json.Unmarshal(resp.Data, &spectator))
	assert.Equal(t, game.Spectator, spectator.Viewer)
	assert.Empty(t, spectator.Players[0].Hand)

	// 座位 0 摸牌
	seat := 0
	resp = doJSON(t, r, http.MethodPost, "/api/v1/tables/"+view.ID+"/moves", MoveRequest{
		Seat: &seat, Move: mahjong.Move{Type: mahjong.MoveDraw},
	})
	require.Equal(t, 0, resp.Code, resp.Message)
	var result MoveResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	require.NotEmpty(t, result.Events)
	assert.Equal(t, round.EventDraw, result.Events[0].Type)
	assert.Equal(t, round.PhaseSelfWinCheck, result.View.Phase)
	assert.NotNil(t, result.View.SelfOptions)

	// 再摸一次是非法操作
	resp = doJSON(t, r, http.MethodPost, "/api/v1/tables/"+view.ID+"/moves", MoveRequest{
		Seat: &seat, Move: mahjong.Move{Type: mahjong.MoveDraw},
	})
	assert.Equal(t, 21001, resp.Code)

	// 列表
	resp = doJSON(t, r, http.MethodGet, "/api/v1/tables", nil)
	require.Equal(t, 0, resp.Code)
	var list struct {
		List []game.GameSummary `json:"list"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list.List, 1)
	assert.Equal(t, view.ID, list.List[0].ID)
}

func TestTableHandler_Errors(t *testing.T) {
	r := setupTestRouter(t)
	seat := 1

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		code   int
	}{
		{"牌桌不存在", http.MethodGet, "/api/v1/tables/nope", nil, 20001},
		{"座位参数无效", http.MethodGet, "/api/v1/tables/nope?seat=x", nil, 20003},
		{"缺少玩法", http.MethodPost, "/api/v1/tables", map[string]any{}, 11002},
		{"缺少座位", http.MethodPost, "/api/v1/tables/nope/moves", map[string]any{"move": map[string]string{"type": "draw"}}, 11002},
		{"操作提交到不存在的牌桌", http.MethodPost, "/api/v1/tables/nope/moves", MoveRequest{Seat: &seat, Move: mahjong.Move{Type: mahjong.MoveDraw}}, 20001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, resp.Code, resp.Message)
		})
	}
}

func TestHistoryHandler_Hands(t *testing.T) {
	r := setupTestRouter(t)

	resp := doJSON(t, r, http.MethodGet, "/api/v1/tables/g1/hands", nil)
	require.Equal(t, 0, resp.Code, resp.Message)
	var result HistoryResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Len(t, result.Hands, 2)
	assert.Equal(t, 1500, result.Totals[0])
	assert.Equal(t, -1500, result.Totals[1])

	// 没有记录时返回空列表
	resp = doJSON(t, r, http.MethodGet, "/api/v1/tables/none/hands", nil)
	require.Equal(t, 0, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.NotNil(t, result.Hands)
	assert.Empty(t, result.Hands)
}

func TestHistoryHandler_DBError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/tables/:id/hands", NewHistoryHandler(&fakeHistory{err: errors.New("connection refused")}).Hands)

	resp := doJSON(t, r, http.MethodGet, "/api/v1/tables/g1/hands", nil)
	assert.Equal(t, 50002, resp.Code)
}
