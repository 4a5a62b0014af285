package core

import "fmt"

// GameError 游戏错误类型
type GameError struct {
	Code    string                 // 错误代码
	Message string                 // 错误消息
	Cause   error                  // 原因错误
	Context map[string]interface{} // 错误上下文
}

func (e *GameError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *GameError) Unwrap() error {
	return e.Cause
}

// Is 错误代码相同即视为同一错误, 便于 errors.Is 匹配带上下文的副本
func (e *GameError) Is(target error) bool {
	t, ok := target.(*GameError)
	return ok && t.Code == e.Code
}

// NewGameError 创建游戏错误
func NewGameError(code, message string) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// clone 预定义错误是共享变量, 追加信息前先复制
func (e *GameError) clone() *GameError {
	cp := &GameError{Code: e.Code, Message: e.Message, Cause: e.Cause}
	cp.Context = make(map[string]interface{}, len(e.Context)+1)
	for k, v := range e.Context {
		cp.Context[k] = v
	}
	return cp
}

// WithCause 添加原因错误, 返回新的错误
func (e *GameError) WithCause(cause error) *GameError {
	cp := e.clone()
	cp.Cause = cause
	return cp
}

// WithContext 添加上下文信息, 返回新的错误
func (e *GameError) WithContext(key string, value interface{}) *GameError {
	cp := e.clone()
	cp.Context[key] = value
	return cp
}

// 流程相关错误
var (
	ErrInvalidPhase    = NewGameError("INVALID_PHASE", "当前阶段不允许此操作")
	ErrNotYourTurn     = NewGameError("NOT_YOUR_TURN", "还没轮到该座位")
	ErrInvalidSeat     = NewGameError("INVALID_SEAT", "无效的座位")
	ErrAlreadyWon      = NewGameError("ALREADY_WON", "该座位已经和牌")
	ErrWallExhausted   = NewGameError("WALL_EXHAUSTED", "牌墙已空")
	ErrRoundFinished   = NewGameError("ROUND_FINISHED", "本局已结束")
	ErrNotEligible     = NewGameError("NOT_ELIGIBLE", "该座位不在响应名单中")
	ErrAlreadyAnswered = NewGameError("ALREADY_ANSWERED", "该座位已经响应过")
)

// 手牌与操作相关错误
var (
	ErrTileNotInHand      = NewGameError("TILE_NOT_IN_HAND", "手牌中没有指定的牌")
	ErrInvalidHandSize    = NewGameError("INVALID_HAND_SIZE", "手牌数量不正确")
	ErrCannotWin          = NewGameError("CANNOT_WIN", "不能和牌")
	ErrCannotChow         = NewGameError("CANNOT_CHOW", "不能吃")
	ErrCannotPong         = NewGameError("CANNOT_PONG", "不能碰")
	ErrCannotKong         = NewGameError("CANNOT_KONG", "不能杠")
	ErrExcludedSuitFirst  = NewGameError("EXCLUDED_SUIT_FIRST", "必须先打出定缺花色的牌")
	ErrExcludedSuitRemain = NewGameError("EXCLUDED_SUIT_REMAIN", "未完成缺一门")
	ErrInvalidTile        = NewGameError("INVALID_TILE", "无效的牌")
)
