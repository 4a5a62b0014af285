package errors

import (
	"errors"
	"fmt"
)

// AppError 应用错误类型
// 用于统一管理业务错误，包含错误码和错误消息
type AppError struct {
	Code    int    // 错误码
	Message string // 用户可见的错误消息
	Err     error  // 原始错误（可选，用于调试）
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewError 创建新错误
func NewError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装原始错误
func (e *AppError) Wrap(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// Is 判断是否为指定错误
func Is(err error, target *AppError) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == target.Code
	}
	return false
}

// GetCode 获取错误码，如果不是 AppError 返回默认错误码
func GetCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeServerError // 默认返回服务器错误
}

// GetMessage 获取错误消息
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "服务器内部错误"
}

// Detail 原始错误的描述, 没有时为空串
func Detail(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Err != nil {
		return appErr.Err.Error()
	}
	return ""
}

// ============== 错误码定义 ==============

const (
	CodeSuccess = 0

	// 请求相关 11000-11999
	CodeInvalidParams = 11002

	// 牌桌相关 20000-20999
	CodeGameNotFound        = 20001
	CodeUnsupportedGameType = 20002
	CodeInvalidSeat         = 20003
	CodeSeatIsBot           = 20004
	CodeTooManyGames        = 20005
	CodeGameFinished        = 20006

	// 对局操作相关 21000-21999
	CodeInvalidMove   = 21001
	CodeInvalidTiles  = 21002
	CodeRuleViolation = 21003

	// 系统错误 50000-50999
	CodeServerError    = 50001
	CodeDBError        = 50002
	CodeTooManyRequest = 50003
	CodeStoreError     = 50004
)

// ============== 预定义错误 ==============

// 请求相关
var (
	ErrInvalidParams = NewError(CodeInvalidParams, "参数校验失败")
)

// 牌桌相关
var (
	ErrGameNotFound        = NewError(CodeGameNotFound, "牌桌不存在")
	ErrUnsupportedGameType = NewError(CodeUnsupportedGameType, "不支持的玩法")
	ErrInvalidSeat         = NewError(CodeInvalidSeat, "无效的座位")
	ErrSeatIsBot           = NewError(CodeSeatIsBot, "该座位由机器人操作")
	ErrTooManyGames        = NewError(CodeTooManyGames, "牌桌数量已达上限")
	ErrGameFinished        = NewError(CodeGameFinished, "整场已结束")
)

// 对局操作相关
var (
	ErrInvalidMove   = NewError(CodeInvalidMove, "操作不合法")
	ErrInvalidTiles  = NewError(CodeInvalidTiles, "牌的记法不正确")
	ErrRuleViolation = NewError(CodeRuleViolation, "不满足和牌条件")
)

// 系统相关
var (
	ErrServerError    = NewError(CodeServerError, "服务器内部错误")
	ErrDBError        = NewError(CodeDBError, "数据库错误")
	ErrTooManyRequest = NewError(CodeTooManyRequest, "请求过于频繁，请稍后再试")
	ErrStoreError     = NewError(CodeStoreError, "快照存储错误")
)
