package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sudooom.mahjong/pkg/errors"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 错误码常量（使用 pkg/errors 包的定义）
const (
	CodeSuccess       = apperrors.CodeSuccess
	CodeInvalidParams = apperrors.CodeInvalidParams
	CodeServerError   = apperrors.CodeServerError
)

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// ErrorWithMsg 自定义错误消息
func ErrorWithMsg(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// ErrorFromAppError 从 AppError 生成错误响应
// 规则类错误附带原始原因, 方便客户端提示
func ErrorFromAppError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	message := apperrors.GetMessage(err)
	if detail := apperrors.Detail(err); detail != "" && code != apperrors.CodeServerError {
		message = message + ": " + detail
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// BindJSON 解析请求体, 失败时直接写参数错误响应并返回 false
func BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		ErrorWithMsg(c, CodeInvalidParams, err.Error())
		return false
	}
	return true
}
