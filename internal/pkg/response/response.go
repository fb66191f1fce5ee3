package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码定义
const (
	CodeSuccess             = 0
	CodeParamError          = 1000
	CodeAuthFailed          = 1001
	CodePermissionDenied    = 1002
	CodeResourceNotFound    = 1003
	CodeInsufficientCredits = 1004
	CodeExtractionFailed    = 1006
	CodeContentTooShort     = 1007
	CodePaymentInvalid      = 1008
	CodeServerError         = 5000
	CodeGenerationFailed    = 5001
	CodeServiceUnavailable  = 5003
)

// 错误码对应的默认消息和 HTTP 状态
var codeMessages = map[int]string{
	CodeSuccess:             "success",
	CodeParamError:          "Invalid request",
	CodeAuthFailed:          "Unauthorized",
	CodePermissionDenied:    "Forbidden",
	CodeResourceNotFound:    "Not found",
	CodeInsufficientCredits: "You are out of credits. Please purchase more to continue.",
	CodeExtractionFailed:    "Failed to extract content from the provided URL",
	CodeContentTooShort:     "The extracted content is too short to generate meaningful posts. Please provide a longer video or article.",
	CodePaymentInvalid:      "Payment verification failed",
	CodeServerError:         "An unexpected error occurred. Please try again.",
	CodeGenerationFailed:    "Failed to generate content. Your credit has been refunded.",
	CodeServiceUnavailable:  "Service unavailable",
}

var codeStatus = map[int]int{
	CodeSuccess:             http.StatusOK,
	CodeParamError:          http.StatusBadRequest,
	CodeAuthFailed:          http.StatusUnauthorized,
	CodePermissionDenied:    http.StatusForbidden,
	CodeResourceNotFound:    http.StatusNotFound,
	CodeInsufficientCredits: http.StatusForbidden,
	CodeExtractionFailed:    http.StatusBadRequest,
	CodeContentTooShort:     http.StatusBadRequest,
	CodePaymentInvalid:      http.StatusBadRequest,
	CodeServerError:         http.StatusInternalServerError,
	CodeGenerationFailed:    http.StatusInternalServerError,
	CodeServiceUnavailable:  http.StatusServiceUnavailable,
}

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Hint    string      `json:"hint,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// StatusOf 错误码对应的 HTTP 状态
func StatusOf(code int) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// Created 201 响应
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	ErrorWithHint(c, code, message, "")
}

// ErrorWithHint 带操作建议的错误响应
func ErrorWithHint(c *gin.Context, code int, message, hint string) {
	if message == "" {
		message = codeMessages[code]
	}
	c.JSON(StatusOf(code), Response{
		Code:    code,
		Message: message,
		Hint:    hint,
	})
}

// ParamError 参数错误
func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

// AuthError 认证失败
func AuthError(c *gin.Context, message string) {
	Error(c, CodeAuthFailed, message)
}

// PermissionError 权限不足
func PermissionError(c *gin.Context, message string) {
	Error(c, CodePermissionDenied, message)
}

// NotFoundError 资源不存在
func NotFoundError(c *gin.Context, message string) {
	Error(c, CodeResourceNotFound, message)
}

// CreditsError 积分不足
func CreditsError(c *gin.Context, message string) {
	Error(c, CodeInsufficientCredits, message)
}

// ServerError 服务器错误
func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}

// ErrorWithDetail 带原始错误信息的错误响应，release 模式下不返回 error 字段
func ErrorWithDetail(c *gin.Context, code int, message string, err error) {
	if message == "" {
		message = codeMessages[code]
	}
	resp := Response{
		Code:    code,
		Message: message,
	}
	if err != nil && gin.Mode() != gin.ReleaseMode {
		resp.Error = err.Error()
	}
	c.JSON(StatusOf(code), resp)
}

// ServerErrorWithDetail 服务器错误，附带原始错误
func ServerErrorWithDetail(c *gin.Context, message string, err error) {
	ErrorWithDetail(c, CodeServerError, message, err)
}
