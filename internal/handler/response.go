package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nicoland00/grasschain-contract-spl/internal/engine"
)

// Response 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// EngineErrorResponse 把状态机守卫错误映射为HTTP状态码
func EngineErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrUnauthorized):
		ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, engine.ErrInvalidStatus),
		errors.Is(err, engine.ErrAlreadyClaimed),
		errors.Is(err, engine.ErrAlreadyFullyFunded),
		errors.Is(err, engine.ErrUnsettledInvestors):
		ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrDeadlineExceeded),
		errors.Is(err, engine.ErrDeadlineNotReached),
		errors.Is(err, engine.ErrAmountExceedsCapacity),
		errors.Is(err, engine.ErrInsufficientBuyback),
		errors.Is(err, engine.ErrAssetMismatch),
		errors.Is(err, engine.ErrArithmeticOverflow),
		errors.Is(err, engine.ErrInvalidAmount):
		ErrorResponse(c, http.StatusUnprocessableEntity, err.Error())
	default:
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
}
