package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nicoland00/grasschain-contract-spl/internal/engine"
)

// LifecycleHandler 生命周期转移操作，一个路由对应一次状态转移
type LifecycleHandler struct {
	engine *engine.Engine
}

// NewLifecycleHandler 创建生命周期处理器
func NewLifecycleHandler(eng *engine.Engine) *LifecycleHandler {
	return &LifecycleHandler{engine: eng}
}

// Invest 投资人出资
func (h *LifecycleHandler) Invest(c *gin.Context) {
	id, ok := contractId(c)
	if !ok {
		return
	}

	var req InvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.engine.Contribute(c.Request.Context(), id, caller(c), req.Amount); err != nil {
		EngineErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "contribution accepted", nil)
}

// VerifyFunding 管理员确认募资
func (h *LifecycleHandler) VerifyFunding(c *gin.Context) {
	id, ok := contractId(c)
	if !ok {
		return
	}

	if err := h.engine.VerifyFunding(c.Request.Context(), id, caller(c)); err != nil {
		EngineErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "funding verified", nil)
}

// ExpireFunding 募资过期
func (h *LifecycleHandler) ExpireFunding(c *gin.Context) {
	id, ok := contractId(c)
	if !ok {
		return
	}

	if err := h.engine.ExpireFunding(c.Request.Context(), id); err != nil {
		EngineErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "funding expired, contract cancelled", nil)
}

// Withdraw 管理员提走募资
func (h *LifecycleHandler) Withdraw(c *gin.Context) {
	id, ok := contractId(c)
	if !ok {
		return
	}

	if err := h.engine.AdminWithdraw(c.Request.Context(), id, caller(c)); err != nil {
		EngineErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "funds withdrawn, contract active", nil)
}

// Cancel 管理员取消合约
func (h *LifecycleHandler) Cancel(c *gin.Context) {
	id, ok := contractId(c)
	if !ok {
		return
	}

	if err := h.engine.AdminCancel(c.Request.Context(), id, caller(c)); err != nil {
		EngineErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "contract cancelled", nil)
}

// CheckMaturity 检查投资期是否到期
func (h *LifecycleHandler) CheckMaturity(c *gin.Context) {
	id, ok := contractId(c)
	if !ok {
		return
	}

	if err := h.engine.CheckMaturity(c.Request.Context(), id); err != nil {
		EngineErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "contract matured, pending buyback", nil)
}

// Settle 管理员结算单个投资人
func (h *LifecycleHandler) Settle(c *gin.Context) {
	id, ok := contractId(c)
	if !ok {
		return
	}

	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.engine.SettleInvestor(c.Request.Context(), id, caller(c), req.Investor); err != nil {
		EngineErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "investor settled", nil)
}

// Prolong 管理员申请延期
func (h *LifecycleHandler) Prolong(c *gin.Context) {
	id, ok := contractId(c)
	if !ok {
		return
	}

	if err := h.engine.ProlongContract(c.Request.Context(), id, caller(c)); err != nil {
		EngineErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "contract prolonged", nil)
}

// Default 延长期过后标记违约
func (h *LifecycleHandler) Default(c *gin.Context) {
	id, ok := contractId(c)
	if !ok {
		return
	}

	if err := h.engine.DefaultContract(c.Request.Context(), id); err != nil {
		EngineErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "contract defaulted", nil)
}

// Close 管理员关闭已结清合约
func (h *LifecycleHandler) Close(c *gin.Context) {
	id, ok := contractId(c)
	if !ok {
		return
	}

	if err := h.engine.CloseContract(c.Request.Context(), id, caller(c)); err != nil {
		EngineErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "contract closed", nil)
}

// Refund 向单个投资人退款
func (h *LifecycleHandler) Refund(c *gin.Context) {
	id, ok := contractId(c)
	if !ok {
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.engine.RefundInvestor(c.Request.Context(), id, req.Investor, req.Reason); err != nil {
		EngineErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "investor refunded", nil)
}

// ClaimReward 投资人领取奖励凭证
func (h *LifecycleHandler) ClaimReward(c *gin.Context) {
	id, ok := contractId(c)
	if !ok {
		return
	}

	mint, err := h.engine.ClaimReward(c.Request.Context(), id, caller(c))
	if err != nil {
		EngineErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "reward claimed", gin.H{"reward_mint": mint})
}
