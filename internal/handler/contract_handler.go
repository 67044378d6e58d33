package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nicoland00/grasschain-contract-spl/internal/engine"
	"github.com/nicoland00/grasschain-contract-spl/internal/logic"
	"gorm.io/gorm"
)

// CallerHeader 请求方身份头
const CallerHeader = "X-Caller-Address"

// ContractHandler 合约查询与创建
type ContractHandler struct {
	engine        *engine.Engine
	contractLogic *logic.ContractLogic
	investorLogic *logic.InvestorRecordLogic
}

// NewContractHandler 创建合约处理器
func NewContractHandler(db *gorm.DB, eng *engine.Engine) *ContractHandler {
	return &ContractHandler{
		engine:        eng,
		contractLogic: logic.NewContractLogic(db),
		investorLogic: logic.NewInvestorRecordLogic(db),
	}
}

// CreateContract 创建合约
func (h *ContractHandler) CreateContract(c *gin.Context) {
	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	contract, err := h.engine.CreateContract(c.Request.Context(), caller(c), engine.CreateParams{
		AssetKind:             req.AssetKind,
		EscrowAccount:         req.EscrowAccount,
		TotalInvestmentNeeded: req.TotalInvestmentNeeded,
		YieldPercentage:       req.YieldPercentage,
		Duration:              time.Duration(req.DurationSeconds) * time.Second,
		FarmName:              req.FarmName,
		FarmAddress:           req.FarmAddress,
		FarmImageURL:          req.FarmImageURL,
	})
	if err != nil {
		EngineErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "contract created", ToContractResponse(contract))
}

// GetContracts 获取合约列表
func (h *ContractHandler) GetContracts(c *gin.Context) {
	status := c.Query("status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	contracts, total, err := h.contractLogic.GetContracts(status, page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"contracts": ToContractResponseList(contracts),
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetContract 获取合约详情
func (h *ContractHandler) GetContract(c *gin.Context) {
	id, ok := contractId(c)
	if !ok {
		return
	}

	contract, err := h.contractLogic.GetContract(id)
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToContractResponse(contract))
}

// GetContractInvestors 获取合约投资人记录
func (h *ContractHandler) GetContractInvestors(c *gin.Context) {
	id, ok := contractId(c)
	if !ok {
		return
	}

	records, err := h.investorLogic.GetContractInvestors(id)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToInvestorRecordResponseList(records))
}

// GetContractStats 获取合约统计信息
func (h *ContractHandler) GetContractStats(c *gin.Context) {
	id, ok := contractId(c)
	if !ok {
		return
	}

	stats, err := h.contractLogic.GetContractStats(id, time.Now())
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", stats)
}

// GetAllStats 获取全局统计信息
func (h *ContractHandler) GetAllStats(c *gin.Context) {
	stats, err := h.contractLogic.GetAllContractStats()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", stats)
}

// caller 取出请求方身份
func caller(c *gin.Context) string {
	return c.GetHeader(CallerHeader)
}

// contractId 解析路径里的合约ID，失败时直接写响应
func contractId(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid contract id")
		return 0, false
	}
	return id, true
}
