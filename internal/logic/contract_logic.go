package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/nicoland00/grasschain-contract-spl/internal/model"
	"gorm.io/gorm"
)

// ContractLogic 合约查询逻辑
type ContractLogic struct {
	db *gorm.DB
}

// NewContractLogic 创建合约查询逻辑
func NewContractLogic(db *gorm.DB) *ContractLogic {
	return &ContractLogic{db: db}
}

// GetContracts 获取合约列表，支持状态过滤和分页
func (l *ContractLogic) GetContracts(status string, page, pageSize int) ([]model.ContractModel, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	query := l.db.Model(&model.ContractModel{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contracts: %w", err)
	}

	var contracts []model.ContractModel
	if err := query.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&contracts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list contracts: %w", err)
	}

	return contracts, total, nil
}

// GetContract 获取合约详情
func (l *ContractLogic) GetContract(id int64) (*model.ContractModel, error) {
	var contract model.ContractModel
	if err := l.db.Preload("InvestorRecords").First(&contract, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("contract not found")
		}
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}

	return &contract, nil
}

// GetContractStats 获取单个合约的统计信息
func (l *ContractLogic) GetContractStats(id int64, now time.Time) (map[string]interface{}, error) {
	contract, err := l.GetContract(id)
	if err != nil {
		return nil, err
	}

	var investorCount int64
	if err := l.db.Model(&model.InvestorRecordModel{}).
		Where("contract_id = ?", id).
		Count(&investorCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count investors: %w", err)
	}

	fundedPercentage := float64(0)
	if contract.TotalInvestmentNeeded > 0 {
		fundedPercentage = float64(contract.AmountFundedSoFar) / float64(contract.TotalInvestmentNeeded) * 100
	}

	// 当前阶段剩余时间
	remaining := time.Duration(0)
	switch contract.Status {
	case model.ContractStatusCreated, model.ContractStatusFunding:
		if now.Before(contract.FundingDeadline) {
			remaining = contract.FundingDeadline.Sub(now)
		}
	case model.ContractStatusPendingBuyback:
		if contract.BuybackDeadline != nil && now.Before(*contract.BuybackDeadline) {
			remaining = contract.BuybackDeadline.Sub(now)
		}
	case model.ContractStatusProlonged:
		if contract.ProlongedDeadline != nil && now.Before(*contract.ProlongedDeadline) {
			remaining = contract.ProlongedDeadline.Sub(now)
		}
	}

	return map[string]interface{}{
		"contract_id":             contract.Id,
		"status":                  string(contract.Status),
		"amount_funded_so_far":    contract.AmountFundedSoFar,
		"total_investment_needed": contract.TotalInvestmentNeeded,
		"funded_percentage":       fundedPercentage,
		"investor_count":          investorCount,
		"remaining_time":          remaining.String(),
	}, nil
}

// GetAllContractStats 获取全局统计信息
func (l *ContractLogic) GetAllContractStats() (map[string]interface{}, error) {
	var totalContracts int64
	l.db.Model(&model.ContractModel{}).Count(&totalContracts)

	countByStatus := make(map[string]int64)
	for _, status := range []model.ContractStatus{
		model.ContractStatusCreated,
		model.ContractStatusFunding,
		model.ContractStatusFundedPendingVerification,
		model.ContractStatusActive,
		model.ContractStatusPendingBuyback,
		model.ContractStatusProlonged,
		model.ContractStatusSettled,
		model.ContractStatusDefaulted,
		model.ContractStatusCancelled,
	} {
		var count int64
		l.db.Model(&model.ContractModel{}).Where("status = ?", status).Count(&count)
		countByStatus[string(status)] = count
	}

	var totalFunded int64
	l.db.Model(&model.ContractModel{}).Select("COALESCE(SUM(amount_funded_so_far), 0)").Scan(&totalFunded)

	var totalInvestors int64
	l.db.Model(&model.InvestorRecordModel{}).Distinct("investor").Count(&totalInvestors)

	return map[string]interface{}{
		"totalContracts": totalContracts,
		"byStatus":       countByStatus,
		"totalFunded":    fmt.Sprintf("%d", totalFunded),
		"totalInvestors": totalInvestors,
	}, nil
}
