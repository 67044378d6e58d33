package logic

import (
	"fmt"

	"github.com/nicoland00/grasschain-contract-spl/internal/model"
	"gorm.io/gorm"
)

// InvestorRecordLogic 投资人记录查询逻辑
type InvestorRecordLogic struct {
	db *gorm.DB
}

// NewInvestorRecordLogic 创建投资人记录查询逻辑
func NewInvestorRecordLogic(db *gorm.DB) *InvestorRecordLogic {
	return &InvestorRecordLogic{db: db}
}

// GetContractInvestors 获取合约的全部投资人记录
func (l *InvestorRecordLogic) GetContractInvestors(contractId int64) ([]model.InvestorRecordModel, error) {
	var records []model.InvestorRecordModel
	if err := l.db.Where("contract_id = ?", contractId).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list investor records: %w", err)
	}
	return records, nil
}

// AmountsSum 合约全部投资人记录的本金之和。
// 结算开始前必须等于合约的 amount_funded_so_far，这是核心一致性不变量。
func (l *InvestorRecordLogic) AmountsSum(contractId int64) (int64, error) {
	var sum int64
	err := l.db.Model(&model.InvestorRecordModel{}).
		Where("contract_id = ?", contractId).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum investor records: %w", err)
	}
	return sum, nil
}

// GetOutstanding 获取仍有未退/未结本金的投资人记录
func (l *InvestorRecordLogic) GetOutstanding(contractId int64) ([]model.InvestorRecordModel, error) {
	var records []model.InvestorRecordModel
	if err := l.db.Where("contract_id = ? AND amount > 0", contractId).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list outstanding records: %w", err)
	}
	return records, nil
}
