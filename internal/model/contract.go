package model

import (
	"time"
)

// ContractModel 投资合约模型
type ContractModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 管理员与资产信息
	Admin         string `json:"admin" gorm:"size:64;not null;index"`
	AssetKind     string `json:"asset_kind" gorm:"size:64;not null"`
	EscrowAccount string `json:"escrow_account" gorm:"size:64;not null"`

	// 募资信息
	TotalInvestmentNeeded int64 `json:"total_investment_needed" gorm:"not null" binding:"required,min=1"`
	AmountFundedSoFar     int64 `json:"amount_funded_so_far" gorm:"default:0"`
	YieldPercentage       int64 `json:"yield_percentage"`
	Duration              int64 `json:"duration" gorm:"not null"` // 投资期限（秒）

	// 时间信息
	UploadDate        time.Time  `json:"upload_date" gorm:"not null"`
	FundingDeadline   time.Time  `json:"funding_deadline" gorm:"not null"`
	FundedTime        *time.Time `json:"funded_time"`
	StartTime         *time.Time `json:"start_time"`
	BuybackDeadline   *time.Time `json:"buyback_deadline"`
	ProlongedDeadline *time.Time `json:"prolonged_deadline"`

	// 募资是否已确认
	Verified bool `json:"verified" gorm:"default:false"`

	// 状态
	Status ContractStatus `json:"status" gorm:"size:32;default:'created'"`

	// 农场展示信息（状态机不关心）
	FarmName     string `json:"farm_name" gorm:"size:128"`
	FarmAddress  string `json:"farm_address" gorm:"size:256"`
	FarmImageURL string `json:"farm_image_url" gorm:"size:256"`

	// 关联
	InvestorRecords []InvestorRecordModel `json:"investor_records,omitempty" gorm:"foreignKey:ContractId"`
}

// ContractStatus 合约状态
type ContractStatus string

const (
	ContractStatusCreated                   ContractStatus = "created"                     // 已创建，等待投资
	ContractStatusFunding                   ContractStatus = "funding"                     // 募资中
	ContractStatusFundedPendingVerification ContractStatus = "funded_pending_verification" // 已满额，等待管理员处理
	ContractStatusActive                    ContractStatus = "active"                      // 投资期进行中
	ContractStatusPendingBuyback            ContractStatus = "pending_buyback"             // 到期，等待回购
	ContractStatusProlonged                 ContractStatus = "prolonged"                   // 回购期已延长
	ContractStatusSettled                   ContractStatus = "settled"                     // 已结算
	ContractStatusDefaulted                 ContractStatus = "defaulted"                   // 违约
	ContractStatusCancelled                 ContractStatus = "cancelled"                   // 已取消
)

// IsTerminal 是否为终态
func (s ContractStatus) IsTerminal() bool {
	switch s {
	case ContractStatusSettled, ContractStatusDefaulted, ContractStatusCancelled:
		return true
	}
	return false
}

// TableName 自定义表名
func (ContractModel) TableName() string {
	return "contract"
}
