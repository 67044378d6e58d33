package model

import (
	"time"
)

// InvestorRecordModel 投资人记录，每个 (合约, 投资人) 一条，首次投资时创建。
// 结算后 Amount 归零但记录保留，作为审计与奖励发放的依据。
type InvestorRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ContractId int64  `json:"contract_id" gorm:"not null;uniqueIndex:idx_contract_investor"`
	Investor   string `json:"investor" gorm:"size:64;not null;uniqueIndex:idx_contract_investor"`
	Amount     int64  `json:"amount" gorm:"not null;default:0"` // 累计投资本金

	// 奖励凭证信息，每个投资人最多发放一次
	ClaimedReward bool   `json:"claimed_reward" gorm:"default:false"`
	RewardMint    string `json:"reward_mint" gorm:"size:64"`
}

// TableName 自定义表名
func (InvestorRecordModel) TableName() string {
	return "investor_record"
}
