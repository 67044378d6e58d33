package model

import (
	"time"
)

// SettlementRecordModel 结算记录，每个投资人结算一条
type SettlementRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ContractId int64  `json:"contract_id" gorm:"not null;index"`
	Investor   string `json:"investor" gorm:"size:64;not null"`
	Principal  int64  `json:"principal" gorm:"not null"`  // 投资本金
	Buyback    int64  `json:"buyback" gorm:"not null"`    // 实际回购金额（本金+收益）
	TxRef      string `json:"tx_ref" gorm:"size:128"`
}

// TableName 自定义表名
func (SettlementRecordModel) TableName() string {
	return "settlement_record"
}
