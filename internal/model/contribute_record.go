package model

import (
	"time"
)

// ContributeRecordModel 投资流水记录
type ContributeRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ContractId int64  `json:"contract_id" gorm:"not null;index"`
	Investor   string `json:"investor" gorm:"size:64;not null"`
	Amount     int64  `json:"amount" gorm:"not null"`
	TxRef      string `json:"tx_ref" gorm:"size:128"`
}

// TableName 自定义表名
func (ContributeRecordModel) TableName() string {
	return "contribute_record"
}
