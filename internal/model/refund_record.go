package model

import (
	"time"
)

// RefundRecordModel 退款记录
type RefundRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ContractId   int64  `json:"contract_id" gorm:"not null;index"`
	Investor     string `json:"investor" gorm:"size:64;not null"`
	Amount       int64  `json:"amount" gorm:"not null"`
	TxRef        string `json:"tx_ref" gorm:"size:128"`
	RefundReason string `json:"refund_reason" gorm:"size:256"`
}

// TableName 自定义表名
func (RefundRecordModel) TableName() string {
	return "refund_record"
}
