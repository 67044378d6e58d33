package handler

import (
	"time"

	"github.com/nicoland00/grasschain-contract-spl/internal/model"
)

// 请求模型

// CreateContractRequest 创建合约请求
type CreateContractRequest struct {
	AssetKind             string `json:"asset_kind" binding:"required"`
	EscrowAccount         string `json:"escrow_account" binding:"required"`
	TotalInvestmentNeeded int64  `json:"total_investment_needed" binding:"required,min=1"`
	YieldPercentage       int64  `json:"yield_percentage"`
	DurationSeconds       int64  `json:"duration_seconds" binding:"required,min=1"`
	FarmName              string `json:"farm_name"`
	FarmAddress           string `json:"farm_address"`
	FarmImageURL          string `json:"farm_image_url"`
}

// InvestRequest 投资请求
type InvestRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

// SettleRequest 结算请求
type SettleRequest struct {
	Investor string `json:"investor" binding:"required"`
}

// RefundRequest 退款请求
type RefundRequest struct {
	Investor string `json:"investor" binding:"required"`
	Reason   string `json:"reason"`
}

// 响应模型

// ContractResponse 合约响应模型
type ContractResponse struct {
	Id                    int64      `json:"id"`
	Admin                 string     `json:"admin"`
	AssetKind             string     `json:"assetKind"`
	EscrowAccount         string     `json:"escrowAccount"`
	TotalInvestmentNeeded int64      `json:"totalInvestmentNeeded"`
	AmountFundedSoFar     int64      `json:"amountFundedSoFar"`
	YieldPercentage       int64      `json:"yieldPercentage"`
	DurationSeconds       int64      `json:"durationSeconds"`
	Status                string     `json:"status"`
	Verified              bool       `json:"verified"`
	UploadDate            time.Time  `json:"uploadDate"`
	FundingDeadline       time.Time  `json:"fundingDeadline"`
	FundedTime            *time.Time `json:"fundedTime,omitempty"`
	StartTime             *time.Time `json:"startTime,omitempty"`
	BuybackDeadline       *time.Time `json:"buybackDeadline,omitempty"`
	ProlongedDeadline     *time.Time `json:"prolongedDeadline,omitempty"`
	FarmName              string     `json:"farmName"`
	FarmAddress           string     `json:"farmAddress"`
	FarmImageURL          string     `json:"farmImageUrl"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// InvestorRecordResponse 投资人记录响应模型
type InvestorRecordResponse struct {
	Id            int64     `json:"id"`
	ContractId    int64     `json:"contractId"`
	Investor      string    `json:"investor"`
	Amount        int64     `json:"amount"`
	ClaimedReward bool      `json:"claimedReward"`
	RewardMint    string    `json:"rewardMint,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// 转换函数

// ToContractResponse 将数据库模型转换为响应模型
func ToContractResponse(contract *model.ContractModel) ContractResponse {
	return ContractResponse{
		Id:                    contract.Id,
		Admin:                 contract.Admin,
		AssetKind:             contract.AssetKind,
		EscrowAccount:         contract.EscrowAccount,
		TotalInvestmentNeeded: contract.TotalInvestmentNeeded,
		AmountFundedSoFar:     contract.AmountFundedSoFar,
		YieldPercentage:       contract.YieldPercentage,
		DurationSeconds:       contract.Duration,
		Status:                string(contract.Status),
		Verified:              contract.Verified,
		UploadDate:            contract.UploadDate,
		FundingDeadline:       contract.FundingDeadline,
		FundedTime:            contract.FundedTime,
		StartTime:             contract.StartTime,
		BuybackDeadline:       contract.BuybackDeadline,
		ProlongedDeadline:     contract.ProlongedDeadline,
		FarmName:              contract.FarmName,
		FarmAddress:           contract.FarmAddress,
		FarmImageURL:          contract.FarmImageURL,
		CreatedAt:             contract.CreatedAt,
		UpdatedAt:             contract.UpdatedAt,
	}
}

// ToContractResponseList 将数据库模型列表转换为响应模型列表
func ToContractResponseList(contracts []model.ContractModel) []ContractResponse {
	result := make([]ContractResponse, len(contracts))
	for i, contract := range contracts {
		result[i] = ToContractResponse(&contract)
	}
	return result
}

// ToInvestorRecordResponse 将投资人记录转换为响应模型
func ToInvestorRecordResponse(record *model.InvestorRecordModel) InvestorRecordResponse {
	return InvestorRecordResponse{
		Id:            record.Id,
		ContractId:    record.ContractId,
		Investor:      record.Investor,
		Amount:        record.Amount,
		ClaimedReward: record.ClaimedReward,
		RewardMint:    record.RewardMint,
		CreatedAt:     record.CreatedAt,
	}
}

// ToInvestorRecordResponseList 将投资人记录列表转换为响应模型列表
func ToInvestorRecordResponseList(records []model.InvestorRecordModel) []InvestorRecordResponse {
	result := make([]InvestorRecordResponse, len(records))
	for i, record := range records {
		result[i] = ToInvestorRecordResponse(&record)
	}
	return result
}
