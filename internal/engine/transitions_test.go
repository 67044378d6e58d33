package engine

import (
	"context"
	"testing"
	"time"

	"github.com/nicoland00/grasschain-contract-spl/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 操作名 => 合法起始状态集合，对应生命周期转移表。
// 其余任何 (状态, 操作) 组合都必须以 ErrInvalidStatus 失败且不改动合约。
var legalSourceStates = map[string][]model.ContractStatus{
	"contribute":      {model.ContractStatusCreated, model.ContractStatusFunding},
	"verify_funding":  {model.ContractStatusFunding},
	"expire_funding":  {model.ContractStatusCreated, model.ContractStatusFunding},
	"admin_withdraw":  {model.ContractStatusFundedPendingVerification},
	"admin_cancel":    {model.ContractStatusFundedPendingVerification},
	"check_maturity":  {model.ContractStatusActive},
	"settle_investor": {model.ContractStatusPendingBuyback, model.ContractStatusProlonged},
	"close_contract":  {model.ContractStatusPendingBuyback, model.ContractStatusProlonged},
	"prolong":         {model.ContractStatusPendingBuyback},
	"default":         {model.ContractStatusProlonged},
	"refund_investor": {model.ContractStatusCancelled},
}

var allStatuses = []model.ContractStatus{
	model.ContractStatusCreated,
	model.ContractStatusFunding,
	model.ContractStatusFundedPendingVerification,
	model.ContractStatusActive,
	model.ContractStatusPendingBuyback,
	model.ContractStatusProlonged,
	model.ContractStatusSettled,
	model.ContractStatusDefaulted,
	model.ContractStatusCancelled,
}

// seedContract 直接落库一个处于指定状态的合约，所有时间字段都已填好
func seedContract(t *testing.T, env *testEnv, status model.ContractStatus) *model.ContractModel {
	t.Helper()

	now := env.clock.Now()
	later := now.Add(24 * time.Hour)
	contract := &model.ContractModel{
		Admin:                 adminAddr,
		AssetKind:             assetKind,
		EscrowAccount:         escrowAddr,
		TotalInvestmentNeeded: 1000,
		AmountFundedSoFar:     500,
		YieldPercentage:       10,
		Duration:              3600,
		UploadDate:            now,
		FundingDeadline:       later,
		FundedTime:            &now,
		StartTime:             &now,
		BuybackDeadline:       &later,
		ProlongedDeadline:     &later,
		Status:                status,
	}
	require.NoError(t, env.db.Create(contract).Error)
	require.NoError(t, env.db.Create(&model.InvestorRecordModel{
		ContractId: contract.Id,
		Investor:   investorA,
		Amount:     500,
	}).Error)
	return contract
}

func isLegal(op string, status model.ContractStatus) bool {
	for _, s := range legalSourceStates[op] {
		if s == status {
			return true
		}
	}
	return false
}

func TestIllegalTransitionsRejectedEverywhere(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	operations := map[string]func(id int64) error{
		"contribute": func(id int64) error {
			return env.engine.Contribute(ctx, id, investorA, 100)
		},
		"verify_funding": func(id int64) error {
			return env.engine.VerifyFunding(ctx, id, adminAddr)
		},
		"expire_funding": func(id int64) error {
			return env.engine.ExpireFunding(ctx, id)
		},
		"admin_withdraw": func(id int64) error {
			return env.engine.AdminWithdraw(ctx, id, adminAddr)
		},
		"admin_cancel": func(id int64) error {
			return env.engine.AdminCancel(ctx, id, adminAddr)
		},
		"check_maturity": func(id int64) error {
			return env.engine.CheckMaturity(ctx, id)
		},
		"settle_investor": func(id int64) error {
			return env.engine.SettleInvestor(ctx, id, adminAddr, investorA)
		},
		"close_contract": func(id int64) error {
			return env.engine.CloseContract(ctx, id, adminAddr)
		},
		"prolong": func(id int64) error {
			return env.engine.ProlongContract(ctx, id, adminAddr)
		},
		"default": func(id int64) error {
			return env.engine.DefaultContract(ctx, id)
		},
		"refund_investor": func(id int64) error {
			return env.engine.RefundInvestor(ctx, id, investorA, "test")
		},
	}

	for _, status := range allStatuses {
		for op, invoke := range operations {
			if isLegal(op, status) {
				continue
			}

			contract := seedContract(t, env, status)
			err := invoke(contract.Id)
			assert.ErrorIs(t, err, ErrInvalidStatus, "op %s from status %s", op, status)

			// 合约没有任何变化
			got := env.reload(t, contract.Id)
			assert.Equal(t, status, got.Status, "op %s from status %s", op, status)
			assert.Equal(t, contract.AmountFundedSoFar, got.AmountFundedSoFar)
			assert.Equal(t, int64(500), env.recordAmountsSum(t, contract.Id))
		}
	}
}
