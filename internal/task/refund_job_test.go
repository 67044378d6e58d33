package task

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nicoland00/grasschain-contract-spl/internal/auth"
	"github.com/nicoland00/grasschain-contract-spl/internal/clock"
	"github.com/nicoland00/grasschain-contract-spl/internal/config"
	"github.com/nicoland00/grasschain-contract-spl/internal/database"
	"github.com/nicoland00/grasschain-contract-spl/internal/engine"
	"github.com/nicoland00/grasschain-contract-spl/internal/ledger"
	"github.com/nicoland00/grasschain-contract-spl/internal/model"
	"github.com/nicoland00/grasschain-contract-spl/internal/reward"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	adminAddr  = "0xadmin"
	escrowAddr = "0xescrow"
	assetKind  = "USDC"
)

func newJobEnv(t *testing.T) (*gorm.DB, *engine.Engine, *ledger.MemoryLedger, *clock.FixedClock, *config.Config) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	clk := clock.NewFixed(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	vault := ledger.NewMemory()
	cfg := &config.Config{
		Contract: config.ContractConfig{
			Admins:            []string{adminAddr},
			RequiredAssetKind: assetKind,
			FundingWindow:     30 * 24 * time.Hour,
			AdminWindow:       30 * 24 * time.Hour,
			BuybackWindow:     14 * 24 * time.Hour,
			ProlongWindow:     14 * 24 * time.Hour,
		},
		Task: config.TaskConfig{Interval: 60, RefundPoolSize: 4},
	}

	eng := engine.New(db, vault, clk, auth.New(cfg.Contract.Admins), reward.NewLocal(), cfg.Contract)
	return db, eng, vault, clk, cfg
}

func TestRefundJobFansOutPerInvestor(t *testing.T) {
	db, eng, vault, _, cfg := newJobEnv(t)
	ctx := context.Background()

	contract, err := eng.CreateContract(ctx, adminAddr, engine.CreateParams{
		AssetKind:             assetKind,
		EscrowAccount:         escrowAddr,
		TotalInvestmentNeeded: 1000,
		YieldPercentage:       10,
		Duration:              30 * 24 * time.Hour,
	})
	require.NoError(t, err)

	investors := []string{"0xa", "0xb", "0xc"}
	for _, inv := range investors {
		vault.Mint(inv, assetKind, 300)
		require.NoError(t, eng.Contribute(ctx, contract.Id, inv, 300))
	}
	require.NoError(t, eng.VerifyFunding(ctx, contract.Id, adminAddr))
	require.NoError(t, eng.AdminCancel(ctx, contract.Id, adminAddr))

	job := NewRefundJob(db, eng, cfg)
	job.Execute()

	for _, inv := range investors {
		assert.Equal(t, int64(300), vault.Balance(inv, assetKind), "investor %s", inv)
	}
	assert.Equal(t, int64(0), vault.Balance(escrowAddr, assetKind))

	var outstanding int64
	db.Model(&model.InvestorRecordModel{}).
		Where("contract_id = ? AND amount > 0", contract.Id).
		Count(&outstanding)
	assert.Equal(t, int64(0), outstanding)

	var refunds int64
	db.Model(&model.RefundRecordModel{}).Where("contract_id = ?", contract.Id).Count(&refunds)
	assert.Equal(t, int64(3), refunds)

	// 第二轮扫描没有可退记录，不产生新的退款
	job.Execute()
	db.Model(&model.RefundRecordModel{}).Where("contract_id = ?", contract.Id).Count(&refunds)
	assert.Equal(t, int64(3), refunds)
}

func TestFundingExpiryJobCancelsStaleContracts(t *testing.T) {
	db, eng, vault, clk, cfg := newJobEnv(t)
	ctx := context.Background()

	contract, err := eng.CreateContract(ctx, adminAddr, engine.CreateParams{
		AssetKind:             assetKind,
		EscrowAccount:         escrowAddr,
		TotalInvestmentNeeded: 1000,
		YieldPercentage:       10,
		Duration:              30 * 24 * time.Hour,
	})
	require.NoError(t, err)

	vault.Mint("0xa", assetKind, 400)
	require.NoError(t, eng.Contribute(ctx, contract.Id, "0xa", 400))

	job := NewFundingExpiryJob(db, eng, clk, cfg)

	// 窗口未过，扫描不动任何合约
	job.Execute()
	var got model.ContractModel
	require.NoError(t, db.First(&got, contract.Id).Error)
	assert.Equal(t, model.ContractStatusFunding, got.Status)

	clk.Advance(31 * 24 * time.Hour)
	job.Execute()
	require.NoError(t, db.First(&got, contract.Id).Error)
	assert.Equal(t, model.ContractStatusCancelled, got.Status)
}
