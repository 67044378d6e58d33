package logic

import (
	"fmt"
	"testing"
	"time"

	"github.com/nicoland00/grasschain-contract-spl/internal/database"
	"github.com/nicoland00/grasschain-contract-spl/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedContract(t *testing.T, db *gorm.DB, status model.ContractStatus, funded int64) *model.ContractModel {
	t.Helper()
	now := time.Now()
	contract := &model.ContractModel{
		Admin:                 "0xadmin",
		AssetKind:             "USDC",
		EscrowAccount:         "0xescrow",
		TotalInvestmentNeeded: 1000,
		AmountFundedSoFar:     funded,
		YieldPercentage:       10,
		Duration:              3600,
		UploadDate:            now,
		FundingDeadline:       now.Add(24 * time.Hour),
		Status:                status,
	}
	require.NoError(t, db.Create(contract).Error)
	return contract
}

func TestGetContractsFilterAndPagination(t *testing.T) {
	db := newTestDB(t)
	l := NewContractLogic(db)

	for i := 0; i < 3; i++ {
		seedContract(t, db, model.ContractStatusFunding, int64(100*i))
	}
	seedContract(t, db, model.ContractStatusSettled, 1000)

	contracts, total, err := l.GetContracts("", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, contracts, 4)

	contracts, total, err = l.GetContracts(string(model.ContractStatusFunding), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, contracts, 2)

	contracts, _, err = l.GetContracts(string(model.ContractStatusFunding), 2, 2)
	require.NoError(t, err)
	assert.Len(t, contracts, 1)
}

func TestGetContractNotFound(t *testing.T) {
	db := newTestDB(t)
	l := NewContractLogic(db)

	_, err := l.GetContract(42)
	assert.Error(t, err)
}

func TestGetContractStats(t *testing.T) {
	db := newTestDB(t)
	l := NewContractLogic(db)

	contract := seedContract(t, db, model.ContractStatusFunding, 250)
	require.NoError(t, db.Create(&model.InvestorRecordModel{
		ContractId: contract.Id, Investor: "0xa", Amount: 250,
	}).Error)

	stats, err := l.GetContractStats(contract.Id, contract.UploadDate)
	require.NoError(t, err)
	assert.Equal(t, float64(25), stats["funded_percentage"])
	assert.Equal(t, int64(1), stats["investor_count"])
	assert.Equal(t, (24 * time.Hour).String(), stats["remaining_time"])
}

func TestAmountsSum(t *testing.T) {
	db := newTestDB(t)
	l := NewInvestorRecordLogic(db)

	contract := seedContract(t, db, model.ContractStatusFunding, 700)
	require.NoError(t, db.Create(&model.InvestorRecordModel{
		ContractId: contract.Id, Investor: "0xa", Amount: 300,
	}).Error)
	require.NoError(t, db.Create(&model.InvestorRecordModel{
		ContractId: contract.Id, Investor: "0xb", Amount: 400,
	}).Error)

	sum, err := l.AmountsSum(contract.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(700), sum)

	outstanding, err := l.GetOutstanding(contract.Id)
	require.NoError(t, err)
	assert.Len(t, outstanding, 2)
}
