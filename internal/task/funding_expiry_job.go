package task

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/nicoland00/grasschain-contract-spl/internal/clock"
	"github.com/nicoland00/grasschain-contract-spl/internal/config"
	"github.com/nicoland00/grasschain-contract-spl/internal/engine"
	"github.com/nicoland00/grasschain-contract-spl/internal/logger"
	"github.com/nicoland00/grasschain-contract-spl/internal/model"
	"gorm.io/gorm"
)

// FundingExpiryJob 募资过期任务：把过了募资窗口仍未满额的合约转为 Cancelled
type FundingExpiryJob struct {
	db     *gorm.DB
	engine *engine.Engine
	clock  clock.Clock
	config *config.Config
}

// NewFundingExpiryJob 创建募资过期任务
func NewFundingExpiryJob(db *gorm.DB, eng *engine.Engine, clk clock.Clock, cfg *config.Config) *FundingExpiryJob {
	return &FundingExpiryJob{db: db, engine: eng, clock: clk, config: cfg}
}

// GetName 获取任务名称
func (j *FundingExpiryJob) GetName() string {
	return "funding_expiry_sweeper"
}

// GetSchedule 获取调度配置
func (j *FundingExpiryJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *FundingExpiryJob) Execute() {
	now := j.clock.Now()

	var contracts []model.ContractModel
	err := j.db.Where("status IN ? AND funding_deadline < ? AND amount_funded_so_far < total_investment_needed",
		[]model.ContractStatus{model.ContractStatusCreated, model.ContractStatusFunding}, now).
		Find(&contracts).Error
	if err != nil {
		logger.Error("Failed to fetch expirable contracts: %v", err)
		return
	}

	for _, contract := range contracts {
		err := j.engine.ExpireFunding(context.Background(), contract.Id)
		if err != nil && !errors.Is(err, engine.ErrInvalidStatus) {
			logger.Error("Failed to expire contract %d: %v", contract.Id, err)
			continue
		}
		if err == nil {
			logger.Info("Contract %d funding expired, cancelled", contract.Id)
		}
	}
}
