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

// MaturityJob 到期检查任务：投资期结束的 Active 合约转为 PendingBuyback
type MaturityJob struct {
	db     *gorm.DB
	engine *engine.Engine
	clock  clock.Clock
	config *config.Config
}

// NewMaturityJob 创建到期检查任务
func NewMaturityJob(db *gorm.DB, eng *engine.Engine, clk clock.Clock, cfg *config.Config) *MaturityJob {
	return &MaturityJob{db: db, engine: eng, clock: clk, config: cfg}
}

// GetName 获取任务名称
func (j *MaturityJob) GetName() string {
	return "maturity_checker"
}

// GetSchedule 获取调度配置
func (j *MaturityJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *MaturityJob) Execute() {
	now := j.clock.Now()

	var contracts []model.ContractModel
	err := j.db.Where("status = ?", model.ContractStatusActive).Find(&contracts).Error
	if err != nil {
		logger.Error("Failed to fetch active contracts: %v", err)
		return
	}

	for _, contract := range contracts {
		if contract.StartTime == nil {
			continue
		}
		maturity := contract.StartTime.Add(time.Duration(contract.Duration) * time.Second)
		if now.Before(maturity) {
			continue
		}

		err := j.engine.CheckMaturity(context.Background(), contract.Id)
		if err != nil && !errors.Is(err, engine.ErrInvalidStatus) && !errors.Is(err, engine.ErrDeadlineNotReached) {
			logger.Error("Failed to mature contract %d: %v", contract.Id, err)
			continue
		}
		if err == nil {
			logger.Info("Contract %d matured, pending buyback", contract.Id)
		}
	}
}
