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

// DefaultJob 违约检查任务：延长期已过仍未结清的合约转为 Defaulted
type DefaultJob struct {
	db     *gorm.DB
	engine *engine.Engine
	clock  clock.Clock
	config *config.Config
}

// NewDefaultJob 创建违约检查任务
func NewDefaultJob(db *gorm.DB, eng *engine.Engine, clk clock.Clock, cfg *config.Config) *DefaultJob {
	return &DefaultJob{db: db, engine: eng, clock: clk, config: cfg}
}

// GetName 获取任务名称
func (j *DefaultJob) GetName() string {
	return "default_sweeper"
}

// GetSchedule 获取调度配置
func (j *DefaultJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *DefaultJob) Execute() {
	now := j.clock.Now()

	var contracts []model.ContractModel
	err := j.db.Where("status = ? AND prolonged_deadline < ?", model.ContractStatusProlonged, now).
		Find(&contracts).Error
	if err != nil {
		logger.Error("Failed to fetch prolonged contracts: %v", err)
		return
	}

	for _, contract := range contracts {
		err := j.engine.DefaultContract(context.Background(), contract.Id)
		if err != nil && !errors.Is(err, engine.ErrInvalidStatus) && !errors.Is(err, engine.ErrDeadlineNotReached) {
			logger.Error("Failed to default contract %d: %v", contract.Id, err)
			continue
		}
		if err == nil {
			logger.Warn("Contract %d defaulted after prolonged deadline", contract.Id)
		}
	}
}
