package task

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/nicoland00/grasschain-contract-spl/internal/config"
	"github.com/nicoland00/grasschain-contract-spl/internal/engine"
	"github.com/nicoland00/grasschain-contract-spl/internal/logger"
	"github.com/nicoland00/grasschain-contract-spl/internal/model"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// RefundJob 退款任务：扫描 Cancelled 合约里仍有本金的投资人记录，
// 每个投资人一笔退款，提交到协程池并发执行。
// 单笔失败只影响该投资人，下一轮扫描会重试。
type RefundJob struct {
	db     *gorm.DB
	engine *engine.Engine
	config *config.Config
}

// NewRefundJob 创建退款任务
func NewRefundJob(db *gorm.DB, eng *engine.Engine, cfg *config.Config) *RefundJob {
	return &RefundJob{db: db, engine: eng, config: cfg}
}

// GetName 获取任务名称
func (j *RefundJob) GetName() string {
	return "refund_fanout"
}

// GetSchedule 获取调度配置
func (j *RefundJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *RefundJob) Execute() {
	var records []model.InvestorRecordModel
	err := j.db.Model(&model.InvestorRecordModel{}).
		Joins("JOIN contract ON contract.id = investor_record.contract_id").
		Where("contract.status = ? AND investor_record.amount > 0", model.ContractStatusCancelled).
		Find(&records).Error
	if err != nil {
		logger.Error("Failed to fetch refundable records: %v", err)
		return
	}
	if len(records) == 0 {
		return
	}

	pool, err := ants.NewPool(j.config.Task.RefundPoolSize)
	if err != nil {
		logger.Error("Failed to create refund pool: %v", err)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, record := range records {
		record := record
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			err := j.engine.RefundInvestor(context.Background(), record.ContractId, record.Investor, "contract cancelled")
			if err != nil && !errors.Is(err, engine.ErrAlreadyClaimed) {
				logger.Error("Failed to refund %s on contract %d: %v", record.Investor, record.ContractId, err)
				return
			}
			if err == nil {
				logger.Info("Refunded %d to %s on contract %d", record.Amount, record.Investor, record.ContractId)
			}
		})
		if submitErr != nil {
			wg.Done()
			logger.Error("Failed to submit refund task: %v", submitErr)
		}
	}
	wg.Wait()
}
