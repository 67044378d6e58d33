package task

import (
	"github.com/go-co-op/gocron/v2"
	"github.com/nicoland00/grasschain-contract-spl/internal/clock"
	"github.com/nicoland00/grasschain-contract-spl/internal/config"
	"github.com/nicoland00/grasschain-contract-spl/internal/engine"
	"github.com/nicoland00/grasschain-contract-spl/internal/logger"
	"gorm.io/gorm"
)

// Job 定时任务接口
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	db        *gorm.DB
	engine    *engine.Engine
	clock     clock.Clock
	config    *config.Config
}

// NewManager 创建新的任务管理器
func NewManager(db *gorm.DB, eng *engine.Engine, clk clock.Clock, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler: s,
		db:        db,
		engine:    eng,
		clock:     clk,
		config:    cfg,
	}
}

// Start 启动任务管理器
func Start(db *gorm.DB, eng *engine.Engine, clk clock.Clock, cfg *config.Config) *Manager {
	manager := NewManager(db, eng, clk, cfg)

	// 注册所有任务
	manager.RegisterJobs()

	// 启动调度器
	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	m.registerJob(NewFundingExpiryJob(m.db, m.engine, m.clock, m.config))
	m.registerJob(NewMaturityJob(m.db, m.engine, m.clock, m.config))
	m.registerJob(NewDefaultJob(m.db, m.engine, m.clock, m.config))
	m.registerJob(NewRefundJob(m.db, m.engine, m.config))
}

// registerJob 注册单个任务
func (m *Manager) registerJob(job Job) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
