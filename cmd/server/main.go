package main

import (
	"github.com/gin-gonic/gin"
	"github.com/nicoland00/grasschain-contract-spl/internal/auth"
	"github.com/nicoland00/grasschain-contract-spl/internal/clock"
	"github.com/nicoland00/grasschain-contract-spl/internal/config"
	"github.com/nicoland00/grasschain-contract-spl/internal/database"
	"github.com/nicoland00/grasschain-contract-spl/internal/engine"
	"github.com/nicoland00/grasschain-contract-spl/internal/ledger"
	"github.com/nicoland00/grasschain-contract-spl/internal/logger"
	"github.com/nicoland00/grasschain-contract-spl/internal/reward"
	"github.com/nicoland00/grasschain-contract-spl/internal/router"
	"github.com/nicoland00/grasschain-contract-spl/internal/task"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	if err := logger.Setup(cfg.Log); err != nil {
		logger.Fatal("Failed to setup logger: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化资金账本
	vault, err := initLedger(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize ledger: %v", err)
	}

	// 初始化生命周期引擎
	clk := clock.SystemClock{}
	authorizer := auth.New(cfg.Contract.Admins)
	eng := engine.New(db, vault, clk, authorizer, reward.NewLocal(), cfg.Contract)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, eng, cfg)

	// 启动定时任务
	manager := task.Start(db, eng, clk, cfg)
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

// initLedger 根据配置选择账本后端
func initLedger(cfg *config.Config) (ledger.Ledger, error) {
	switch cfg.Ledger.Backend {
	case "evm":
		return ledger.NewEVM(cfg.Ledger, cfg.Contract.RequiredAssetKind)
	default:
		logger.Warn("Using in-memory ledger, funds are not durable")
		return ledger.NewMemory(), nil
	}
}
