package config

import (
	"time"

	"github.com/nicoland00/grasschain-contract-spl/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Contract ContractConfig `mapstructure:"contract"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// LedgerConfig 资金账本配置
type LedgerConfig struct {
	Backend    string `mapstructure:"backend"`     // 账本类型 (memory, evm)
	RpcUrl     string `mapstructure:"rpc_url"`     // RPC节点URL（evm）
	PrivateKey string `mapstructure:"private_key"` // 私钥（evm）
	TokenAddr  string `mapstructure:"token_addr"`  // 代币合约地址（evm）
	ChainId    int64  `mapstructure:"chain_id"`    // 链ID（evm）
}

// ContractConfig 合约生命周期配置
type ContractConfig struct {
	Admins            []string      `mapstructure:"admins"`            // 指定管理员地址
	RequiredAssetKind string        `mapstructure:"required_asset"`    // 接受的资产种类
	FundingWindow     time.Duration `mapstructure:"funding_window"`    // 募资窗口
	AdminWindow       time.Duration `mapstructure:"admin_window"`      // 满额后管理员处理窗口
	BuybackWindow     time.Duration `mapstructure:"buyback_window"`    // 回购窗口
	ProlongWindow     time.Duration `mapstructure:"prolong_window"`    // 延长窗口
	RequireSignature  bool          `mapstructure:"require_signature"` // 是否校验请求签名
}

type TaskConfig struct {
	Interval       int `mapstructure:"interval"`         // 秒
	RefundPoolSize int `mapstructure:"refund_pool_size"` // 退款协程池大小
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/gcs")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "grasschain")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("ledger.backend", "memory")
	viper.SetDefault("contract.required_asset", "USDC")
	viper.SetDefault("contract.funding_window", "720h") // 30天
	viper.SetDefault("contract.admin_window", "720h")   // 30天
	viper.SetDefault("contract.buyback_window", "336h") // 14天
	viper.SetDefault("contract.prolong_window", "336h") // 14天
	viper.SetDefault("contract.require_signature", false)
	viper.SetDefault("task.interval", 60)
	viper.SetDefault("task.refund_pool_size", 8)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
