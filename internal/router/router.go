package router

import (
	"bytes"
	"io"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/nicoland00/grasschain-contract-spl/internal/auth"
	"github.com/nicoland00/grasschain-contract-spl/internal/config"
	"github.com/nicoland00/grasschain-contract-spl/internal/engine"
	"github.com/nicoland00/grasschain-contract-spl/internal/handler"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, eng *engine.Engine, cfg *config.Config) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())
	if cfg.Contract.RequireSignature {
		r.Use(signatureMiddleware())
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "grasschain-contract-service",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		contractHandler := handler.NewContractHandler(db, eng)
		lifecycleHandler := handler.NewLifecycleHandler(eng)

		contracts := v1.Group("/contracts")
		{
			// 查询
			contracts.POST("", contractHandler.CreateContract)
			contracts.GET("", contractHandler.GetContracts)
			contracts.GET("/:id", contractHandler.GetContract)
			contracts.GET("/:id/investors", contractHandler.GetContractInvestors)
			contracts.GET("/:id/stats", contractHandler.GetContractStats)

			// 生命周期转移
			contracts.POST("/:id/invest", lifecycleHandler.Invest)
			contracts.POST("/:id/verify-funding", lifecycleHandler.VerifyFunding)
			contracts.POST("/:id/expire-funding", lifecycleHandler.ExpireFunding)
			contracts.POST("/:id/withdraw", lifecycleHandler.Withdraw)
			contracts.POST("/:id/cancel", lifecycleHandler.Cancel)
			contracts.POST("/:id/check-maturity", lifecycleHandler.CheckMaturity)
			contracts.POST("/:id/settle", lifecycleHandler.Settle)
			contracts.POST("/:id/prolong", lifecycleHandler.Prolong)
			contracts.POST("/:id/default", lifecycleHandler.Default)
			contracts.POST("/:id/close", lifecycleHandler.Close)
			contracts.POST("/:id/refund", lifecycleHandler.Refund)
			contracts.POST("/:id/claim-reward", lifecycleHandler.ClaimReward)
		}

		v1.GET("/stats", contractHandler.GetAllStats)
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Caller-Address, X-Signature")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// 签名校验中间件：写操作必须带上请求体的 personal-sign 签名，
// 恢复出的地址要和声明的请求方身份一致
func signatureMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		callerAddr := c.GetHeader(handler.CallerHeader)
		sigHex := c.GetHeader("X-Signature")
		if callerAddr == "" || sigHex == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing caller or signature"})
			return
		}

		sig, err := hexutil.Decode(sigHex)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed signature"})
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !auth.IsSigner(callerAddr, body, sig) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "signature does not match caller"})
			return
		}

		c.Next()
	}
}
