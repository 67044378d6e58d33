package engine

import (
	"context"
	"errors"
	"time"

	"github.com/nicoland00/grasschain-contract-spl/internal/auth"
	"github.com/nicoland00/grasschain-contract-spl/internal/clock"
	"github.com/nicoland00/grasschain-contract-spl/internal/config"
	"github.com/nicoland00/grasschain-contract-spl/internal/ledger"
	"github.com/nicoland00/grasschain-contract-spl/internal/logger"
	"github.com/nicoland00/grasschain-contract-spl/internal/model"
	"github.com/nicoland00/grasschain-contract-spl/internal/reward"
	"gorm.io/gorm"
)

// Engine 合约生命周期引擎。每个操作对应状态机的一次转移：
// 在合约锁内读取当前时间，检查状态/截止时间/权限守卫，
// 至多发起一笔账本转账，然后在同一个数据库事务里提交新状态。
// 任何守卫失败都在转账和落库之前返回，合约保持原样。
type Engine struct {
	db     *gorm.DB
	ledger ledger.Ledger
	clock  clock.Clock
	authz  *auth.Authorizer
	issuer reward.Issuer
	cfg    config.ContractConfig
	locks  *contractLocks
}

// New 创建生命周期引擎
func New(db *gorm.DB, l ledger.Ledger, c clock.Clock, a *auth.Authorizer, i reward.Issuer, cfg config.ContractConfig) *Engine {
	return &Engine{
		db:     db,
		ledger: l,
		clock:  c,
		authz:  a,
		issuer: i,
		cfg:    cfg,
		locks:  newContractLocks(),
	}
}

// CreateParams 创建合约参数
type CreateParams struct {
	AssetKind             string
	EscrowAccount         string
	TotalInvestmentNeeded int64
	YieldPercentage       int64
	Duration              time.Duration
	FarmName              string
	FarmAddress           string
	FarmImageURL          string
}

// CreateContract 管理员创建合约 => Created
func (e *Engine) CreateContract(ctx context.Context, caller string, params CreateParams) (*model.ContractModel, error) {
	if !e.authz.IsDesignatedAdmin(caller) {
		return nil, ErrUnauthorized
	}
	if params.AssetKind != e.cfg.RequiredAssetKind {
		return nil, ErrAssetMismatch
	}
	if params.TotalInvestmentNeeded <= 0 || params.Duration <= 0 {
		return nil, ErrInvalidAmount
	}

	now := e.clock.Now()
	contract := &model.ContractModel{
		Admin:                 caller,
		AssetKind:             params.AssetKind,
		EscrowAccount:         params.EscrowAccount,
		TotalInvestmentNeeded: params.TotalInvestmentNeeded,
		YieldPercentage:       params.YieldPercentage,
		Duration:              int64(params.Duration.Seconds()),
		UploadDate:            now,
		FundingDeadline:       now.Add(e.cfg.FundingWindow),
		Status:                model.ContractStatusCreated,
		FarmName:              params.FarmName,
		FarmAddress:           params.FarmAddress,
		FarmImageURL:          params.FarmImageURL,
	}

	if err := e.db.WithContext(ctx).Create(contract).Error; err != nil {
		return nil, err
	}

	logger.Info("Contract %d created by %s, target=%d yield=%d%%",
		contract.Id, caller, contract.TotalInvestmentNeeded, contract.YieldPercentage)
	return contract, nil
}

// Contribute 投资人向合约投入资金 => Funding，满额时 => FundedPendingVerification
func (e *Engine) Contribute(ctx context.Context, contractId int64, investor string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	return e.withContract(ctx, contractId, func(tx *gorm.DB, c *model.ContractModel, now time.Time) error {
		if c.Status != model.ContractStatusCreated && c.Status != model.ContractStatusFunding {
			return ErrInvalidStatus
		}
		if now.After(c.FundingDeadline) {
			return ErrDeadlineExceeded
		}
		if c.AmountFundedSoFar+amount > c.TotalInvestmentNeeded {
			return ErrAmountExceedsCapacity
		}

		// 投资人 => 托管账户
		if err := e.ledger.Transfer(ctx, investor, c.EscrowAccount, c.AssetKind, amount); err != nil {
			return err
		}

		c.AmountFundedSoFar += amount
		c.Status = model.ContractStatusFunding
		if c.AmountFundedSoFar == c.TotalInvestmentNeeded {
			c.Status = model.ContractStatusFundedPendingVerification
			c.FundedTime = &now
		}

		if err := upsertInvestorRecord(tx, c.Id, investor, amount); err != nil {
			return err
		}
		if err := tx.Create(&model.ContributeRecordModel{
			ContractId: c.Id,
			Investor:   investor,
			Amount:     amount,
		}).Error; err != nil {
			return err
		}

		return tx.Save(c).Error
	})
}

// VerifyFunding 管理员提前确认募资 => FundedPendingVerification
func (e *Engine) VerifyFunding(ctx context.Context, contractId int64, caller string) error {
	return e.withContract(ctx, contractId, func(tx *gorm.DB, c *model.ContractModel, now time.Time) error {
		if caller != c.Admin {
			return ErrUnauthorized
		}
		if c.Status != model.ContractStatusFunding {
			return ErrInvalidStatus
		}

		c.Status = model.ContractStatusFundedPendingVerification
		c.FundedTime = &now
		c.Verified = true
		return tx.Save(c).Error
	})
}

// ExpireFunding 募资窗口结束仍未满额 => Cancelled，退款由逐投资人操作执行
func (e *Engine) ExpireFunding(ctx context.Context, contractId int64) error {
	return e.withContract(ctx, contractId, func(tx *gorm.DB, c *model.ContractModel, now time.Time) error {
		if c.Status != model.ContractStatusCreated && c.Status != model.ContractStatusFunding {
			return ErrInvalidStatus
		}
		if !now.After(c.FundingDeadline) {
			return ErrDeadlineNotReached
		}
		if c.AmountFundedSoFar >= c.TotalInvestmentNeeded {
			return ErrAlreadyFullyFunded
		}

		c.Status = model.ContractStatusCancelled
		logger.Info("Contract %d funding expired with %d/%d funded",
			c.Id, c.AmountFundedSoFar, c.TotalInvestmentNeeded)
		return tx.Save(c).Error
	})
}

// AdminWithdraw 管理员在处理窗口内提走全部募资 => Active
func (e *Engine) AdminWithdraw(ctx context.Context, contractId int64, caller string) error {
	return e.withContract(ctx, contractId, func(tx *gorm.DB, c *model.ContractModel, now time.Time) error {
		if caller != c.Admin {
			return ErrUnauthorized
		}
		if c.Status != model.ContractStatusFundedPendingVerification {
			return ErrInvalidStatus
		}
		if c.FundedTime == nil || now.Sub(*c.FundedTime) > e.cfg.AdminWindow {
			return ErrDeadlineExceeded
		}

		// 托管账户 => 管理员
		if err := e.ledger.Transfer(ctx, c.EscrowAccount, c.Admin, c.AssetKind, c.AmountFundedSoFar); err != nil {
			return err
		}

		c.StartTime = &now
		c.Status = model.ContractStatusActive
		return tx.Save(c).Error
	})
}

// AdminCancel 管理员在处理窗口内放弃合约 => Cancelled，退款由逐投资人操作执行
func (e *Engine) AdminCancel(ctx context.Context, contractId int64, caller string) error {
	return e.withContract(ctx, contractId, func(tx *gorm.DB, c *model.ContractModel, now time.Time) error {
		if caller != c.Admin {
			return ErrUnauthorized
		}
		if c.Status != model.ContractStatusFundedPendingVerification {
			return ErrInvalidStatus
		}
		if c.FundedTime == nil || now.Sub(*c.FundedTime) > e.cfg.AdminWindow {
			return ErrDeadlineExceeded
		}

		c.Status = model.ContractStatusCancelled
		return tx.Save(c).Error
	})
}

// CheckMaturity 投资期结束 => PendingBuyback，并落下回购截止时间
func (e *Engine) CheckMaturity(ctx context.Context, contractId int64) error {
	return e.withContract(ctx, contractId, func(tx *gorm.DB, c *model.ContractModel, now time.Time) error {
		if c.Status != model.ContractStatusActive {
			return ErrInvalidStatus
		}
		maturity := c.StartTime.Add(time.Duration(c.Duration) * time.Second)
		if now.Before(maturity) {
			return ErrDeadlineNotReached
		}

		deadline := maturity.Add(e.cfg.BuybackWindow)
		c.BuybackDeadline = &deadline
		c.Status = model.ContractStatusPendingBuyback
		return tx.Save(c).Error
	})
}

// SettleInvestor 管理员向单个投资人回购本金+收益。
// 最后一个投资人结清后合约 => Settled。
func (e *Engine) SettleInvestor(ctx context.Context, contractId int64, caller, investor string) error {
	return e.withContract(ctx, contractId, func(tx *gorm.DB, c *model.ContractModel, now time.Time) error {
		if caller != c.Admin {
			return ErrUnauthorized
		}

		deadline, err := settlementDeadline(c)
		if err != nil {
			return err
		}
		if now.After(deadline) {
			return ErrDeadlineExceeded
		}

		rec, err := findInvestorRecord(tx, c.Id, investor)
		if err != nil {
			return err
		}
		if rec.Amount == 0 {
			return ErrAlreadyClaimed
		}

		required, err := RequiredBuyback(rec.Amount, c.YieldPercentage)
		if err != nil {
			return err
		}

		// 管理员 => 投资人
		if required > 0 {
			if err := e.ledger.Transfer(ctx, c.Admin, investor, c.AssetKind, required); err != nil {
				return err
			}
		}

		if err := tx.Create(&model.SettlementRecordModel{
			ContractId: c.Id,
			Investor:   investor,
			Principal:  rec.Amount,
			Buyback:    required,
		}).Error; err != nil {
			return err
		}

		rec.Amount = 0
		if err := tx.Save(rec).Error; err != nil {
			return err
		}

		outstanding, err := outstandingRecords(tx, c.Id)
		if err != nil {
			return err
		}
		if outstanding == 0 {
			c.Status = model.ContractStatusSettled
			logger.Info("Contract %d fully settled", c.Id)
		}
		return tx.Save(c).Error
	})
}

// CloseContract 所有投资人结清后管理员显式关闭 => Settled
func (e *Engine) CloseContract(ctx context.Context, contractId int64, caller string) error {
	return e.withContract(ctx, contractId, func(tx *gorm.DB, c *model.ContractModel, now time.Time) error {
		if caller != c.Admin {
			return ErrUnauthorized
		}
		if c.Status != model.ContractStatusPendingBuyback && c.Status != model.ContractStatusProlonged {
			return ErrInvalidStatus
		}

		outstanding, err := outstandingRecords(tx, c.Id)
		if err != nil {
			return err
		}
		if outstanding > 0 {
			return ErrUnsettledInvestors
		}

		c.Status = model.ContractStatusSettled
		return tx.Save(c).Error
	})
}

// ProlongContract 管理员申请一次回购延期 => Prolonged
func (e *Engine) ProlongContract(ctx context.Context, contractId int64, caller string) error {
	return e.withContract(ctx, contractId, func(tx *gorm.DB, c *model.ContractModel, now time.Time) error {
		if caller != c.Admin {
			return ErrUnauthorized
		}
		if c.Status != model.ContractStatusPendingBuyback {
			return ErrInvalidStatus
		}

		deadline := c.BuybackDeadline.Add(e.cfg.ProlongWindow)
		c.ProlongedDeadline = &deadline
		c.Status = model.ContractStatusProlonged
		return tx.Save(c).Error
	})
}

// DefaultContract 延长期过后仍未结清 => Defaulted
func (e *Engine) DefaultContract(ctx context.Context, contractId int64) error {
	return e.withContract(ctx, contractId, func(tx *gorm.DB, c *model.ContractModel, now time.Time) error {
		if c.Status != model.ContractStatusProlonged {
			return ErrInvalidStatus
		}
		if !now.After(*c.ProlongedDeadline) {
			return ErrDeadlineNotReached
		}

		c.Status = model.ContractStatusDefaulted
		logger.Warn("Contract %d defaulted", c.Id)
		return tx.Save(c).Error
	})
}

// RefundInvestor 向单个投资人退还本金，只在 Cancelled 合约上合法。
// 多投资人退款就是对每个投资人各调一次本操作，每次一笔转账。
func (e *Engine) RefundInvestor(ctx context.Context, contractId int64, investor, reason string) error {
	return e.withContract(ctx, contractId, func(tx *gorm.DB, c *model.ContractModel, now time.Time) error {
		if c.Status != model.ContractStatusCancelled {
			return ErrInvalidStatus
		}

		rec, err := findInvestorRecord(tx, c.Id, investor)
		if err != nil {
			return err
		}
		if rec.Amount == 0 {
			return ErrAlreadyClaimed
		}

		// 托管账户 => 投资人
		if err := e.ledger.Transfer(ctx, c.EscrowAccount, investor, c.AssetKind, rec.Amount); err != nil {
			return err
		}

		if err := tx.Create(&model.RefundRecordModel{
			ContractId:   c.Id,
			Investor:     investor,
			Amount:       rec.Amount,
			RefundReason: reason,
		}).Error; err != nil {
			return err
		}

		rec.Amount = 0
		return tx.Save(rec).Error
	})
}

// ClaimReward 为投资人发放一次性奖励凭证，幂等
func (e *Engine) ClaimReward(ctx context.Context, contractId int64, investor string) (string, error) {
	var mint string
	err := e.withContract(ctx, contractId, func(tx *gorm.DB, c *model.ContractModel, now time.Time) error {
		rec, err := findInvestorRecord(tx, c.Id, investor)
		if err != nil {
			return err
		}
		if rec.ClaimedReward {
			return ErrAlreadyClaimed
		}

		mint, err = e.issuer.Issue(ctx, c.Id, investor)
		if err != nil {
			return err
		}

		rec.ClaimedReward = true
		rec.RewardMint = mint
		return tx.Save(rec).Error
	})
	return mint, err
}

// withContract 在合约锁和数据库事务内执行一次状态转移。
// 当前时间在进入时读取一次，整个操作内所有截止时间判断用同一个 now。
func (e *Engine) withContract(ctx context.Context, contractId int64, fn func(tx *gorm.DB, c *model.ContractModel, now time.Time) error) error {
	mu := e.locks.get(contractId)
	mu.Lock()
	defer mu.Unlock()

	now := e.clock.Now()
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.ContractModel
		if err := tx.First(&c, contractId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return fn(tx, &c, now)
	})
}

// settlementDeadline 结算窗口的截止时间：PendingBuyback 用回购截止，
// Prolonged 用延长截止，其余状态不允许结算。
func settlementDeadline(c *model.ContractModel) (time.Time, error) {
	switch c.Status {
	case model.ContractStatusPendingBuyback:
		return *c.BuybackDeadline, nil
	case model.ContractStatusProlonged:
		return *c.ProlongedDeadline, nil
	default:
		return time.Time{}, ErrInvalidStatus
	}
}

// findInvestorRecord 查找投资人记录
func findInvestorRecord(tx *gorm.DB, contractId int64, investor string) (*model.InvestorRecordModel, error) {
	var rec model.InvestorRecordModel
	err := tx.Where("contract_id = ? AND investor = ?", contractId, investor).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// upsertInvestorRecord 首次投资创建记录，后续投资累加本金
func upsertInvestorRecord(tx *gorm.DB, contractId int64, investor string, amount int64) error {
	var rec model.InvestorRecordModel
	err := tx.Where("contract_id = ? AND investor = ?", contractId, investor).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec = model.InvestorRecordModel{ContractId: contractId, Investor: investor}
	} else if err != nil {
		return err
	}

	rec.Amount += amount
	return tx.Save(&rec).Error
}

// outstandingRecords 统计未结清的投资人记录数
func outstandingRecords(tx *gorm.DB, contractId int64) (int64, error) {
	var count int64
	err := tx.Model(&model.InvestorRecordModel{}).
		Where("contract_id = ? AND amount > 0", contractId).
		Count(&count).Error
	return count, err
}
