package ledger

import (
	"context"
	"fmt"
	"sync"
)

// MemoryLedger 内存账本，按 (账户, 资产) 记账。
// 用于本地开发和测试，转账在同一把锁内检查并记账，天然原子。
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]map[string]int64
}

// NewMemory 创建内存账本
func NewMemory() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[string]map[string]int64),
	}
}

// Mint 给账户铸入余额（仅测试/开发用）
func (l *MemoryLedger) Mint(account, assetKind string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(account, assetKind, amount)
}

// Balance 查询账户余额
func (l *MemoryLedger) Balance(account, assetKind string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account][assetKind]
}

// Transfer 在两个账户之间转账
func (l *MemoryLedger) Transfer(ctx context.Context, from, to, assetKind string, amount int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[from][assetKind] < amount {
		return fmt.Errorf("%w: account %s has %d of %s, need %d",
			ErrInsufficientFunds, from, l.balances[from][assetKind], assetKind, amount)
	}

	l.balances[from][assetKind] -= amount
	l.credit(to, assetKind, amount)
	return nil
}

// credit 入账，调用方必须持有锁
func (l *MemoryLedger) credit(account, assetKind string, amount int64) {
	if l.balances[account] == nil {
		l.balances[account] = make(map[string]int64)
	}
	l.balances[account][assetKind] += amount
}
