package ledger

import (
	"context"
	"errors"
)

// 转账失败原因
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownAccount    = errors.New("unknown account")
	ErrAssetMismatch     = errors.New("asset mismatch")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// Ledger 资金托管账本。Transfer 必须原子完成：要么全额到账，要么完全不动。
// 状态机把任何转账失败视为整个状态变更的失败。
type Ledger interface {
	Transfer(ctx context.Context, from, to, assetKind string, amount int64) error
}
