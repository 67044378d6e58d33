package engine

import (
	"errors"
)

// 状态机的守卫错误。所有错误都在任何落库或转账之前检出，
// 调用方拿到错误时合约状态一定没有变化。
var (
	ErrNotFound              = errors.New("contract not found")
	ErrInvalidStatus         = errors.New("invalid contract status")
	ErrDeadlineExceeded      = errors.New("deadline exceeded")
	ErrDeadlineNotReached    = errors.New("deadline not yet reached")
	ErrAmountExceedsCapacity = errors.New("amount exceeds remaining capacity")
	ErrInsufficientBuyback   = errors.New("insufficient buyback")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrAssetMismatch         = errors.New("asset kind mismatch")
	ErrAlreadyClaimed        = errors.New("already claimed")
	ErrArithmeticOverflow    = errors.New("arithmetic overflow")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrAlreadyFullyFunded    = errors.New("already fully funded")
	ErrUnsettledInvestors    = errors.New("unsettled investor records remain")
)
