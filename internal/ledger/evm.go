package ledger

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/nicoland00/grasschain-contract-spl/internal/config"
	"github.com/nicoland00/grasschain-contract-spl/internal/logger"
)

// ERC20代币ABI定义（简化版，只保留转账相关方法）
const erc20ABI = `[
	{
		"constant": false,
		"inputs": [
			{"name": "from", "type": "address"},
			{"name": "to", "type": "address"},
			{"name": "value", "type": "uint256"}
		],
		"name": "transferFrom",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	}
]`

// EVMLedger 链上代币账本，把 Transfer 映射为一笔 ERC20 transferFrom 交易。
// 交易要么上链成功，要么整体回滚，满足账本接口的原子性要求。
type EVMLedger struct {
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	token      *bind.BoundContract
	tokenAddr  common.Address
	assetKind  string
	chainId    *big.Int
}

// NewEVM 创建链上账本适配器
func NewEVM(cfg config.LedgerConfig, assetKind string) (*EVMLedger, error) {
	// 连接RPC节点
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to evm node: %w", err)
	}

	// 解析私钥
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	// 解析ABI
	parsedABI, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token ABI: %w", err)
	}

	tokenAddr := common.HexToAddress(cfg.TokenAddr)
	token := bind.NewBoundContract(tokenAddr, parsedABI, client, client, client)

	return &EVMLedger{
		client:     client,
		privateKey: privateKey,
		token:      token,
		tokenAddr:  tokenAddr,
		assetKind:  assetKind,
		chainId:    big.NewInt(cfg.ChainId),
	}, nil
}

// Transfer 发起一笔代币转账并等待上链
func (l *EVMLedger) Transfer(ctx context.Context, from, to, assetKind string, amount int64) error {
	if assetKind != l.assetKind {
		return fmt.Errorf("%w: ledger holds %s, got %s", ErrAssetMismatch, l.assetKind, assetKind)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(l.privateKey, l.chainId)
	if err != nil {
		return fmt.Errorf("failed to build transactor: %w", err)
	}
	opts.Context = ctx

	tx, err := l.token.Transact(opts, "transferFrom",
		common.HexToAddress(from), common.HexToAddress(to), big.NewInt(amount))
	if err != nil {
		return fmt.Errorf("failed to submit transfer: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, l.client, tx)
	if err != nil {
		return fmt.Errorf("failed to wait for transfer %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("transfer %s reverted", tx.Hash().Hex())
	}

	logger.Info("Token transfer mined: %s -> %s amount=%d tx=%s", from, to, amount, tx.Hash().Hex())
	return nil
}
