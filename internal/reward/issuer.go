package reward

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// Issuer 奖励凭证发放服务。每个 (合约, 投资人) 最多发放一次，
// 幂等性由调用方的 claimed_reward 标记保证。
type Issuer interface {
	Issue(ctx context.Context, contractId int64, investor string) (string, error)
}

// LocalIssuer 本地发放器：对 (合约, 投资人) 求哈希作为凭证编号。
// 同样的输入永远得到同样的凭证，重复调用无副作用。
type LocalIssuer struct{}

// NewLocal 创建本地发放器
func NewLocal() *LocalIssuer {
	return &LocalIssuer{}
}

// Issue 发放凭证并返回凭证编号
func (i *LocalIssuer) Issue(ctx context.Context, contractId int64, investor string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	seed := fmt.Sprintf("reward:%d:%s", contractId, investor)
	return crypto.Keccak256Hash([]byte(seed)).Hex(), nil
}
