package auth

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
)

// Authorizer 权限判定。纯谓词：判断某个身份能不能做某件事，不持有可变状态。
type Authorizer struct {
	admins map[string]bool
}

// New 创建权限判定器，admins 为部署配置里的指定管理员地址
func New(admins []string) *Authorizer {
	set := make(map[string]bool, len(admins))
	for _, a := range admins {
		set[strings.ToLower(a)] = true
	}
	return &Authorizer{admins: set}
}

// IsDesignatedAdmin 判断身份是否为指定管理员
func (a *Authorizer) IsDesignatedAdmin(identity string) bool {
	return a.admins[strings.ToLower(identity)]
}

// IsSigner 校验 signature 是否由 identity 对 message 做 personal-sign 产生
func IsSigner(identity string, message, signature []byte) bool {
	if len(signature) != 65 {
		return false
	}

	// 以太坊钱包返回的 v 是 27/28，恢复公钥前要归一化
	sig := make([]byte, 65)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return false
	}

	return strings.EqualFold(crypto.PubkeyToAddress(*pub).Hex(), identity)
}
