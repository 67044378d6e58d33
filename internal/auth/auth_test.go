package auth

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDesignatedAdmin(t *testing.T) {
	a := New([]string{"0xAbCd", "0xffff"})

	assert.True(t, a.IsDesignatedAdmin("0xabcd"))
	assert.True(t, a.IsDesignatedAdmin("0xABCD"))
	assert.True(t, a.IsDesignatedAdmin("0xFFFF"))
	assert.False(t, a.IsDesignatedAdmin("0x1234"))
	assert.False(t, a.IsDesignatedAdmin(""))
}

func TestIsSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	message := []byte(`{"amount":100}`)
	sig, err := crypto.Sign(accounts.TextHash(message), key)
	require.NoError(t, err)

	assert.True(t, IsSigner(address, message, sig))

	// 错误的身份
	assert.False(t, IsSigner("0x0000000000000000000000000000000000000001", message, sig))

	// 被篡改的内容
	assert.False(t, IsSigner(address, []byte(`{"amount":999}`), sig))

	// 钱包风格的 v=27/28 同样可以恢复
	walletSig := make([]byte, 65)
	copy(walletSig, sig)
	walletSig[64] += 27
	assert.True(t, IsSigner(address, message, walletSig))
}

func TestIsSignerMalformedSignature(t *testing.T) {
	assert.False(t, IsSigner("0xabcd", []byte("msg"), []byte("short")))
	assert.False(t, IsSigner("0xabcd", []byte("msg"), nil))
}
