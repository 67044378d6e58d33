package engine

import (
	"sync"
)

// contractLocks 每个合约一把互斥锁。守卫检查、落库和转账都在锁内执行，
// 同一合约上的并发操作被串行化，不同合约互不影响。
type contractLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newContractLocks() *contractLocks {
	return &contractLocks{locks: make(map[int64]*sync.Mutex)}
}

// get 取出合约对应的锁，首次访问时创建。锁永不回收：
// 合约数量有限，且终态合约的锁之后不会再被争用。
func (c *contractLocks) get(contractId int64) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.locks[contractId]
	if !ok {
		l = &sync.Mutex{}
		c.locks[contractId] = l
	}
	return l
}
