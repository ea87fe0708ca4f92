// Package accounts 代币账户查询协作方的内存实现。
// 钱包侧同步任务整体替换快照，读路径无锁竞争之外不阻塞。
package accounts

import (
	"sync"

	"github.com/wyfcoding/optionsdesk/internal/orderflow/domain"
)

type MemorySource struct {
	mu     sync.RWMutex
	byMint map[string][]domain.TokenAccount
}

func NewMemorySource() *MemorySource {
	return &MemorySource{byMint: make(map[string][]domain.TokenAccount)}
}

// Replace 用最新余额快照整体替换
func (s *MemorySource) Replace(accounts []domain.TokenAccount) {
	byMint := make(map[string][]domain.TokenAccount, len(accounts))
	for _, account := range accounts {
		byMint[account.Mint] = append(byMint[account.Mint], account)
	}
	s.mu.Lock()
	s.byMint = byMint
	s.mu.Unlock()
}

func (s *MemorySource) AccountsByMint(mint string) []domain.TokenAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byMint[mint]
}
