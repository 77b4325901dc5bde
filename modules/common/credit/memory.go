package credit

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Settlement - 정산 기록
type Settlement struct {
	AccountID string
	ShotID    string
	Amount    int
}

// MemoryLedger - 프로세스 메모리 원장 (로컬 개발 / 테스트용)
type MemoryLedger struct {
	Pricing

	mu             sync.Mutex
	defaultBalance int
	balances       map[string]int
	reserved       map[string]int
	settlements    []Settlement
}

// NewMemoryLedger - 처음 보는 계정은 defaultBalance 로 시작
func NewMemoryLedger(pricing Pricing, defaultBalance int) *MemoryLedger {
	return &MemoryLedger{
		Pricing:        pricing,
		defaultBalance: defaultBalance,
		balances:       make(map[string]int),
		reserved:       make(map[string]int),
	}
}

// SetBalance - 계정 잔액 설정
func (m *MemoryLedger) SetBalance(accountID string, balance int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[accountID] = balance
}

func (m *MemoryLedger) balanceLocked(accountID string) int {
	b, ok := m.balances[accountID]
	if !ok {
		b = m.defaultBalance
		m.balances[accountID] = b
	}
	return b
}

// Balance - 현재 잔액 (선점분 포함)
func (m *MemoryLedger) Balance(accountID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balanceLocked(accountID)
}

// Reserved - 선점된 금액
func (m *MemoryLedger) Reserved(accountID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reserved[accountID]
}

// Settlements - 정산 기록 복사본
func (m *MemoryLedger) Settlements() []Settlement {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Settlement, len(m.settlements))
	copy(out, m.settlements)
	return out
}

func (m *MemoryLedger) Reserve(_ context.Context, accountID string, amount int) (bool, error) {
	if amount < 0 {
		return false, fmt.Errorf("negative reserve amount: %d", amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	available := m.balanceLocked(accountID) - m.reserved[accountID]
	if amount > available {
		log.Warn().Str("account_id", accountID).Int("amount", amount).Int("available", available).Msg("💰 Reserve rejected")
		return false, nil
	}
	m.reserved[accountID] += amount
	return true, nil
}

func (m *MemoryLedger) Settle(_ context.Context, accountID, shotID string, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances[accountID] = m.balanceLocked(accountID) - amount
	m.reserved[accountID] = max(0, m.reserved[accountID]-amount)
	m.settlements = append(m.settlements, Settlement{AccountID: accountID, ShotID: shotID, Amount: amount})
	return nil
}

func (m *MemoryLedger) Release(_ context.Context, accountID string, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reserved[accountID] = max(0, m.reserved[accountID]-amount)
	return nil
}
