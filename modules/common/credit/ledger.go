package credit

import (
	"context"
	"errors"
)

var (
	// ErrInsufficientCredit - 예상 비용이 잔액보다 큼
	ErrInsufficientCredit = errors.New("insufficient credit")
	// ErrAccountNotFound - 계정 없음
	ErrAccountNotFound = errors.New("credit account not found")
)

// Ledger - 크레딧 원장
// Reserve 로 선점한 금액은 Settle(실제 차감) 또는 Release(반환)로 정리된다.
// 구현체는 여러 배치가 동시에 호출해도 안전해야 한다.
type Ledger interface {
	EstimateCost(shotCount int, resolution string, mode string) int
	Reserve(ctx context.Context, accountID string, amount int) (bool, error)
	Settle(ctx context.Context, accountID, shotID string, amount int) error
	Release(ctx context.Context, accountID string, amount int) error
}
