package credit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/supabase-community/supabase-go"
)

const maxDeductAttempts = 3

// SupabaseLedger - quel_member 잔액 + quel_credits 트랜잭션 기록
// 선점(reservation)은 인스턴스 메모리에서 관리하고, 실제 차감만 DB에 반영한다.
type SupabaseLedger struct {
	Pricing

	supabase *supabase.Client

	mu       sync.Mutex
	reserved map[string]int
}

// NewSupabaseLedger - Credit 원장 생성
func NewSupabaseLedger(url, serviceKey string, pricing Pricing) (*SupabaseLedger, error) {
	client, err := supabase.NewClient(url, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return &SupabaseLedger{
		Pricing:  pricing,
		supabase: client,
		reserved: make(map[string]int),
	}, nil
}

// fetchBalance - 현재 크레딧 조회
func (l *SupabaseLedger) fetchBalance(accountID string) (int, error) {
	var members []struct {
		QuelMemberCredit int `json:"quel_member_credit"`
	}

	data, _, err := l.supabase.From("quel_member").
		Select("quel_member_credit", "", false).
		Eq("quel_member_id", accountID).
		Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch user credits: %w", err)
	}
	if err := json.Unmarshal(data, &members); err != nil {
		return 0, fmt.Errorf("failed to parse member data: %w", err)
	}
	if len(members) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	return members[0].QuelMemberCredit, nil
}

func (l *SupabaseLedger) Reserve(_ context.Context, accountID string, amount int) (bool, error) {
	balance, err := l.fetchBalance(accountID)
	if err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	available := balance - l.reserved[accountID]
	if amount > available {
		log.Warn().Str("account_id", accountID).Int("amount", amount).Int("available", available).Msg("💰 Not enough credits to reserve")
		return false, nil
	}
	l.reserved[accountID] += amount
	log.Info().Str("account_id", accountID).Int("amount", amount).Msg("💰 Credits reserved")
	return true, nil
}

// Settle - 크레딧 차감 및 트랜잭션 기록
// 잔액 갱신은 읽은 값과 같을 때만 반영한다 (동시 차감 충돌 시 재시도).
func (l *SupabaseLedger) Settle(_ context.Context, accountID, shotID string, amount int) error {
	defer l.unreserve(accountID, amount)

	var newBalance int
	var lastErr error
	for attempt := 1; attempt <= maxDeductAttempts; attempt++ {
		current, err := l.fetchBalance(accountID)
		if err != nil {
			return err
		}
		newBalance = current - amount

		data, _, err := l.supabase.From("quel_member").
			Update(map[string]interface{}{
				"quel_member_credit": newBalance,
			}, "representation", "").
			Eq("quel_member_id", accountID).
			Eq("quel_member_credit", strconv.Itoa(current)).
			Execute()
		if err != nil {
			lastErr = fmt.Errorf("failed to deduct credits: %w", err)
			continue
		}

		var updated []json.RawMessage
		if err := json.Unmarshal(data, &updated); err == nil && len(updated) > 0 {
			lastErr = nil
			break
		}
		lastErr = fmt.Errorf("credit balance changed concurrently for %s", accountID)
		log.Warn().Str("account_id", accountID).Int("attempt", attempt).Msg("⚠️  Credit balance changed, retrying deduct")
	}
	if lastErr != nil {
		return lastErr
	}

	transaction := map[string]interface{}{
		"user_id":          accountID,
		"transaction_type": "DEDUCT",
		"amount":           -amount,
		"balance_after":    newBalance,
		"description":      "Photoshoot shot " + shotID,
	}
	if _, _, err := l.supabase.From("quel_credits").
		Insert(transaction, false, "", "", "").
		Execute(); err != nil {
		log.Warn().Err(err).Str("shot_id", shotID).Msg("⚠️  Failed to record credit transaction")
	}

	log.Info().Str("account_id", accountID).Str("shot_id", shotID).Int("amount", amount).Int("balance", newBalance).Msg("✅ Credits deducted")
	return nil
}

func (l *SupabaseLedger) Release(_ context.Context, accountID string, amount int) error {
	l.unreserve(accountID, amount)
	return nil
}

func (l *SupabaseLedger) unreserve(accountID string, amount int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	left := l.reserved[accountID] - amount
	if left <= 0 {
		delete(l.reserved, accountID)
		return
	}
	l.reserved[accountID] = left
}
