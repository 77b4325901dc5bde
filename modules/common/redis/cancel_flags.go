package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	cancelKeyPrefix = "photoshoot:cancel:"
	cancelFlagTTL   = 24 * time.Hour
)

// CancelFlags - 배치 취소 플래그 (다른 인스턴스에서 실행 중인 배치도 멈출 수 있도록)
type CancelFlags struct {
	rdb redis.Cmdable
}

// NewCancelFlags - rdb 가 nil 이면 모든 조회는 false
func NewCancelFlags(rdb redis.Cmdable) *CancelFlags {
	return &CancelFlags{rdb: rdb}
}

// CancelKey - 배치 취소 키
func CancelKey(batchID string) string {
	return cancelKeyPrefix + batchID
}

// Set - 취소 플래그 설정
func (f *CancelFlags) Set(ctx context.Context, batchID string) error {
	if f == nil || f.rdb == nil {
		return nil
	}
	return f.rdb.Set(ctx, CancelKey(batchID), "1", cancelFlagTTL).Err()
}

// Clear - 배치 종료 후 플래그 정리
func (f *CancelFlags) Clear(ctx context.Context, batchID string) error {
	if f == nil || f.rdb == nil {
		return nil
	}
	return f.rdb.Del(ctx, CancelKey(batchID)).Err()
}

// IsCancelled - 취소 여부 (Redis 오류는 취소 아님으로 처리)
func (f *CancelFlags) IsCancelled(ctx context.Context, batchID string) bool {
	if f == nil || f.rdb == nil {
		return false
	}
	n, err := f.rdb.Exists(ctx, CancelKey(batchID)).Result()
	if err != nil {
		log.Warn().Err(err).Str("batch_id", batchID).Msg("⚠️  Failed to check cancel flag")
		return false
	}
	return n > 0
}
