package cancel

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Flag - 인스턴스 간 공유되는 취소 플래그 (Redis 등)
type Flag interface {
	IsCancelled(ctx context.Context, id string) bool
}

// Token - 배치 단위 협조적 취소 토큰
// Cancel 은 여러 번 호출해도 안전하고, 실행 루프는 샷 사이에서만 Cancelled 를 확인한다.
type Token struct {
	id     string
	remote Flag

	once sync.Once
	done chan struct{}
}

// NewToken - 로컬 전용 토큰
func NewToken() *Token {
	return &Token{done: make(chan struct{})}
}

// NewRemoteToken - 로컬 취소 + 원격 플래그(id 기준)를 함께 확인하는 토큰
func NewRemoteToken(id string, flag Flag) *Token {
	return &Token{id: id, remote: flag, done: make(chan struct{})}
}

// Cancel - 취소 요청
func (t *Token) Cancel() {
	t.once.Do(func() { close(t.done) })
}

// Done - 로컬 취소 시 닫히는 채널
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// Cancelled - 로컬 또는 원격 취소 여부
// 원격 플래그가 켜져 있으면 로컬 토큰도 취소 상태로 전환한다.
func (t *Token) Cancelled(ctx context.Context) bool {
	select {
	case <-t.done:
		return true
	default:
	}

	if t.remote == nil || t.id == "" {
		return false
	}
	if t.remote.IsCancelled(ctx, t.id) {
		log.Info().Str("batch_id", t.id).Msg("🛑 Remote cancel flag detected")
		t.Cancel()
		return true
	}
	return false
}
