package batch

import "context"

// ResultStream - 배치 결과를 계획 순서대로 받는 단방향 스트림
// 배치가 끝나면(완료 또는 취소) 닫히며, 다시 읽을 수 없다.
type ResultStream struct {
	ch <-chan *ShotResult
}

// C - 결과 채널
func (s *ResultStream) C() <-chan *ShotResult {
	return s.ch
}

// Next - 다음 결과. 스트림이 끝났거나 ctx 가 취소되면 false
func (s *ResultStream) Next(ctx context.Context) (*ShotResult, bool) {
	select {
	case r, ok := <-s.ch:
		return r, ok
	case <-ctx.Done():
		return nil, false
	}
}

// Collect - 스트림 끝까지 읽기
func (s *ResultStream) Collect(ctx context.Context) []*ShotResult {
	var out []*ShotResult
	for {
		r, ok := s.Next(ctx)
		if !ok {
			return out
		}
		out = append(out, r)
	}
}
