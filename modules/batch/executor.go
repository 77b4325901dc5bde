package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"quel-photoshoot-server/modules/common/cancel"
	"quel-photoshoot-server/modules/common/credit"
	"quel-photoshoot-server/modules/common/generation"
	"quel-photoshoot-server/modules/shotplan"
)

// Executor - 배치 1개의 실행기
// 샷은 계획 순서대로 한 장씩 생성되고, 취소는 샷 사이에서만 확인한다.
type Executor struct {
	id        string
	accountID string
	client    generation.Client
	ledger    credit.Ledger
	token     *cancel.Token
	skip      map[string]bool
	now       func() time.Time

	mu           sync.RWMutex
	state        State
	plan         []shotplan.ComposedPrompt
	cursor       int
	results      []*ShotResult
	reserved     int
	regenerating map[string]bool
	done         chan struct{}
}

// Option - Executor 옵션
type Option func(*Executor)

// WithToken - 외부에서 만든 취소 토큰 사용 (원격 취소 플래그 연동)
func WithToken(token *cancel.Token) Option {
	return func(e *Executor) {
		if token != nil {
			e.token = token
		}
	}
}

// WithSkipped - 리뷰 단계에서 제외된 샷 (호출/과금 없이 skipped 로 기록)
func WithSkipped(shotIDs ...string) Option {
	return func(e *Executor) {
		for _, id := range shotIDs {
			e.skip[id] = true
		}
	}
}

// NewExecutor - 배치 실행기 생성
func NewExecutor(batchID, accountID string, client generation.Client, ledger credit.Ledger, opts ...Option) *Executor {
	e := &Executor{
		id:           batchID,
		accountID:    accountID,
		client:       client,
		ledger:       ledger,
		token:        cancel.NewToken(),
		skip:         make(map[string]bool),
		now:          time.Now,
		state:        StateIdle,
		regenerating: make(map[string]bool),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ID - 배치 ID
func (e *Executor) ID() string { return e.id }

// Done - 실행 루프가 끝나면 닫힘
func (e *Executor) Done() <-chan struct{} { return e.done }

// State - 현재 상태
func (e *Executor) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// estimate - 실행 대상 샷의 해상도별 예상 비용 합
func (e *Executor) estimate(plan []shotplan.ComposedPrompt) int {
	counts := make(map[string]int)
	var order []string
	for _, p := range plan {
		if e.skip[p.ShotID] {
			continue
		}
		if _, ok := counts[p.Resolution]; !ok {
			order = append(order, p.Resolution)
		}
		counts[p.Resolution]++
	}
	total := 0
	for _, res := range order {
		total += e.ledger.EstimateCost(counts[res], res, credit.ModeBatch)
	}
	return total
}

// Start - 비용을 선점하고 실행 루프 시작
// 잔액이 부족하면 네트워크 호출 없이 credit.ErrInsufficientCredit 을 반환한다.
func (e *Executor) Start(ctx context.Context, plan []shotplan.ComposedPrompt) (*ResultStream, error) {
	if len(plan) == 0 {
		return nil, ErrEmptyPlan
	}

	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return nil, ErrBatchNotIdle
	}
	// 다른 Start 호출이 끼어들지 못하도록 먼저 running 으로 전환
	e.state = StateRunning
	e.mu.Unlock()

	cost := e.estimate(plan)
	if cost > 0 {
		ok, err := e.ledger.Reserve(ctx, e.accountID, cost)
		if err != nil || !ok {
			e.mu.Lock()
			e.state = StateIdle
			e.mu.Unlock()
			if err != nil {
				return nil, fmt.Errorf("reserve %d credits: %w", cost, err)
			}
			log.Warn().Str("batch_id", e.id).Str("account_id", e.accountID).Int("cost", cost).Msg("💳 Insufficient credit, batch not started")
			return nil, credit.ErrInsufficientCredit
		}
	}

	e.mu.Lock()
	e.plan = append([]shotplan.ComposedPrompt(nil), plan...)
	e.reserved = cost
	e.results = make([]*ShotResult, 0, len(plan))
	e.mu.Unlock()

	out := make(chan *ShotResult, len(plan))
	log.Info().Str("batch_id", e.id).Int("shots", len(plan)).Int("reserved", cost).Msg("🚀 Batch started")

	// 요청 컨텍스트가 끝나도 배치는 계속 실행된다
	go e.run(context.WithoutCancel(ctx), out)
	return &ResultStream{ch: out}, nil
}

// Stop - 진행 중인 샷을 마치고 취소 상태로 전환
func (e *Executor) Stop() error {
	e.mu.Lock()
	switch e.state {
	case StateRunning:
		e.state = StateStopping
	case StateStopping:
	default:
		e.mu.Unlock()
		return ErrNotRunning
	}
	e.mu.Unlock()

	e.token.Cancel()
	log.Info().Str("batch_id", e.id).Msg("🛑 Stop requested")
	return nil
}

func (e *Executor) run(ctx context.Context, out chan<- *ShotResult) {
	defer close(e.done)
	defer close(out)

	cancelled := false
	for i, p := range e.plan {
		var res *ShotResult
		if e.skip[p.ShotID] {
			res = e.skipped(i, p, generation.KindNone)
		} else {
			res = e.execute(ctx, i, p, 1)
		}

		e.mu.Lock()
		e.results = append(e.results, res)
		e.cursor = i + 1
		if res.Status == StatusSuccess {
			e.reserved -= res.CostCharged
		}
		e.mu.Unlock()
		out <- res

		if i < len(e.plan)-1 && e.token.Cancelled(ctx) {
			cancelled = true
			e.mu.Lock()
			for j := i + 1; j < len(e.plan); j++ {
				rest := e.skipped(j, e.plan[j], generation.KindCancelled)
				e.results = append(e.results, rest)
				out <- rest
			}
			e.cursor = len(e.plan)
			e.mu.Unlock()
			break
		}
	}

	e.mu.Lock()
	leftover := e.reserved
	e.reserved = 0
	if cancelled || e.state == StateStopping {
		e.state = StateCancelled
	} else {
		e.state = StateCompleted
	}
	final := e.state
	e.mu.Unlock()

	if leftover > 0 {
		if err := e.ledger.Release(ctx, e.accountID, leftover); err != nil {
			log.Error().Err(err).Str("batch_id", e.id).Int("amount", leftover).Msg("❌ Failed to release unused credit")
		}
	}

	log.Info().Str("batch_id", e.id).Str("state", string(final)).Msg("🏁 Batch finished")
}

func (e *Executor) skipped(index int, p shotplan.ComposedPrompt, kind generation.ErrorKind) *ShotResult {
	return &ShotResult{
		ShotID:      p.ShotID,
		Index:       index,
		Status:      StatusSkipped,
		ErrorKind:   kind,
		PromptUsed:  p.Prompt,
		AssetsUsed:  append([]string(nil), p.AssetURLs...),
		AspectRatio: p.AspectRatio,
		Resolution:  p.Resolution,
		CompletedAt: e.now(),
	}
}

// execute - 샷 1장 생성 + 정산
// 이미 보낸 생성 요청은 취소하지 않는다 (결과가 나오면 과금되므로).
func (e *Executor) execute(ctx context.Context, index int, p shotplan.ComposedPrompt, attempt int) (res *ShotResult) {
	res = &ShotResult{
		ShotID:      p.ShotID,
		Index:       index,
		Status:      StatusPending,
		PromptUsed:  p.Prompt,
		AssetsUsed:  append([]string(nil), p.AssetURLs...),
		AspectRatio: p.AspectRatio,
		Resolution:  p.Resolution,
		Attempt:     attempt,
	}

	logger := log.With().Str("batch_id", e.id).Str("shot_id", p.ShotID).Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("💥 Generation panicked")
			res.Status = StatusFailed
			res.ErrorKind = generation.KindServiceError
			res.Error = fmt.Sprintf("panic: %v", r)
			res.ImageURL = ""
			res.CostCharged = 0
			res.CompletedAt = e.now()
		}
	}()

	genCtx := generation.WithShot(context.WithoutCancel(ctx), e.id, p.ShotID)
	start := e.now()
	url, err := e.client.Generate(genCtx, p.Prompt, p.AssetURLs, p.AspectRatio, p.Resolution)
	res.CompletedAt = e.now()

	if err != nil {
		res.Status = StatusFailed
		res.ErrorKind = generation.ClassifyError(err)
		res.Error = err.Error()
		logger.Warn().Err(err).Str("kind", string(res.ErrorKind)).Msg("⚠️  Shot failed")
		return res
	}

	res.Status = StatusSuccess
	res.ImageURL = url
	res.CostCharged = e.ledger.EstimateCost(1, p.Resolution, credit.ModeBatch)

	if err := e.ledger.Settle(genCtx, e.accountID, p.ShotID, res.CostCharged); err != nil {
		// 이미지는 이미 생성됨, 원장 불일치만 기록
		logger.Error().Err(err).Int("amount", res.CostCharged).Msg("❌ Credit settle failed")
	}

	logger.Info().Dur("elapsed", res.CompletedAt.Sub(start)).Int("cost", res.CostCharged).Msg("✅ Shot generated")
	return res
}

// RegenerateShot - 종료된 배치의 샷 1장을 다시 생성해 결과를 교체
// editedPrompt 가 비어 있으면 이전 promptUsed 를 그대로 사용한다.
func (e *Executor) RegenerateShot(ctx context.Context, shotID, editedPrompt string) (*ShotResult, error) {
	e.mu.Lock()
	if !e.state.Finished() {
		e.mu.Unlock()
		return nil, ErrBatchNotFinished
	}
	idx := -1
	for i, r := range e.results {
		if r.ShotID == shotID {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrShotNotFound, shotID)
	}
	if e.regenerating[shotID] {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrRegenerateInFlight, shotID)
	}
	e.regenerating[shotID] = true
	prev := e.results[idx]
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.regenerating, shotID)
		e.mu.Unlock()
	}()

	p := shotplan.ComposedPrompt{
		ShotID:      prev.ShotID,
		Prompt:      prev.PromptUsed,
		AssetURLs:   prev.AssetsUsed,
		AspectRatio: prev.AspectRatio,
		Resolution:  prev.Resolution,
	}
	if editedPrompt != "" {
		p.Prompt = editedPrompt
	}

	cost := e.ledger.EstimateCost(1, p.Resolution, credit.ModeRegenerate)
	ok, err := e.ledger.Reserve(ctx, e.accountID, cost)
	if err != nil {
		return nil, fmt.Errorf("reserve %d credits: %w", cost, err)
	}
	if !ok {
		return nil, credit.ErrInsufficientCredit
	}

	log.Info().Str("batch_id", e.id).Str("shot_id", shotID).Int("attempt", prev.Attempt+1).Msg("🔄 Regenerating shot")
	res := e.execute(ctx, prev.Index, p, prev.Attempt+1)

	if res.Status != StatusSuccess {
		if err := e.ledger.Release(context.WithoutCancel(ctx), e.accountID, cost); err != nil {
			log.Error().Err(err).Str("batch_id", e.id).Str("shot_id", shotID).Msg("❌ Failed to release regenerate credit")
		}
	}

	e.mu.Lock()
	e.results[idx] = res
	e.mu.Unlock()
	return res, nil
}

// resultRefs - 결과 포인터 목록 복사본 (원소는 공유)
func (e *Executor) resultRefs() []*ShotResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*ShotResult, len(e.results))
	copy(out, e.results)
	return out
}

// Snapshot - 현재 진행 상황
func (e *Executor) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := Snapshot{
		BatchID:   e.id,
		AccountID: e.accountID,
		State:     e.state,
		Cursor:    e.cursor,
		Total:     len(e.plan),
		Results:   make([]ShotResult, 0, len(e.results)),
	}
	for _, r := range e.results {
		switch r.Status {
		case StatusSuccess:
			snap.Succeeded++
		case StatusFailed:
			snap.Failed++
		case StatusSkipped:
			snap.Skipped++
		}
		snap.TotalCost += r.CostCharged
		c := *r
		c.AssetsUsed = append([]string(nil), r.AssetsUsed...)
		snap.Results = append(snap.Results, c)
	}
	return snap
}
