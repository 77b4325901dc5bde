package photoshoot

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"quel-photoshoot-server/modules/batch"
	"quel-photoshoot-server/modules/common/cancel"
	"quel-photoshoot-server/modules/common/credit"
	"quel-photoshoot-server/modules/common/fallback"
	"quel-photoshoot-server/modules/common/generation"
	"quel-photoshoot-server/modules/library"
	"quel-photoshoot-server/modules/shotplan"
)

// CancelFlags - 인스턴스 간 취소 플래그 저장소
type CancelFlags interface {
	cancel.Flag
	Set(ctx context.Context, batchID string) error
	Clear(ctx context.Context, batchID string) error
}

// Options - Service 의존성
type Options struct {
	Client  generation.Client
	Ledger  credit.Ledger
	Library *library.Library // nil 이면 라이브러리 조회 생략
	Flags   CancelFlags      // nil 이면 로컬 취소만
	History History          // nil 이면 기록 생략
	Hub     *Hub

	MaxBatches         int
	PlanTTL            time.Duration // 리뷰 플랜 보관 기간
	DefaultAspectRatio string
	DefaultResolution  string

	Pick  func(n int) int
	NewID func() string
}

type entry struct {
	exec      *batch.Executor
	workflow  shotplan.WorkflowType
	createdAt time.Time
}

// 리뷰 단계에서 보여준 플랜, 실행 시 다시 컴파일하지 않는다
type frozenPlan struct {
	userID string
	plan   *Plan
}

// Service - 포토슛 배치 오케스트레이션
type Service struct {
	client   generation.Client
	ledger   credit.Ledger
	library  *library.Library
	flags    CancelFlags
	history  History
	hub      *Hub
	compiler *shotplan.Compiler
	pick     func(n int) int
	newID    func() string

	defaultAspectRatio string
	defaultResolution  string

	batches *lru.Cache[string, *entry]
	plans   *expirable.LRU[string, *frozenPlan]
}

// NewService - 서비스 생성
func NewService(opts Options) (*Service, error) {
	if opts.Client == nil || opts.Ledger == nil {
		return nil, fmt.Errorf("photoshoot: generation client and ledger are required")
	}
	if opts.MaxBatches <= 0 {
		opts.MaxBatches = 256
	}
	if opts.PlanTTL <= 0 {
		opts.PlanTTL = 30 * time.Minute
	}
	if opts.Pick == nil {
		opts.Pick = rand.IntN
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.History == nil {
		opts.History = nopHistory{}
	}
	if opts.Hub == nil {
		opts.Hub = NewHub()
	}

	cache, err := lru.New[string, *entry](opts.MaxBatches)
	if err != nil {
		return nil, fmt.Errorf("photoshoot: batch registry: %w", err)
	}

	return &Service{
		client:             opts.Client,
		ledger:             opts.Ledger,
		library:            opts.Library,
		flags:              opts.Flags,
		history:            opts.History,
		hub:                opts.Hub,
		compiler:           shotplan.NewCompiler(opts.Pick),
		pick:               opts.Pick,
		newID:              opts.NewID,
		defaultAspectRatio: fallback.SafeAspectRatio(opts.DefaultAspectRatio, shotplan.DefaultAspectRatio),
		defaultResolution:  fallback.SafeResolution(opts.DefaultResolution, shotplan.DefaultResolution),
		batches:            cache,
		plans:              expirable.NewLRU[string, *frozenPlan](opts.MaxBatches, nil, opts.PlanTTL),
	}, nil
}

// Hub - WebSocket 허브
func (s *Service) Hub() *Hub { return s.hub }

// Plan - 컴파일 + 프롬프트 조합 (네트워크 호출/과금 없음, 라이브러리 조회 제외)
// 결과는 PlanID 로 보관되어 StartBatch 에서 같은 프롬프트로 실행된다.
func (s *Service) Plan(ctx context.Context, req PlanRequest) (*Plan, error) {
	workflow, err := s.workflowOf(req)
	if err != nil {
		return nil, err
	}

	toggles := req.Toggles
	toggles.AspectRatio = fallback.SafeAspectRatio(toggles.AspectRatio, s.defaultAspectRatio)
	toggles.Resolution = fallback.SafeResolution(toggles.Resolution, s.defaultResolution)

	fit := req.Fit
	assets := make(map[string]string, len(req.Assets)+3)
	for k, v := range req.Assets {
		assets[k] = v
	}

	if err := s.applyLibrary(ctx, req.UserID, req.Library, &toggles, &fit, assets); err != nil {
		return nil, err
	}

	specs, err := s.compiler.Compile(workflow, toggles, req.Selected)
	if err != nil {
		return nil, err
	}

	resolved := shotplan.Resolve(assets)
	plan := &Plan{PlanID: uuid.NewString(), Workflow: workflow, Shots: make([]PlannedShot, 0, len(specs))}
	for _, spec := range specs {
		prompt, err := shotplan.Compose(spec, fit, req.Accessories, resolved)
		if err != nil {
			return nil, fmt.Errorf("compose %s: %w", spec.ShotID, err)
		}
		plan.Shots = append(plan.Shots, PlannedShot{Spec: spec, Prompt: prompt})
	}
	plan.EstimatedCost = s.ledger.EstimateCost(len(plan.Shots), toggles.Resolution, credit.ModeBatch)
	s.plans.Add(plan.PlanID, &frozenPlan{userID: req.UserID, plan: plan})
	return plan, nil
}

// planFor - 리뷰한 플랜이 있으면 그대로, 없으면 새로 컴파일
func (s *Service) planFor(ctx context.Context, req BatchRequest) (*Plan, error) {
	if req.PlanID == "" {
		return s.Plan(ctx, req.PlanRequest)
	}
	fp, ok := s.plans.Get(req.PlanID)
	if !ok || fp.userID != req.UserID {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, req.PlanID)
	}
	return fp.plan, nil
}

func (s *Service) workflowOf(req PlanRequest) (shotplan.WorkflowType, error) {
	if strings.TrimSpace(req.WorkflowType) == "" {
		return shotplan.DetectWorkflow(req.Fit.ProductName), nil
	}
	return shotplan.ParseWorkflow(req.WorkflowType)
}

// applyLibrary - 라이브러리 항목의 customPrompt / URL 을 요청 값이 없는 곳에 채운다
func (s *Service) applyLibrary(ctx context.Context, ownerID string, sel LibrarySelection, toggles *shotplan.ToggleState, fit *shotplan.FitDescription, assets map[string]string) error {
	if s.library == nil || ownerID == "" {
		return nil
	}

	if sel.ModelID != "" {
		models, err := s.library.Catalog(ctx, ownerID, library.KindModel)
		if err != nil {
			return err
		}
		if m, ok := models.Get(sel.ModelID); ok {
			if toggles.Gender == "" && m.Gender != "" {
				toggles.Gender = shotplan.Gender(fallback.SafeLower(m.Gender, ""))
			}
			fillAsset(assets, shotplan.KeyModel, m.URL)
		}
	}

	poses, err := s.library.Catalog(ctx, ownerID, library.KindPose)
	if err != nil {
		return err
	}
	if toggles.PoseLibraryPrompt == "" {
		toggles.PoseLibraryPrompt = library.PromptFor(poses, sel.PoseID)
	}
	if toggles.AngledPosePrompt == "" {
		gender := string(toggles.Gender)
		if gender == "" {
			gender = string(shotplan.GenderFemale)
		}
		if angled := library.AngledPoses(poses, gender); len(angled) > 0 {
			toggles.AngledPosePrompt = angled[s.pick(len(angled))].Prompt()
		}
	}

	if sel.FitID != "" && strings.TrimSpace(fit.Text) == "" {
		fits, err := s.library.Catalog(ctx, ownerID, library.KindFit)
		if err != nil {
			return err
		}
		fit.Text = library.PromptFor(fits, sel.FitID)
	}

	if err := s.fillFromLibrary(ctx, ownerID, library.KindBackground, sel.BackgroundID, shotplan.KeyBackground, assets); err != nil {
		return err
	}
	return s.fillFromLibrary(ctx, ownerID, library.KindShoe, sel.ShoeID, shotplan.KeyShoes, assets)
}

func (s *Service) fillFromLibrary(ctx context.Context, ownerID string, kind library.Kind, id, key string, assets map[string]string) error {
	if id == "" {
		return nil
	}
	c, err := s.library.Catalog(ctx, ownerID, kind)
	if err != nil {
		return err
	}
	if it, ok := c.Get(id); ok {
		fillAsset(assets, key, it.URL)
	}
	return nil
}

func fillAsset(assets map[string]string, key, url string) {
	if strings.TrimSpace(assets[key]) == "" && url != "" {
		assets[key] = url
	}
}

// StartBatch - 플랜을 만들고 리뷰 수정/제외를 반영해 실행
func (s *Service) StartBatch(ctx context.Context, req BatchRequest) (*BatchInfo, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidRequest)
	}

	plan, err := s.planFor(ctx, req)
	if err != nil {
		return nil, err
	}

	prompts := plan.Prompts()
	known := make(map[string]int, len(prompts))
	for i, p := range prompts {
		known[p.ShotID] = i
	}
	for shotID, text := range req.Edits {
		i, ok := known[shotID]
		if !ok {
			return nil, fmt.Errorf("%w: %q", shotplan.ErrUnknownShotID, shotID)
		}
		if text = strings.TrimSpace(text); text != "" {
			prompts[i].Prompt = text
		}
	}
	for _, shotID := range req.Skip {
		if _, ok := known[shotID]; !ok {
			return nil, fmt.Errorf("%w: %q", shotplan.ErrUnknownShotID, shotID)
		}
	}

	batchID := s.newID()
	token := cancel.NewToken()
	if s.flags != nil {
		token = cancel.NewRemoteToken(batchID, s.flags)
	}
	exec := batch.NewExecutor(batchID, req.UserID, s.client, s.ledger,
		batch.WithToken(token),
		batch.WithSkipped(req.Skip...),
	)

	stream, err := exec.Start(ctx, prompts)
	if err != nil {
		return nil, err
	}

	e := &entry{exec: exec, workflow: plan.Workflow, createdAt: time.Now()}
	if evicted := s.batches.Add(batchID, e); evicted {
		log.Warn().Int("max_batches", s.batches.Len()).Msg("⚠️  Batch registry full, oldest batch evicted")
	}

	info := s.info(e)
	s.recordBatch(info)
	go s.pump(e, stream)

	log.Info().Str("batch_id", batchID).Str("user_id", req.UserID).Str("plan_id", plan.PlanID).Str("workflow", string(plan.Workflow)).
		Int("shots", len(prompts)).Int("skipped", len(req.Skip)).Msg("📸 Photoshoot batch accepted")
	return info, nil
}

// pump - 결과를 WebSocket/히스토리로 전달
func (s *Service) pump(e *entry, stream *batch.ResultStream) {
	batchID := e.exec.ID()
	for r := range stream.C() {
		s.hub.Broadcast(batchID, Event{Type: EventShotResult, BatchID: batchID, Result: r})
		s.recordShot(batchID, *r)
	}

	<-e.exec.Done()
	info := s.info(e)
	s.hub.Broadcast(batchID, Event{Type: EventBatchFinished, BatchID: batchID, Snapshot: &info.Snapshot})
	s.recordBatch(info)
	log.Info().Str("batch_id", batchID).Str("state", string(info.State)).Int("succeeded", info.Succeeded).
		Int("failed", info.Failed).Int("subscribers", s.hub.Subscribers(batchID)).Msg("📡 Photoshoot batch stream closed")

	if s.flags != nil {
		if err := s.flags.Clear(context.Background(), batchID); err != nil {
			log.Warn().Err(err).Str("batch_id", batchID).Msg("⚠️  Failed to clear cancel flag")
		}
	}
}

func (s *Service) recordShot(batchID string, r batch.ShotResult) {
	if err := s.history.SaveShot(context.Background(), batchID, r); err != nil {
		log.Warn().Err(err).Str("batch_id", batchID).Str("shot_id", r.ShotID).Msg("⚠️  Failed to save shot history")
	}
}

func (s *Service) recordBatch(info *BatchInfo) {
	if err := s.history.SaveBatch(context.Background(), *info); err != nil {
		log.Warn().Err(err).Str("batch_id", info.BatchID).Msg("⚠️  Failed to save batch history")
	}
}

func (s *Service) info(e *entry) *BatchInfo {
	return &BatchInfo{Snapshot: e.exec.Snapshot(), Workflow: e.workflow, CreatedAt: e.createdAt}
}

func (s *Service) lookup(batchID string) (*entry, error) {
	e, ok := s.batches.Get(batchID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
	}
	return e, nil
}

// Batch - 배치 현재 상태
func (s *Service) Batch(batchID string) (*BatchInfo, error) {
	e, err := s.lookup(batchID)
	if err != nil {
		return nil, err
	}
	return s.info(e), nil
}

// Stop - 배치 중지 요청
// 이 인스턴스에 없는 배치는 원격 플래그만 설정한다.
func (s *Service) Stop(ctx context.Context, batchID string) error {
	e, err := s.lookup(batchID)
	if err != nil {
		if s.flags == nil {
			return err
		}
		log.Info().Str("batch_id", batchID).Msg("🛑 Batch not local, setting remote cancel flag")
		return s.flags.Set(ctx, batchID)
	}

	if err := e.exec.Stop(); err != nil {
		return err
	}
	if s.flags != nil {
		if err := s.flags.Set(ctx, batchID); err != nil {
			log.Warn().Err(err).Str("batch_id", batchID).Msg("⚠️  Failed to set cancel flag")
		}
	}
	return nil
}

// Regenerate - 종료된 배치의 샷 1장 재생성
func (s *Service) Regenerate(ctx context.Context, batchID, shotID, prompt string) (*batch.ShotResult, error) {
	e, err := s.lookup(batchID)
	if err != nil {
		return nil, err
	}

	res, err := e.exec.RegenerateShot(ctx, shotID, strings.TrimSpace(prompt))
	if err != nil {
		return nil, err
	}

	s.hub.Broadcast(batchID, Event{Type: EventShotRegenerate, BatchID: batchID, Result: res})
	s.recordShot(batchID, *res)
	s.recordBatch(s.info(e))
	return res, nil
}

// RefreshLibrary - 라이브러리 항목 수정 후 캐시 제거 (kind 가 비면 전체)
func (s *Service) RefreshLibrary(ownerID, kind string) error {
	if strings.TrimSpace(ownerID) == "" {
		return fmt.Errorf("%w: userId is required", ErrInvalidRequest)
	}
	var kinds []library.Kind
	if strings.TrimSpace(kind) != "" {
		k, ok := library.ParseKind(kind)
		if !ok {
			return fmt.Errorf("%w: unknown library kind %q", ErrInvalidRequest, kind)
		}
		kinds = append(kinds, k)
	}
	if s.library != nil {
		s.library.Invalidate(ownerID, kinds...)
	}
	return nil
}
