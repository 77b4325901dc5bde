package photoshoot

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quel-photoshoot-server/modules/batch"
	"quel-photoshoot-server/modules/common/credit"
	"quel-photoshoot-server/modules/common/generation"
	"quel-photoshoot-server/modules/library"
	"quel-photoshoot-server/modules/shotplan"
)

const testUser = "user-1"

// recordingClient - 호출된 프롬프트 기록, gate 가 있으면 열릴 때까지 대기
type recordingClient struct {
	mu      sync.Mutex
	prompts map[string]string
	assets  map[string][]string
	gate    chan struct{}
}

func newRecordingClient() *recordingClient {
	return &recordingClient{prompts: make(map[string]string), assets: make(map[string][]string)}
}

func (c *recordingClient) Generate(ctx context.Context, prompt string, assetURLs []string, aspectRatio, resolution string) (string, error) {
	if c.gate != nil {
		<-c.gate
	}
	ref := generation.ShotFrom(ctx)
	c.mu.Lock()
	c.prompts[ref.ShotID] = prompt
	c.assets[ref.ShotID] = assetURLs
	c.mu.Unlock()
	return fmt.Sprintf("https://img.example/%s/%s.webp", ref.BatchID, ref.ShotID), nil
}

func (c *recordingClient) promptFor(shotID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.prompts[shotID]
	return p, ok
}

type fakeFlags struct {
	mu      sync.Mutex
	set     map[string]bool
	cleared []string
}

func newFakeFlags() *fakeFlags { return &fakeFlags{set: make(map[string]bool)} }

func (f *fakeFlags) IsCancelled(_ context.Context, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set[id]
}

func (f *fakeFlags) Set(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set[id] = true
	return nil
}

func (f *fakeFlags) Clear(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.set, id)
	f.cleared = append(f.cleared, id)
	return nil
}

type fakeHistory struct {
	mu      sync.Mutex
	shots   []batch.ShotResult
	batches []BatchInfo
}

func (h *fakeHistory) SaveShot(_ context.Context, _ string, r batch.ShotResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shots = append(h.shots, r)
	return nil
}

func (h *fakeHistory) SaveBatch(_ context.Context, info BatchInfo) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.batches = append(h.batches, info)
	return nil
}

func (h *fakeHistory) lastBatch() (BatchInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.batches) == 0 {
		return BatchInfo{}, false
	}
	return h.batches[len(h.batches)-1], true
}

type fixture struct {
	svc     *Service
	client  *recordingClient
	ledger  *credit.MemoryLedger
	history *fakeHistory
}

func newFixture(t *testing.T, balance int, mutate func(*Options)) *fixture {
	t.Helper()
	ledger := credit.NewMemoryLedger(credit.NewPricing(2), 0)
	ledger.SetBalance(testUser, balance)

	f := &fixture{client: newRecordingClient(), ledger: ledger, history: &fakeHistory{}}
	n := 0
	opts := Options{
		Client:  f.client,
		Ledger:  ledger,
		History: f.history,
		Pick:    func(int) int { return 0 },
		NewID: func() string {
			n++
			return fmt.Sprintf("batch-%d", n)
		},
	}
	if mutate != nil {
		mutate(&opts)
	}
	svc, err := NewService(opts)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func upperRequest() PlanRequest {
	return PlanRequest{
		UserID:       testUser,
		WorkflowType: "upper",
		Toggles: shotplan.ToggleState{
			Gender:     shotplan.GenderFemale,
			SocksType:  shotplan.SocksBlack,
			EnableWind: true,
		},
		Fit: shotplan.FitDescription{ProductName: "Oxford shirt", Text: "Relaxed boxy fit with dropped shoulders."},
		Assets: map[string]string{
			shotplan.KeyModel:       "https://cdn.example/model.png",
			shotplan.KeyMainProduct: "https://cdn.example/front.png",
			shotplan.KeyTopBack:     "https://cdn.example/back.png",
		},
	}
}

func waitFinished(t *testing.T, svc *Service, batchID string) *BatchInfo {
	t.Helper()
	var info *BatchInfo
	require.Eventually(t, func() bool {
		got, err := svc.Batch(batchID)
		if err != nil {
			return false
		}
		info = got
		return got.State.Finished()
	}, 5*time.Second, 5*time.Millisecond)
	return info
}

func TestPlanPreview(t *testing.T) {
	f := newFixture(t, 1000, nil)

	req := upperRequest()
	req.WorkflowType = ""
	plan, err := f.svc.Plan(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, shotplan.WorkflowUpper, plan.Workflow)
	require.Len(t, plan.Shots, 5)
	assert.Equal(t, 20, plan.EstimatedCost)
	assert.True(t, plan.Shots[0].Spec.UseStickman)
	for _, s := range plan.Shots {
		assert.Equal(t, "3:4", s.Prompt.AspectRatio)
		assert.Equal(t, "1K", s.Prompt.Resolution)
		assert.NotEmpty(t, s.Prompt.Prompt)
	}

	// 미리보기는 과금하지 않는다
	assert.Zero(t, f.ledger.Reserved(testUser))
	assert.Equal(t, 1000, f.ledger.Balance(testUser))
}

func TestPlanRejectsUnknownWorkflow(t *testing.T) {
	f := newFixture(t, 1000, nil)

	req := upperRequest()
	req.WorkflowType = "swimwear"
	_, err := f.svc.Plan(context.Background(), req)
	assert.ErrorIs(t, err, shotplan.ErrUnknownWorkflow)
}

func TestPlanAppliesLibrary(t *testing.T) {
	items := map[library.Kind][]library.Item{
		library.KindModel: {{ID: "m1", Gender: "male", URL: "https://cdn.example/lib-model.png"}},
		library.KindPose: {
			{ID: "p1", Gender: "male", CustomPrompt: "Hands in pockets, relaxed stance."},
			{ID: "p2", Gender: "male", Tags: []string{library.TagAngled}, CustomPrompt: "Body turned three quarters to the left."},
			{ID: "p3", Gender: "female", Tags: []string{library.TagAngled}, CustomPrompt: "Wrong gender pose."},
		},
		library.KindFit: {{ID: "f1", CustomPrompt: "Slim tailored fit with a sharp shoulder line."}},
	}
	loader := library.LoaderFunc(func(_ context.Context, ownerID string, kind library.Kind) ([]library.Item, error) {
		return items[kind], nil
	})
	f := newFixture(t, 1000, func(o *Options) {
		o.Library = library.New(loader, 16, time.Minute)
	})

	req := upperRequest()
	req.Toggles.Gender = ""
	req.Fit.Text = ""
	delete(req.Assets, shotplan.KeyModel)
	req.Library = LibrarySelection{ModelID: "m1", PoseID: "p1", FitID: "f1"}

	plan, err := f.svc.Plan(context.Background(), req)
	require.NoError(t, err)

	byID := make(map[string]PlannedShot)
	for _, s := range plan.Shots {
		byID[s.Spec.ShotID] = s
	}
	assert.Equal(t, shotplan.GenderMale, byID["styling_front"].Spec.Gender)
	assert.Equal(t, "Hands in pockets, relaxed stance.", byID["styling_front"].Spec.Pose)
	assert.Equal(t, "Body turned three quarters to the left.", byID["styling_angled"].Spec.Pose)
	assert.Contains(t, byID["styling_front"].Prompt.AssetURLs, "https://cdn.example/lib-model.png")
	assert.Contains(t, byID["styling_front"].Prompt.Prompt, "Slim tailored fit with a sharp shoulder line.")
}

func TestStartBatchRunsToCompletion(t *testing.T) {
	flags := newFakeFlags()
	f := newFixture(t, 1000, func(o *Options) { o.Flags = flags })

	info, err := f.svc.StartBatch(context.Background(), BatchRequest{PlanRequest: upperRequest()})
	require.NoError(t, err)
	assert.Equal(t, "batch-1", info.BatchID)
	assert.Equal(t, shotplan.WorkflowUpper, info.Workflow)

	final := waitFinished(t, f.svc, "batch-1")
	assert.Equal(t, batch.StateCompleted, final.State)
	assert.Equal(t, 5, final.Succeeded)
	assert.Equal(t, 20, final.TotalCost)
	assert.Equal(t, 1000-20, f.ledger.Balance(testUser))

	require.Eventually(t, func() bool {
		last, ok := f.history.lastBatch()
		return ok && last.State == batch.StateCompleted
	}, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		flags.mu.Lock()
		defer flags.mu.Unlock()
		return len(flags.cleared) == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestStartBatchAppliesEditsAndSkip(t *testing.T) {
	f := newFixture(t, 1000, nil)

	req := BatchRequest{
		PlanRequest: upperRequest(),
		Edits:       map[string]string{"closeup_front": "  Operator edited close-up prompt.  "},
		Skip:        []string{"technical_back"},
	}
	_, err := f.svc.StartBatch(context.Background(), req)
	require.NoError(t, err)

	final := waitFinished(t, f.svc, "batch-1")
	assert.Equal(t, 4, final.Succeeded)
	assert.Equal(t, 1, final.Skipped)
	assert.Equal(t, 16, final.TotalCost)

	p, ok := f.client.promptFor("closeup_front")
	require.True(t, ok)
	assert.Equal(t, "Operator edited close-up prompt.", p)

	_, called := f.client.promptFor("technical_back")
	assert.False(t, called)
}

func TestStartBatchRejectsUnknownEdit(t *testing.T) {
	f := newFixture(t, 1000, nil)

	_, err := f.svc.StartBatch(context.Background(), BatchRequest{
		PlanRequest: upperRequest(),
		Edits:       map[string]string{"nope": "x"},
	})
	assert.ErrorIs(t, err, shotplan.ErrUnknownShotID)

	_, err = f.svc.StartBatch(context.Background(), BatchRequest{
		PlanRequest: upperRequest(),
		Skip:        []string{"nope"},
	})
	assert.ErrorIs(t, err, shotplan.ErrUnknownShotID)
}

func TestStartBatchInsufficientCredit(t *testing.T) {
	f := newFixture(t, 10, nil)

	_, err := f.svc.StartBatch(context.Background(), BatchRequest{PlanRequest: upperRequest()})
	assert.ErrorIs(t, err, credit.ErrInsufficientCredit)

	_, err = f.svc.Batch("batch-1")
	assert.ErrorIs(t, err, ErrBatchNotFound)
	assert.Empty(t, f.client.prompts)
}

func TestStopBatch(t *testing.T) {
	flags := newFakeFlags()
	f := newFixture(t, 1000, func(o *Options) { o.Flags = flags })
	f.client.gate = make(chan struct{})

	_, err := f.svc.StartBatch(context.Background(), BatchRequest{PlanRequest: upperRequest()})
	require.NoError(t, err)
	require.NoError(t, f.svc.Stop(context.Background(), "batch-1"))
	close(f.client.gate)

	final := waitFinished(t, f.svc, "batch-1")
	assert.Equal(t, batch.StateCancelled, final.State)
	assert.Equal(t, 1, final.Succeeded)
	assert.Equal(t, 4, final.Skipped)
	assert.Equal(t, 1000-4, f.ledger.Balance(testUser))
	assert.Zero(t, f.ledger.Reserved(testUser))
}

func TestStopUnknownBatch(t *testing.T) {
	f := newFixture(t, 1000, nil)
	assert.ErrorIs(t, f.svc.Stop(context.Background(), "ghost"), ErrBatchNotFound)

	flags := newFakeFlags()
	g := newFixture(t, 1000, func(o *Options) { o.Flags = flags })
	require.NoError(t, g.svc.Stop(context.Background(), "remote-batch"))
	assert.True(t, flags.IsCancelled(context.Background(), "remote-batch"))
}

func TestRegenerateAfterCompletion(t *testing.T) {
	f := newFixture(t, 1000, nil)

	_, err := f.svc.StartBatch(context.Background(), BatchRequest{PlanRequest: upperRequest()})
	require.NoError(t, err)
	waitFinished(t, f.svc, "batch-1")

	res, err := f.svc.Regenerate(context.Background(), "batch-1", "styling_front", "New styling prompt.")
	require.NoError(t, err)
	assert.Equal(t, batch.StatusSuccess, res.Status)
	assert.Equal(t, "New styling prompt.", res.PromptUsed)
	assert.Equal(t, 2, res.Attempt)
	assert.Equal(t, 1000-24, f.ledger.Balance(testUser))

	_, err = f.svc.Regenerate(context.Background(), "batch-1", "missing", "")
	assert.ErrorIs(t, err, batch.ErrShotNotFound)
	_, err = f.svc.Regenerate(context.Background(), "ghost", "styling_front", "")
	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestStartBatchRunsReviewedPlan(t *testing.T) {
	calls := 0
	f := newFixture(t, 1000, func(o *Options) {
		// 호출할 때마다 다른 기본 포즈를 고른다
		o.Pick = func(n int) int {
			calls++
			return calls % n
		}
	})

	req := upperRequest()
	plan, err := f.svc.Plan(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, plan.PlanID)

	// 같은 요청을 다시 컴파일하면 포즈가 달라진다
	again, err := f.svc.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, plan.Prompts(), again.Prompts())

	_, err = f.svc.StartBatch(context.Background(), BatchRequest{
		PlanRequest: PlanRequest{UserID: testUser},
		PlanID:      plan.PlanID,
		Edits:       map[string]string{"closeup_front": "Edited close-up."},
	})
	require.NoError(t, err)
	final := waitFinished(t, f.svc, "batch-1")
	assert.Equal(t, batch.StateCompleted, final.State)
	assert.Equal(t, plan.EstimatedCost, final.TotalCost)

	for _, s := range plan.Shots {
		got, ok := f.client.promptFor(s.Spec.ShotID)
		require.True(t, ok, s.Spec.ShotID)
		if s.Spec.ShotID == "closeup_front" {
			assert.Equal(t, "Edited close-up.", got)
			continue
		}
		assert.Equal(t, s.Prompt.Prompt, got, s.Spec.ShotID)
	}

	// 편집은 보관된 플랜을 바꾸지 않는다
	assert.NotEqual(t, "Edited close-up.", plan.Shots[len(plan.Shots)-1].Prompt.Prompt)
}

func TestStartBatchUnknownPlan(t *testing.T) {
	f := newFixture(t, 1000, nil)

	_, err := f.svc.StartBatch(context.Background(), BatchRequest{PlanRequest: PlanRequest{UserID: testUser}, PlanID: "missing"})
	assert.ErrorIs(t, err, ErrPlanNotFound)

	plan, err := f.svc.Plan(context.Background(), upperRequest())
	require.NoError(t, err)
	_, err = f.svc.StartBatch(context.Background(), BatchRequest{PlanRequest: PlanRequest{UserID: "someone-else"}, PlanID: plan.PlanID})
	assert.ErrorIs(t, err, ErrPlanNotFound)
	assert.Empty(t, f.client.prompts)
}

func TestRefreshLibrary(t *testing.T) {
	var mu sync.Mutex
	loads := 0
	loader := library.LoaderFunc(func(context.Context, string, library.Kind) ([]library.Item, error) {
		mu.Lock()
		defer mu.Unlock()
		loads++
		return nil, nil
	})
	f := newFixture(t, 1000, func(o *Options) {
		o.Library = library.New(loader, 16, time.Minute)
	})

	req := upperRequest()
	_, err := f.svc.Plan(context.Background(), req)
	require.NoError(t, err)
	_, err = f.svc.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, loads, "pose catalog cached")

	require.NoError(t, f.svc.RefreshLibrary(testUser, "pose"))
	_, err = f.svc.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)

	assert.ErrorIs(t, f.svc.RefreshLibrary(testUser, "hat"), ErrInvalidRequest)
	assert.ErrorIs(t, f.svc.RefreshLibrary("", ""), ErrInvalidRequest)
	require.NoError(t, f.svc.RefreshLibrary(testUser, ""))
}
