package photoshoot

import (
	"context"
	"fmt"
	"time"

	supa "github.com/supabase-community/supabase-go"

	"quel-photoshoot-server/modules/batch"
	"quel-photoshoot-server/modules/common/model"
)

// History - 샷 결과 / 배치 요약 기록
type History interface {
	SaveShot(ctx context.Context, batchID string, r batch.ShotResult) error
	SaveBatch(ctx context.Context, info BatchInfo) error
}

type nopHistory struct{}

func (nopHistory) SaveShot(context.Context, string, batch.ShotResult) error { return nil }
func (nopHistory) SaveBatch(context.Context, BatchInfo) error               { return nil }

// SupabaseHistory - quel_photoshoot_shots / quel_photoshoot_batches upsert
type SupabaseHistory struct {
	supabase *supa.Client
}

// NewSupabaseHistory - Supabase 히스토리 저장소 생성
func NewSupabaseHistory(url, serviceKey string) (*SupabaseHistory, error) {
	client, err := supa.NewClient(url, serviceKey, &supa.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return &SupabaseHistory{supabase: client}, nil
}

func (h *SupabaseHistory) SaveShot(_ context.Context, batchID string, r batch.ShotResult) error {
	_, _, err := h.supabase.From("quel_photoshoot_shots").
		Insert(shotRow(batchID, r), true, "batch_id,shot_id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert shot %s: %w", r.ShotID, err)
	}
	return nil
}

func (h *SupabaseHistory) SaveBatch(_ context.Context, info BatchInfo) error {
	_, _, err := h.supabase.From("quel_photoshoot_batches").
		Insert(batchRow(info), true, "batch_id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert batch %s: %w", info.BatchID, err)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func shotRow(batchID string, r batch.ShotResult) model.ShotRow {
	return model.ShotRow{
		BatchID:     batchID,
		ShotID:      r.ShotID,
		ShotIndex:   r.Index,
		Status:      string(r.Status),
		ImageURL:    optional(r.ImageURL),
		ErrorKind:   optional(string(r.ErrorKind)),
		PromptUsed:  r.PromptUsed,
		AssetsUsed:  r.AssetsUsed,
		CostCharged: r.CostCharged,
		UpdatedAt:   r.CompletedAt,
	}
}

func batchRow(info BatchInfo) model.BatchRow {
	row := model.BatchRow{
		BatchID:      info.BatchID,
		AccountID:    info.AccountID,
		WorkflowType: string(info.Workflow),
		BatchStatus:  batchStatus(info.State),
		TotalShots:   info.Total,
		SuccessShots: info.Succeeded,
		FailedShots:  info.Failed,
		SkippedShots: info.Skipped,
		TotalCost:    info.TotalCost,
		CreatedAt:    info.CreatedAt,
	}
	if info.State.Finished() {
		now := time.Now()
		row.CompletedAt = &now
	}
	return row
}

func batchStatus(s batch.State) string {
	switch s {
	case batch.StateCompleted:
		return model.StatusCompleted
	case batch.StateCancelled:
		return model.StatusCancelled
	case batch.StateIdle:
		return model.StatusPending
	default:
		return model.StatusRunning
	}
}
