package model

import "time"

const (
	StatusPending   = "pending"
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ShotRow - quel_photoshoot_shots 테이블 구조
type ShotRow struct {
	BatchID     string    `json:"batch_id"`
	ShotID      string    `json:"shot_id"`
	ShotIndex   int       `json:"shot_index"`
	Status      string    `json:"status"`
	ImageURL    *string   `json:"image_url"`
	ErrorKind   *string   `json:"error_kind"`
	PromptUsed  string    `json:"prompt_used"`
	AssetsUsed  []string  `json:"assets_used"`
	CostCharged int       `json:"cost_charged"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BatchRow - quel_photoshoot_batches 테이블 구조
type BatchRow struct {
	BatchID      string     `json:"batch_id"`
	AccountID    string     `json:"quel_member_id"`
	WorkflowType string     `json:"workflow_type"`
	BatchStatus  string     `json:"batch_status"`
	TotalShots   int        `json:"total_shots"`
	SuccessShots int        `json:"success_shots"`
	FailedShots  int        `json:"failed_shots"`
	SkippedShots int        `json:"skipped_shots"`
	TotalCost    int        `json:"total_cost"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}
