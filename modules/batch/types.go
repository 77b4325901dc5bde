package batch

import (
	"errors"
	"time"

	"quel-photoshoot-server/modules/common/generation"
)

var (
	// ErrBatchNotIdle - 이미 시작된 배치에 Start 호출
	ErrBatchNotIdle = errors.New("batch already started")
	// ErrBatchNotFinished - 실행 중인 배치에 재생성 요청
	ErrBatchNotFinished = errors.New("batch not finished")
	// ErrNotRunning - 실행 중이 아닌 배치에 Stop 요청
	ErrNotRunning = errors.New("batch not running")
	// ErrShotNotFound - 배치에 없는 샷
	ErrShotNotFound = errors.New("shot not found in batch")
	// ErrRegenerateInFlight - 같은 샷 재생성이 이미 진행 중
	ErrRegenerateInFlight = errors.New("regeneration already in progress for shot")
	// ErrEmptyPlan - 실행할 샷이 없음
	ErrEmptyPlan = errors.New("empty shot plan")
)

// State - 배치 상태
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateStopping  State = "stopping"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
)

// Finished - 재생성이 허용되는 종료 상태인지
func (s State) Finished() bool {
	return s == StateCompleted || s == StateCancelled
}

// Status - 샷 결과 상태
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// ShotResult - 샷 1장의 실행 결과
type ShotResult struct {
	ShotID      string               `json:"shotId"`
	Index       int                  `json:"index"`
	Status      Status               `json:"status"`
	ImageURL    string               `json:"imageUrl,omitempty"`
	ErrorKind   generation.ErrorKind `json:"errorKind,omitempty"`
	Error       string               `json:"error,omitempty"`
	PromptUsed  string               `json:"promptUsed"`
	AssetsUsed  []string             `json:"assetsUsed"`
	AspectRatio string               `json:"aspectRatio"`
	Resolution  string               `json:"resolution"`
	CostCharged int                  `json:"costCharged"`
	Attempt     int                  `json:"attempt"`
	CompletedAt time.Time            `json:"completedAt"`
}

// Snapshot - 배치 진행 상황 (시점 복사본)
type Snapshot struct {
	BatchID   string       `json:"batchId"`
	AccountID string       `json:"accountId"`
	State     State        `json:"state"`
	Cursor    int          `json:"cursor"`
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Skipped   int          `json:"skipped"`
	TotalCost int          `json:"totalCost"`
	Results   []ShotResult `json:"results"`
}
