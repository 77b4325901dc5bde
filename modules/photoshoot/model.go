package photoshoot

import (
	"errors"
	"time"

	"quel-photoshoot-server/modules/batch"
	"quel-photoshoot-server/modules/shotplan"
)

var (
	// ErrBatchNotFound - 이 인스턴스에 없는 배치
	ErrBatchNotFound = errors.New("batch not found")
	// ErrInvalidRequest - 요청 형식 오류
	ErrInvalidRequest = errors.New("invalid request")
	// ErrPlanNotFound - 만료됐거나 다른 사용자의 플랜
	ErrPlanNotFound = errors.New("plan not found")
)

// LibrarySelection - 라이브러리에서 고른 항목 ID
type LibrarySelection struct {
	PoseID       string `json:"poseId,omitempty"`
	ModelID      string `json:"modelId,omitempty"`
	FitID        string `json:"fitId,omitempty"`
	BackgroundID string `json:"backgroundId,omitempty"`
	ShoeID       string `json:"shoeId,omitempty"`
}

// PlanRequest - POST /api/photoshoot/plan
type PlanRequest struct {
	UserID       string                       `json:"userId"`
	WorkflowType string                       `json:"workflowType,omitempty"`
	Toggles      shotplan.ToggleState         `json:"toggles"`
	Selected     []string                     `json:"selected,omitempty"`
	Fit          shotplan.FitDescription      `json:"fit"`
	Assets       map[string]string            `json:"assets"`
	Accessories  shotplan.AccessoryVisibility `json:"accessories,omitempty"`
	Library      LibrarySelection             `json:"library"`
}

// BatchRequest - POST /api/photoshoot/batches
// PlanID 가 있으면 리뷰한 플랜을 그대로 실행하고 나머지 PlanRequest 필드는 무시한다.
// Edits 는 리뷰 단계에서 수정한 프롬프트, Skip 은 제외한 샷
type BatchRequest struct {
	PlanRequest
	PlanID string            `json:"planId,omitempty"`
	Edits  map[string]string `json:"edits,omitempty"`
	Skip   []string          `json:"skip,omitempty"`
}

// LibraryRefreshRequest - POST /api/photoshoot/library/refresh
// Kind 가 비면 사용자의 전체 라이브러리 캐시를 비운다
type LibraryRefreshRequest struct {
	UserID string `json:"userId"`
	Kind   string `json:"kind,omitempty"`
}

// RegenerateRequest - POST /api/photoshoot/batches/{batchId}/shots/{shotId}/regenerate
type RegenerateRequest struct {
	Prompt string `json:"prompt,omitempty"`
}

// PlannedShot - 리뷰용 샷 (spec + 최종 프롬프트)
type PlannedShot struct {
	Spec   shotplan.ShotSpec       `json:"spec"`
	Prompt shotplan.ComposedPrompt `json:"prompt"`
}

// Plan - 컴파일 + 프롬프트 조합 결과
type Plan struct {
	PlanID        string                `json:"planId"`
	Workflow      shotplan.WorkflowType `json:"workflow"`
	Shots         []PlannedShot         `json:"shots"`
	EstimatedCost int                   `json:"estimatedCost"`
}

// Prompts - 실행 순서대로의 프롬프트
func (p *Plan) Prompts() []shotplan.ComposedPrompt {
	out := make([]shotplan.ComposedPrompt, len(p.Shots))
	for i, s := range p.Shots {
		out[i] = s.Prompt
	}
	return out
}

// BatchInfo - 배치 상태 응답
type BatchInfo struct {
	batch.Snapshot
	Workflow  shotplan.WorkflowType `json:"workflow"`
	CreatedAt time.Time             `json:"createdAt"`
}

// Event - WebSocket 메시지
type Event struct {
	Type     string            `json:"type"`
	BatchID  string            `json:"batchId"`
	Result   *batch.ShotResult `json:"result,omitempty"`
	Snapshot *batch.Snapshot   `json:"snapshot,omitempty"`
}

const (
	EventSnapshot       = "batch_snapshot"
	EventShotResult     = "shot_result"
	EventShotRegenerate = "shot_regenerated"
	EventBatchFinished  = "batch_finished"
)
