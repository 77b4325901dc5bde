package photoshoot

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"quel-photoshoot-server/modules/batch"
	"quel-photoshoot-server/modules/common/credit"
	"quel-photoshoot-server/modules/shotplan"
)

// Handler - 포토슛 HTTP 핸들러
type Handler struct {
	service *Service
}

// NewHandler - 핸들러 생성
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/photoshoot/plan", h.HandlePlan).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/photoshoot/batches", h.HandleStart).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/photoshoot/batches/{batchId}", h.HandleGet).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/photoshoot/batches/{batchId}/stop", h.HandleStop).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/photoshoot/batches/{batchId}/shots/{shotId}/regenerate", h.HandleRegenerate).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/photoshoot/library/refresh", h.HandleLibraryRefresh).Methods("POST", "OPTIONS")
	r.HandleFunc("/ws/photoshoot/{batchId}", h.HandleWebSocket)
	log.Info().Msg("✅ Photoshoot routes registered")
}

// CORS - CORS 헤더 추가 + preflight 처리
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HealthCheck - GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "quel-photoshoot",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("⚠️  Failed to encode response")
	}
}

// statusOf - 에러 → HTTP 상태 코드
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, shotplan.ErrUnknownWorkflow),
		errors.Is(err, shotplan.ErrUnknownShotID),
		errors.Is(err, shotplan.ErrMissingFitDescription),
		errors.Is(err, shotplan.ErrUnsupportedAspectRatio),
		errors.Is(err, shotplan.ErrUnsupportedResolution),
		errors.Is(err, shotplan.ErrInvalidToggle),
		errors.Is(err, batch.ErrEmptyPlan):
		return http.StatusBadRequest
	case errors.Is(err, credit.ErrInsufficientCredit):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrBatchNotFound),
		errors.Is(err, ErrPlanNotFound),
		errors.Is(err, batch.ErrShotNotFound),
		errors.Is(err, credit.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, batch.ErrBatchNotFinished),
		errors.Is(err, batch.ErrRegenerateInFlight),
		errors.Is(err, batch.ErrNotRunning),
		errors.Is(err, batch.ErrBatchNotIdle):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("❌ Photoshoot request failed")
	}
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(ErrInvalidRequest, err)
	}
	return nil
}

// HandlePlan - POST /api/photoshoot/plan
// 리뷰용 프롬프트 미리보기 (생성/과금 없음)
func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	plan, err := h.service.Plan(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// HandleStart - POST /api/photoshoot/batches
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	info, err := h.service.StartBatch(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, info)
}

// HandleGet - GET /api/photoshoot/batches/{batchId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Batch(mux.Vars(r)["batchId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HandleStop - POST /api/photoshoot/batches/{batchId}/stop
// 진행 중인 샷이 끝난 뒤 멈춘다
func (h *Handler) HandleStop(w http.ResponseWriter, r *http.Request) {
	batchID := mux.Vars(r)["batchId"]
	if err := h.service.Stop(r.Context(), batchID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"batchId": batchID,
		"message": "Stop requested. Batch will stop after the current shot.",
	})
}

// HandleRegenerate - POST /api/photoshoot/batches/{batchId}/shots/{shotId}/regenerate
func (h *Handler) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req RegenerateRequest
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	res, err := h.service.Regenerate(r.Context(), vars["batchId"], vars["shotId"], req.Prompt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleLibraryRefresh - POST /api/photoshoot/library/refresh
// 프론트에서 라이브러리 항목을 저장한 뒤 호출
func (h *Handler) HandleLibraryRefresh(w http.ResponseWriter, r *http.Request) {
	var req LibraryRefreshRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.RefreshLibrary(req.UserID, req.Kind); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// HandleWebSocket - GET /ws/photoshoot/{batchId}
// 연결 직후 현재 스냅샷을 보내고, 이후 샷 결과를 push 한다
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	batchID := mux.Vars(r)["batchId"]
	if _, err := h.service.Batch(batchID); err != nil {
		writeError(w, err)
		return
	}
	h.service.Hub().Serve(w, r, batchID, func() *Event {
		info, err := h.service.Batch(batchID)
		if err != nil {
			return nil
		}
		return &Event{Type: EventSnapshot, BatchID: batchID, Snapshot: &info.Snapshot}
	})
}
