package generation

import (
	"context"
	"errors"
	"net"
)

var (
	// ErrTimeout - 생성 서비스 타임아웃
	ErrTimeout = errors.New("generation timed out")
	// ErrInvalidAssetURL - 참조 에셋 URL 이 잘못됐거나 다운로드 불가
	ErrInvalidAssetURL = errors.New("invalid asset url")
	// ErrServiceError - 생성 서비스 오류
	ErrServiceError = errors.New("generation service error")
	// ErrNoImage - 응답에 이미지 없음
	ErrNoImage = errors.New("no image data in response")
)

// Client - 이미지 생성 서비스
// prompt + 참조 에셋 URL 로 이미지 1장을 만들고 결과 URL 을 반환한다.
type Client interface {
	Generate(ctx context.Context, prompt string, assetURLs []string, aspectRatio, resolution string) (string, error)
}

// ClientFunc - 함수를 Client 로 사용
type ClientFunc func(ctx context.Context, prompt string, assetURLs []string, aspectRatio, resolution string) (string, error)

func (f ClientFunc) Generate(ctx context.Context, prompt string, assetURLs []string, aspectRatio, resolution string) (string, error) {
	return f(ctx, prompt, assetURLs, aspectRatio, resolution)
}

// ErrorKind - ShotResult 에 기록되는 실패 분류
type ErrorKind string

const (
	KindNone         ErrorKind = ""
	KindTimeout      ErrorKind = "timeout"
	KindInvalidAsset ErrorKind = "invalid_asset"
	KindServiceError ErrorKind = "service_error"
	KindCancelled    ErrorKind = "cancelled"
)

// ClassifyError - 에러를 ErrorKind 로 분류
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	if errors.Is(err, ErrInvalidAssetURL) {
		return KindInvalidAsset
	}
	if errors.Is(err, context.Canceled) {
		return KindCancelled
	}
	return KindServiceError
}

type shotKey struct{}

// ShotRef - 생성 요청이 속한 배치/샷
type ShotRef struct {
	BatchID string
	ShotID  string
}

// WithShot - 결과 저장 경로 등에 쓰일 배치/샷 식별자를 컨텍스트에 담는다
func WithShot(ctx context.Context, batchID, shotID string) context.Context {
	return context.WithValue(ctx, shotKey{}, ShotRef{BatchID: batchID, ShotID: shotID})
}

// ShotFrom - 컨텍스트의 배치/샷 식별자 (없으면 빈 값)
func ShotFrom(ctx context.Context) ShotRef {
	ref, _ := ctx.Value(shotKey{}).(ShotRef)
	return ref
}
