package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const maxRetriesPerKey = 3

// rateLimitWait - 429 이후 같은 키 재시도 전 대기 시간
var rateLimitWait = 2 * time.Second

// GenerateContentWithRetry - 429 에러 시 여러 API 키로 재시도하는 헬퍼 함수
// 각 키당 최대 3번 재시도, 429 가 아닌 에러는 바로 반환
func GenerateContentWithRetry(
	ctx context.Context,
	apiKeys []string,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	return withKeyRotation(ctx, apiKeys, func(ctx context.Context, apiKey string) (*genai.GenerateContentResponse, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create genai client: %w", err)
		}
		return client.Models.GenerateContent(ctx, model, contents, config)
	})
}

func withKeyRotation[T any](ctx context.Context, apiKeys []string, call func(ctx context.Context, apiKey string) (T, error)) (T, error) {
	var zero T
	if len(apiKeys) == 0 {
		return zero, fmt.Errorf("no API keys provided")
	}

	var lastErr error
	for keyIndex, apiKey := range apiKeys {
		for attempt := 1; attempt <= maxRetriesPerKey; attempt++ {
			result, err := call(ctx, apiKey)
			if err == nil {
				if keyIndex > 0 || attempt > 1 {
					log.Info().Int("key", keyIndex+1).Int("attempt", attempt).Msg("✅ [Gemini Retry] Success after retry")
				}
				return result, nil
			}
			lastErr = err

			if !is429Error(err) {
				log.Warn().Err(err).Int("key", keyIndex+1).Msg("❌ [Gemini Retry] Non-429 error")
				return zero, err
			}

			log.Warn().Int("key", keyIndex+1).Int("attempt", attempt).Msg("⚠️  [Gemini Retry] Rate limited (429)")
			if attempt < maxRetriesPerKey {
				select {
				case <-ctx.Done():
					return zero, ctx.Err()
				case <-time.After(rateLimitWait):
				}
			}
		}
		log.Warn().Int("key", keyIndex+1).Msg("⚠️  [Gemini Retry] Key exhausted, trying next key")
	}

	return zero, fmt.Errorf("all %d API keys exhausted (%d attempts each), last error: %w", len(apiKeys), maxRetriesPerKey, lastErr)
}

// is429Error - 429 Rate Limit 에러인지 확인
func is429Error(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "resource_exhausted")
}
