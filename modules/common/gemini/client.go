package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"quel-photoshoot-server/modules/common/generation"
	"quel-photoshoot-server/modules/common/storage"
)

const (
	webpQuality = 90

	// DefaultTimeout - Gemini 호출 1회 제한 시간
	DefaultTimeout = 3 * time.Minute
)

// ImageClient - Gemini 이미지 생성 클라이언트
// 참조 에셋을 내려받아 프롬프트와 함께 보내고, 결과 이미지를 WebP 로 저장한 URL 을 돌려준다.
type ImageClient struct {
	apiKeys     []string
	model       string
	store       storage.ImageStore
	httpClient  *http.Client
	temperature float32
	timeout     time.Duration

	generate func(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	encode   func([]byte, float32) ([]byte, error)
}

// NewImageClient - Gemini 클라이언트 생성 (timeout <= 0 이면 DefaultTimeout)
func NewImageClient(apiKeys []string, model string, store storage.ImageStore, timeout time.Duration) *ImageClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &ImageClient{
		apiKeys:     apiKeys,
		model:       model,
		store:       store,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		temperature: 0.45,
		timeout:     timeout,
		encode:      storage.ConvertToWebP,
	}
	c.generate = func(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return GenerateContentWithRetry(ctx, c.apiKeys, c.model, contents, cfg)
	}
	return c
}

var _ generation.Client = (*ImageClient)(nil)

// Generate - 이미지 1장 생성
func (c *ImageClient) Generate(ctx context.Context, prompt string, assetURLs []string, aspectRatio, resolution string) (string, error) {
	ref := generation.ShotFrom(ctx)

	type asset struct {
		data []byte
		mime string
	}
	assets := make([]asset, len(assetURLs))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, u := range assetURLs {
		eg.Go(func() error {
			data, mime, err := storage.Download(egCtx, c.httpClient, u)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", generation.ErrInvalidAssetURL, u, err)
			}
			assets[i] = asset{data: data, mime: mime}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", generation.ErrTimeout, err)
		}
		return "", err
	}

	parts := make([]*genai.Part, 0, len(assets)+1)
	for _, a := range assets {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: a.mime, Data: a.data},
		})
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	log.Info().Str("batch_id", ref.BatchID).Str("shot_id", ref.ShotID).Int("assets", len(assets)).
		Str("aspect_ratio", aspectRatio).Str("resolution", resolution).Msg("📤 Sending request to Gemini")

	// 호출 1회 제한 시간
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	temperature := c.temperature
	result, err := c.generate(callCtx, []*genai.Content{{Role: "user", Parts: parts}}, &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{
			AspectRatio: aspectRatio,
			ImageSize:   resolution,
		},
		Temperature: &temperature,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			log.Warn().Str("batch_id", ref.BatchID).Str("shot_id", ref.ShotID).Dur("timeout", c.timeout).Msg("⏱️  Gemini call timed out")
			return "", fmt.Errorf("%w: %v", generation.ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: Gemini API call failed: %v", generation.ErrServiceError, err)
	}

	imageData := firstImage(result)
	if imageData == nil {
		return "", generation.ErrNoImage
	}

	webpData, err := c.encode(imageData, webpQuality)
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrServiceError, err)
	}

	url, err := c.store.Put(ctx, storage.GeneratedKey(ref.BatchID, ref.ShotID), webpData, "image/webp")
	if err != nil {
		return "", fmt.Errorf("%w: store image: %v", generation.ErrServiceError, err)
	}

	log.Info().Str("batch_id", ref.BatchID).Str("shot_id", ref.ShotID).Int("bytes", len(webpData)).Msg("✅ Image generated")
	return url, nil
}

func firstImage(result *genai.GenerateContentResponse) []byte {
	if result == nil {
		return nil
	}
	for _, candidate := range result.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}
