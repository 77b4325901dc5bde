package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"quel-photoshoot-server/modules/common/generation"
)

func TestIs429Error(t *testing.T) {
	assert.False(t, is429Error(nil))
	assert.True(t, is429Error(errors.New("Error 429: too many requests")))
	assert.True(t, is429Error(errors.New("RESOURCE_EXHAUSTED")))
	assert.True(t, is429Error(errors.New("Quota exceeded")))
	assert.False(t, is429Error(errors.New("invalid argument")))
}

func TestWithKeyRotation(t *testing.T) {
	rateLimitWait = 0

	t.Run("rotates to next key after rate limits", func(t *testing.T) {
		var calls []string
		got, err := withKeyRotation(context.Background(), []string{"k1", "k2"}, func(_ context.Context, key string) (string, error) {
			calls = append(calls, key)
			if key == "k1" {
				return "", errors.New("429 rate limit")
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, []string{"k1", "k1", "k1", "k2"}, calls)
	})

	t.Run("non rate limit error returns immediately", func(t *testing.T) {
		calls := 0
		_, err := withKeyRotation(context.Background(), []string{"k1", "k2"}, func(_ context.Context, key string) (string, error) {
			calls++
			return "", errors.New("bad request")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("no keys", func(t *testing.T) {
		_, err := withKeyRotation(context.Background(), nil, func(context.Context, string) (int, error) { return 1, nil })
		require.Error(t, err)
	})
}

type memStore struct {
	mu   sync.Mutex
	keys []string
}

func (m *memStore) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	return "https://cdn.test/" + key, nil
}

func newTestClient(store *memStore, gen func(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)) *ImageClient {
	c := NewImageClient([]string{"k"}, "model", store, 0)
	c.generate = gen
	c.encode = func(b []byte, _ float32) ([]byte, error) { return b, nil }
	return c
}

func TestImageClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	store := &memStore{}
	var gotParts []*genai.Part
	var gotCfg *genai.GenerateContentConfig
	c := newTestClient(store, func(_ context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gotParts = contents[0].Parts
		gotCfg = cfg
		return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("png")}}}},
		}}}, nil
	})

	ctx := generation.WithShot(context.Background(), "b1", "styling_front")
	url, err := c.Generate(ctx, "prompt text", []string{srv.URL + "/model", srv.URL + "/top"}, "3:4", "2K")
	require.NoError(t, err)

	require.Len(t, store.keys, 1)
	assert.Equal(t, "https://cdn.test/"+store.keys[0], url)
	assert.Contains(t, store.keys[0], "generated-images/b1/styling_front_")

	require.Len(t, gotParts, 3)
	assert.Equal(t, []byte("/model"), gotParts[0].InlineData.Data)
	assert.Equal(t, []byte("/top"), gotParts[1].InlineData.Data)
	assert.Equal(t, "prompt text", gotParts[2].Text)
	assert.Equal(t, "3:4", gotCfg.ImageConfig.AspectRatio)
	assert.Equal(t, "2K", gotCfg.ImageConfig.ImageSize)
}

func TestImageClientGenerateErrors(t *testing.T) {
	store := &memStore{}
	c := newTestClient(store, func(context.Context, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return &genai.GenerateContentResponse{}, nil
	})

	_, err := c.Generate(context.Background(), "p", []string{"not-a-url"}, "3:4", "1K")
	assert.Equal(t, generation.KindInvalidAsset, generation.ClassifyError(err))

	_, err = c.Generate(context.Background(), "p", nil, "3:4", "1K")
	assert.ErrorIs(t, err, generation.ErrNoImage)

	c.generate = func(context.Context, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return nil, errors.New("500 internal")
	}
	_, err = c.Generate(context.Background(), "p", nil, "3:4", "1K")
	assert.Equal(t, generation.KindServiceError, generation.ClassifyError(err))
	assert.Empty(t, store.keys)
}

func TestImageClientGenerateTimeout(t *testing.T) {
	store := &memStore{}
	c := newTestClient(store, func(ctx context.Context, _ []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	c.timeout = 20 * time.Millisecond

	// 취소가 떼어진 ctx 여도 제한 시간 안에 돌아와야 한다
	ctx := context.WithoutCancel(generation.WithShot(context.Background(), "b1", "styling_front"))
	start := time.Now()
	_, err := c.Generate(ctx, "p", nil, "3:4", "1K")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.ErrorIs(t, err, generation.ErrTimeout)
	assert.Equal(t, generation.KindTimeout, generation.ClassifyError(err))
	assert.Empty(t, store.keys)
}

func TestNewImageClientDefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewImageClient([]string{"k"}, "model", &memStore{}, 0).timeout)
	assert.Equal(t, time.Minute, NewImageClient([]string{"k"}, "model", &memStore{}, time.Minute).timeout)
}
