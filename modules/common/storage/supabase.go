package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// SupabaseStore - Supabase Storage REST 업로드
type SupabaseStore struct {
	baseURL    string
	serviceKey string
	bucket     string
	publicBase string
	httpClient *http.Client
}

// NewSupabaseStore - publicBase 가 비어 있으면 <baseURL>/storage/v1/object/public/<bucket>/ 사용
func NewSupabaseStore(baseURL, serviceKey, bucket, publicBase string, httpClient *http.Client) *SupabaseStore {
	baseURL = strings.TrimRight(baseURL, "/")
	if publicBase == "" {
		publicBase = fmt.Sprintf("%s/storage/v1/object/public/%s/", baseURL, bucket)
	}
	if !strings.HasSuffix(publicBase, "/") {
		publicBase += "/"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SupabaseStore{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		bucket:     bucket,
		publicBase: publicBase,
		httpClient: httpClient,
	}
}

// Put - Supabase Storage에 업로드하고 public URL 반환
func (s *SupabaseStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key = strings.TrimLeft(key, "/")
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	log.Debug().Str("path", key).Int("bytes", len(data)).Msg("📤 Image uploaded to Supabase Storage")
	return s.publicBase + key, nil
}
