package storage

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// ImageStore - 생성된 이미지를 저장하고 접근 가능한 URL 을 반환
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// GeneratedKey - 생성 이미지 저장 경로 (generated-images/<batch>/<shot>_<ts>_<rand>.webp)
func GeneratedKey(batchID, shotID string) string {
	timestamp := time.Now().UnixNano() / int64(time.Millisecond)
	if batchID == "" {
		batchID = "adhoc"
	}
	if shotID == "" {
		shotID = "shot"
	}
	return fmt.Sprintf("generated-images/%s/%s_%d_%d.webp", batchID, shotID, timestamp, rand.IntN(999999))
}
