package library

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
)

// Loader - 소유자/종류별 라이브러리 항목 조회
type Loader interface {
	Load(ctx context.Context, ownerID string, kind Kind) ([]Item, error)
}

// LoaderFunc - 함수를 Loader 로 사용
type LoaderFunc func(ctx context.Context, ownerID string, kind Kind) ([]Item, error)

func (f LoaderFunc) Load(ctx context.Context, ownerID string, kind Kind) ([]Item, error) {
	return f(ctx, ownerID, kind)
}

const defaultCacheSize = 512

// Library - Loader 결과를 TTL 캐시에 보관
type Library struct {
	loader Loader
	cache  *expirable.LRU[string, *MemoryCatalog]
}

// New - ttl 동안 같은 소유자/종류 조회는 Loader 를 다시 부르지 않는다
func New(loader Loader, size int, ttl time.Duration) *Library {
	if size <= 0 {
		size = defaultCacheSize
	}
	return &Library{
		loader: loader,
		cache:  expirable.NewLRU[string, *MemoryCatalog](size, nil, ttl),
	}
}

func cacheKey(ownerID string, kind Kind) string {
	return ownerID + "/" + string(kind)
}

// Catalog - 소유자의 kind 카탈로그
func (l *Library) Catalog(ctx context.Context, ownerID string, kind Kind) (Catalog, error) {
	key := cacheKey(ownerID, kind)
	if c, ok := l.cache.Get(key); ok {
		return c, nil
	}

	items, err := l.loader.Load(ctx, ownerID, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s library: %w", kind, err)
	}
	c := NewMemoryCatalog(items...)
	l.cache.Add(key, c)

	log.Debug().Str("owner_id", ownerID).Str("kind", string(kind)).Int("items", len(items)).Msg("📚 Library loaded")
	return c, nil
}

// Invalidate - 캐시 제거 (항목 수정 후), kinds 가 비면 전체
func (l *Library) Invalidate(ownerID string, kinds ...Kind) {
	if len(kinds) == 0 {
		kinds = Kinds
	}
	for _, k := range kinds {
		l.cache.Remove(cacheKey(ownerID, k))
	}
}
