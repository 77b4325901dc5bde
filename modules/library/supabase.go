package library

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/supabase-go"
)

const itemsTable = "quel_library_items"

// SupabaseLoader - quel_library_items 조회
type SupabaseLoader struct {
	supabase *supabase.Client
}

// NewSupabaseLoader - Supabase 라이브러리 로더 생성
func NewSupabaseLoader(url, serviceKey string) (*SupabaseLoader, error) {
	client, err := supabase.NewClient(url, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return &SupabaseLoader{supabase: client}, nil
}

func (s *SupabaseLoader) Load(_ context.Context, ownerID string, kind Kind) ([]Item, error) {
	data, _, err := s.supabase.From(itemsTable).
		Select("item_id, item_kind, item_name, item_url, item_thumb_url, custom_prompt, gender, tags", "", false).
		Eq("owner_id", ownerID).
		Eq("item_kind", string(kind)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch library items: %w", err)
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse library items: %w", err)
	}
	return items, nil
}
