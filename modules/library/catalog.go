package library

import "strings"

// Catalog - 읽기 전용 라이브러리 목록
type Catalog interface {
	Get(id string) (Item, bool)
	All() []Item
}

// MemoryCatalog - 메모리 카탈로그 (순서 유지)
type MemoryCatalog struct {
	items []Item
	byID  map[string]int
}

// NewMemoryCatalog - 같은 ID 가 여러 번 오면 마지막 항목이 이긴다
func NewMemoryCatalog(items ...Item) *MemoryCatalog {
	c := &MemoryCatalog{byID: make(map[string]int, len(items))}
	for _, it := range items {
		if i, ok := c.byID[it.ID]; ok {
			c.items[i] = it
			continue
		}
		c.byID[it.ID] = len(c.items)
		c.items = append(c.items, it)
	}
	return c
}

func (c *MemoryCatalog) Get(id string) (Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

func (c *MemoryCatalog) All() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// PromptFor - id 항목의 CustomPrompt (없으면 빈 문자열)
func PromptFor(c Catalog, id string) string {
	if c == nil || id == "" {
		return ""
	}
	it, ok := c.Get(id)
	if !ok {
		return ""
	}
	return it.Prompt()
}

// AngledPoses - 성별이 일치하고 yan_aci 태그가 있으며 프롬프트가 있는 포즈
func AngledPoses(c Catalog, gender string) []Item {
	if c == nil {
		return nil
	}
	var out []Item
	for _, it := range c.All() {
		if !strings.EqualFold(it.Gender, gender) || !it.HasTag(TagAngled) || it.Prompt() == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}
