package library

import (
	"slices"
	"strings"
)

// Kind - 라이브러리 항목 종류
type Kind string

const (
	KindPose       Kind = "pose"
	KindModel      Kind = "model"
	KindBackground Kind = "background"
	KindFit        Kind = "fit"
	KindShoe       Kind = "shoe"
)

// Kinds - 전체 항목 종류
var Kinds = []Kind{KindPose, KindModel, KindBackground, KindFit, KindShoe}

// ParseKind - 문자열 → Kind (대소문자 무시)
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	return k, slices.Contains(Kinds, k)
}

// TagAngled - 측면(yan açı) 포즈 태그
const TagAngled = "yan_aci"

// Item - 라이브러리 항목
// CustomPrompt 가 있으면 생성기의 기본 포즈/핏 문장 대신 사용된다.
type Item struct {
	ID           string   `json:"item_id"`
	Kind         Kind     `json:"item_kind"`
	Name         string   `json:"item_name"`
	URL          string   `json:"item_url"`
	ThumbURL     string   `json:"item_thumb_url,omitempty"`
	CustomPrompt string   `json:"custom_prompt,omitempty"`
	Gender       string   `json:"gender,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// HasTag - 태그 포함 여부 (대소문자 무시)
func (i Item) HasTag(tag string) bool {
	return slices.ContainsFunc(i.Tags, func(t string) bool {
		return strings.EqualFold(strings.TrimSpace(t), tag)
	})
}

// Prompt - 공백을 정리한 CustomPrompt
func (i Item) Prompt() string {
	return strings.TrimSpace(i.CustomPrompt)
}
