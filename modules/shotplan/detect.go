package shotplan

import (
	"fmt"
	"strings"
)

var (
	setKeywords   = []string{"takım", "pijama", "eşofman takımı", "bikini", "set", "suit"}
	dressKeywords = []string{"elbise", "tulum", "romper", "kaban", "palto", "trençkot", "dress", "jumpsuit", "coat", "gown"}
	lowerKeywords = []string{"pantolon", "şort", "etek", "tayt", "jean", "trousers", "skirt", "shorts", "leggings", "joggers", "denim"}
)

// DetectWorkflow - 상품명 키워드로 워크플로우 추정 (set > dress > lower, 기본 upper)
func DetectWorkflow(productName string) WorkflowType {
	name := strings.ToLower(productName)
	switch {
	case containsAny(name, setKeywords):
		return WorkflowSet
	case containsAny(name, dressKeywords):
		return WorkflowDress
	case containsAny(name, lowerKeywords):
		return WorkflowLower
	}
	return WorkflowUpper
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// ParseWorkflow - 문자열 → WorkflowType
func ParseWorkflow(s string) (WorkflowType, error) {
	w := WorkflowType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Workflows() {
		if w == known {
			return w, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownWorkflow, s)
}
