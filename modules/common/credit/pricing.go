package credit

import "strings"

// 해상도별 배수 (IMAGE_PER_PRICE 기준)
var resolutionMultiplier = map[string]int{
	"1K": 2,
	"2K": 3,
	"4K": 4,
}

const (
	// ModeBatch - 배치 전체 예상 비용
	ModeBatch = "batch"
	// ModeRegenerate - 단일 샷 재생성 비용
	ModeRegenerate = "regenerate"
)

// Pricing - 크레딧 가격표
type Pricing struct {
	BasePrice int
}

// NewPricing - basePrice가 0 이하면 1로 보정
func NewPricing(basePrice int) Pricing {
	if basePrice < 1 {
		basePrice = 1
	}
	return Pricing{BasePrice: basePrice}
}

// PerShot - 해상도별 샷 1장 비용 (알 수 없는 해상도는 1K 가격)
func (p Pricing) PerShot(resolution string) int {
	mult, ok := resolutionMultiplier[strings.ToUpper(strings.TrimSpace(resolution))]
	if !ok {
		mult = resolutionMultiplier["1K"]
	}
	return p.BasePrice * mult
}

// EstimateCost - shotCount 장의 예상 비용
// 재생성은 배치와 같은 단가로 1장씩만 청구된다
func (p Pricing) EstimateCost(shotCount int, resolution string, mode string) int {
	if shotCount <= 0 {
		return 0
	}
	if mode == ModeRegenerate {
		shotCount = 1
	}
	return shotCount * p.PerShot(resolution)
}
