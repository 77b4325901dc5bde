package shotplan

import "strings"

// 에셋 키
const (
	KeyModel       = "model"
	KeyBackground  = "background"
	KeyLighting    = "lighting"
	KeyMainProduct = "main_product"
	KeyTopFront    = "top_front"
	KeyBottomFront = "bottom_front"
	KeyDressFront  = "dress_front"
	KeyTopBack     = "top_back"
	KeyBottomBack  = "bottom_back"
	KeyDressBack   = "dress_back"
	KeyInnerWear   = "inner_wear"
	KeyShoes       = "shoes"
	KeyJacket      = "jacket"
	KeyBag         = "bag"
	KeyGlasses     = "glasses"
	KeyHat         = "hat"
	KeyJewelry     = "jewelry"
	KeyBelt        = "belt"
	KeyStickman    = "pose_stickman"
)

// AccessoryKeys - 액세서리 키 (에셋 목록 순서)
var AccessoryKeys = []string{KeyJacket, KeyBag, KeyGlasses, KeyHat, KeyJewelry, KeyBelt}

var (
	frontGarmentKeys = []string{
		KeyMainProduct, KeyTopFront, KeyBottomFront, KeyDressFront,
		"detail_front_1", "detail_front_2", "detail_front_3", "detail_front_4",
	}
	backGarmentKeys = []string{
		KeyTopBack, KeyBottomBack, KeyDressBack,
		"detail_back_1", "detail_back_2", "detail_back_3", "detail_back_4",
	}
)

// AssetSet - 업로드된 에셋 (키 → URL)
type AssetSet struct {
	urls map[string]string
}

// Resolve - 빈 URL 은 없는 에셋으로 취급
func Resolve(uploaded map[string]string) AssetSet {
	urls := make(map[string]string, len(uploaded))
	for k, v := range uploaded {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		urls[k] = v
	}
	return AssetSet{urls: urls}
}

func (a AssetSet) Has(key string) bool {
	_, ok := a.urls[key]
	return ok
}

func (a AssetSet) URL(key string) (string, bool) {
	u, ok := a.urls[key]
	return u, ok
}
