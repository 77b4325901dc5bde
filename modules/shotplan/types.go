package shotplan

// WorkflowType - 의류 카테고리 (촬영 카탈로그 선택 기준)
type WorkflowType string

const (
	WorkflowUpper    WorkflowType = "upper"
	WorkflowLower    WorkflowType = "lower"
	WorkflowDress    WorkflowType = "dress"
	WorkflowSet      WorkflowType = "set"
	WorkflowStandard WorkflowType = "standard"
)

// Workflows - 지원하는 모든 워크플로우
func Workflows() []WorkflowType {
	return []WorkflowType{WorkflowUpper, WorkflowLower, WorkflowDress, WorkflowSet, WorkflowStandard}
}

type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

type SocksType string

const (
	SocksNone  SocksType = "none"
	SocksWhite SocksType = "white"
	SocksBlack SocksType = "black"
	SocksGrey  SocksType = "grey"
	SocksNavy  SocksType = "navy"
)

// PantLength - 바지 기장
type PantLength string

const (
	PantLengthNone       PantLength = "none"
	PantLengthCropped    PantLength = "cropped"
	PantLengthAnkle      PantLength = "ankle"
	PantLengthBelowAnkle PantLength = "below_ankle"
	PantLengthFull       PantLength = "full_length"
	PantLengthDeepBreak  PantLength = "deep_break"
)

// FloorLength - 바닥까지 닿는 기장 (양말이 보이지 않음)
func (p PantLength) FloorLength() bool {
	return p == PantLengthFull || p == PantLengthDeepBreak
}

// Framing - upper 스타일링 첫 컷의 프레이밍
type Framing string

const (
	FramingFull       Framing = "full"
	FramingMediumFull Framing = "medium_full"
)

type FitMode string

const (
	FitFull              FitMode = "full"
	FitFirstSentenceOnly FitMode = "first_sentence_only"
)

type PoseCategory string

const (
	PoseRandom PoseCategory = "random"
	PoseAngled PoseCategory = "angled"
	PoseFixed  PoseCategory = "fixed"
)

type AssetRole string

const (
	RoleFront AssetRole = "front"
	RoleBack  AssetRole = "back"
)

// Camera shot types / framings / angles
const (
	ShotFullBody = "full_body"
	ShotCowboy   = "cowboy_shot"
	ShotCloseUp  = "close_up"

	FramingHeadToToe    = "head_to_toe"
	FramingCowboy       = "cowboy_shot"
	FramingChestAndFace = "chest_and_face"
	FramingWaistToKnees = "waist_to_above_knees"

	AngleFront  = "front"
	AngleBack   = "back"
	AngleAngled = "angled"
)

type Camera struct {
	ShotType string `json:"shotType"`
	Framing  string `json:"framing"`
	Angle    string `json:"angle"`
}

// SuppressionFlags - 샷별 제외 규칙 (컴파일 후 변경 불가)
type SuppressionFlags struct {
	ExcludeHairInfo       bool `json:"excludeHairInfo,omitempty"`
	ExcludeSocksInfo      bool `json:"excludeSocksInfo,omitempty"`
	ExcludeShoesAsset     bool `json:"excludeShoesAsset,omitempty"`
	ExcludeBeltAsset      bool `json:"excludeBeltAsset,omitempty"`
	ExcludeHatAsset       bool `json:"excludeHatAsset,omitempty"`
	ExcludeBagAsset       bool `json:"excludeBagAsset,omitempty"`
	ExcludeAllAccessories bool `json:"excludeAllAccessories,omitempty"`
}

// excludes - 해당 에셋 키가 제외 규칙에 걸리는지
func (f SuppressionFlags) excludes(key string) bool {
	switch key {
	case KeyShoes:
		return f.ExcludeShoesAsset
	case KeyBelt:
		return f.ExcludeBeltAsset || f.ExcludeAllAccessories
	case KeyHat:
		return f.ExcludeHatAsset || f.ExcludeAllAccessories
	case KeyBag:
		return f.ExcludeBagAsset || f.ExcludeAllAccessories
	case KeyJacket, KeyGlasses, KeyJewelry:
		return f.ExcludeAllAccessories
	}
	return false
}

// FramingOverride - 프레이밍 토글에 따라 바뀌는 카메라/신발 규칙
type FramingOverride struct {
	Camera            Camera
	ExcludeShoesAsset bool
}

// ShotTemplate - 카탈로그 항목 (정적)
type ShotTemplate struct {
	ID              string
	Pose            string
	PoseCategory    PoseCategory
	Camera          Camera
	AssetRoles      []AssetRole
	IsStyling       bool
	LookAtCamera    bool
	ForceHairBehind bool
	FitMode         FitMode
	Suppress        SuppressionFlags
	// UseStickman - 스켈레톤 참조 가능 여부 (실제 부착은 플랜당 최대 1컷)
	UseStickman    bool
	WindEligible   bool
	IncludeGlasses bool
	Framings       map[Framing]FramingOverride
}

// AccessoryToggles - 테크니컬 컷에 포함할 액세서리
type AccessoryToggles struct {
	Glasses bool `json:"glasses"`
	Bag     bool `json:"bag"`
	Hat     bool `json:"hat"`
	Jewelry bool `json:"jewelry"`
	Jacket  bool `json:"jacket"`
	Belt    bool `json:"belt"`
}

func (a AccessoryToggles) get(key string) bool {
	switch key {
	case KeyGlasses:
		return a.Glasses
	case KeyBag:
		return a.Bag
	case KeyHat:
		return a.Hat
	case KeyJewelry:
		return a.Jewelry
	case KeyJacket:
		return a.Jacket
	case KeyBelt:
		return a.Belt
	}
	return false
}

// ToggleState - 컴파일 시점의 사용자 설정 (실행 중 읽기 전용)
type ToggleState struct {
	Gender              Gender           `json:"gender"`
	HairBehindShoulders bool             `json:"hairBehindShoulders"`
	LookAtCamera        map[string]bool  `json:"lookAtCamera,omitempty"`
	ButtonsOpen         bool             `json:"buttonsOpen"`
	Tucked              bool             `json:"tucked"`
	SleevesRolled       bool             `json:"sleevesRolled"`
	EnableWind          bool             `json:"enableWind"`
	SocksType           SocksType        `json:"socksType"`
	PantLength          PantLength       `json:"pantLength"`
	PoseLibraryPrompt   string           `json:"poseLibraryPrompt,omitempty"`
	AngledPosePrompt    string           `json:"angledPosePrompt,omitempty"`
	Accessories         AccessoryToggles `json:"accessories"`
	StylingSideOnly     map[string]bool  `json:"stylingSideOnly,omitempty"`
	Framing             Framing          `json:"framing"`
	AspectRatio         string           `json:"aspectRatio"`
	Resolution          string           `json:"resolution"`
}

// ShotSpec - 컴파일된 샷 1개 (생성 후 구조 플래그는 고정)
type ShotSpec struct {
	ShotID             string           `json:"shotId"`
	Index              int              `json:"index"`
	Workflow           WorkflowType     `json:"workflow"`
	Pose               string           `json:"pose"`
	Camera             Camera           `json:"camera"`
	AssetRoles         []AssetRole      `json:"assetRoles"`
	IsStyling          bool             `json:"isStyling"`
	LookAtCamera       bool             `json:"lookAtCamera"`
	HairBehind         bool             `json:"hairBehind"`
	Wind               bool             `json:"wind"`
	FitMode            FitMode          `json:"fitMode"`
	Suppress           SuppressionFlags `json:"suppress"`
	UseStickman        bool             `json:"useStickman"`
	IncludeAccessories map[string]bool  `json:"includeAccessories"`
	Gender             Gender           `json:"gender"`
	Tucked             bool             `json:"tucked"`
	ButtonsOpen        bool             `json:"buttonsOpen"`
	SleevesRolled      bool             `json:"sleevesRolled"`
	SocksType          SocksType        `json:"socksType"`
	PantLength         PantLength       `json:"pantLength"`
	AspectRatio        string           `json:"aspectRatio"`
	Resolution         string           `json:"resolution"`
}

// HasRole - 에셋 역할 포함 여부
func (s ShotSpec) HasRole(role AssetRole) bool {
	for _, r := range s.AssetRoles {
		if r == role {
			return true
		}
	}
	return false
}

// FitDescription - 전역 의류 설명
type FitDescription struct {
	ProductName string `json:"productName"`
	Text        string `json:"text"`
	Fabric      string `json:"fabric,omitempty"`
	Color       string `json:"color,omitempty"`
}

// AccessoryVisibility - 전역 액세서리 노출 여부 (키가 없으면 노출)
type AccessoryVisibility map[string]bool

func (v AccessoryVisibility) Visible(key string) bool {
	visible, ok := v[key]
	return !ok || visible
}

// ComposedPrompt - 생성 서비스 입력
type ComposedPrompt struct {
	ShotID      string   `json:"shotId"`
	Prompt      string   `json:"prompt"`
	AssetURLs   []string `json:"assetUrls"`
	AspectRatio string   `json:"aspectRatio"`
	Resolution  string   `json:"resolution"`
}
