package shotplan

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	DefaultAspectRatio = "3:4"
	DefaultResolution  = "1K"
)

var (
	aspectRatios = map[string]bool{"1:1": true, "2:3": true, "3:4": true, "4:3": true, "16:9": true, "9:16": true}
	resolutions  = map[string]bool{"1K": true, "2K": true, "4K": true}
	socksTypes   = map[SocksType]bool{SocksNone: true, SocksWhite: true, SocksBlack: true, SocksGrey: true, SocksNavy: true}
	pantLengths  = map[PantLength]bool{
		PantLengthNone: true, PantLengthCropped: true, PantLengthAnkle: true,
		PantLengthBelowAnkle: true, PantLengthFull: true, PantLengthDeepBreak: true,
	}
)

// ValidAspectRatio - 지원하는 화면비인지
func ValidAspectRatio(v string) bool { return aspectRatios[v] }

// ValidResolution - 지원하는 해상도인지
func ValidResolution(v string) bool { return resolutions[v] }

// Compiler - 샷 플랜 컴파일러
// pick(n) 은 [0, n) 범위 인덱스를 반환하며 기본 포즈 샘플링에만 쓰인다.
type Compiler struct {
	pick func(n int) int
}

// NewCompiler - pick 이 nil 이면 math/rand/v2 사용
func NewCompiler(pick func(n int) int) *Compiler {
	if pick == nil {
		pick = rand.IntN
	}
	return &Compiler{pick: pick}
}

var defaultCompiler = NewCompiler(nil)

// Compile - 기본 컴파일러로 플랜 생성
func Compile(workflow WorkflowType, toggles ToggleState, selected []string) ([]ShotSpec, error) {
	return defaultCompiler.Compile(workflow, toggles, selected)
}

// Compile - (워크플로우, 토글, 선택 샷) → 순서가 고정된 ShotSpec 목록
// selected 가 비어 있으면 전체 템플릿 사용, 카탈로그에 없는 id 가 있으면 전체 실패
func (c *Compiler) Compile(workflow WorkflowType, toggles ToggleState, selected []string) ([]ShotSpec, error) {
	templates := Templates(workflow)
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorkflow, workflow)
	}

	toggles, err := normalizeToggles(toggles)
	if err != nil {
		return nil, err
	}

	templates, err = filterTemplates(templates, selected)
	if err != nil {
		return nil, err
	}

	specs := make([]ShotSpec, 0, len(templates))
	stickmanAssigned := false
	for i, tpl := range templates {
		spec := c.resolve(workflow, tpl, toggles)
		spec.Index = i

		if tpl.IsStyling && !stickmanAssigned {
			spec.UseStickman = tpl.UseStickman
			stickmanAssigned = true
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func filterTemplates(templates []ShotTemplate, selected []string) ([]ShotTemplate, error) {
	if len(selected) == 0 {
		return templates, nil
	}

	known := make(map[string]bool, len(templates))
	for _, t := range templates {
		known[t.ID] = true
	}
	want := make(map[string]bool, len(selected))
	for _, id := range selected {
		if !known[id] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownShotID, id)
		}
		want[id] = true
	}

	out := make([]ShotTemplate, 0, len(want))
	for _, t := range templates {
		if want[t.ID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func normalizeToggles(t ToggleState) (ToggleState, error) {
	if strings.EqualFold(string(t.Gender), string(GenderMale)) {
		t.Gender = GenderMale
	} else {
		t.Gender = GenderFemale
	}
	if t.SocksType == "" {
		t.SocksType = SocksNone
	}
	if !socksTypes[t.SocksType] {
		return t, fmt.Errorf("%w: socksType %q", ErrInvalidToggle, t.SocksType)
	}
	if t.PantLength == "" {
		t.PantLength = PantLengthNone
	}
	if !pantLengths[t.PantLength] {
		return t, fmt.Errorf("%w: pantLength %q", ErrInvalidToggle, t.PantLength)
	}
	switch t.Framing {
	case "":
		t.Framing = FramingFull
	case FramingFull, FramingMediumFull:
	default:
		return t, fmt.Errorf("%w: framing %q", ErrInvalidToggle, t.Framing)
	}
	if t.AspectRatio == "" {
		t.AspectRatio = DefaultAspectRatio
	}
	if !aspectRatios[t.AspectRatio] {
		return t, fmt.Errorf("%w: %q", ErrUnsupportedAspectRatio, t.AspectRatio)
	}
	if t.Resolution == "" {
		t.Resolution = DefaultResolution
	}
	if !resolutions[t.Resolution] {
		return t, fmt.Errorf("%w: %q", ErrUnsupportedResolution, t.Resolution)
	}
	return t, nil
}

// resolve - 템플릿 1개를 토글 기준으로 ShotSpec 으로 변환 (템플릿은 변경하지 않음)
func (c *Compiler) resolve(workflow WorkflowType, tpl ShotTemplate, t ToggleState) ShotSpec {
	spec := ShotSpec{
		ShotID:        tpl.ID,
		Workflow:      workflow,
		Camera:        tpl.Camera,
		AssetRoles:    append([]AssetRole(nil), tpl.AssetRoles...),
		IsStyling:     tpl.IsStyling,
		LookAtCamera:  tpl.LookAtCamera,
		HairBehind:    tpl.ForceHairBehind || t.HairBehindShoulders,
		Wind:          tpl.WindEligible && t.EnableWind,
		FitMode:       tpl.FitMode,
		Suppress:      tpl.Suppress,
		Gender:        t.Gender,
		Tucked:        t.Tucked,
		ButtonsOpen:   t.ButtonsOpen,
		SleevesRolled: t.SleevesRolled,
		SocksType:     t.SocksType,
		PantLength:    t.PantLength,
		AspectRatio:   t.AspectRatio,
		Resolution:    t.Resolution,
	}

	if o, ok := tpl.Framings[t.Framing]; ok {
		spec.Camera = o.Camera
		spec.Suppress.ExcludeShoesAsset = spec.Suppress.ExcludeShoesAsset || o.ExcludeShoesAsset
	}

	if v, ok := t.LookAtCamera[tpl.ID]; ok {
		spec.LookAtCamera = v
	}

	category := tpl.PoseCategory
	sideOnly := tpl.IsStyling && t.StylingSideOnly[tpl.ID]
	if sideOnly {
		spec.Camera.Angle = AngleAngled
		if !spec.HasRole(RoleBack) {
			spec.AssetRoles = append(spec.AssetRoles, RoleBack)
		}
		spec.LookAtCamera = false
	}
	spec.Pose = c.resolvePose(tpl, category, sideOnly, t)

	spec.IncludeAccessories = make(map[string]bool, len(AccessoryKeys))
	for _, key := range AccessoryKeys {
		var include bool
		switch {
		case key == KeyGlasses:
			include = tpl.IncludeGlasses || t.Accessories.Glasses
		case tpl.IsStyling:
			include = true
		default:
			include = t.Accessories.get(key)
		}
		spec.IncludeAccessories[key] = include
	}
	return spec
}

func (c *Compiler) resolvePose(tpl ShotTemplate, category PoseCategory, sideOnly bool, t ToggleState) string {
	switch category {
	case PoseRandom:
		if p := strings.TrimSpace(t.PoseLibraryPrompt); p != "" {
			return p
		}
		if sideOnly {
			if p := strings.TrimSpace(t.AngledPosePrompt); p != "" {
				return p
			}
			return c.sample(t.Gender, PoseAngled)
		}
		return c.sample(t.Gender, PoseRandom)
	case PoseAngled:
		if p := strings.TrimSpace(t.AngledPosePrompt); p != "" {
			return p
		}
		return c.sample(t.Gender, PoseAngled)
	}
	return tpl.Pose
}

func (c *Compiler) sample(gender Gender, category PoseCategory) string {
	poses := fallbackPoses[gender][category]
	i := c.pick(len(poses))
	if i < 0 || i >= len(poses) {
		i = 0
	}
	return poses[i]
}
