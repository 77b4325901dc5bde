package shotplan

// 카탈로그 포즈 문구
const (
	poseUpperTechnicalBack = "Standing perfectly straight, back directly to camera, arms at sides. The upper garment hangs straight and smooth over the pants without any wrinkles, folds, or curling at the hemline. Hem is completely flat and horizontal."
	poseUpperCloseUp       = "Close-up fashion photography shot, focusing on the collar and face area. Model is standing perfectly straight, facing the camera directly, arms at sides. Neutral expression, direct eye contact."
	poseTechnicalFront     = "Standing straight, arms at sides, neutral stance. Professional studio photography."
	poseTechnicalBack      = "Standing straight, back to camera, arms at sides. Professional studio photography."
	poseThreeQuarter       = "upright posture, three-quarter profile view facing right, shoulders level and relaxed, natural shoulder alignment, arms resting straight along the sides, hands relaxed with fingers slightly curved, no hand-to-body interaction, weight subtly distributed with slight emphasis on rear leg, neutral balanced stance, feet parallel and slightly apart, knees softly extended, neutral gaze directed forward in profile direction, head aligned with spine, chin neutral, elongated neck line"
	poseDetailFront        = "Close-Up fashion photography detail shot. Camera framing is waist-to-knees. Standing straight."
	poseDetailBack         = "Close-Up fashion photography back detail shot. Camera framing is waist-to-knees. Standing straight, back to camera."
	poseUpperCowboyFront   = "Standing straight, arms at sides, neutral stance. Cowboy shot."
	poseUpperCowboyBack    = "Standing straight, back to camera, arms at sides. Cowboy shot."
	poseStandardCloseUp    = "Close-up fashion photography shot, focusing on the collar and face area. Model is standing perfectly straight."
)

var (
	fullFront    = Camera{ShotType: ShotFullBody, Framing: FramingHeadToToe, Angle: AngleFront}
	fullBack     = Camera{ShotType: ShotFullBody, Framing: FramingHeadToToe, Angle: AngleBack}
	fullAngled   = Camera{ShotType: ShotFullBody, Framing: FramingHeadToToe, Angle: AngleAngled}
	cowboyFront  = Camera{ShotType: ShotCowboy, Framing: FramingCowboy, Angle: AngleFront}
	cowboyBack   = Camera{ShotType: ShotCowboy, Framing: FramingCowboy, Angle: AngleBack}
	closeUpChest = Camera{ShotType: ShotCloseUp, Framing: FramingChestAndFace, Angle: AngleFront}
	detailFront  = Camera{ShotType: ShotCloseUp, Framing: FramingWaistToKnees, Angle: AngleFront}
	detailBack   = Camera{ShotType: ShotCloseUp, Framing: FramingWaistToKnees, Angle: AngleBack}
)

func front() []AssetRole     { return []AssetRole{RoleFront} }
func back() []AssetRole      { return []AssetRole{RoleBack} }
func frontBack() []AssetRole { return []AssetRole{RoleFront, RoleBack} }

// Templates - 워크플로우별 샷 템플릿 (호출마다 새 슬라이스, 순서 고정)
// 알 수 없는 워크플로우면 nil
func Templates(workflow WorkflowType) []ShotTemplate {
	switch workflow {
	case WorkflowUpper:
		return upperTemplates()
	case WorkflowLower, WorkflowDress, WorkflowSet:
		return fullBodyTemplates()
	case WorkflowStandard:
		return standardTemplates()
	}
	return nil
}

func upperTemplates() []ShotTemplate {
	return []ShotTemplate{
		{
			ID: "styling_front", PoseCategory: PoseRandom, Camera: fullFront, AssetRoles: front(),
			IsStyling: true, LookAtCamera: true, FitMode: FitFull,
			UseStickman: true, WindEligible: true, IncludeGlasses: true,
			Framings: map[Framing]FramingOverride{
				FramingMediumFull: {Camera: cowboyFront, ExcludeShoesAsset: true},
			},
		},
		{
			ID: "styling_angled", PoseCategory: PoseAngled, Camera: fullAngled, AssetRoles: frontBack(),
			IsStyling: true, FitMode: FitFull, UseStickman: true,
		},
		{
			ID: "styling_front_2", PoseCategory: PoseRandom, Camera: fullFront, AssetRoles: front(),
			IsStyling: true, LookAtCamera: true, FitMode: FitFull, UseStickman: true, WindEligible: true,
		},
		{
			ID: "technical_back", Pose: poseUpperTechnicalBack, PoseCategory: PoseFixed, Camera: cowboyBack, AssetRoles: back(),
			ForceHairBehind: true, FitMode: FitFull,
			Suppress: SuppressionFlags{ExcludeHairInfo: true, ExcludeShoesAsset: true, ExcludeHatAsset: true, ExcludeBeltAsset: true},
		},
		{
			ID: "closeup_front", Pose: poseUpperCloseUp, PoseCategory: PoseFixed, Camera: closeUpChest, AssetRoles: front(),
			LookAtCamera: true, FitMode: FitFull,
		},
	}
}

func fullBodyTemplates() []ShotTemplate {
	return []ShotTemplate{
		{
			ID: "styling_front", PoseCategory: PoseRandom, Camera: fullFront, AssetRoles: front(),
			IsStyling: true, LookAtCamera: true, FitMode: FitFull,
			UseStickman: true, WindEligible: true, IncludeGlasses: true,
		},
		{
			ID: "styling_angled", PoseCategory: PoseAngled, Camera: fullAngled, AssetRoles: frontBack(),
			IsStyling: true, FitMode: FitFull, UseStickman: true, WindEligible: true,
		},
		{
			ID: "technical_front", Pose: poseTechnicalFront, PoseCategory: PoseFixed, Camera: fullFront, AssetRoles: front(),
			LookAtCamera: true, ForceHairBehind: true, FitMode: FitFull,
			Suppress: SuppressionFlags{ExcludeAllAccessories: true},
		},
		{
			ID: "technical_back", Pose: poseTechnicalBack, PoseCategory: PoseFixed, Camera: fullBack, AssetRoles: back(),
			ForceHairBehind: true, FitMode: FitFull,
			Suppress: SuppressionFlags{ExcludeHairInfo: true, ExcludeAllAccessories: true},
		},
		{
			ID: "technical_threequarter_front", Pose: poseThreeQuarter, PoseCategory: PoseFixed, Camera: fullAngled, AssetRoles: frontBack(),
			ForceHairBehind: true, FitMode: FitFull,
			Suppress: SuppressionFlags{ExcludeAllAccessories: true},
		},
		{
			ID: "detail_front", Pose: poseDetailFront, PoseCategory: PoseFixed, Camera: detailFront, AssetRoles: front(),
			LookAtCamera: true, ForceHairBehind: true, FitMode: FitFirstSentenceOnly,
			Suppress: SuppressionFlags{ExcludeHairInfo: true, ExcludeSocksInfo: true, ExcludeShoesAsset: true, ExcludeBeltAsset: true},
		},
		{
			ID: "detail_back", Pose: poseDetailBack, PoseCategory: PoseFixed, Camera: detailBack, AssetRoles: back(),
			ForceHairBehind: true, FitMode: FitFirstSentenceOnly,
			Suppress: SuppressionFlags{ExcludeHairInfo: true, ExcludeSocksInfo: true, ExcludeShoesAsset: true, ExcludeBeltAsset: true},
		},
	}
}

func standardTemplates() []ShotTemplate {
	return []ShotTemplate{
		{
			ID: "std_styling_full", PoseCategory: PoseRandom, Camera: fullFront, AssetRoles: front(),
			IsStyling: true, LookAtCamera: true, FitMode: FitFull,
			UseStickman: true, WindEligible: true, IncludeGlasses: true,
		},
		{
			ID: "std_styling_upper", PoseCategory: PoseRandom, Camera: cowboyFront, AssetRoles: front(),
			IsStyling: true, LookAtCamera: true, FitMode: FitFull, UseStickman: true, WindEligible: true,
			Suppress: SuppressionFlags{ExcludeShoesAsset: true},
		},
		{
			ID: "std_tech_full_front", Pose: poseTechnicalFront, PoseCategory: PoseFixed, Camera: fullFront, AssetRoles: front(),
			LookAtCamera: true, ForceHairBehind: true, FitMode: FitFull,
		},
		{
			ID: "std_tech_full_back", Pose: poseTechnicalBack, PoseCategory: PoseFixed, Camera: fullBack, AssetRoles: back(),
			ForceHairBehind: true, FitMode: FitFull,
			Suppress: SuppressionFlags{ExcludeHairInfo: true},
		},
		{
			ID: "std_tech_threequarter_front", Pose: poseThreeQuarter, PoseCategory: PoseFixed, Camera: fullAngled, AssetRoles: frontBack(),
			ForceHairBehind: true, FitMode: FitFull,
			Suppress: SuppressionFlags{ExcludeAllAccessories: true},
		},
		{
			ID: "std_tech_upper_front", Pose: poseUpperCowboyFront, PoseCategory: PoseFixed, Camera: cowboyFront, AssetRoles: front(),
			LookAtCamera: true, ForceHairBehind: true, FitMode: FitFull,
			Suppress: SuppressionFlags{ExcludeShoesAsset: true},
		},
		{
			ID: "std_tech_upper_back", Pose: poseUpperCowboyBack, PoseCategory: PoseFixed, Camera: cowboyBack, AssetRoles: back(),
			ForceHairBehind: true, FitMode: FitFull,
			Suppress: SuppressionFlags{ExcludeHairInfo: true, ExcludeShoesAsset: true},
		},
		{
			ID: "std_detail_front", Pose: poseDetailFront, PoseCategory: PoseFixed, Camera: detailFront, AssetRoles: front(),
			LookAtCamera: true, ForceHairBehind: true, FitMode: FitFirstSentenceOnly,
			Suppress: SuppressionFlags{ExcludeHairInfo: true, ExcludeSocksInfo: true, ExcludeShoesAsset: true},
		},
		{
			ID: "std_detail_back", Pose: poseDetailBack, PoseCategory: PoseFixed, Camera: detailBack, AssetRoles: back(),
			ForceHairBehind: true, FitMode: FitFirstSentenceOnly,
			Suppress: SuppressionFlags{ExcludeHairInfo: true, ExcludeSocksInfo: true, ExcludeShoesAsset: true},
		},
		{
			ID: "std_closeup_front", Pose: poseStandardCloseUp, PoseCategory: PoseFixed, Camera: closeUpChest, AssetRoles: front(),
			LookAtCamera: true, FitMode: FitFull,
			Suppress: SuppressionFlags{ExcludeShoesAsset: true, ExcludeBagAsset: true},
		},
	}
}
