package shotplan

// 프롬프트 문구 테이블
const (
	clauseFitProportion   = "Maintain these exact proportions relative to the model's height."
	clauseTextureGeneric  = "Fabric should show realistic textile texture with visible weave, thread structure and material depth. NOT a flat or digitally printed look."
	clauseTextureRequired = "TEXTURE REQUIREMENTS: The fabric must show realistic textile structure consistent with the description. DO NOT render as flat/smooth digital print."

	clauseStylingPose   = "Dynamic fashion pose."
	clauseTechnicalPose = "Technical catalog shot. Neutral standing pose, symmetrical stance."

	clauseButtonsClosed = "Buttons: CLOSED. The garment is FULLY BUTTONED UP. Front opening is closed."
	clauseButtonsOpen   = "The garment is worn open."

	clauseUpperTucked   = "The top is tucked into the pants."
	clauseUpperUntucked = "The top is worn untucked."
	clauseLowerTucked   = "The upper garment is tightly tucked into the pants waistband. Waistband fully visible. No shirt draping over waist."
	clauseLowerUntucked = "The upper garment hangs loose over the waistband."

	clauseSleevesRolled = "Sleeves are rolled up to the forearm."
	clauseWind          = "A subtle natural airflow gently moves the fabric, adding light movement to the garment."
	clauseJacket        = "Wearing the provided jacket as the OUTER layer over the main outfit. The jacket is the outermost layer."
	clauseInnerWear     = "Wearing the provided inner wear UNDER the main upper garment. It MUST EXACTLY match the inner wear reference image in color, style and fabric."
	clauseShoes         = "Shoes: the model wears the EXACT shoes shown in the shoe reference image. Proportional slim footwear, NOT oversized."
	clauseModelIdentity = "Model identity (face and body) must strictly match the provided model reference image."
	clauseHairBehind    = "STYLING: The model's hair is neatly placed behind the shoulders. The hair MUST NOT cover the garment, shoulders, or neckline."
	clauseLookAtCamera  = "The model is looking at the camera."
	clauseLookAway      = "The model's gaze follows the body direction, not the camera."
	clauseStickman      = "Match the body position (arms, legs, stance) of the provided stickman pose reference. Use ONLY the pose from that image."
	clauseBackground    = "Background matches the provided background reference image exactly."
	clauseStudio        = "Clean studio background."
	clauseLighting      = "Lighting matches the provided lighting reference image."
	clauseDetail        = "Detail preservation: maximize label legibility and exact stitching transfer. Hallucination strictly disallowed."
)

var framingClauses = map[string]string{
	FramingHeadToToe:    "Camera framing is full body, head to toe visible.",
	FramingCowboy:       "Camera framing is Cowboy Shot (Head to Mid-Thigh). Hands fully visible.",
	FramingChestAndFace: "Camera framing is close-up on chest and face, focusing on upper garment details.",
	FramingWaistToKnees: "Detail shot. Framing: Waist to Above Knees. Focus on garment construction and fabric.",
}

var angleClauses = map[string]string{
	AngleFront:  "Front view, facing the camera.",
	AngleBack:   "Back view, back directly to the camera.",
	AngleAngled: "Three-quarter angled view.",
}

var lengthClauses = map[PantLength]string{
	PantLengthCropped:    "LENGTH CONSTRAINT: Cropped fit. The hem ends about 3 inches above the ankle. Ankles clearly visible.",
	PantLengthAnkle:      "LENGTH CONSTRAINT: The hem MUST end precisely at the ankle bone. Visible gap between hem and shoes.",
	PantLengthBelowAnkle: "LENGTH CONSTRAINT: The hem ends just below the ankle, lightly resting on the top of the shoes.",
	PantLengthFull:       "LENGTH CONSTRAINT: The pants MUST hit the floor exactly. Full length silhouette.",
	PantLengthDeepBreak:  "LENGTH CONSTRAINT: Long pooling hem with a deep break. The pants touch the floor and cover the shoes.",
}

var sockColors = map[SocksType]string{
	SocksWhite: "white",
	SocksBlack: "black",
	SocksGrey:  "grey",
	SocksNavy:  "navy",
}

var accessoryNames = map[string]string{
	KeyBag:     "bag",
	KeyGlasses: "glasses",
	KeyHat:     "hat",
	KeyJewelry: "jewelry",
	KeyBelt:    "belt",
}

// AVOID 문구
const (
	negativeShoes    = "oversized shoes, chunky shoes, bulky sneakers, thick soles, exaggerated footwear, disproportionate shoes"
	negativeButtons  = "open shirt, unbuttoned, open front, chest visible"
	negativeTucked   = "tucked in shirt, shirt inside pants, waistband visible"
	negativeFlat     = "flat fabric, digital print look, no texture, plastic looking fabric"
	negativeCropping = "cropped head, cut off head, cropped feet, out of frame"
)
